// Package mqtt 封装 paho MQTT 客户端：TLS 连接、发布、以及断线重连后自动恢复的订阅。
package mqtt

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"alarma-iot/backend/config"
)

// connectRetryInterval 首次连接失败后的重试间隔
const connectRetryInterval = 10 * time.Second

// ErrNotConnected 连接尚未建立或正在重连
var ErrNotConnected = errors.New("MQTT 未连接")

// Message 收到的一条代理消息
type Message struct {
	Topic   string
	Payload []byte
}

// Handler 消息回调，在 paho 的回调 goroutine 中执行，不应阻塞
type Handler func(Message)

// Client 进程级共享的 MQTT 连接
type Client struct {
	client paho.Client
	qos    byte
	logger *zap.Logger

	mu   sync.Mutex
	subs map[string]Handler
}

// NewClient 根据配置创建客户端（尚未连接）
func NewClient(cfg *config.MQTTConfig, logger *zap.Logger) *Client {
	c := &Client{
		qos:    byte(cfg.QoS),
		logger: logger,
		subs:   make(map[string]Handler),
	}

	opts := paho.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetUsername(cfg.Username).
		SetPassword(cfg.Password).
		SetTLSConfig(&tls.Config{
			MinVersion:         tls.VersionTLS12,
			InsecureSkipVerify: cfg.InsecureSkipVerify, //nolint:gosec // 仅用于本地自签名代理
		}).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(connectRetryInterval).
		SetCleanSession(true).
		SetOnConnectHandler(c.onConnect).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			logger.Warn("MQTT 连接断开，等待自动重连", zap.Error(err))
		})

	c.client = paho.NewClient(opts)
	return c
}

func newWithClient(pc paho.Client, qos byte, logger *zap.Logger) *Client {
	return &Client{client: pc, qos: qos, logger: logger, subs: make(map[string]Handler)}
}

// Connect 建立连接，阻塞直到成功或 ctx 结束。
// 返回错误后客户端仍在后台按 connectRetryInterval 重试，订阅在连上后自动恢复。
func (c *Client) Connect(ctx context.Context) error {
	if err := wait(ctx, c.client.Connect()); err != nil {
		return fmt.Errorf("MQTT 连接失败: %w", err)
	}
	return nil
}

// Publish 发布一条非保留消息；未连接时立即返回 ErrNotConnected，不排队
func (c *Client) Publish(ctx context.Context, topic string, payload []byte) error {
	if !c.client.IsConnectionOpen() {
		return fmt.Errorf("发布到 %s 失败: %w", topic, ErrNotConnected)
	}
	if err := wait(ctx, c.client.Publish(topic, c.qos, false, payload)); err != nil {
		return fmt.Errorf("发布到 %s 失败: %w", topic, err)
	}
	return nil
}

// Subscribe 登记订阅并立即尝试订阅；登记后的订阅在每次重连时自动恢复
func (c *Client) Subscribe(ctx context.Context, topic string, h Handler) error {
	c.mu.Lock()
	c.subs[topic] = h
	c.mu.Unlock()

	if !c.client.IsConnectionOpen() {
		return nil
	}
	if err := wait(ctx, c.client.Subscribe(topic, c.qos, c.callback(h))); err != nil {
		return fmt.Errorf("订阅 %s 失败: %w", topic, err)
	}
	return nil
}

// Unsubscribe 取消订阅并移除登记
func (c *Client) Unsubscribe(ctx context.Context, topic string) error {
	c.mu.Lock()
	delete(c.subs, topic)
	c.mu.Unlock()

	if !c.client.IsConnectionOpen() {
		return nil
	}
	return wait(ctx, c.client.Unsubscribe(topic))
}

// IsConnected 当前连接是否可用
func (c *Client) IsConnected() bool {
	return c.client.IsConnectionOpen()
}

// Disconnect 等待最多 250ms 发送完未完成的消息后断开
func (c *Client) Disconnect() {
	c.client.Disconnect(250)
	c.logger.Info("MQTT 连接已关闭")
}

func (c *Client) onConnect(pc paho.Client) {
	c.logger.Info("MQTT 已连接")

	c.mu.Lock()
	subs := make(map[string]Handler, len(c.subs))
	for topic, h := range c.subs {
		subs[topic] = h
	}
	c.mu.Unlock()

	for topic, h := range subs {
		token := pc.Subscribe(topic, c.qos, c.callback(h))
		// onConnect 在 paho 内部 goroutine 中执行，异步等待避免阻塞
		go func(topic string, token paho.Token) {
			<-token.Done()
			if err := token.Error(); err != nil {
				c.logger.Error("MQTT 订阅失败", zap.String("topic", topic), zap.Error(err))
				return
			}
			c.logger.Info("MQTT 订阅成功", zap.String("topic", topic))
		}(topic, token)
	}
}

func (c *Client) callback(h Handler) paho.MessageHandler {
	return func(_ paho.Client, m paho.Message) {
		h(Message{Topic: m.Topic(), Payload: m.Payload()})
	}
}

func wait(ctx context.Context, token paho.Token) error {
	select {
	case <-token.Done():
		return token.Error()
	case <-ctx.Done():
		return ctx.Err()
	}
}
