package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"alarma-iot/backend/config"
	"alarma-iot/backend/internal/api/handler"
	"alarma-iot/backend/internal/api/middleware"
	"alarma-iot/backend/internal/api/router"
	"alarma-iot/backend/internal/repository"
	"alarma-iot/backend/internal/service"
	"alarma-iot/backend/pkg/database"
	applogger "alarma-iot/backend/pkg/logger"
	"alarma-iot/backend/pkg/metrics"
	"alarma-iot/backend/pkg/mqtt"
	"alarma-iot/backend/pkg/redis"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load(os.Getenv("ALARMA_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. 连接数据库并迁移
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	// 4. 连接 Redis（可选：失败时指令接口不限流）
	var limiter middleware.RateLimiter
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis 连接失败，指令接口限流不可用", zap.Error(err))
		rdb = nil
	} else {
		limiter = rdb
	}

	// 5. 连接 MQTT 代理（失败不影响闹钟接口，客户端在后台持续重试）
	broker := mqtt.NewClient(&cfg.MQTT, logger)
	connectCtx, cancelConnect := context.WithTimeout(context.Background(), cfg.MQTT.ConnectTimeout+5*time.Second)
	err = broker.Connect(connectCtx)
	cancelConnect()
	if err != nil {
		logger.Warn("MQTT 代理暂不可用，指令接口将返回错误直至连接恢复",
			zap.String("broker", cfg.MQTT.Broker), zap.Error(err))
	}

	// 6. 指标
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(sqlDB, cfg.Database.Name),
	)
	m := metrics.New(reg)

	// 7. 依赖注入: Repository → Service → Handler
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, broker, m, logger)
	h := handler.NewHandler(svc)

	// 8. 遥测监听（后台运行至进程退出）
	listenCtx, stopListener := context.WithCancel(context.Background())
	listenerDone := make(chan struct{})
	go func() {
		defer close(listenerDone)
		svc.Telemetry.Run(listenCtx)
	}()

	// 9. 启动 HTTP 服务器（优雅关闭）
	engine := router.Setup(cfg, h, limiter, reg, logger)
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 10. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	stopListener()
	<-listenerDone
	broker.Disconnect()

	if rdb != nil {
		_ = rdb.Close()
	}
	_ = sqlDB.Close()

	logger.Info("服务器已关闭")
}
