package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"alarma-iot/backend/internal/model"
	"alarma-iot/backend/pkg/mqtt"
)

// ── Mock AlarmRepository ──

type mockAlarmRepo struct {
	alarms map[int64]*model.AlarmClock
	nextID int64

	createErr   error
	updateErr   error
	deleteErr   error
	earliestErr error
	pingErr     error

	calls int
}

func newMockAlarmRepo() *mockAlarmRepo {
	return &mockAlarmRepo{alarms: make(map[int64]*model.AlarmClock), nextID: 1}
}

func (m *mockAlarmRepo) Create(_ context.Context, alarm *model.AlarmClock) error {
	m.calls++
	if m.createErr != nil {
		return m.createErr
	}
	alarm.ID = m.nextID
	m.nextID++
	alarm.CreateDate = time.Now()
	alarm.UpdateDate = alarm.CreateDate
	copied := *alarm
	m.alarms[alarm.ID] = &copied
	return nil
}

func (m *mockAlarmRepo) UpdateTime(_ context.Context, id int64, alarmTime model.AlarmTime) (int64, error) {
	m.calls++
	if m.updateErr != nil {
		return 0, m.updateErr
	}
	a, ok := m.alarms[id]
	if !ok {
		return 0, nil
	}
	a.AlarmTime = alarmTime
	a.UpdateDate = time.Now()
	return 1, nil
}

func (m *mockAlarmRepo) DeleteAll(_ context.Context) (int64, error) {
	m.calls++
	if m.deleteErr != nil {
		return 0, m.deleteErr
	}
	n := int64(len(m.alarms))
	m.alarms = make(map[int64]*model.AlarmClock)
	return n, nil
}

func (m *mockAlarmRepo) Earliest(_ context.Context) (*model.AlarmClock, error) {
	m.calls++
	if m.earliestErr != nil {
		return nil, m.earliestErr
	}
	if len(m.alarms) == 0 {
		return nil, nil
	}
	all := make([]*model.AlarmClock, 0, len(m.alarms))
	for _, a := range m.alarms {
		all = append(all, a)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].AlarmTime.Before(all[j].AlarmTime.Time)
	})
	copied := *all[0]
	return &copied, nil
}

func (m *mockAlarmRepo) Ping(_ context.Context) error {
	return m.pingErr
}

// ── Mock Broker ──

type publishedMessage struct {
	topic   string
	payload string
}

type mockBroker struct {
	mu         sync.Mutex
	connected  bool
	publishErr error
	subErr     error
	published  []publishedMessage
	handlers   map[string]mqtt.Handler
	unsubbed   []string
	subscribed chan string
}

func newMockBroker() *mockBroker {
	return &mockBroker{
		connected:  true,
		handlers:   make(map[string]mqtt.Handler),
		subscribed: make(chan string, 1),
	}
}

func (b *mockBroker) Publish(_ context.Context, topic string, payload []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.publishErr != nil {
		return b.publishErr
	}
	b.published = append(b.published, publishedMessage{topic: topic, payload: string(payload)})
	return nil
}

func (b *mockBroker) Subscribe(_ context.Context, topic string, h mqtt.Handler) error {
	b.mu.Lock()
	b.handlers[topic] = h
	b.mu.Unlock()
	b.subscribed <- topic
	return b.subErr
}

func (b *mockBroker) Unsubscribe(_ context.Context, topic string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.unsubbed = append(b.unsubbed, topic)
	delete(b.handlers, topic)
	return nil
}

func (b *mockBroker) IsConnected() bool {
	return b.connected
}

func (b *mockBroker) deliver(topic, payload string) {
	b.mu.Lock()
	h := b.handlers[topic]
	b.mu.Unlock()
	if h != nil {
		h(mqtt.Message{Topic: topic, Payload: []byte(payload)})
	}
}
