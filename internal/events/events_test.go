package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/codewithwan/erecruitment/internal/logger"
	"github.com/codewithwan/erecruitment/internal/wizard"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, channel string, message any) *redis.IntCmd {
	args := m.Called(ctx, channel, message)
	cmd := redis.NewIntCmd(ctx)
	if err := args.Error(0); err != nil {
		cmd.SetErr(err)
	} else {
		cmd.SetVal(1)
	}
	return cmd
}

func TestChannel(t *testing.T) {
	assert.Equal(t, "wizard:u-42:events", Channel("u-42"))
}

func runBus(t *testing.T, bus *Bus) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		bus.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
}

func TestForUserPublishesJSON(t *testing.T) {
	pub := new(MockPublisher)
	bus := NewBus(pub, nil, logger.Discard())

	got := make(chan wizard.Event, 1)
	pub.On("Publish", mock.Anything, "wizard:u1:events", mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) {
			var e wizard.Event
			if json.Unmarshal([]byte(args.String(2)), &e) == nil {
				got <- e
			}
		}).
		Return(nil).Once()

	runBus(t, bus)
	bus.ForUser("u1").Emit(wizard.Event{
		Type:    wizard.EventBanner,
		Scope:   "achievements",
		Kind:    wizard.BannerSuccess,
		Message: "Prestasi berhasil disimpan.",
	})

	select {
	case e := <-got:
		assert.Equal(t, wizard.EventBanner, e.Type)
		assert.Equal(t, "achievements", e.Scope)
		assert.Equal(t, wizard.BannerSuccess, e.Kind)
	case <-time.After(2 * time.Second):
		t.Fatal("event not published")
	}
}

func TestForUserSwallowsPublishErrors(t *testing.T) {
	pub := new(MockPublisher)
	bus := NewBus(pub, nil, logger.Discard())

	var calls atomic.Int32
	pub.On("Publish", mock.Anything, mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { calls.Add(1) }).
		Return(errors.New("connection refused"))

	runBus(t, bus)
	assert.NotPanics(t, func() {
		bus.ForUser("u1").Emit(wizard.Event{Type: wizard.EventScrollTop, Scope: "education"})
		bus.ForUser("u1").Emit(wizard.Event{Type: wizard.EventBannerCleared, Scope: "education"})
	})
	assert.Eventually(t, func() bool { return calls.Load() == 2 }, 2*time.Second, 10*time.Millisecond)
}

func TestEmitDoesNotWaitForRedis(t *testing.T) {
	pub := new(MockPublisher)
	bus := NewBus(pub, nil, logger.Discard())

	release := make(chan struct{})
	pub.On("Publish", mock.Anything, mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { <-release }).
		Return(nil)
	runBus(t, bus)
	defer close(release)

	emit := bus.ForUser("u1")
	returned := make(chan struct{})
	go func() {
		// one event blocks the worker, the rest fill the queue and overflow
		for i := 0; i < queueSize+10; i++ {
			emit.Emit(wizard.Event{Type: wizard.EventStateChanged, Scope: "skills"})
		}
		close(returned)
	}()

	select {
	case <-returned:
	case <-time.After(2 * time.Second):
		t.Fatal("Emit blocked on a stalled publisher")
	}
}
