// Package events fans wizard UI events out over redis pub/sub so any
// server instance holding the candidate's websocket can deliver them.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/codewithwan/erecruitment/internal/logger"
	"github.com/codewithwan/erecruitment/internal/wizard"
)

const (
	publishTimeout = 2 * time.Second
	queueSize      = 256
)

// Publisher is satisfied by *redis.Client.
type Publisher interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

// Subscriber is satisfied by *redis.Client.
type Subscriber interface {
	Subscribe(ctx context.Context, channels ...string) *redis.PubSub
}

// Channel is the pub/sub channel of one candidate, ex: "wizard:42:events".
func Channel(userID string) string {
	return "wizard:" + userID + ":events"
}

type outgoing struct {
	userID  string
	channel string
	typ     wizard.EventType
	msg     string
}

// Bus publishes from its own worker so a page never waits on redis while
// it holds its lock. Run must be started for events to leave the queue.
type Bus struct {
	pub   Publisher
	sub   Subscriber
	log   *logrus.Entry
	queue chan outgoing
}

func NewBus(pub Publisher, sub Subscriber, l logrus.FieldLogger) *Bus {
	return &Bus{
		pub:   pub,
		sub:   sub,
		log:   logger.Component(l, "events"),
		queue: make(chan outgoing, queueSize),
	}
}

// ForUser returns the emitter of a candidate's page. Emit only queues;
// events are dropped, and logged, when the queue is full.
func (b *Bus) ForUser(userID string) wizard.Emitter {
	channel := Channel(userID)
	return wizard.EmitterFunc(func(e wizard.Event) {
		msg, err := json.Marshal(e)
		if err != nil {
			b.log.WithError(err).Error("marshal event")
			return
		}

		select {
		case b.queue <- outgoing{userID: userID, channel: channel, typ: e.Type, msg: string(msg)}:
		default:
			b.log.WithFields(logrus.Fields{"user_id": userID, "type": e.Type}).Warn("event queue full, event dropped")
		}
	})
}

// Run publishes queued events in order until ctx ends.
func (b *Bus) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case o := <-b.queue:
			b.publish(ctx, o)
		}
	}
}

func (b *Bus) publish(ctx context.Context, o outgoing) {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := b.pub.Publish(ctx, o.channel, o.msg).Err(); err != nil {
		b.log.WithError(err).WithFields(logrus.Fields{
			"user_id": o.userID,
			"type":    o.typ,
		}).Warn("event not published")
	}
}

// Subscribe streams the raw JSON events of a candidate until ctx ends or
// the returned close func is called.
func (b *Bus) Subscribe(ctx context.Context, userID string) (<-chan []byte, func() error, error) {
	ps := b.sub.Subscribe(ctx, Channel(userID))
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, nil, err
	}

	in := ps.Channel()
	out := make(chan []byte, 16)
	go func() {
		defer close(out)
		for m := range in {
			select {
			case out <- []byte(m.Payload):
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, ps.Close, nil
}
