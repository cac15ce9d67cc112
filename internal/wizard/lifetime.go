package wizard

import (
	"context"
	"sync"
	"time"
)

// lifetime scopes requests and timers to one open page. Once it ends,
// in-flight requests are canceled and pending timers never fire.
type lifetime struct {
	ctx    context.Context
	cancel context.CancelFunc
	clock  Clock
	locker sync.Locker // held while a timer callback runs

	mu     sync.Mutex
	timers map[uint64]Timer
	next   uint64
	closed bool
}

func newLifetime(parent context.Context, clock Clock, locker sync.Locker) *lifetime {
	ctx, cancel := context.WithCancel(parent)
	if clock == nil {
		clock = SystemClock()
	}
	return &lifetime{
		ctx:    ctx,
		cancel: cancel,
		clock:  clock,
		locker: locker,
		timers: map[uint64]Timer{},
	}
}

func (l *lifetime) alive() bool { return l.ctx.Err() == nil }

// bind derives a request context that also ends with the lifetime.
func (l *lifetime) bind(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(l.ctx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

// after runs f once d has elapsed, unless the lifetime ends first.
func (l *lifetime) after(d time.Duration, f func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}

	id := l.next
	l.next++
	l.timers[id] = l.clock.AfterFunc(d, func() {
		l.mu.Lock()
		_, pending := l.timers[id]
		delete(l.timers, id)
		l.mu.Unlock()
		if !pending {
			return
		}

		l.locker.Lock()
		defer l.locker.Unlock()
		if l.alive() {
			f()
		}
	})
}

func (l *lifetime) pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.timers)
}

func (l *lifetime) close() {
	l.cancel()

	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	for id, t := range l.timers {
		t.Stop()
		delete(l.timers, id)
	}
}
