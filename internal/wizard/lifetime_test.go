package wizard

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLifetimeRunsTimersInOrder(t *testing.T) {
	clock := newFakeClock(time.Unix(0, 0))
	l := newLifetime(context.Background(), clock, &sync.Mutex{})

	var got []string
	l.after(2*time.Second, func() { got = append(got, "b") })
	l.after(time.Second, func() {
		got = append(got, "a")
		l.after(5*time.Second, func() { got = append(got, "c") })
	})

	clock.Advance(3 * time.Second)
	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, 1, l.pending())

	clock.Advance(3 * time.Second)
	assert.Equal(t, []string{"a", "b", "c"}, got)
	assert.Equal(t, 0, l.pending())
}

func TestLifetimeClose(t *testing.T) {
	clock := newFakeClock(time.Unix(0, 0))
	l := newLifetime(context.Background(), clock, &sync.Mutex{})

	fired := false
	l.after(time.Second, func() { fired = true })
	ctx, cancel := l.bind(context.Background())
	defer cancel()

	l.close()
	clock.Advance(time.Minute)
	assert.False(t, fired)
	assert.False(t, l.alive())
	assert.Eventually(t, func() bool { return ctx.Err() != nil }, time.Second, 10*time.Millisecond)

	l.after(time.Second, func() { fired = true })
	clock.Advance(time.Minute)
	assert.False(t, fired)
	assert.Equal(t, 0, l.pending())
}

func TestBannerReplacement(t *testing.T) {
	clock := newFakeClock(time.Unix(0, 0))
	l := newLifetime(context.Background(), clock, &sync.Mutex{})
	events := &eventLog{}
	b := newBannerSlot("education", l, events)

	calls := 0
	b.show(BannerError, "gagal", 3*time.Second, func() { calls++ })
	clock.Advance(time.Second)
	b.show(BannerSuccess, "berhasil", 3*time.Second, nil)

	clock.Advance(2 * time.Second)
	assert.Equal(t, 1, calls)
	if assert.NotNil(t, b.get()) {
		assert.Equal(t, "berhasil", b.get().Message)
	}

	clock.Advance(time.Second)
	assert.Nil(t, b.get())
	assert.Len(t, events.ofType(EventBanner), 2)
	assert.Len(t, events.ofType(EventBannerCleared), 1)
}
