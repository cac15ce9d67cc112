package wizard

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/codewithwan/erecruitment/internal/apiclient"
	"github.com/codewithwan/erecruitment/internal/logger"
	"github.com/codewithwan/erecruitment/internal/models"
)

// mockAPI stands in for the candidate REST API.
type mockAPI struct {
	mock.Mock
}

func (m *mockAPI) Get(ctx context.Context, path string, out any) error {
	args := m.Called(ctx, path, out)
	return args.Error(0)
}

func (m *mockAPI) Send(ctx context.Context, method, path string, p *apiclient.Payload, out any) error {
	args := m.Called(ctx, method, path, p, out)
	return args.Error(0)
}

// reply decodes body into the out argument at position idx.
func reply(body string, idx int) func(mock.Arguments) {
	return func(args mock.Arguments) {
		if out := args.Get(idx); out != nil {
			_ = json.Unmarshal([]byte(body), out)
		}
	}
}

func (m *mockAPI) onGet(path, body string) *mock.Call {
	return m.On("Get", mock.Anything, path, mock.Anything).Run(reply(body, 2)).Return(nil)
}

func (m *mockAPI) onSend(method, path, body string) *mock.Call {
	return m.On("Send", mock.Anything, method, path, mock.Anything, mock.Anything).Run(reply(body, 4)).Return(nil)
}

func (m *mockAPI) sent() []*apiclient.Payload {
	var out []*apiclient.Payload
	for _, c := range m.Calls {
		if c.Method == "Send" {
			p, _ := c.Arguments.Get(3).(*apiclient.Payload)
			out = append(out, p)
		}
	}
	return out
}

type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	c       *fakeClock
	at      time.Time
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	t.c.mu.Lock()
	defer t.c.mu.Unlock()
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

func newFakeClock(now time.Time) *fakeClock { return &fakeClock{now: now} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{c: c, at: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

// Advance fires due timers in order on the calling goroutine.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()

	for {
		c.mu.Lock()
		var next *fakeTimer
		for _, t := range c.timers {
			if t.fired || t.stopped || t.at.After(target) {
				continue
			}
			if next == nil || t.at.Before(next.at) {
				next = t
			}
		}
		if next == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		next.fired = true
		c.now = next.at
		c.mu.Unlock()

		next.f()
	}
}

type eventLog struct {
	mu     sync.Mutex
	events []Event
}

func (l *eventLog) Emit(e Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
}

func (l *eventLog) ofType(typ EventType) []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []Event
	for _, e := range l.events {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}

type activityLog struct {
	mu    sync.Mutex
	items []models.Activity
}

func (r *activityLog) Record(_ context.Context, a models.Activity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, a)
}

func (r *activityLog) all() []models.Activity {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Activity(nil), r.items...)
}

type fixture struct {
	page     *Page
	api      *mockAPI
	clock    *fakeClock
	events   *eventLog
	activity *activityLog
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		api:      &mockAPI{},
		clock:    newFakeClock(time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)),
		events:   &eventLog{},
		activity: &activityLog{},
	}
	f.page = NewPage(f.api, Options{
		Clock:    f.clock,
		Emitter:  f.events,
		Recorder: f.activity,
		Logger:   logger.Discard(),
	})
	t.Cleanup(f.page.Close)
	return f
}

func (f *fixture) section(t *testing.T, key string) PanelSnapshot {
	t.Helper()
	s, err := f.page.Snapshot()
	require.NoError(t, err)
	ps, ok := s.Sections[key]
	require.True(t, ok, "missing section %s", key)
	return ps
}

func pdf(name string) *models.Attachment {
	return &models.Attachment{Name: name, Content: []byte("%PDF-1.4 test")}
}
