package services

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/codewithwan/erecruitment/internal/apiclient"
	"github.com/codewithwan/erecruitment/internal/logger"
	"github.com/codewithwan/erecruitment/internal/utils"
	"github.com/codewithwan/erecruitment/internal/wizard"
)

// PageFactory builds the wizard page of one candidate around its API client.
type PageFactory func(userID string, api apiclient.API) *wizard.Page

// SessionService keeps one open wizard page per signed-in candidate and
// closes pages left idle.
type SessionService interface {
	Open(ctx context.Context, userID, token string) (*wizard.Page, error)
	End(userID string) bool
	Sweep() int
	Run(ctx context.Context, every time.Duration)
	Count() int
}

type pageSession struct {
	page     *wizard.Page
	api      *apiclient.Client
	lastSeen time.Time
	opened   sync.Once
}

type sessionService struct {
	clients *apiclient.Factory
	newPage PageFactory
	idleTTL time.Duration
	log     *logrus.Entry
	now     func() time.Time
	// verify must succeed against the candidate API before a token other
	// than the page's own is allowed to reach an existing page.
	verify func(ctx context.Context, api apiclient.API) error

	mu       sync.Mutex
	sessions map[string]*pageSession
}

func NewSessionService(clients *apiclient.Factory, newPage PageFactory, idleTTL time.Duration, l logrus.FieldLogger) SessionService {
	if idleTTL <= 0 {
		idleTTL = 30 * time.Minute
	}
	return &sessionService{
		clients:  clients,
		newPage:  newPage,
		idleTTL:  idleTTL,
		log:      logger.Component(l, "sessions"),
		now:      time.Now,
		verify:   verifyToken,
		sessions: map[string]*pageSession{},
	}
}

func verifyToken(ctx context.Context, api apiclient.API) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return api.Get(ctx, wizard.PathCompleteness, nil)
}

// Open returns the candidate's page, creating and loading it on first use.
// A token that differs from the page's is checked upstream first; only then
// is the page handed out and its client switched to the new token.
func (s *sessionService) Open(ctx context.Context, userID, token string) (*wizard.Page, error) {
	const op = "SessionService.Open"

	if userID == "" || token == "" {
		return nil, utils.E(utils.CodeUnauthorized, op, "unauthorized", nil)
	}

	s.mu.Lock()
	ps, ok := s.sessions[userID]
	if ok && ps.page.Closed() {
		delete(s.sessions, userID)
		ok = false
	}
	if !ok {
		api := s.clients.ForToken(token)
		ps = &pageSession{page: s.newPage(userID, api), api: api}
		s.sessions[userID] = ps
		s.log.WithField("user_id", userID).Info("page opened")
	}
	stale := ps.api.Token() != token
	s.mu.Unlock()

	if stale {
		if err := s.verify(ctx, s.clients.ForToken(token)); err != nil {
			s.log.WithError(err).WithField("user_id", userID).Warn("token rejected for open page")
			if utils.IsCode(err, utils.CodeUnauthorized) || utils.IsCode(err, utils.CodeForbidden) {
				return nil, utils.E(utils.CodeUnauthorized, op, "unauthorized", err)
			}
			return nil, err
		}
		ps.api.SetToken(token)
	}

	s.mu.Lock()
	ps.lastSeen = s.now()
	s.mu.Unlock()

	ps.opened.Do(func() {
		// the page outlives the request that opened it
		if err := ps.page.Open(context.WithoutCancel(ctx)); err != nil && !apiclient.IsCanceled(err) {
			s.log.WithError(err).WithField("user_id", userID).Warn("page loaded with errors")
		}
	})
	return ps.page, nil
}

func (s *sessionService) End(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	ps, ok := s.sessions[userID]
	if !ok {
		return false
	}
	ps.page.Close()
	delete(s.sessions, userID)
	return true
}

// Sweep closes pages idle for longer than the ttl.
func (s *sessionService) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.idleTTL)
	n := 0
	for userID, ps := range s.sessions {
		if ps.lastSeen.Before(cutoff) {
			ps.page.Close()
			delete(s.sessions, userID)
			n++
		}
	}
	if n > 0 {
		s.log.WithField("closed", n).Info("idle pages closed")
	}
	return n
}

// Run sweeps every interval until ctx ends, then closes every page.
func (s *sessionService) Run(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			s.closeAll()
			return
		case <-t.C:
			s.Sweep()
		}
	}
}

func (s *sessionService) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *sessionService) closeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for userID, ps := range s.sessions {
		ps.page.Close()
		delete(s.sessions, userID)
	}
}
