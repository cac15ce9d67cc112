package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/codewithwan/erecruitment/internal/logger"
	"github.com/codewithwan/erecruitment/internal/models"
	mongorepo "github.com/codewithwan/erecruitment/internal/repositories/mongo"
	"github.com/codewithwan/erecruitment/internal/utils"
	"github.com/codewithwan/erecruitment/internal/wizard"
)

const (
	recordTimeout = 3 * time.Second
	recordQueue   = 512
)

// ActivityService keeps the outcome of every wizard mutation.
type ActivityService interface {
	Record(ctx context.Context, userID string, a models.Activity) error
	List(ctx context.Context, userID, section string, limit int64) ([]models.Activity, error)
	// ForUser adapts the service to a page of one candidate. Its records
	// are queued and written by Run.
	ForUser(userID string) wizard.Recorder
	Run(ctx context.Context)
}

type queuedActivity struct {
	userID string
	a      models.Activity
}

type activityService struct {
	activity mongorepo.ActivityRepository
	ttl      time.Duration
	log      *logrus.Entry
	now      func() time.Time
	queue    chan queuedActivity
}

func NewActivityService(activity mongorepo.ActivityRepository, ttl time.Duration, l logrus.FieldLogger) ActivityService {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &activityService{
		activity: activity,
		ttl:      ttl,
		log:      logger.Component(l, "activity"),
		now:      time.Now,
		queue:    make(chan queuedActivity, recordQueue),
	}
}

func (s *activityService) Record(ctx context.Context, userID string, a models.Activity) error {
	const op = "ActivityService.Record"

	if userID == "" || a.Section == "" || a.Action == "" {
		return utils.E(utils.CodeInvalidArgument, op, "user_id, section and action are required", nil)
	}

	now := s.now().UTC()
	a.UserID = userID
	a.Timestamp = now
	a.ExpiresAt = now.Add(s.ttl)

	if err := s.activity.Insert(ctx, &a); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to record activity", err)
	}
	return nil
}

func (s *activityService) List(ctx context.Context, userID, section string, limit int64) ([]models.Activity, error) {
	const op = "ActivityService.List"

	if userID == "" {
		return nil, utils.E(utils.CodeUnauthorized, op, "user_id is required", nil)
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	out, err := s.activity.ListByUser(ctx, userID, section, limit)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list activity", err)
	}
	return out, nil
}

func (s *activityService) ForUser(userID string) wizard.Recorder {
	return userRecorder{svc: s, userID: userID}
}

// Run writes queued records until ctx ends, then flushes what is left.
func (s *activityService) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			s.flush()
			return
		case q := <-s.queue:
			s.write(context.WithoutCancel(ctx), q)
		}
	}
}

func (s *activityService) flush() {
	for {
		select {
		case q := <-s.queue:
			s.write(context.Background(), q)
		default:
			return
		}
	}
}

// write never fails the mutation it describes; errors are only logged.
func (s *activityService) write(ctx context.Context, q queuedActivity) {
	ctx, cancel := context.WithTimeout(ctx, recordTimeout)
	defer cancel()

	if err := s.Record(ctx, q.userID, q.a); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"user_id": q.userID,
			"section": q.a.Section,
			"action":  q.a.Action,
		}).Warn("activity not recorded")
	}
}

type userRecorder struct {
	svc    *activityService
	userID string
}

// Record queues a and returns at once. When the queue is full the record
// is dropped and logged.
func (r userRecorder) Record(_ context.Context, a models.Activity) {
	select {
	case r.svc.queue <- queuedActivity{userID: r.userID, a: a}:
	default:
		r.svc.log.WithFields(logrus.Fields{
			"user_id": r.userID,
			"section": a.Section,
			"action":  a.Action,
		}).Warn("activity queue full, record dropped")
	}
}
