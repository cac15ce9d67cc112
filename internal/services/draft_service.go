package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"

	"github.com/codewithwan/erecruitment/internal/models"
	pgrepo "github.com/codewithwan/erecruitment/internal/repositories/postgres"
	"github.com/codewithwan/erecruitment/internal/utils"
	"github.com/codewithwan/erecruitment/internal/wizard"
)

const maxDraftBytes = 64 << 10

// DraftService keeps unsaved form input per candidate, section and entity.
type DraftService interface {
	Get(ctx context.Context, userID, section, entityKey string) (*models.Draft, error)
	Save(ctx context.Context, userID, section, entityKey string, input json.RawMessage, attachments []string) (*models.Draft, error)
	Discard(ctx context.Context, userID, section, entityKey string) error
	Prune(ctx context.Context) (int64, error)
}

type draftService struct {
	drafts pgrepo.DraftRepository
	ttl    time.Duration
	now    func() time.Time
}

func NewDraftService(drafts pgrepo.DraftRepository, ttl time.Duration) DraftService {
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &draftService{drafts: drafts, ttl: ttl, now: time.Now}
}

func checkDraftKey(op, userID, section, entityKey string) error {
	switch {
	case userID == "":
		return utils.E(utils.CodeUnauthorized, op, "user_id is required", nil)
	case !wizard.KnownSection(section):
		return utils.E(utils.CodeNotFound, op, "Bagian tidak dikenal.", nil)
	case entityKey == "":
		return utils.E(utils.CodeInvalidArgument, op, "entity key is required", nil)
	}
	return nil
}

func (s *draftService) Get(ctx context.Context, userID, section, entityKey string) (*models.Draft, error) {
	const op = "DraftService.Get"

	if err := checkDraftKey(op, userID, section, entityKey); err != nil {
		return nil, err
	}
	d, err := s.drafts.Get(ctx, userID, section, entityKey)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "draft not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get draft", err)
	}
	return d, nil
}

func (s *draftService) Save(ctx context.Context, userID, section, entityKey string, input json.RawMessage, attachments []string) (*models.Draft, error) {
	const op = "DraftService.Save"

	if err := checkDraftKey(op, userID, section, entityKey); err != nil {
		return nil, err
	}
	input = bytes.TrimSpace(input)
	if len(input) == 0 || input[0] != '{' || !json.Valid(input) {
		return nil, utils.E(utils.CodeInvalidArgument, op, "draft input must be a JSON object", nil)
	}
	if len(input) > maxDraftBytes {
		return nil, utils.E(utils.CodeInvalidArgument, op, "draft too large", nil)
	}

	d := &models.Draft{
		ID:          uuid.NewString(),
		UserID:      userID,
		Section:     section,
		EntityKey:   entityKey,
		Input:       datatypes.JSON(input),
		Attachments: pq.StringArray(attachments),
		UpdatedAt:   s.now().UTC(),
	}
	if d.Attachments == nil {
		d.Attachments = pq.StringArray{}
	}
	if err := s.drafts.Upsert(ctx, d); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to save draft", err)
	}
	return d, nil
}

func (s *draftService) Discard(ctx context.Context, userID, section, entityKey string) error {
	const op = "DraftService.Discard"

	if err := checkDraftKey(op, userID, section, entityKey); err != nil {
		return err
	}
	if err := s.drafts.Delete(ctx, userID, section, entityKey); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to discard draft", err)
	}
	return nil
}

// Prune drops drafts nobody touched within the ttl.
func (s *draftService) Prune(ctx context.Context) (int64, error) {
	const op = "DraftService.Prune"

	n, err := s.drafts.DeleteUpdatedBefore(ctx, s.now().Add(-s.ttl))
	if err != nil {
		return 0, utils.E(utils.CodeInternal, op, "failed to prune drafts", err)
	}
	return n, nil
}
