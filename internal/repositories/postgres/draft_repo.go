package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/codewithwan/erecruitment/internal/models"
	"github.com/codewithwan/erecruitment/internal/utils"
)

type DraftRepository interface {
	Get(ctx context.Context, userID, section, entityKey string) (*models.Draft, error)
	Upsert(ctx context.Context, d *models.Draft) error
	Delete(ctx context.Context, userID, section, entityKey string) error
	DeleteUpdatedBefore(ctx context.Context, before time.Time) (int64, error)
}

type draftRepo struct {
	db *gorm.DB
}

func NewDraftRepo(db *gorm.DB) DraftRepository {
	return &draftRepo{db: db}
}

func (r *draftRepo) Get(ctx context.Context, userID, section, entityKey string) (*models.Draft, error) {
	var d models.Draft
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND section = ? AND entity_key = ?", userID, section, entityKey).
		Take(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &d, err
}

func (r *draftRepo) Upsert(ctx context.Context, d *models.Draft) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "section"}, {Name: "entity_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"input", "attachments", "updated_at"}),
		}).
		Create(d).Error
}

func (r *draftRepo) Delete(ctx context.Context, userID, section, entityKey string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND section = ? AND entity_key = ?", userID, section, entityKey).
		Delete(&models.Draft{}).Error
}

func (r *draftRepo) DeleteUpdatedBefore(ctx context.Context, before time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("updated_at < ?", before.UTC()).
		Delete(&models.Draft{})
	return res.RowsAffected, res.Error
}
