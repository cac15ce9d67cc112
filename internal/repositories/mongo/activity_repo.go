package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/codewithwan/erecruitment/internal/models"
)

const ActivityCollection = "wizard_activity"

type ActivityRepository interface {
	Insert(ctx context.Context, a *models.Activity) error
	ListByUser(ctx context.Context, userID, section string, limit int64) ([]models.Activity, error)
}

type activityRepo struct {
	col *mongo.Collection
}

func NewActivityRepo(db *mongo.Database) ActivityRepository {
	return &activityRepo{col: db.Collection(ActivityCollection)}
}

func (r *activityRepo) Insert(ctx context.Context, a *models.Activity) error {
	if a.Timestamp.IsZero() {
		a.Timestamp = time.Now().UTC()
	}
	_, err := r.col.InsertOne(ctx, a)
	return err
}

// ListByUser returns the newest entries first. An empty section lists all.
func (r *activityRepo) ListByUser(ctx context.Context, userID, section string, limit int64) ([]models.Activity, error) {
	if limit <= 0 {
		limit = 50
	}

	filter := bson.M{"user_id": userID}
	if section != "" {
		filter["section"] = section
	}

	cur, err := r.col.Find(ctx, filter,
		options.Find().
			SetSort(bson.D{{Key: "timestamp", Value: -1}}).
			SetLimit(limit),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Activity{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
