package config

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	mongorepo "github.com/codewithwan/erecruitment/internal/repositories/mongo"
)

func EnsureMongoIndexes(dbName string) error {
	if MongoClient == nil {
		return errors.New("MongoClient is nil; call InitMongo() first")
	}
	db := MongoClient.Database(dbName)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	activity := db.Collection(mongorepo.ActivityCollection)
	_, err := activity.Indexes().CreateMany(ctx, []mongo.IndexModel{
		// TTL: expire at ExpiresAt (must be a Date)
		{
			Keys: bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().
				SetName("ttl_expires_at").
				SetExpireAfterSeconds(0),
		},
		// newest first per candidate
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("by_user_ts"),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "section", Value: 1}, {Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("by_user_section_ts"),
		},
	})
	return err
}
