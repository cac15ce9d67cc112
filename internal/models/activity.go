package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ActivityAction string

const (
	ActionCreate   ActivityAction = "create"
	ActionUpdate   ActivityAction = "update"
	ActionDelete   ActivityAction = "delete"
	ActionGenerate ActivityAction = "generate_cv"
)

// Activity is one mutation outcome, kept for diagnostics.
type Activity struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID   string             `bson:"user_id" json:"user_id"`
	Section  string             `bson:"section" json:"section"`
	Action   ActivityAction     `bson:"action" json:"action"`
	EntityID int64              `bson:"entity_id,omitempty" json:"entity_id,omitempty"`
	OK       bool               `bson:"ok" json:"ok"`
	Code     string             `bson:"code,omitempty" json:"code,omitempty"`
	Message  string             `bson:"message,omitempty" json:"message,omitempty"`

	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
	ExpiresAt time.Time `bson:"expires_at" json:"-"` // for TTL index
}
