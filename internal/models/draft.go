package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// Draft holds unsaved form input so the candidate can resume an edit.
// EntityKey is "new" for a create form, the entity id otherwise.
type Draft struct {
	ID        string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID    string `gorm:"column:user_id;type:text;uniqueIndex:uniq_draft_owner" json:"user_id"`
	Section   string `gorm:"column:section;type:text;uniqueIndex:uniq_draft_owner" json:"section"`
	EntityKey string `gorm:"column:entity_key;type:text;uniqueIndex:uniq_draft_owner" json:"entity_key"`

	Input datatypes.JSON `gorm:"column:input;type:jsonb" json:"input"`

	// names of files picked before the draft was saved; content is never kept
	Attachments pq.StringArray `gorm:"column:attachments;type:text[]" json:"attachments"`

	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (Draft) TableName() string { return "wizard_drafts" }
