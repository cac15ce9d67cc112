package wizard

import (
	"github.com/codewithwan/erecruitment/internal/forms"
	"github.com/codewithwan/erecruitment/internal/models"
)

// Section describes one profile section against the candidate API.
type Section[T models.Entity, I forms.Input] struct {
	Key   string
	Title string

	ListPath   string
	CreatePath string
	ItemPath   string // item url is ItemPath/{id}

	// Singular sections hold at most one entity (education).
	Singular bool
	// Upsert sections always POST CreatePath (personal data).
	Upsert    bool
	Deletable bool

	SavedMessage   string
	DeletePrompt   string
	DeletedMessage string

	NewInput func(existing *T) I
}
