package models

type AchievementLevel string

const (
	LevelInternasional AchievementLevel = "Internasional"
	LevelNasional      AchievementLevel = "Nasional"
	LevelRegional      AchievementLevel = "Regional"
	LevelLokal         AchievementLevel = "Lokal"
)

var AchievementLevels = []AchievementLevel{
	LevelInternasional, LevelNasional, LevelRegional, LevelLokal,
}

type Achievement struct {
	ID              int64            `json:"id"`
	Title           string           `json:"title"`
	Level           AchievementLevel `json:"level"`
	Month           string           `json:"month"`
	Year            int              `json:"year"`
	Description     string           `json:"description"`
	CertificateFile string           `json:"certificate_file"`
	SupportingFile  *string          `json:"supporting_file"`
}

func (a Achievement) EntityID() int64 { return a.ID }
