package models

// Completeness is the per-section report that gates CV generation.
type Completeness struct {
	Profile         bool        `json:"profile"`
	Education       bool        `json:"education"`
	Skills          bool        `json:"skills"`
	WorkExperience  bool        `json:"work_experience"`
	Achievements    bool        `json:"achievements"`
	OverallComplete bool        `json:"overall_complete"`
	ExistingCV      *ExistingCV `json:"existing_cv"`
}

type ExistingCV struct {
	Filename    string `json:"filename"`
	DownloadURL string `json:"download_url"`
	CreatedAt   string `json:"created_at,omitempty"`
}

// GeneratedCV is the payload of a successful generation.
type GeneratedCV struct {
	Filename    string `json:"filename"`
	DownloadURL string `json:"download_url"`
}
