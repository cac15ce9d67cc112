package models

type Major struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Education is treated as a single row per candidate.
type Education struct {
	ID              int64   `json:"id"`
	EducationLevel  string  `json:"education_level"`
	Faculty         string  `json:"faculty"`
	MajorID         int64   `json:"major_id"`
	Major           *Major  `json:"major,omitempty"`
	InstitutionName string  `json:"institution_name"`
	GPA             float64 `json:"gpa"`
	YearIn          int     `json:"year_in"`
	YearOut         *int    `json:"year_out"`
}

func (e Education) EntityID() int64 { return e.ID }
