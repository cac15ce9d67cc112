package models

type EmploymentStatus string

const (
	EmploymentFullTime  EmploymentStatus = "Full Time"
	EmploymentPartTime  EmploymentStatus = "Part Time"
	EmploymentFreelance EmploymentStatus = "Freelance"
	EmploymentKontrak   EmploymentStatus = "Kontrak"
)

var EmploymentStatuses = []EmploymentStatus{
	EmploymentFullTime, EmploymentPartTime, EmploymentFreelance, EmploymentKontrak,
}

type WorkExperience struct {
	ID               int64            `json:"id"`
	JobTitle         string           `json:"job_title"`
	EmploymentStatus EmploymentStatus `json:"employment_status"`
	JobDescription   string           `json:"job_description"`
	StartMonth       string           `json:"start_month"`
	StartYear        int              `json:"start_year"`
	EndMonth         *string          `json:"end_month"`
	EndYear          *int             `json:"end_year"`
	IsCurrentJob     bool             `json:"is_current_job"`
}

func (w WorkExperience) EntityID() int64 { return w.ID }
