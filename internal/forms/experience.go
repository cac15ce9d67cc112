package forms

import (
	"strconv"

	"github.com/codewithwan/erecruitment/internal/apiclient"
	"github.com/codewithwan/erecruitment/internal/models"
	"github.com/codewithwan/erecruitment/internal/validation"
)

type WorkExperienceInput struct {
	JobTitle         string `json:"job_title" validate:"notblank"`
	EmploymentStatus string `json:"employment_status" validate:"notblank,vfemployment"`
	JobDescription   string `json:"job_description" validate:"notblank,minchars=10"`
	StartMonth       string `json:"start_month" validate:"notblank"`
	StartYear        Text   `json:"start_year"`
	EndMonth         string `json:"end_month"`
	EndYear          Text   `json:"end_year"`
	IsCurrentJob     bool   `json:"is_current_job"`
}

func WorkExperienceFrom(e *models.WorkExperience) *WorkExperienceInput {
	if e == nil {
		return &WorkExperienceInput{}
	}
	return &WorkExperienceInput{
		JobTitle:         e.JobTitle,
		EmploymentStatus: string(e.EmploymentStatus),
		JobDescription:   e.JobDescription,
		StartMonth:       e.StartMonth,
		StartYear:        yearText(e.StartYear),
		EndMonth:         deref(e.EndMonth),
		EndYear:          optYearText(e.EndYear),
		IsCurrentJob:     e.IsCurrentJob,
	}
}

func (in *WorkExperienceInput) Validate(vc validation.Context) validation.Errors {
	errs := validation.Struct(in)
	period(errs, vc, in.StartYear, in.EndMonth, in.EndYear, in.IsCurrentJob)
	return errs
}

// Payload drops any end month/year left over from before the job was
// marked current.
func (in *WorkExperienceInput) Payload() apiclient.Payload {
	startYear, _ := strconv.Atoi(trimmed(in.StartYear.String()))
	endMonth, endYear := endFields(in.EndMonth, in.EndYear, in.IsCurrentJob)
	return apiclient.NewPayload().
		Set("job_title", trimmed(in.JobTitle)).
		Set("employment_status", in.EmploymentStatus).
		Set("job_description", trimmed(in.JobDescription)).
		Set("start_month", normalizeMonth(in.StartMonth)).
		Set("start_year", startYear).
		Set("end_month", endMonth).
		Set("end_year", endYear).
		Set("is_current_job", in.IsCurrentJob)
}
