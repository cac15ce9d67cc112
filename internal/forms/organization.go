package forms

import (
	"strconv"

	"github.com/codewithwan/erecruitment/internal/apiclient"
	"github.com/codewithwan/erecruitment/internal/models"
	"github.com/codewithwan/erecruitment/internal/validation"
)

type OrganizationInput struct {
	OrganizationName string `json:"organization_name" validate:"notblank"`
	Position         string `json:"position" validate:"notblank"`
	Description      string `json:"description" validate:"notblank,minchars=10"`
	IsActive         bool   `json:"is_active"`
	StartMonth       string `json:"start_month" validate:"notblank"`
	StartYear        Text   `json:"start_year"`
	EndMonth         string `json:"end_month"`
	EndYear          Text   `json:"end_year"`
}

func OrganizationFrom(o *models.Organization) *OrganizationInput {
	if o == nil {
		return &OrganizationInput{}
	}
	return &OrganizationInput{
		OrganizationName: o.OrganizationName,
		Position:         o.Position,
		Description:      o.Description,
		IsActive:         o.IsActive,
		StartMonth:       o.StartMonth,
		StartYear:        yearText(o.StartYear),
		EndMonth:         deref(o.EndMonth),
		EndYear:          optYearText(o.EndYear),
	}
}

func (in *OrganizationInput) Validate(vc validation.Context) validation.Errors {
	errs := validation.Struct(in)
	period(errs, vc, in.StartYear, in.EndMonth, in.EndYear, in.IsActive)
	return errs
}

func (in *OrganizationInput) Payload() apiclient.Payload {
	startYear, _ := strconv.Atoi(trimmed(in.StartYear.String()))
	endMonth, endYear := endFields(in.EndMonth, in.EndYear, in.IsActive)
	return apiclient.NewPayload().
		Set("organization_name", trimmed(in.OrganizationName)).
		Set("position", trimmed(in.Position)).
		Set("description", trimmed(in.Description)).
		Set("is_active", in.IsActive).
		Set("start_month", normalizeMonth(in.StartMonth)).
		Set("start_year", startYear).
		Set("end_month", endMonth).
		Set("end_year", endYear)
}
