package forms

import (
	"strconv"

	"github.com/codewithwan/erecruitment/internal/apiclient"
	"github.com/codewithwan/erecruitment/internal/models"
	"github.com/codewithwan/erecruitment/internal/validation"
)

const (
	FieldCertificateFile = "certificate_file"
	FieldSupportingFile  = "supporting_file"
)

// AchievementInput is always sent as multipart. The certificate is only
// mandatory when the achievement is created.
type AchievementInput struct {
	Title       string `json:"title" validate:"notblank"`
	Level       string `json:"level" validate:"notblank,vflevel"`
	Month       string `json:"month" validate:"notblank"`
	Year        Text   `json:"year"`
	Description string `json:"description" validate:"notblank,minchars=10"`

	CertificateFile *models.Attachment `json:"-"`
	SupportingFile  *models.Attachment `json:"-"`
}

func AchievementFrom(a *models.Achievement) *AchievementInput {
	if a == nil {
		return &AchievementInput{}
	}
	return &AchievementInput{
		Title:       a.Title,
		Level:       string(a.Level),
		Month:       a.Month,
		Year:        yearText(a.Year),
		Description: a.Description,
	}
}

func (in *AchievementInput) Attach(field string, a *models.Attachment) bool {
	switch field {
	case FieldCertificateFile:
		in.CertificateFile = a
	case FieldSupportingFile:
		in.SupportingFile = a
	default:
		return false
	}
	return true
}

func (in *AchievementInput) Validate(vc validation.Context) validation.Errors {
	errs := validation.Struct(in)
	validation.StartYear(errs, vc, "year", in.Year.String())
	validation.Attachment(errs, FieldCertificateFile, in.CertificateFile, vc.Creating)
	validation.Attachment(errs, FieldSupportingFile, in.SupportingFile, false)
	return errs
}

func (in *AchievementInput) Payload() apiclient.Payload {
	year, _ := strconv.Atoi(trimmed(in.Year.String()))
	p := apiclient.NewPayload().
		Set("title", trimmed(in.Title)).
		Set("level", in.Level).
		Set("month", normalizeMonth(in.Month)).
		Set("year", year).
		Set("description", trimmed(in.Description)).
		Attach(FieldCertificateFile, in.CertificateFile).
		Attach(FieldSupportingFile, in.SupportingFile)
	p.Multipart = true
	return p
}
