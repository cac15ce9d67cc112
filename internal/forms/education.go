package forms

import (
	"strconv"

	"github.com/codewithwan/erecruitment/internal/apiclient"
	"github.com/codewithwan/erecruitment/internal/models"
	"github.com/codewithwan/erecruitment/internal/validation"
)

type EducationInput struct {
	EducationLevel  string `json:"education_level" validate:"notblank"`
	Faculty         string `json:"faculty" validate:"notblank"`
	MajorID         int64  `json:"major_id" validate:"required"`
	InstitutionName string `json:"institution_name" validate:"notblank"`
	GPA             Text   `json:"gpa"`
	YearIn          Text   `json:"year_in"`
	YearOut         Text   `json:"year_out"`
}

func EducationFrom(e *models.Education) *EducationInput {
	if e == nil {
		return &EducationInput{}
	}
	return &EducationInput{
		EducationLevel:  e.EducationLevel,
		Faculty:         e.Faculty,
		MajorID:         e.MajorID,
		InstitutionName: e.InstitutionName,
		GPA:             Text(strconv.FormatFloat(e.GPA, 'f', -1, 64)),
		YearIn:          yearText(e.YearIn),
		YearOut:         optYearText(e.YearOut),
	}
}

func (in *EducationInput) Validate(vc validation.Context) validation.Errors {
	errs := validation.Struct(in)
	validation.GPA(errs, "gpa", in.GPA.String())

	yearIn, inOK := validation.StartYear(errs, vc, "year_in", in.YearIn.String())
	if trimmed(in.YearOut.String()) != "" {
		yearOut, outOK := validation.EndYear(errs, vc, "year_out", in.YearOut.String())
		if inOK && outOK {
			validation.NotBefore(errs, "year_out", yearIn, yearOut)
		}
	}
	return errs
}

func (in *EducationInput) Payload() apiclient.Payload {
	errs := validation.Errors{}
	gpa, _ := validation.GPA(errs, "gpa", in.GPA.String())
	yearIn, _ := strconv.Atoi(trimmed(in.YearIn.String()))

	var yearOut any
	if y, err := strconv.Atoi(trimmed(in.YearOut.String())); err == nil {
		yearOut = y
	}
	return apiclient.NewPayload().
		Set("education_level", trimmed(in.EducationLevel)).
		Set("faculty", trimmed(in.Faculty)).
		Set("major_id", in.MajorID).
		Set("institution_name", trimmed(in.InstitutionName)).
		Set("gpa", gpa).
		Set("year_in", yearIn).
		Set("year_out", yearOut)
}
