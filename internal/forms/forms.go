// Package forms holds the editable state of every section form together with
// its validation rules and the payload it submits.
package forms

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/codewithwan/erecruitment/internal/apiclient"
	"github.com/codewithwan/erecruitment/internal/models"
	"github.com/codewithwan/erecruitment/internal/validation"
)

// Input is one section form.
type Input interface {
	Validate(vc validation.Context) validation.Errors
	Payload() apiclient.Payload
}

// Attachable inputs accept uploaded files by field name.
type Attachable interface {
	Attach(field string, a *models.Attachment) bool
}

// Text is typed-in text that may arrive as a JSON string or number
// (year and GPA boxes).
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*t = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*t = Text(n.String())
	return nil
}

func (t Text) String() string { return string(t) }

func yearText(y int) Text {
	if y == 0 {
		return ""
	}
	return Text(strconv.Itoa(y))
}

func optYearText(y *int) Text {
	if y == nil {
		return ""
	}
	return yearText(*y)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// normalizeMonth trims and title-cases a month name ("januari " -> "Januari").
func normalizeMonth(m string) string {
	m = strings.TrimSpace(m)
	if m == "" {
		return ""
	}
	return cases.Title(language.Indonesian).String(m)
}

func trimmed(s string) string { return strings.TrimSpace(s) }

// period validates the start/end pair shared by experience and organization.
// ongoing nulls out the end fields entirely.
func period(errs validation.Errors, vc validation.Context, startYear Text, endMonth string, endYear Text, ongoing bool) {
	start, startOK := validation.StartYear(errs, vc, "start_year", startYear.String())
	if ongoing {
		return
	}
	if trimmed(endMonth) == "" {
		errs.Add("end_month", "wajib diisi")
	}
	end, endOK := validation.EndYear(errs, vc, "end_year", endYear.String())
	if startOK && endOK {
		validation.NotBefore(errs, "end_year", start, end)
	}
}

// endFields returns the end month/year to submit, nil for an ongoing period.
func endFields(endMonth string, endYear Text, ongoing bool) (any, any) {
	if ongoing {
		return nil, nil
	}
	y, _ := strconv.Atoi(trimmed(endYear.String()))
	return normalizeMonth(endMonth), y
}
