// Package validation runs the client side checks every section form applies
// before anything is sent upstream. Errors are keyed by the JSON field name.
package validation

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/codewithwan/erecruitment/internal/models"
	"github.com/codewithwan/erecruitment/internal/utils"
)

const (
	MinDescription    = 10
	MinYear           = 1900
	EndYearHorizon    = 10
	MaxGPA            = 4.0
	MaxAttachmentSize = 500 << 10
)

// AllowedExtensions mirrors the accept list advertised on every upload control.
var AllowedExtensions = []string{".pdf", ".jpg", ".jpeg", ".doc", ".docx"}

// Context carries what a rule needs besides the input itself.
type Context struct {
	Now      time.Time
	Creating bool
}

func (c Context) CurrentYear() int {
	if c.Now.IsZero() {
		return time.Now().Year()
	}
	return c.Now.Year()
}

// Errors maps a field to its first failing message.
type Errors map[string]string

func (e Errors) Add(field, msg string) {
	if _, ok := e[field]; ok {
		return
	}
	e[field] = msg
}

func (e Errors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

func (e Errors) Merge(other Errors) {
	for k, v := range other {
		e.Add(k, v)
	}
}

func (e Errors) Empty() bool { return len(e) == 0 }

func (e Errors) Error() string { return utils.JoinFields(e) }

// Err converts e into an AppError, nil when there is nothing to report.
func (e Errors) Err(op string) error {
	if e.Empty() {
		return nil
	}
	return utils.EF(op, "Periksa kembali isian formulir.", map[string]string(e))
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func init() {
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = validate.RegisterValidation("minchars", minChars)
	// prefix vf = validate format
	_ = validate.RegisterValidation("vfemployment", oneOfString(models.EmploymentStatuses))
	_ = validate.RegisterValidation("vflevel", oneOfString(models.AchievementLevels))
	_ = validate.RegisterValidation("vfplatform", oneOfString(models.Platforms))
}

// minChars counts runes of the trimmed value, the text that is submitted.
func minChars(fl validator.FieldLevel) bool {
	n, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return utf8.RuneCountInString(strings.TrimSpace(fl.Field().String())) >= n
}

func oneOfString[T ~string](allowed []T) validator.Func {
	return func(fl validator.FieldLevel) bool {
		v := fl.Field().String()
		for _, a := range allowed {
			if string(a) == v {
				return true
			}
		}
		return false
	}
}

// Struct runs the tag rules of in.
func Struct(in any) Errors {
	out := Errors{}
	err := validate.Struct(in)
	if err == nil {
		return out
	}

	var valErrs validator.ValidationErrors
	if !errors.As(err, &valErrs) {
		out.Add("_", err.Error())
		return out
	}
	for _, fe := range valErrs {
		out.Add(fe.Field(), message(fe))
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "wajib diisi"
	case "min", "minchars":
		return fmt.Sprintf("minimal %s karakter", fe.Param())
	case "max":
		return fmt.Sprintf("maksimal %s karakter", fe.Param())
	case "oneof", "vfemployment", "vflevel", "vfplatform":
		return "pilihan tidak valid"
	case "url", "http_url":
		return "format URL tidak valid"
	case "numeric":
		return "harus berupa angka"
	case "datetime":
		return "format tanggal harus YYYY-MM-DD"
	default:
		return fmt.Sprintf("tidak valid (%s)", fe.Tag())
	}
}

// Year parses raw and checks it lies in [min, max]. A field that already
// failed is left alone.
func Year(errs Errors, field, raw string, min, max int) (int, bool) {
	if errs.Has(field) {
		return 0, false
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		errs.Add(field, "wajib diisi")
		return 0, false
	}
	y, err := strconv.Atoi(raw)
	if err != nil {
		errs.Add(field, "harus berupa angka")
		return 0, false
	}
	if y < min || y > max {
		errs.Add(field, fmt.Sprintf("tahun harus antara %d dan %d", min, max))
		return 0, false
	}
	return y, true
}

// StartYear accepts [1900, current year].
func StartYear(errs Errors, vc Context, field, raw string) (int, bool) {
	return Year(errs, field, raw, MinYear, vc.CurrentYear())
}

// EndYear accepts [1900, current year + 10].
func EndYear(errs Errors, vc Context, field, raw string) (int, bool) {
	return Year(errs, field, raw, MinYear, vc.CurrentYear()+EndYearHorizon)
}

// NotBefore reports end < start on the end field.
func NotBefore(errs Errors, field string, start, end int) {
	if end < start {
		errs.Add(field, "tahun selesai tidak boleh sebelum tahun mulai")
	}
}

// GPA parses raw as a float in [0, 4]. A decimal comma is accepted.
func GPA(errs Errors, field, raw string) (float64, bool) {
	if errs.Has(field) {
		return 0, false
	}
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	if raw == "" {
		errs.Add(field, "wajib diisi")
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		errs.Add(field, "harus berupa angka")
		return 0, false
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || v > MaxGPA {
		errs.Add(field, "IPK harus antara 0 dan 4")
		return 0, false
	}
	return v, true
}

// Attachment checks an optional upload. required only applies when a is nil.
func Attachment(errs Errors, field string, a *models.Attachment, required bool) {
	if a == nil {
		if required {
			errs.Add(field, "file wajib diunggah")
		}
		return
	}
	if !AllowedExtension(a.Name) {
		errs.Add(field, "format file harus pdf, jpg, jpeg, doc, atau docx")
		return
	}
	if a.Size() > MaxAttachmentSize {
		errs.Add(field, "ukuran file maksimal 500KB")
	}
}

func AllowedExtension(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, a := range AllowedExtensions {
		if a == ext {
			return true
		}
	}
	return false
}
