package validation

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codewithwan/erecruitment/internal/models"
	"github.com/codewithwan/erecruitment/internal/utils"
)

type sample struct {
	Title       string `json:"title" validate:"notblank"`
	Description string `json:"description" validate:"notblank,min=10"`
	Level       string `json:"level" validate:"vflevel"`
	URL         string `json:"url" validate:"omitempty,url"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name string
		in   sample
		want Errors
	}{
		{
			name: "valid",
			in:   sample{Title: "Lomba X", Description: "0123456789", Level: "Nasional"},
			want: Errors{},
		},
		{
			name: "blank after trim",
			in:   sample{Title: "   ", Description: "0123456789", Level: "Lokal"},
			want: Errors{"title": "wajib diisi"},
		},
		{
			name: "description too short",
			in:   sample{Title: "x", Description: "123456789", Level: "Lokal"},
			want: Errors{"description": "minimal 10 karakter"},
		},
		{
			name: "unknown level and bad url",
			in:   sample{Title: "x", Description: "0123456789", Level: "Kota", URL: "nope"},
			want: Errors{"level": "pilihan tidak valid", "url": "format URL tidak valid"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Struct(tt.in))
		})
	}
}

func TestYearBounds(t *testing.T) {
	vc := Context{Now: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)}
	cur := strconv.Itoa(vc.CurrentYear())

	errs := Errors{}
	y, ok := StartYear(errs, vc, "year_in", cur)
	assert.True(t, ok)
	assert.Equal(t, 2026, y)

	_, ok = StartYear(errs, vc, "start_year", "2027")
	assert.False(t, ok)
	assert.Equal(t, "tahun harus antara 1900 dan 2026", errs["start_year"])

	_, ok = EndYear(errs, vc, "end_year", "2036")
	assert.True(t, ok)
	_, ok = EndYear(errs, vc, "year_out", "2037")
	assert.False(t, ok)

	_, ok = StartYear(errs, vc, "a", "1899")
	assert.False(t, ok)
	_, ok = StartYear(errs, vc, "b", "20x4")
	assert.False(t, ok)
	assert.Equal(t, "harus berupa angka", errs["b"])
	_, ok = StartYear(errs, vc, "c", " ")
	assert.False(t, ok)
	assert.Equal(t, "wajib diisi", errs["c"])
}

func TestNotBefore(t *testing.T) {
	errs := Errors{}
	NotBefore(errs, "year_out", 2024, 2024)
	assert.True(t, errs.Empty())

	NotBefore(errs, "year_out", 2024, 2023)
	assert.True(t, errs.Has("year_out"))
}

func TestGPA(t *testing.T) {
	tests := []struct {
		raw  string
		ok   bool
		want float64
	}{
		{"0", true, 0},
		{"4", true, 4},
		{"3,75", true, 3.75},
		{"4.01", false, 0},
		{"-0.1", false, 0},
		{"abc", false, 0},
		{"NaN", false, 0},
		{"Inf", false, 0},
		{"-Inf", false, 0},
		{"", false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			errs := Errors{}
			v, ok := GPA(errs, "gpa", tt.raw)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.ok, errs.Empty())
			if tt.ok {
				assert.InDelta(t, tt.want, v, 1e-9)
			}
		})
	}
}

func TestAttachment(t *testing.T) {
	errs := Errors{}
	Attachment(errs, "certificate_file", nil, false)
	assert.True(t, errs.Empty())

	Attachment(errs, "certificate_file", nil, true)
	assert.Equal(t, "file wajib diunggah", errs["certificate_file"])

	errs = Errors{}
	Attachment(errs, "f", &models.Attachment{Name: "cv.exe", Content: []byte("x")}, true)
	assert.True(t, errs.Has("f"))

	errs = Errors{}
	big := make([]byte, MaxAttachmentSize+1)
	Attachment(errs, "f", &models.Attachment{Name: "scan.JPG", Content: big}, true)
	assert.Equal(t, "ukuran file maksimal 500KB", errs["f"])

	errs = Errors{}
	Attachment(errs, "f", &models.Attachment{Name: "sertifikat.docx", Content: []byte("PK")}, true)
	assert.True(t, errs.Empty())
}

func TestErrorsErr(t *testing.T) {
	assert.NoError(t, Errors{}.Err("op"))

	err := Errors{"title": "wajib diisi"}.Err("Form.Submit")
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))

	var ae *utils.AppError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "wajib diisi", ae.Fields["title"])
}
