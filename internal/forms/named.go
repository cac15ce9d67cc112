package forms

import (
	"github.com/codewithwan/erecruitment/internal/apiclient"
	"github.com/codewithwan/erecruitment/internal/models"
	"github.com/codewithwan/erecruitment/internal/validation"
)

// NamedShape describes one of the additional-data resources.
type NamedShape struct {
	Resource  string // "skills"
	NameField string // "skill_name"
	FileField string // "certificate_file"
}

// NamedInput backs the skills/courses/certifications/languages/english
// certifications forms. The front end always sends "name"; the shape decides
// the upstream field names.
type NamedInput struct {
	Name            string             `json:"name" validate:"notblank"`
	CertificateFile *models.Attachment `json:"-"`

	shape NamedShape
}

func NewNamedInput(shape NamedShape) *NamedInput {
	return &NamedInput{shape: shape}
}

func NamedFrom(shape NamedShape, n *models.NamedEntity) *NamedInput {
	in := NewNamedInput(shape)
	if n != nil {
		in.Name = n.Name
	}
	return in
}

func (in *NamedInput) Attach(field string, a *models.Attachment) bool {
	if field != in.shape.FileField {
		return false
	}
	in.CertificateFile = a
	return true
}

func (in *NamedInput) Validate(vc validation.Context) validation.Errors {
	errs := validation.Struct(in)
	validation.Attachment(errs, in.shape.FileField, in.CertificateFile, false)
	return errs
}

func (in *NamedInput) Payload() apiclient.Payload {
	p := apiclient.NewPayload().
		Set(in.shape.NameField, trimmed(in.Name)).
		Attach(in.shape.FileField, in.CertificateFile)
	p.Multipart = true
	return p
}
