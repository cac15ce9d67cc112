package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"sort"
	"strconv"

	"github.com/codewithwan/erecruitment/internal/models"
)

// MethodOverrideField is how multipart updates tunnel PUT through POST.
const MethodOverrideField = "_method"

// Payload is the body of one mutation. Fields holding nil are sent as JSON
// null and left out of multipart bodies.
type Payload struct {
	Fields    map[string]any
	Files     map[string]*models.Attachment
	Multipart bool
}

func NewPayload() Payload {
	return Payload{Fields: map[string]any{}, Files: map[string]*models.Attachment{}}
}

// Set is a chainable helper for building Fields.
func (p Payload) Set(key string, v any) Payload {
	p.Fields[key] = v
	return p
}

// Attach adds a file part; nil attachments are ignored.
func (p Payload) Attach(field string, a *models.Attachment) Payload {
	if a != nil {
		p.Files[field] = a
	}
	return p
}

func (p Payload) encode() (io.Reader, string, error) {
	if !p.Multipart {
		b, err := json.Marshal(p.Fields)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(b), "application/json", nil
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	keys := make([]string, 0, len(p.Fields))
	for k := range p.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v, ok := formValue(p.Fields[k])
		if !ok {
			continue
		}
		if err := w.WriteField(k, v); err != nil {
			return nil, "", err
		}
	}

	fileKeys := make([]string, 0, len(p.Files))
	for k := range p.Files {
		fileKeys = append(fileKeys, k)
	}
	sort.Strings(fileKeys)
	for _, k := range fileKeys {
		a := p.Files[k]
		part, err := w.CreateFormFile(k, a.Name)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(a.Content); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

// formValue renders v the way the backend reads form fields; booleans
// become "1"/"0".
func formValue(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return t, true
	case *string:
		if t == nil {
			return "", false
		}
		return *t, true
	case bool:
		if t {
			return "1", true
		}
		return "0", true
	case int:
		return strconv.Itoa(t), true
	case *int:
		if t == nil {
			return "", false
		}
		return strconv.Itoa(*t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	default:
		return fmt.Sprint(t), true
	}
}
