package handlers

import (
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/codewithwan/erecruitment/internal/models"
	"github.com/codewithwan/erecruitment/internal/utils"
	"github.com/codewithwan/erecruitment/internal/validation"
)

// content types http.DetectContentType reports for each accepted extension
var sniffed = map[string][]string{
	".pdf":  {"application/pdf"},
	".jpg":  {"image/jpeg"},
	".jpeg": {"image/jpeg"},
	".doc":  {"application/msword", "application/octet-stream"},
	".docx": {"application/zip", "application/octet-stream"},
}

// readAttachments reads every uploaded file of form. Reads stop one byte
// past the size limit so the form can still report the size error.
func readAttachments(form *multipart.Form, op string) (map[string]*models.Attachment, error) {
	if form == nil || len(form.File) == 0 {
		return nil, nil
	}

	out := make(map[string]*models.Attachment, len(form.File))
	for field, headers := range form.File {
		if len(headers) == 0 {
			continue
		}
		a, err := readAttachment(headers[0])
		if err != nil {
			return nil, utils.E(utils.CodeInvalidArgument, op, "failed to read upload", err)
		}
		if !contentMatches(a) {
			return nil, utils.EF(op, "Isi file tidak sesuai dengan formatnya.", map[string]string{
				field: "isi file tidak sesuai dengan formatnya",
			})
		}
		out[field] = a
	}
	return out, nil
}

func readAttachment(fh *multipart.FileHeader) (*models.Attachment, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	b, err := io.ReadAll(io.LimitReader(f, validation.MaxAttachmentSize+1))
	if err != nil {
		return nil, err
	}
	return &models.Attachment{Name: filepath.Base(fh.Filename), Content: b}, nil
}

// contentMatches sniffs files with an accepted extension. Anything else is
// left to the form, which rejects the extension with a field message.
func contentMatches(a *models.Attachment) bool {
	want, ok := sniffed[strings.ToLower(filepath.Ext(a.Name))]
	if !ok || len(a.Content) == 0 {
		return true
	}

	head := a.Content
	if len(head) > 512 {
		head = head[:512]
	}
	ct := http.DetectContentType(head)
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	for _, w := range want {
		if ct == w {
			return true
		}
	}
	return false
}
