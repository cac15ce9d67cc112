package models

// Entity is a persisted row of one profile section.
type Entity interface {
	EntityID() int64
}

// Attachment is a file chosen by the candidate for upload.
type Attachment struct {
	Name    string `json:"name"`
	Content []byte `json:"-"`
}

func (a *Attachment) Size() int64 {
	if a == nil {
		return 0
	}
	return int64(len(a.Content))
}

// Months in the order the forms offer them.
var Months = []string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}
