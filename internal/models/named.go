package models

import (
	"encoding/json"
	"sort"
	"strings"
)

// NamedEntity is the shared shape of skills, courses, certifications,
// languages and English certifications: a name plus an optional certificate.
type NamedEntity struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	CertificateFile *string `json:"certificate_file"`
}

func (n NamedEntity) EntityID() int64 { return n.ID }

// UnmarshalJSON accepts "name" or any resource specific "<x>_name" key.
func (n *NamedEntity) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	*n = NamedEntity{}
	if v, ok := raw["id"]; ok {
		if err := json.Unmarshal(v, &n.ID); err != nil {
			return err
		}
	}
	if v, ok := raw["certificate_file"]; ok {
		if err := json.Unmarshal(v, &n.CertificateFile); err != nil {
			return err
		}
	}

	if v, ok := raw["name"]; ok {
		return json.Unmarshal(v, &n.Name)
	}
	keys := make([]string, 0, len(raw))
	for k := range raw {
		if strings.HasSuffix(k, "_name") {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	if len(keys) > 0 {
		return json.Unmarshal(raw[keys[0]], &n.Name)
	}
	return nil
}
