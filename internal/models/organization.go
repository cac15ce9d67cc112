package models

type Organization struct {
	ID               int64   `json:"id"`
	OrganizationName string  `json:"organization_name"`
	Position         string  `json:"position"`
	Description      string  `json:"description"`
	IsActive         bool    `json:"is_active"`
	StartMonth       string  `json:"start_month"`
	StartYear        int     `json:"start_year"`
	EndMonth         *string `json:"end_month"`
	EndYear          *int    `json:"end_year"`
}

func (o Organization) EntityID() int64 { return o.ID }
