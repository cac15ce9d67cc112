package models

// Profile is the personal data of the signed-in candidate. One per user.
type Profile struct {
	ID           int64   `json:"id"`
	NIK          string  `json:"nik"`
	Gender       string  `json:"gender"`
	Phone        string  `json:"phone"`
	NPWP         *string `json:"npwp"`
	AboutMe      string  `json:"about_me"`
	PlaceOfBirth string  `json:"place_of_birth"`
	DateOfBirth  string  `json:"date_of_birth"` // YYYY-MM-DD

	Province string `json:"province"`
	City     string `json:"city"`
	District string `json:"district"`
	Village  string `json:"village"`
	RT       string `json:"rt"`
	RW       string `json:"rw"`
	Address  string `json:"address"`
}

func (p Profile) EntityID() int64 { return p.ID }
