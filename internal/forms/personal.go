package forms

import (
	"github.com/codewithwan/erecruitment/internal/apiclient"
	"github.com/codewithwan/erecruitment/internal/models"
	"github.com/codewithwan/erecruitment/internal/validation"
)

type PersonalDataInput struct {
	NIK          string `json:"nik" validate:"notblank"`
	Gender       string `json:"gender" validate:"notblank"`
	Phone        string `json:"phone" validate:"notblank"`
	NPWP         string `json:"npwp"`
	AboutMe      string `json:"about_me" validate:"notblank,minchars=10"`
	PlaceOfBirth string `json:"place_of_birth" validate:"notblank"`
	DateOfBirth  string `json:"date_of_birth" validate:"notblank,datetime=2006-01-02"`

	Province string `json:"province" validate:"notblank"`
	City     string `json:"city" validate:"notblank"`
	District string `json:"district" validate:"notblank"`
	Village  string `json:"village" validate:"notblank"`
	RT       string `json:"rt" validate:"notblank"`
	RW       string `json:"rw" validate:"notblank"`
	Address  string `json:"address" validate:"notblank"`
}

func PersonalDataFrom(p *models.Profile) *PersonalDataInput {
	if p == nil {
		return &PersonalDataInput{}
	}
	return &PersonalDataInput{
		NIK:          p.NIK,
		Gender:       p.Gender,
		Phone:        p.Phone,
		NPWP:         deref(p.NPWP),
		AboutMe:      p.AboutMe,
		PlaceOfBirth: p.PlaceOfBirth,
		DateOfBirth:  p.DateOfBirth,
		Province:     p.Province,
		City:         p.City,
		District:     p.District,
		Village:      p.Village,
		RT:           p.RT,
		RW:           p.RW,
		Address:      p.Address,
	}
}

func (in *PersonalDataInput) Validate(vc validation.Context) validation.Errors {
	return validation.Struct(in)
}

func (in *PersonalDataInput) Payload() apiclient.Payload {
	var npwp any
	if v := trimmed(in.NPWP); v != "" {
		npwp = v
	}
	return apiclient.NewPayload().
		Set("nik", trimmed(in.NIK)).
		Set("gender", trimmed(in.Gender)).
		Set("phone", trimmed(in.Phone)).
		Set("npwp", npwp).
		Set("about_me", trimmed(in.AboutMe)).
		Set("place_of_birth", trimmed(in.PlaceOfBirth)).
		Set("date_of_birth", trimmed(in.DateOfBirth)).
		Set("province", trimmed(in.Province)).
		Set("city", trimmed(in.City)).
		Set("district", trimmed(in.District)).
		Set("village", trimmed(in.Village)).
		Set("rt", trimmed(in.RT)).
		Set("rw", trimmed(in.RW)).
		Set("address", trimmed(in.Address))
}
