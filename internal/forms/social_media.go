package forms

import (
	"github.com/codewithwan/erecruitment/internal/apiclient"
	"github.com/codewithwan/erecruitment/internal/models"
	"github.com/codewithwan/erecruitment/internal/validation"
)

type SocialMediaInput struct {
	PlatformName string `json:"platform_name" validate:"notblank,vfplatform"`
	URL          string `json:"url" validate:"notblank,url"`
}

func SocialMediaFrom(s *models.SocialMedia) *SocialMediaInput {
	if s == nil {
		return &SocialMediaInput{}
	}
	return &SocialMediaInput{PlatformName: string(s.PlatformName), URL: s.URL}
}

func (in *SocialMediaInput) Validate(vc validation.Context) validation.Errors {
	return validation.Struct(in)
}

func (in *SocialMediaInput) Payload() apiclient.Payload {
	return apiclient.NewPayload().
		Set("platform_name", in.PlatformName).
		Set("url", trimmed(in.URL))
}
