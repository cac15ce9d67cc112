package models

type Platform string

const (
	PlatformLinkedIn  Platform = "linkedin"
	PlatformGitHub    Platform = "github"
	PlatformInstagram Platform = "instagram"
	PlatformTwitter   Platform = "twitter"
	PlatformFacebook  Platform = "facebook"
)

var Platforms = []Platform{
	PlatformLinkedIn, PlatformGitHub, PlatformInstagram, PlatformTwitter, PlatformFacebook,
}

type SocialMedia struct {
	ID           int64    `json:"id"`
	PlatformName Platform `json:"platform_name"`
	URL          string   `json:"url"`
}

func (s SocialMedia) EntityID() int64 { return s.ID }
