package wizard

import (
	"slices"

	"github.com/codewithwan/erecruitment/internal/forms"
	"github.com/codewithwan/erecruitment/internal/models"
)

const (
	SectionPersonalData   = "personal-data"
	SectionEducation      = "education"
	SectionWorkExperience = "work-experience"
	SectionAchievements   = "achievements"
	SectionOrganizations  = "organizations"
	SectionSocialMedia    = "social-media"
	SectionAdditional     = "additional"

	SectionSkills                = "skills"
	SectionCourses               = "courses"
	SectionCertifications        = "certifications"
	SectionLanguages             = "languages"
	SectionEnglishCertifications = "english-certifications"
)

// Sidebar is the navigation order of the page.
var Sidebar = []string{
	SectionPersonalData,
	SectionEducation,
	SectionWorkExperience,
	SectionAchievements,
	SectionOrganizations,
	SectionSocialMedia,
	SectionAdditional,
}

// KnownSection reports whether key names a section that has a form.
func KnownSection(key string) bool {
	if key == SectionAdditional {
		return false
	}
	if slices.Contains(Sidebar, key) {
		return true
	}
	return slices.ContainsFunc(additionalResources, func(r namedResource) bool {
		return r.shape.Resource == key
	})
}

var personalDataSection = &Section[models.Profile, *forms.PersonalDataInput]{
	Key:          SectionPersonalData,
	Title:        "Data Pribadi",
	ListPath:     "/candidate/profile",
	CreatePath:   "/candidate/profile/data-pribadi",
	Upsert:       true,
	SavedMessage: "Data pribadi berhasil disimpan.",
	NewInput:     forms.PersonalDataFrom,
}

var educationSection = &Section[models.Education, *forms.EducationInput]{
	Key:          SectionEducation,
	Title:        "Pendidikan",
	ListPath:     "/candidate/education",
	CreatePath:   "/candidate/education",
	ItemPath:     "/candidate/education",
	Singular:     true,
	SavedMessage: "Data pendidikan berhasil disimpan.",
	NewInput:     forms.EducationFrom,
}

var workExperienceSection = &Section[models.WorkExperience, *forms.WorkExperienceInput]{
	Key:            SectionWorkExperience,
	Title:          "Pengalaman Kerja",
	ListPath:       "/candidate/work-experience",
	CreatePath:     "/candidate/work-experience",
	ItemPath:       "/candidate/work-experience",
	Deletable:      true,
	SavedMessage:   "Pengalaman kerja berhasil disimpan.",
	DeletePrompt:   "Apakah Anda yakin ingin menghapus pengalaman kerja ini?",
	DeletedMessage: "Pengalaman kerja berhasil dihapus.",
	NewInput:       forms.WorkExperienceFrom,
}

var achievementSection = &Section[models.Achievement, *forms.AchievementInput]{
	Key:          SectionAchievements,
	Title:        "Prestasi",
	ListPath:     "/candidate/achievements",
	CreatePath:   "/candidate/achievement",
	ItemPath:     "/candidate/achievement",
	SavedMessage: "Prestasi berhasil disimpan.",
	NewInput:     forms.AchievementFrom,
}

var organizationSection = &Section[models.Organization, *forms.OrganizationInput]{
	Key:          SectionOrganizations,
	Title:        "Organisasi",
	ListPath:     "/candidate/organization",
	CreatePath:   "/candidate/organization",
	ItemPath:     "/candidate/organization",
	SavedMessage: "Pengalaman organisasi berhasil disimpan.",
	NewInput:     forms.OrganizationFrom,
}

var socialMediaSection = &Section[models.SocialMedia, *forms.SocialMediaInput]{
	Key:          SectionSocialMedia,
	Title:        "Media Sosial",
	ListPath:     "/candidate/social-media",
	CreatePath:   "/candidate/social-media",
	ItemPath:     "/candidate/social-media",
	SavedMessage: "Media sosial berhasil disimpan.",
	NewInput:     forms.SocialMediaFrom,
}

// namedResource is one of the additional-data resources.
type namedResource struct {
	shape forms.NamedShape
	title string
}

var additionalResources = []namedResource{
	{forms.NamedShape{Resource: SectionSkills, NameField: "skill_name", FileField: forms.FieldCertificateFile}, "Keahlian"},
	{forms.NamedShape{Resource: SectionCourses, NameField: "course_name", FileField: forms.FieldCertificateFile}, "Kursus"},
	{forms.NamedShape{Resource: SectionCertifications, NameField: "certification_name", FileField: forms.FieldCertificateFile}, "Sertifikasi"},
	{forms.NamedShape{Resource: SectionLanguages, NameField: "language_name", FileField: forms.FieldCertificateFile}, "Bahasa"},
	{forms.NamedShape{Resource: SectionEnglishCertifications, NameField: "name", FileField: forms.FieldCertificateFile}, "Sertifikat Bahasa Inggris"},
}

func namedSection(r namedResource) *Section[models.NamedEntity, *forms.NamedInput] {
	path := "/candidate/" + r.shape.Resource
	shape := r.shape
	return &Section[models.NamedEntity, *forms.NamedInput]{
		Key:            shape.Resource,
		Title:          r.title,
		ListPath:       path,
		CreatePath:     path,
		ItemPath:       path,
		Deletable:      true,
		SavedMessage:   r.title + " berhasil disimpan.",
		DeletePrompt:   "Apakah Anda yakin ingin menghapus data " + r.title + " ini?",
		DeletedMessage: r.title + " berhasil dihapus.",
		NewInput: func(n *models.NamedEntity) *forms.NamedInput {
			return forms.NamedFrom(shape, n)
		},
	}
}
