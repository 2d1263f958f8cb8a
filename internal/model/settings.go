package model

type Announcement struct {
	Enabled bool   `json:"enabled"`
	Message string `json:"message,omitempty" validate:"max=500"`
	Link    string `json:"link,omitempty" validate:"omitempty,url"`
}

type SocialLinks struct {
	Instagram string `json:"instagram,omitempty" validate:"omitempty,url"`
	LinkedIn  string `json:"linkedin,omitempty" validate:"omitempty,url"`
	Github    string `json:"github,omitempty" validate:"omitempty,url"`
}

// SiteSettings is the single settings record shown on every public page.
type SiteSettings struct {
	SiteName     string       `json:"site_name" validate:"required,max=128"`
	Tagline      string       `json:"tagline,omitempty" validate:"max=255"`
	ContactEmail string       `json:"contact_email,omitempty" validate:"omitempty,email"`
	Announcement Announcement `json:"announcement"`
	Social       SocialLinks  `json:"social"`
}

func DefaultSettings() SiteSettings {
	return SiteSettings{SiteName: "Club"}
}

type SettingsPatch struct {
	SiteName            *string
	Tagline             *string
	ContactEmail        *string
	AnnouncementEnabled *bool
	AnnouncementMessage *string
	AnnouncementLink    *string
	Instagram           *string
	LinkedIn            *string
	Github              *string
}

func (p SettingsPatch) Apply(s *SiteSettings) {
	setString(&s.SiteName, p.SiteName)
	setString(&s.Tagline, p.Tagline)
	setString(&s.ContactEmail, p.ContactEmail)
	if p.AnnouncementEnabled != nil {
		s.Announcement.Enabled = *p.AnnouncementEnabled
	}
	setString(&s.Announcement.Message, p.AnnouncementMessage)
	setString(&s.Announcement.Link, p.AnnouncementLink)
	setString(&s.Social.Instagram, p.Instagram)
	setString(&s.Social.LinkedIn, p.LinkedIn)
	setString(&s.Social.Github, p.Github)
}
