// Package profile holds the structured resume record returned by the parsing
// service. Apart from the identity fields every field is optional: pointers
// are nil when the value was absent or null, slices are nil when absent.
package profile

type Profile struct {
	Name       string            `mapstructure:"name" json:"name"`
	Email      string            `mapstructure:"email" json:"email"`
	Phone      string            `mapstructure:"phone" json:"phone"`
	Bio        string            `mapstructure:"bio" json:"bio"`
	Skills     []string          `mapstructure:"skills" json:"skills"`
	Education  []EducationEntry  `mapstructure:"education" json:"education"`
	Experience []ExperienceEntry `mapstructure:"experience" json:"experience"`

	LinkedIn    *string      `mapstructure:"linkedin" json:"linkedin,omitempty"`
	GitHub      *string      `mapstructure:"github" json:"github,omitempty"`
	Website     *string      `mapstructure:"website" json:"website,omitempty"`
	Address     *string      `mapstructure:"address" json:"address,omitempty"`
	SocialLinks *SocialLinks `mapstructure:"social_links" json:"social_links,omitempty"`

	ResumeScore *float64 `mapstructure:"resume_score" json:"resume_score,omitempty"`
	ATSFriendly *bool    `mapstructure:"ats_friendly" json:"ats_friendly,omitempty"`

	Highlights      []string       `mapstructure:"highlights" json:"highlights,omitempty"`
	SuggestedRoles  []string       `mapstructure:"suggested_roles" json:"suggested_roles,omitempty"`
	Projects        []ProjectEntry `mapstructure:"projects" json:"projects,omitempty"`
	Strengths       []string       `mapstructure:"strengths" json:"strengths,omitempty"`
	Weaknesses      []string       `mapstructure:"weaknesses" json:"weaknesses,omitempty"`
	Recommendations []string       `mapstructure:"recommendations" json:"recommendations,omitempty"`
	ATSIssues       []string       `mapstructure:"ats_issues" json:"ats_issues,omitempty"`
	MissingSkills   []string       `mapstructure:"missing_skills" json:"missing_skills,omitempty"`
}

type EducationEntry struct {
	Degree      string `mapstructure:"degree" json:"degree"`
	Institution string `mapstructure:"institution" json:"institution"`
	Years       string `mapstructure:"years" json:"years"`
}

type ExperienceEntry struct {
	Title       string `mapstructure:"title" json:"title"`
	Company     string `mapstructure:"company" json:"company"`
	Duration    string `mapstructure:"duration" json:"duration"`
	Description string `mapstructure:"description" json:"description"`
}

type ProjectEntry struct {
	Name        *string `mapstructure:"name" json:"name,omitempty"`
	Description *string `mapstructure:"description" json:"description,omitempty"`
	Link        *string `mapstructure:"link" json:"link,omitempty"`
}

type SocialLinks struct {
	LinkedIn *string `mapstructure:"linkedin" json:"linkedin,omitempty"`
	GitHub   *string `mapstructure:"github" json:"github,omitempty"`
	Twitter  *string `mapstructure:"twitter" json:"twitter,omitempty"`
}

// String dereferences an optional string, returning "" when absent.
func String(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
