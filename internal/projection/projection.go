// Package projection decides which result sections are shown for a parsed
// profile. It is independent of how the sections are drawn.
package projection

import (
	"math"
	"strconv"
	"strings"

	"github.com/spigell/resume-insight/internal/profile"
)

const (
	MinScore = 0
	MaxScore = 100
)

// Section identifies a block of the results view.
type Section string

const (
	SectionIdentity       Section = "identity"
	SectionScore          Section = "score"
	SectionATS            Section = "ats"
	SectionHighlights     Section = "highlights"
	SectionSuggestedRoles Section = "suggested_roles"
	SectionSkills         Section = "skills"
	SectionEducation      Section = "education"
	SectionExperience     Section = "experience"
	SectionProjects       Section = "projects"
	SectionInsights       Section = "insights"
	SectionATSGaps        Section = "ats_gaps"
)

// ContactKind names a contact row of the identity section.
type ContactKind string

const (
	ContactEmail    ContactKind = "email"
	ContactPhone    ContactKind = "phone"
	ContactLinkedIn ContactKind = "linkedin"
	ContactGitHub   ContactKind = "github"
	ContactWebsite  ContactKind = "website"
	ContactAddress  ContactKind = "address"
)

type Contact struct {
	Kind  ContactKind `json:"kind"`
	Value string      `json:"value"`
}

// ATS is the tri-state ATS indicator; a View carries it only when the
// profile had a boolean.
type ATS struct {
	Friendly bool   `json:"friendly"`
	Label    string `json:"label"`
}

type ProjectItem struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Link        string `json:"link,omitempty"`
}

// Insights groups strengths, weaknesses and recommendations. Empty members
// are omitted.
type Insights struct {
	Strengths       []string `json:"strengths,omitempty"`
	Weaknesses      []string `json:"weaknesses,omitempty"`
	Recommendations []string `json:"recommendations,omitempty"`
}

// Gaps groups ATS issues and missing skills. Empty members are omitted.
type Gaps struct {
	ATSIssues     []string `json:"ats_issues,omitempty"`
	MissingSkills []string `json:"missing_skills,omitempty"`
}

// View is the projected result. Nil or empty fields mean "do not render".
type View struct {
	Name     string    `json:"name"`
	Bio      string    `json:"bio"`
	Contacts []Contact `json:"contacts,omitempty"`

	Score float64 `json:"score"`
	ATS   *ATS    `json:"ats,omitempty"`

	Highlights     []string                  `json:"highlights,omitempty"`
	SuggestedRoles []string                  `json:"suggested_roles,omitempty"`
	Skills         []string                  `json:"skills,omitempty"`
	Education      []profile.EducationEntry  `json:"education,omitempty"`
	Experience     []profile.ExperienceEntry `json:"experience,omitempty"`
	Projects       []ProjectItem             `json:"projects,omitempty"`

	Insights *Insights `json:"insights,omitempty"`
	Gaps     *Gaps     `json:"ats_gaps,omitempty"`
}

// Project builds the view for a profile. Sequence order is kept as received.
func Project(p *profile.Profile) View {
	if p == nil {
		p = &profile.Profile{}
	}

	v := View{
		Name:           p.Name,
		Bio:            p.Bio,
		Contacts:       contacts(p),
		Score:          ClampScore(p.ResumeScore),
		ATS:            atsIndicator(p.ATSFriendly),
		Highlights:     nonEmpty(p.Highlights),
		SuggestedRoles: nonEmpty(p.SuggestedRoles),
		Skills:         nonEmpty(p.Skills),
		Projects:       projects(p.Projects),
	}

	if len(p.Education) > 0 {
		v.Education = p.Education
	}
	if len(p.Experience) > 0 {
		v.Experience = p.Experience
	}

	insights := Insights{
		Strengths:       nonEmpty(p.Strengths),
		Weaknesses:      nonEmpty(p.Weaknesses),
		Recommendations: nonEmpty(p.Recommendations),
	}
	if insights.Strengths != nil || insights.Weaknesses != nil || insights.Recommendations != nil {
		v.Insights = &insights
	}

	gaps := Gaps{
		ATSIssues:     nonEmpty(p.ATSIssues),
		MissingSkills: nonEmpty(p.MissingSkills),
	}
	if gaps.ATSIssues != nil || gaps.MissingSkills != nil {
		v.Gaps = &gaps
	}

	return v
}

// Sections lists the sections to render, in display order. Identity and
// score are always present.
func (v View) Sections() []Section {
	sections := []Section{SectionIdentity, SectionScore}

	if v.ATS != nil {
		sections = append(sections, SectionATS)
	}

	optional := []struct {
		section Section
		present bool
	}{
		{SectionHighlights, len(v.Highlights) > 0},
		{SectionSuggestedRoles, len(v.SuggestedRoles) > 0},
		{SectionSkills, len(v.Skills) > 0},
		{SectionEducation, len(v.Education) > 0},
		{SectionExperience, len(v.Experience) > 0},
		{SectionProjects, len(v.Projects) > 0},
		{SectionInsights, v.Insights != nil},
		{SectionATSGaps, v.Gaps != nil},
	}
	for _, o := range optional {
		if o.present {
			sections = append(sections, o.section)
		}
	}

	return sections
}

// Has reports whether the section is rendered.
func (v View) Has(s Section) bool {
	for _, got := range v.Sections() {
		if got == s {
			return true
		}
	}
	return false
}

// ScoreText formats the gauge value without trailing zeros.
func (v View) ScoreText() string {
	return strconv.FormatFloat(v.Score, 'f', -1, 64)
}

// ClampScore maps a missing or non-finite score to 0 and clamps the rest
// into [0, 100].
func ClampScore(score *float64) float64 {
	if score == nil || math.IsNaN(*score) {
		return MinScore
	}
	return math.Min(math.Max(*score, MinScore), MaxScore)
}

func atsIndicator(friendly *bool) *ATS {
	if friendly == nil {
		return nil
	}
	if *friendly {
		return &ATS{Friendly: true, Label: "ATS Friendly"}
	}
	return &ATS{Friendly: false, Label: "Not ATS Friendly"}
}

// contacts emits a row per non-empty value. LinkedIn and GitHub prefer the
// top-level field over the social links entry.
func contacts(p *profile.Profile) []Contact {
	var social profile.SocialLinks
	if p.SocialLinks != nil {
		social = *p.SocialLinks
	}

	rows := []Contact{
		{Kind: ContactEmail, Value: p.Email},
		{Kind: ContactPhone, Value: p.Phone},
		{Kind: ContactLinkedIn, Value: firstNonEmpty(p.LinkedIn, social.LinkedIn)},
		{Kind: ContactGitHub, Value: firstNonEmpty(p.GitHub, social.GitHub)},
		{Kind: ContactWebsite, Value: profile.String(p.Website)},
		{Kind: ContactAddress, Value: profile.String(p.Address)},
	}

	var out []Contact
	for _, row := range rows {
		if strings.TrimSpace(row.Value) != "" {
			out = append(out, row)
		}
	}
	return out
}

func firstNonEmpty(values ...*string) string {
	for _, v := range values {
		if s := profile.String(v); strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

func projects(entries []profile.ProjectEntry) []ProjectItem {
	if len(entries) == 0 {
		return nil
	}

	out := make([]ProjectItem, 0, len(entries))
	for _, e := range entries {
		out = append(out, ProjectItem{
			Name:        profile.String(e.Name),
			Description: profile.String(e.Description),
			Link:        profile.String(e.Link),
		})
	}
	return out
}

func nonEmpty(items []string) []string {
	if len(items) == 0 {
		return nil
	}
	return items
}
