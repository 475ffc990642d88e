// Package render draws a projected result for a terminal or a web page.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/spigell/resume-insight/internal/profile"
	"github.com/spigell/resume-insight/internal/projection"
)

var contactLabels = map[projection.ContactKind]string{
	projection.ContactEmail:    "Email",
	projection.ContactPhone:    "Phone",
	projection.ContactLinkedIn: "LinkedIn",
	projection.ContactGitHub:   "GitHub",
	projection.ContactWebsite:  "Website",
	projection.ContactAddress:  "Address",
}

// SectionTitles are the headings used by every renderer.
var SectionTitles = map[projection.Section]string{
	projection.SectionScore:          "Resume Score",
	projection.SectionATS:            "ATS",
	projection.SectionHighlights:     "Highlights",
	projection.SectionSuggestedRoles: "Suggested Roles",
	projection.SectionSkills:         "Skills",
	projection.SectionEducation:      "Education",
	projection.SectionExperience:     "Experience",
	projection.SectionProjects:       "Projects",
	projection.SectionInsights:       "Insights",
	projection.SectionATSGaps:        "ATS & Gaps",
}

// ContactLabel returns the display label of a contact row.
func ContactLabel(k projection.ContactKind) string {
	if l, ok := contactLabels[k]; ok {
		return l
	}
	return string(k)
}

// Text writes the view as plain text, one block per rendered section.
func Text(w io.Writer, v projection.View) error {
	var b strings.Builder

	for i, section := range v.Sections() {
		if i > 0 {
			b.WriteString("\n")
		}
		writeSection(&b, v, section)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeSection(b *strings.Builder, v projection.View, section projection.Section) {
	switch section {
	case projection.SectionIdentity:
		name := v.Name
		if strings.TrimSpace(name) == "" {
			name = "Unnamed candidate"
		}
		fmt.Fprintf(b, "%s\n%s\n", name, strings.Repeat("=", len([]rune(name))))
		if strings.TrimSpace(v.Bio) != "" {
			fmt.Fprintf(b, "%s\n", v.Bio)
		}
		for _, c := range v.Contacts {
			fmt.Fprintf(b, "  %-9s %s\n", ContactLabel(c.Kind)+":", c.Value)
		}
	case projection.SectionScore:
		fmt.Fprintf(b, "%s: %s/100 %s\n", SectionTitles[section], v.ScoreText(), gauge(v.Score))
	case projection.SectionATS:
		mark := "[x]"
		if v.ATS.Friendly {
			mark = "[v]"
		}
		fmt.Fprintf(b, "%s %s\n", mark, v.ATS.Label)
	case projection.SectionHighlights:
		writeList(b, SectionTitles[section], v.Highlights, "")
	case projection.SectionSuggestedRoles:
		writeList(b, SectionTitles[section], v.SuggestedRoles, "")
	case projection.SectionSkills:
		fmt.Fprintf(b, "%s\n  %s\n", SectionTitles[section], strings.Join(v.Skills, ", "))
	case projection.SectionEducation:
		fmt.Fprintf(b, "%s\n", SectionTitles[section])
		for _, e := range v.Education {
			fmt.Fprintf(b, "  - %s\n", educationLine(e))
		}
	case projection.SectionExperience:
		fmt.Fprintf(b, "%s\n", SectionTitles[section])
		for _, e := range v.Experience {
			fmt.Fprintf(b, "  - %s\n", experienceLine(e))
			if strings.TrimSpace(e.Description) != "" {
				fmt.Fprintf(b, "    %s\n", e.Description)
			}
		}
	case projection.SectionProjects:
		fmt.Fprintf(b, "%s\n", SectionTitles[section])
		for _, p := range v.Projects {
			writeProject(b, p)
		}
	case projection.SectionInsights:
		fmt.Fprintf(b, "%s\n", SectionTitles[section])
		writeList(b, "Strengths", v.Insights.Strengths, "  ")
		writeList(b, "Weaknesses", v.Insights.Weaknesses, "  ")
		writeList(b, "Recommendations", v.Insights.Recommendations, "  ")
	case projection.SectionATSGaps:
		fmt.Fprintf(b, "%s\n", SectionTitles[section])
		writeList(b, "ATS Issues", v.Gaps.ATSIssues, "  ")
		writeList(b, "Missing Skills", v.Gaps.MissingSkills, "  ")
	}
}

// writeList skips empty lists so group members without items disappear.
func writeList(b *strings.Builder, title string, items []string, indent string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "%s%s\n", indent, title)
	for _, item := range items {
		fmt.Fprintf(b, "%s  - %s\n", indent, item)
	}
}

func writeProject(b *strings.Builder, p projection.ProjectItem) {
	title := p.Name
	if title == "" {
		title = "Untitled project"
	}
	fmt.Fprintf(b, "  - %s\n", title)
	if p.Description != "" {
		fmt.Fprintf(b, "    %s\n", p.Description)
	}
	if p.Link != "" {
		fmt.Fprintf(b, "    %s\n", p.Link)
	}
}

func educationLine(e profile.EducationEntry) string {
	line := joinNonEmpty(", ", e.Degree, e.Institution)
	if e.Years != "" {
		line = joinNonEmpty(" ", line, "("+e.Years+")")
	}
	return line
}

func experienceLine(e profile.ExperienceEntry) string {
	line := joinNonEmpty(" at ", e.Title, e.Company)
	if e.Duration != "" {
		line = joinNonEmpty(" ", line, "("+e.Duration+")")
	}
	return line
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

// gauge draws the score as a 20 cell bar.
func gauge(score float64) string {
	const cells = 20
	filled := int(score / 100 * cells)
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", cells-filled) + "]"
}
