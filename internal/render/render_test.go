package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/resume-insight/internal/profile"
	"github.com/spigell/resume-insight/internal/projection"
)

func ptr[T any](v T) *T { return &v }

func sampleView() projection.View {
	return projection.Project(&profile.Profile{
		Name:        "Ada Lovelace",
		Bio:         "Analyst <script>",
		Email:       "ada@example.com",
		SocialLinks: &profile.SocialLinks{GitHub: ptr("https://github.com/ada")},
		Skills:      []string{},
		Education:   []profile.EducationEntry{{Degree: "BSc", Institution: "X", Years: "2020-2024"}},
		Experience:  []profile.ExperienceEntry{{Title: "Engineer", Company: "Babbage", Duration: "1843", Description: "Notes"}},
		ResumeScore: ptr(137.0),
		ATSFriendly: ptr(false),
		Weaknesses:  []string{"terse"},
	})
}

func TestTextRendersOnlyPresentSections(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Text(&buf, sampleView()))
	out := buf.String()

	assert.Contains(t, out, "Ada Lovelace\n============")
	assert.Contains(t, out, "Email:    ada@example.com")
	assert.Contains(t, out, "GitHub:   https://github.com/ada")
	assert.Contains(t, out, "Resume Score: 100/100 [####################]")
	assert.Contains(t, out, "[x] Not ATS Friendly")
	assert.Contains(t, out, "Education\n  - BSc, X (2020-2024)\n")
	assert.Contains(t, out, "  - Engineer at Babbage (1843)\n    Notes\n")
	assert.Contains(t, out, "Insights\n  Weaknesses\n    - terse\n")

	assert.NotContains(t, out, "Skills")
	assert.NotContains(t, out, "Strengths")
	assert.NotContains(t, out, "ATS & Gaps")
	assert.NotContains(t, out, "Phone")
}

func TestTextScoreAndATSDefaults(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Text(&buf, projection.Project(&profile.Profile{Name: "B"})))
	out := buf.String()

	assert.Contains(t, out, "Resume Score: 0/100 [....................]")
	assert.NotContains(t, out, "ATS Friendly")
}

func TestTextGapsGroup(t *testing.T) {
	var buf bytes.Buffer
	v := projection.Project(&profile.Profile{ATSIssues: []string{"tables"}, MissingSkills: []string{}})
	require.NoError(t, Text(&buf, v))
	out := buf.String()

	assert.Contains(t, out, "ATS & Gaps\n  ATS Issues\n    - tables\n")
	assert.NotContains(t, out, "Missing Skills")
	assert.True(t, strings.HasPrefix(out, "Unnamed candidate\n"))
}

func TestHTMLPage(t *testing.T) {
	v := sampleView()

	var buf bytes.Buffer
	require.NoError(t, HTML(&buf, Page{Accept: ".pdf,.docx,.doc", MaxSize: "5MB", View: &v}))
	out := buf.String()

	assert.Contains(t, out, `accept=".pdf,.docx,.doc"`)
	assert.Contains(t, out, `<section id="education">`)
	assert.Contains(t, out, "Not ATS Friendly")
	assert.Contains(t, out, "Analyst &lt;script&gt;")
	assert.NotContains(t, out, `<section id="skills">`)
	assert.NotContains(t, out, `<section id="ats_gaps">`)
	assert.NotContains(t, out, "<h4>Strengths</h4>")
	assert.NotContains(t, out, `class="notice`)
}

func TestHTMLNoticesAreSeparate(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, HTML(&buf, Page{Notice: "File size exceeds 5MB."}))
	out := buf.String()
	assert.Contains(t, out, `<div class="notice notice-validation" role="alert">File size exceeds 5MB.</div>`)
	assert.NotContains(t, out, `class="notice notice-error"`)
	assert.NotContains(t, out, `<section id="identity">`)

	buf.Reset()
	require.NoError(t, HTML(&buf, Page{Error: "rate limited"}))
	out = buf.String()
	assert.Contains(t, out, `<div class="notice notice-error" role="alert">rate limited</div>`)
	assert.NotContains(t, out, `class="notice notice-validation"`)
}
