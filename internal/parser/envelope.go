package parser

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/spigell/resume-insight/internal/profile"
)

// envelopeSchema only pins what a caller relies on: a status string and an
// object under content.structured. Everything inside the profile is trusted.
const envelopeSchema = `{
  "type": "object",
  "required": ["status", "content"],
  "properties": {
    "status": {"type": "string"},
    "content": {
      "type": "object",
      "required": ["structured"],
      "properties": {
        "structured": {"type": "object"}
      }
    }
  }
}`

var envelopeLoader = gojsonschema.NewStringLoader(envelopeSchema)

// Envelope is a successful parse response.
type Envelope struct {
	Status  string  `json:"status"`
	Content Content `json:"content"`
}

// Content carries the extracted text and the structured profile.
type Content struct {
	Text       string           `json:"text"`
	FileType   string           `json:"file_type"`
	Filename   string           `json:"filename"`
	Structured *profile.Profile `json:"structured"`
}

type rawEnvelope struct {
	Status  string `json:"status"`
	Content struct {
		Text       any            `json:"text"`
		FileType   any            `json:"file_type"`
		Filename   any            `json:"filename"`
		Structured map[string]any `json:"structured"`
	} `json:"content"`
}

// MalformedResponseError is returned when a 2xx body is not a parse response.
type MalformedResponseError struct {
	Problems []string
	Cause    error
}

func (e *MalformedResponseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("malformed response: %v", e.Cause)
	}
	return "malformed response: " + strings.Join(e.Problems, "; ")
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Cause
}

// DecodeEnvelope checks the body against the envelope schema and decodes it.
func DecodeEnvelope(body []byte) (*Envelope, error) {
	result, err := gojsonschema.Validate(envelopeLoader, gojsonschema.NewBytesLoader(body))
	if err != nil {
		return nil, &MalformedResponseError{Cause: err}
	}

	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, re := range result.Errors() {
			problems = append(problems, re.String())
		}
		return nil, &MalformedResponseError{Problems: problems}
	}

	var raw rawEnvelope
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &MalformedResponseError{Cause: err}
	}

	p, err := profile.Decode(raw.Content.Structured)
	if err != nil {
		return nil, &MalformedResponseError{Cause: err}
	}

	return &Envelope{
		Status: raw.Status,
		Content: Content{
			Text:       stringValue(raw.Content.Text),
			FileType:   stringValue(raw.Content.FileType),
			Filename:   stringValue(raw.Content.Filename),
			Structured: p,
		},
	}, nil
}

func stringValue(v any) string {
	s, _ := v.(string)
	return s
}
