package upload

import (
	"fmt"
	"mime"
	"strings"

	"github.com/go-playground/validator/v10"
)

// MaxBytes is the largest document accepted for parsing (5MB).
const MaxBytes int64 = 5_242_880

// FileType names a document format accepted by the parsing service.
type FileType string

const (
	TypePDF  FileType = "pdf"
	TypeDOCX FileType = "docx"
	TypeDOC  FileType = "doc"
)

var mimeTypes = map[FileType]string{
	TypePDF:  "application/pdf",
	TypeDOCX: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	TypeDOC:  "application/msword",
}

// MIMEType returns the canonical media type of the format.
func (t FileType) MIMEType() string {
	return mimeTypes[t]
}

// Extension returns the file name extension of the format, including the dot.
func (t FileType) Extension() string {
	return "." + string(t)
}

// TypeForExtension maps a file name extension to a known format.
func TypeForExtension(ext string) (FileType, bool) {
	ext = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ext)), ".")
	t := FileType(ext)
	if _, ok := mimeTypes[t]; !ok {
		return "", false
	}
	return t, true
}

// TypeForMIME maps a declared media type to a known format. Parameters and
// case are ignored.
func TypeForMIME(declared string) (FileType, bool) {
	mediaType, _, err := mime.ParseMediaType(declared)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(declared))
	}
	for t, m := range mimeTypes {
		if m == mediaType {
			return t, true
		}
	}
	return "", false
}

// Candidate is the single document picked for submission.
type Candidate struct {
	Name         string `json:"name"`
	ByteSize     int64  `json:"byte_size"`
	DeclaredType string `json:"declared_type"`

	// Path is set when the candidate was picked from the local file system.
	Path string `json:"-"`
}

// Reason classifies a rejected candidate.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonUnsupportedType
	ReasonTooLarge
	ReasonOther
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonUnsupportedType:
		return "unsupported_type"
	case ReasonTooLarge:
		return "too_large"
	case ReasonOther:
		return "other"
	default:
		return fmt.Sprintf("reason(%d)", int(r))
	}
}

// Outcome is the result of validating a candidate: either accepted with the
// candidate, or rejected with a reason and a message for the user.
type Outcome struct {
	Candidate *Candidate
	Reason    Reason
	Message   string
}

// Accepted reports whether the candidate may be submitted.
func (o Outcome) Accepted() bool {
	return o.Reason == ReasonNone && o.Candidate != nil
}

// Accept builds an accepted outcome.
func Accept(c Candidate) Outcome {
	return Outcome{Candidate: &c}
}

// Reject builds a rejected outcome.
func Reject(reason Reason, message string) Outcome {
	return Outcome{Reason: reason, Message: message}
}

// Config holds the rules a candidate is checked against.
type Config struct {
	MaxBytes     int64      `validate:"gt=0"`
	AllowedTypes []FileType `validate:"min=1,dive,oneof=pdf docx doc"`
}

// DefaultConfig allows pdf, docx and doc documents up to 5MB.
func DefaultConfig() Config {
	return Config{
		MaxBytes:     MaxBytes,
		AllowedTypes: []FileType{TypePDF, TypeDOCX, TypeDOC},
	}
}

// Validator checks candidates against a Config. It has no side effects.
type Validator struct {
	cfg     Config
	allowed map[FileType]struct{}
}

// NewValidator checks the rules and returns a Validator enforcing them.
func NewValidator(cfg Config) (*Validator, error) {
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid upload rules: %w", err)
	}

	allowed := make(map[FileType]struct{}, len(cfg.AllowedTypes))
	for _, t := range cfg.AllowedTypes {
		allowed[t] = struct{}{}
	}

	return &Validator{cfg: cfg, allowed: allowed}, nil
}

// Validate evaluates a single candidate. The type check runs before the
// size check, so an unsupported file is reported as such whatever its size.
func (v *Validator) Validate(c Candidate) Outcome {
	t, ok := TypeForMIME(c.DeclaredType)
	if _, allowed := v.allowed[t]; !ok || !allowed {
		return Reject(ReasonUnsupportedType, v.typeMessage())
	}

	if c.ByteSize > v.cfg.MaxBytes {
		return Reject(ReasonTooLarge, fmt.Sprintf("File size exceeds %s.", FormatLimit(v.cfg.MaxBytes)))
	}

	return Accept(c)
}

// Pick validates the first candidate only. Further candidates are ignored;
// picking nothing is rejected.
func (v *Validator) Pick(candidates []Candidate) Outcome {
	if len(candidates) == 0 {
		return Reject(ReasonOther, "No file selected.")
	}
	return v.Validate(candidates[0])
}

// Config returns the rules enforced by the validator.
func (v *Validator) Config() Config {
	return v.cfg
}

// Extensions lists the accepted extensions in configuration order.
func (v *Validator) Extensions() []string {
	exts := make([]string, 0, len(v.cfg.AllowedTypes))
	for _, t := range v.cfg.AllowedTypes {
		exts = append(exts, t.Extension())
	}
	return exts
}

func (v *Validator) typeMessage() string {
	return "File type must be one of: " + strings.Join(v.Extensions(), ", ")
}

// FormatLimit prints a byte limit the way validation messages do, e.g. 5MB.
func FormatLimit(n int64) string {
	const mb = 1 << 20
	if n%mb == 0 {
		return fmt.Sprintf("%dMB", n/mb)
	}
	return fmt.Sprintf("%d bytes", n)
}
