package parser

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/resume-insight/internal/logger"
	"github.com/spigell/resume-insight/internal/upload"
	"github.com/spigell/resume-insight/internal/utils"
)

const (
	fileField       = "file"
	requestIDHeader = "X-Request-ID"
	defaultFileType = "application/octet-stream"

	// FallbackMessage is shown when a failed submission carries no message.
	FallbackMessage = "An unexpected error occurred while parsing."
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// APIError is returned for non-2xx responses. Detail holds the service's
// own explanation when the body had one.
type APIError struct {
	StatusCode int
	Status     string
	Detail     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("bad status: %s", e.Status)
}

// Message picks the text shown to the user for a failed submission: the
// service's detail, then the error text, then FallbackMessage.
func Message(err error) string {
	if err == nil {
		return ""
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) && strings.TrimSpace(apiErr.Detail) != "" {
		return apiErr.Detail
	}

	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}

	return FallbackMessage
}

// Parse posts the document as a single multipart part named "file" and
// decodes the parse response. It makes exactly one attempt.
func (c *Client) Parse(ctx context.Context, candidate upload.Candidate, document io.Reader) (*Envelope, error) {
	requestID := uuid.NewString()
	log := logger.WithFields(c.logger, logger.UploadFields(candidate.Name, candidate.DeclaredType, candidate.ByteSize)...).
		With(zap.String(logger.FieldRequestID, requestID))

	body, contentType, err := multipartBody(candidate, document)
	if err != nil {
		return nil, fmt.Errorf("building request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint(), body)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set(requestIDHeader, requestID)

	log.Info("submitting document", zap.String("url", req.URL.String()))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		log.Warn("submission failed", zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	log.Debug("got response from parser",
		zap.Int("status_code", resp.StatusCode),
		zap.Int("response_length", len(data)),
		zap.String("response_preview", utils.BodyPreview(data, maxLogLength)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Detail:     detail(data),
		}
		log.Warn("parser rejected document", zap.Error(apiErr), zap.String("detail", apiErr.Detail))
		return nil, apiErr
	}

	envelope, err := DecodeEnvelope(data)
	if err != nil {
		log.Warn("parser returned malformed body", zap.Error(err))
		return nil, err
	}

	log.Info("document parsed", zap.String("status", envelope.Status))
	return envelope, nil
}

func multipartBody(candidate upload.Candidate, document io.Reader) (*bytes.Buffer, string, error) {
	var b bytes.Buffer
	w := multipart.NewWriter(&b)

	fileType := candidate.DeclaredType
	if fileType == "" {
		fileType = defaultFileType
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		fileField, quoteEscaper.Replace(candidate.Name)))
	h.Set("Content-Type", fileType)

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}

	if _, err := io.Copy(part, document); err != nil {
		return nil, "", err
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}

	return &b, w.FormDataContentType(), nil
}

// detail extracts a string "detail" field from an error body.
func detail(body []byte) string {
	var payload struct {
		Detail any `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}

	s, _ := payload.Detail.(string)
	return s
}
