package parser

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const (
	parsePath = "/parse-resume"
	userAgent = "spigell/resume-insight"
	// Response bodies longer than this are cut in debug logs.
	maxLogLength = 300
)

// Config describes how to reach the parsing service.
type Config struct {
	BaseURL string `mapstructure:"base-url" validate:"required,url"`
}

// Client submits documents to the parsing service.
type Client struct {
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	BaseURL    string
}

// New checks the configuration and returns a Client. No timeout is set on
// the underlying http.Client: a submission lasts until the service answers
// or the context is cancelled.
func New(cfg Config, logger *zap.Logger) (*Client, error) {
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid parser config: %w", err)
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		logger:     logger,
		HTTPClient: &http.Client{},
		UserAgent:  userAgent,
		BaseURL:    strings.TrimRight(cfg.BaseURL, "/"),
	}, nil
}

// Endpoint returns the absolute URL documents are posted to.
func (c *Client) Endpoint() string {
	return c.BaseURL + parsePath
}
