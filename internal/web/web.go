// Package web serves the upload page and a JSON endpoint on top of the same
// validator and parser client the terminal commands use.
package web

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spigell/resume-insight/internal/session"
	"github.com/spigell/resume-insight/internal/upload"
)

// bodyLimit lets oversized documents reach the validator so they get its
// message instead of a bare 413.
const bodyLimit = 4 * upload.MaxBytes

type Config struct {
	Listen string `mapstructure:"listen" validate:"required,hostname_port"`
}

type Server struct {
	app       *fiber.App
	validator *upload.Validator
	submitter session.Submitter
	logger    *zap.Logger
}

func New(validator *upload.Validator, submitter session.Submitter, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		app: fiber.New(fiber.Config{
			AppName:               "resume-insight",
			BodyLimit:             int(bodyLimit),
			DisableStartupMessage: true,
		}),
		validator: validator,
		submitter: submitter,
		logger:    logger,
	}
	s.register()
	return s
}

func (s *Server) register() {
	s.app.Get("/", s.form)
	s.app.Post("/", s.submitForm)

	v1 := s.app.Group("/api").Group("/v1")
	v1.Get("/health", health)
	v1.Post("/parse", s.parse)
}

// App exposes the fiber application, mostly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Listen(addr string) error {
	s.logger.Info("listening", zap.String("addr", addr))
	return s.app.Listen(addr)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
