package web

import (
	"bytes"
	"errors"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spigell/resume-insight/internal/parser"
	"github.com/spigell/resume-insight/internal/render"
	"github.com/spigell/resume-insight/internal/session"
	"github.com/spigell/resume-insight/internal/upload"
)

const formField = "file"

func (s *Server) form(c *fiber.Ctx) error {
	return s.page(c, fiber.StatusOK, render.Page{})
}

// submitForm handles the form post and always answers with the page.
func (s *Server) submitForm(c *fiber.Ctx) error {
	st, err := s.run(c)

	p := render.Page{View: st.View}
	if st.Notice != nil {
		p.Notice = st.Notice.Message
	}
	if st.Error != "" {
		p.Error = st.Error
	}

	status := fiber.StatusOK
	switch {
	case st.Notice != nil:
		status = fiber.StatusBadRequest
	case err != nil:
		status = fiber.StatusBadGateway
	}
	return s.page(c, status, p)
}

// parse is the JSON flavour of submitForm.
func (s *Server) parse(c *fiber.Ctx) error {
	st, err := s.run(c)

	switch {
	case st.Notice != nil:
		return writeError(c, fiber.StatusBadRequest, st.Notice.Message)
	case err != nil:
		return writeError(c, fiber.StatusBadGateway, st.Error)
	case st.View == nil:
		return writeError(c, fiber.StatusInternalServerError, parser.FallbackMessage)
	}
	return writeJSON(c, fiber.StatusOK, st.View)
}

// run drives a one-request session: pick the first posted file, validate it
// and submit it when accepted.
func (s *Server) run(c *fiber.Ctx) (session.State, error) {
	files := formFiles(c)
	sess := session.New(s.validator, s.submitter, s.logger, session.WithOpener(headerOpener(files)))

	if out := sess.Select(candidates(files)); !out.Accepted() {
		return sess.State(), nil
	}

	err := sess.Submit(c.UserContext())
	if err != nil && !errors.Is(err, session.ErrNoCandidate) {
		s.logger.Debug("request failed", zap.String("path", c.Path()), zap.Error(err))
	}
	return sess.State(), err
}

func (s *Server) page(c *fiber.Ctx, status int, p render.Page) error {
	p.Accept = strings.Join(s.validator.Extensions(), ",")
	p.MaxSize = upload.FormatLimit(s.validator.Config().MaxBytes)

	var buf bytes.Buffer
	if err := render.HTML(&buf, p); err != nil {
		return err
	}
	c.Type("html", "utf-8")
	return c.Status(status).Send(buf.Bytes())
}

func formFiles(c *fiber.Ctx) []*multipart.FileHeader {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	return form.File[formField]
}

func candidates(files []*multipart.FileHeader) []upload.Candidate {
	out := make([]upload.Candidate, 0, len(files))
	for _, fh := range files {
		out = append(out, upload.FromFileHeader(fh))
	}
	return out
}

// headerOpener reads from the first posted file, which is the only one Pick
// ever accepts.
func headerOpener(files []*multipart.FileHeader) session.Opener {
	return func(upload.Candidate) (io.ReadCloser, error) {
		if len(files) == 0 {
			return nil, errors.New("no file posted")
		}
		return files[0].Open()
	}
}
