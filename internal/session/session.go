// Package session owns the state of one interactive upload session: the
// picked document, the validation notice, and the submission result.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/spigell/resume-insight/internal/logger"
	"github.com/spigell/resume-insight/internal/parser"
	"github.com/spigell/resume-insight/internal/projection"
	"github.com/spigell/resume-insight/internal/upload"
)

var (
	// ErrNoCandidate is returned by Submit when no valid document is picked.
	ErrNoCandidate = errors.New("no valid document selected")
	// ErrInFlight is returned by Submit while another submission runs.
	ErrInFlight = errors.New("a submission is already in progress")
)

type Status int

const (
	Idle Status = iota
	Validating
	Submitting
	Succeeded
	Failed
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Validating:
		return "validating"
	case Submitting:
		return "submitting"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// State is a snapshot of the session. Notice holds the last rejected
// validation outcome and Error the last submission failure; they are never
// mixed.
type State struct {
	Status    Status
	Candidate *upload.Candidate
	Notice    *upload.Outcome
	Envelope  *parser.Envelope
	View      *projection.View
	Error     string
}

// Submitter sends a document to the parsing service.
type Submitter interface {
	Parse(ctx context.Context, candidate upload.Candidate, document io.Reader) (*parser.Envelope, error)
}

// Opener returns the bytes of a picked document.
type Opener func(c upload.Candidate) (io.ReadCloser, error)

// Observer is called after every state transition.
type Observer func(State)

type Option func(*Session)

// WithObserver registers a callback run after each transition.
func WithObserver(o Observer) Option {
	return func(s *Session) {
		s.observers = append(s.observers, o)
	}
}

// WithOpener replaces how document bytes are read. The default opens
// Candidate.Path.
func WithOpener(o Opener) Option {
	return func(s *Session) {
		s.open = o
	}
}

type Session struct {
	mu        sync.Mutex
	state     State
	inFlight  bool
	selection uint64

	validator *upload.Validator
	submitter Submitter
	open      Opener
	observers []Observer
	logger    *zap.Logger
}

func New(validator *upload.Validator, submitter Submitter, logger *zap.Logger, opts ...Option) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Session{
		validator: validator,
		submitter: submitter,
		open:      openPath,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns a snapshot of the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// CanSubmit reports whether Submit would start a submission.
func (s *Session) CanSubmit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Candidate != nil && !s.inFlight
}

// Select starts over with a new pick: the previous result, submission error
// and notice are cleared before the first candidate is validated. Extra
// candidates are ignored.
func (s *Session) Select(candidates []upload.Candidate) upload.Outcome {
	if len(candidates) > 1 {
		s.logger.Debug("ignoring extra files", zap.Int("ignored", len(candidates)-1))
	}

	s.startSelection()
	return s.finishSelection(s.validator.Pick(candidates))
}

// PickFailed records a pick that never produced a candidate, for example an
// unreadable path.
func (s *Session) PickFailed(err error) upload.Outcome {
	s.startSelection()
	return s.finishSelection(upload.Reject(upload.ReasonOther, err.Error()))
}

// DismissNotice clears the validation notice.
func (s *Session) DismissNotice() {
	s.mu.Lock()
	if s.state.Notice == nil {
		s.mu.Unlock()
		return
	}
	s.state.Notice = nil
	snapshot := s.state
	s.mu.Unlock()

	s.notify(snapshot)
}

// Submit sends the picked document and blocks until the service answers. It
// returns ErrNoCandidate or ErrInFlight without side effects when a
// submission cannot start; otherwise the outcome is recorded in the state
// and a failure is also returned.
func (s *Session) Submit(ctx context.Context) error {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return ErrInFlight
	}
	if s.state.Candidate == nil {
		s.mu.Unlock()
		return ErrNoCandidate
	}

	candidate := *s.state.Candidate
	selection := s.selection
	s.inFlight = true
	s.state.Status = Submitting
	s.state.Envelope = nil
	s.state.View = nil
	s.state.Error = ""
	snapshot := s.state
	s.mu.Unlock()

	s.notify(snapshot)

	log := logger.WithFields(s.logger, logger.UploadFields(candidate.Name, candidate.DeclaredType, candidate.ByteSize)...)
	envelope, err := s.submit(ctx, candidate)

	s.mu.Lock()
	s.inFlight = false
	if s.selection != selection {
		// A new pick replaced the document while the request ran.
		s.mu.Unlock()
		log.Debug("dropping result of a replaced document")
		return err
	}

	if err != nil {
		s.state.Status = Failed
		s.state.Error = parser.Message(err)
		log.Warn("submission failed", zap.String("message", s.state.Error))
	} else {
		view := projection.Project(envelope.Content.Structured)
		s.state.Status = Succeeded
		s.state.Envelope = envelope
		s.state.View = &view
		s.state.Candidate = nil
		log.Info("submission succeeded", zap.Strings("sections", sectionNames(view)))
	}
	snapshot = s.state
	s.mu.Unlock()

	s.notify(snapshot)
	return err
}

func (s *Session) submit(ctx context.Context, candidate upload.Candidate) (*parser.Envelope, error) {
	document, err := s.open(candidate)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", candidate.Name, err)
	}
	defer document.Close()

	return s.submitter.Parse(ctx, candidate, document)
}

func (s *Session) startSelection() {
	s.mu.Lock()
	s.selection++
	s.state = State{Status: Validating}
	snapshot := s.state
	s.mu.Unlock()

	s.notify(snapshot)
}

func (s *Session) finishSelection(outcome upload.Outcome) upload.Outcome {
	s.mu.Lock()
	s.state.Status = Idle
	if outcome.Accepted() {
		s.state.Candidate = outcome.Candidate
		s.logger.Debug("document accepted", logger.UploadFields(outcome.Candidate.Name, outcome.Candidate.DeclaredType, outcome.Candidate.ByteSize)...)
	} else {
		rejected := outcome
		s.state.Notice = &rejected
		s.logger.Debug("document rejected", zap.Stringer("reason", outcome.Reason), zap.String("message", outcome.Message))
	}
	snapshot := s.state
	s.mu.Unlock()

	s.notify(snapshot)
	return outcome
}

func (s *Session) notify(state State) {
	for _, o := range s.observers {
		o(state)
	}
}

func openPath(c upload.Candidate) (io.ReadCloser, error) {
	if c.Path == "" {
		return nil, errors.New("document has no path")
	}
	return os.Open(c.Path)
}

func sectionNames(v projection.View) []string {
	sections := v.Sections()
	names := make([]string, 0, len(sections))
	for _, sec := range sections {
		names = append(names, string(sec))
	}
	return names
}
