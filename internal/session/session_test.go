package session

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/spigell/resume-insight/internal/parser"
	"github.com/spigell/resume-insight/internal/profile"
	"github.com/spigell/resume-insight/internal/upload"
)

type stubSubmitter struct {
	mu       sync.Mutex
	calls    int
	envelope *parser.Envelope
	err      error
	// block, when set, holds Parse until it is closed.
	block   chan struct{}
	started chan struct{}
}

func (s *stubSubmitter) Parse(_ context.Context, _ upload.Candidate, document io.Reader) (*parser.Envelope, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()

	if _, err := io.ReadAll(document); err != nil {
		return nil, err
	}
	if s.started != nil {
		close(s.started)
	}
	if s.block != nil {
		<-s.block
	}
	return s.envelope, s.err
}

func memOpener(upload.Candidate) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("%PDF-1.4")), nil
}

func newSession(t *testing.T, sub Submitter, opts ...Option) *Session {
	t.Helper()
	v, err := upload.NewValidator(upload.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	return New(v, sub, zap.NewNop(), append([]Option{WithOpener(memOpener)}, opts...)...)
}

var (
	pdf = upload.Candidate{Name: "cv.pdf", ByteSize: 10, DeclaredType: "application/pdf"}
	png = upload.Candidate{Name: "cv.png", ByteSize: 10, DeclaredType: "image/png"}
)

func okEnvelope() *parser.Envelope {
	return &parser.Envelope{
		Status:  "success",
		Content: parser.Content{Structured: &profile.Profile{Name: "Ada", Skills: []string{"go"}}},
	}
}

func TestSelectValidatesFirstCandidate(t *testing.T) {
	var statuses []Status
	s := newSession(t, &stubSubmitter{}, WithObserver(func(st State) { statuses = append(statuses, st.Status) }))

	out := s.Select([]upload.Candidate{pdf, png})
	if !out.Accepted() {
		t.Fatalf("expected first candidate to be accepted: %+v", out)
	}

	st := s.State()
	if st.Status != Idle || st.Candidate == nil || st.Candidate.Name != "cv.pdf" || st.Notice != nil {
		t.Fatalf("unexpected state: %+v", st)
	}
	if !s.CanSubmit() {
		t.Fatalf("expected submit to be enabled")
	}

	if len(statuses) != 2 || statuses[0] != Validating || statuses[1] != Idle {
		t.Fatalf("unexpected transitions: %v", statuses)
	}
}

func TestRejectedSelectionSetsNoticeOnly(t *testing.T) {
	s := newSession(t, &stubSubmitter{envelope: okEnvelope()})

	s.Select([]upload.Candidate{pdf})
	if err := s.Submit(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := s.Select([]upload.Candidate{png})
	if out.Reason != upload.ReasonUnsupportedType {
		t.Fatalf("expected unsupported type, got %s", out.Reason)
	}

	st := s.State()
	if st.Notice == nil || st.Notice.Message != "File type must be one of: .pdf, .docx, .doc" {
		t.Fatalf("expected validation notice, got %+v", st.Notice)
	}
	if st.Error != "" {
		t.Fatalf("validation must not set a submission error: %q", st.Error)
	}
	if st.View != nil || st.Envelope != nil {
		t.Fatalf("expected previous result to be cleared on new selection")
	}
	if s.CanSubmit() {
		t.Fatalf("expected submit to be disabled")
	}
	if err := s.Submit(context.Background()); !errors.Is(err, ErrNoCandidate) {
		t.Fatalf("expected ErrNoCandidate, got %v", err)
	}

	s.DismissNotice()
	if s.State().Notice != nil {
		t.Fatalf("expected notice to be dismissed")
	}
}

func TestSubmitSuccess(t *testing.T) {
	sub := &stubSubmitter{envelope: okEnvelope()}
	var statuses []Status
	s := newSession(t, sub, WithObserver(func(st State) { statuses = append(statuses, st.Status) }))

	s.Select([]upload.Candidate{pdf})
	if err := s.Submit(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	st := s.State()
	if st.Status != Succeeded || st.View == nil || st.View.Name != "Ada" {
		t.Fatalf("unexpected state: %+v", st)
	}
	if st.Candidate != nil {
		t.Fatalf("expected candidate to be cleared after success")
	}
	if sub.calls != 1 {
		t.Fatalf("expected one call, got %d", sub.calls)
	}

	expect := []Status{Validating, Idle, Submitting, Succeeded}
	if len(statuses) != len(expect) {
		t.Fatalf("unexpected transitions: %v", statuses)
	}
	for i := range expect {
		if statuses[i] != expect[i] {
			t.Fatalf("unexpected transitions: %v", statuses)
		}
	}
}

func TestSubmitFailureKeepsCandidateForRetry(t *testing.T) {
	sub := &stubSubmitter{err: &parser.APIError{StatusCode: 500, Status: "500 Internal Server Error", Detail: "rate limited"}}
	s := newSession(t, sub)

	s.Select([]upload.Candidate{pdf})
	if err := s.Submit(context.Background()); err == nil {
		t.Fatal("expected submission error")
	}

	st := s.State()
	if st.Status != Failed || st.Error != "rate limited" {
		t.Fatalf("unexpected state: %+v", st)
	}
	if st.Notice != nil {
		t.Fatalf("submission failure must not set a validation notice")
	}
	if !s.CanSubmit() {
		t.Fatalf("expected retry to be possible")
	}

	sub.err = nil
	sub.envelope = okEnvelope()
	if err := s.Submit(context.Background()); err != nil {
		t.Fatalf("unexpected error on retry: %v", err)
	}
	if s.State().Status != Succeeded {
		t.Fatalf("expected success on retry")
	}
}

func TestSubmitClearsPreviousResultWhenStarting(t *testing.T) {
	sub := &stubSubmitter{envelope: okEnvelope()}
	var sawCleared bool
	s := newSession(t, sub, WithObserver(func(st State) {
		if st.Status == Submitting {
			sawCleared = st.View == nil && st.Error == ""
		}
	}))

	s.Select([]upload.Candidate{pdf})
	sub.err = errors.New("boom")
	_ = s.Submit(context.Background())

	sub.err = nil
	if err := s.Submit(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !sawCleared {
		t.Fatalf("expected error to be cleared when the submission started")
	}
}

func TestSingleSubmissionInFlight(t *testing.T) {
	sub := &stubSubmitter{envelope: okEnvelope(), block: make(chan struct{}), started: make(chan struct{})}
	s := newSession(t, sub)
	s.Select([]upload.Candidate{pdf})

	done := make(chan error, 1)
	go func() { done <- s.Submit(context.Background()) }()

	<-sub.started
	if s.CanSubmit() {
		t.Fatalf("expected submit to be disabled while in flight")
	}
	if err := s.Submit(context.Background()); !errors.Is(err, ErrInFlight) {
		t.Fatalf("expected ErrInFlight, got %v", err)
	}
	if st := s.State(); st.Status != Submitting {
		t.Fatalf("expected submitting state, got %s", st.Status)
	}

	close(sub.block)
	if err := <-done; err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sub.calls != 1 {
		t.Fatalf("expected exactly one call, got %d", sub.calls)
	}
}

func TestNewSelectionDropsInFlightResult(t *testing.T) {
	sub := &stubSubmitter{envelope: okEnvelope(), block: make(chan struct{}), started: make(chan struct{})}
	s := newSession(t, sub)
	s.Select([]upload.Candidate{pdf})

	done := make(chan error, 1)
	go func() { done <- s.Submit(context.Background()) }()
	<-sub.started

	docx := upload.Candidate{Name: "cv.docx", ByteSize: 1, DeclaredType: upload.TypeDOCX.MIMEType()}
	s.Select([]upload.Candidate{docx})

	close(sub.block)
	<-done

	st := s.State()
	if st.Status != Idle || st.View != nil {
		t.Fatalf("expected the new pick to win, got %+v", st)
	}
	if st.Candidate == nil || st.Candidate.Name != "cv.docx" {
		t.Fatalf("expected new candidate to stay selected, got %+v", st.Candidate)
	}
	if !s.CanSubmit() {
		t.Fatalf("expected submit to be enabled once the old request finished")
	}
}

func TestPickFailed(t *testing.T) {
	s := newSession(t, &stubSubmitter{})

	out := s.PickFailed(errors.New("permission denied"))
	if out.Reason != upload.ReasonOther || out.Message != "permission denied" {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if st := s.State(); st.Notice == nil || st.Notice.Reason != upload.ReasonOther {
		t.Fatalf("expected notice for failed pick, got %+v", st)
	}
}

func TestOpenerFailureIsSubmissionError(t *testing.T) {
	s := newSession(t, &stubSubmitter{}, WithOpener(func(upload.Candidate) (io.ReadCloser, error) {
		return nil, errors.New("file vanished")
	}))

	s.Select([]upload.Candidate{pdf})
	if err := s.Submit(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if st := s.State(); st.Status != Failed || !strings.Contains(st.Error, "file vanished") {
		t.Fatalf("unexpected state: %+v", st)
	}
}
