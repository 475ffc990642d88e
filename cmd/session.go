package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/resume-insight/internal/render"
	"github.com/spigell/resume-insight/internal/session"
	"github.com/spigell/resume-insight/internal/upload"
)

const (
	PromptChoose  = "Choose a resume file"
	PromptSubmit  = "Submit"
	PromptDismiss = "Dismiss notice"
	PromptExit    = "Exit"
)

var errExit = errors.New("exit requested")

var (
	styleNotice  = promptui.Styler(promptui.FGYellow)
	styleError   = promptui.Styler(promptui.FGRed)
	styleSuccess = promptui.Styler(promptui.FGGreen)
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Start an interactive session: pick a resume, submit it and browse the result",
	Run: func(_ *cobra.Command, _ []string) {
		runSession()
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
}

func runSession() {
	ctx := context.Background()
	logger := newLogger()

	validator, client := newClient(logger)
	sess := session.New(validator, client, logger, session.WithObserver(drawState(os.Stdout)))

	logger.Info("starting the resume-insight session", zap.String("version", version))

	for {
		prompt := promptui.Select{
			Label: "What next?",
			Items: menu(sess),
		}

		_, action, err := prompt.Run()
		if err != nil {
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleSessionAction(ctx, action, sess, validator); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

// menu offers Submit only when a submission could start.
func menu(sess *session.Session) []string {
	items := []string{PromptChoose}
	if sess.CanSubmit() {
		items = append(items, PromptSubmit)
	}
	if sess.State().Notice != nil {
		items = append(items, PromptDismiss)
	}
	return append(items, PromptExit)
}

func handleSessionAction(ctx context.Context, action string, sess *session.Session, validator *upload.Validator) error {
	switch action {
	case PromptChoose:
		path, err := askPath(validator)
		if err != nil {
			if errors.Is(err, promptui.ErrInterrupt) {
				return nil
			}
			return err
		}
		choose(sess, path)
		return nil
	case PromptSubmit:
		// Outcomes are drawn by the observer; only a submit that never
		// started needs a word here.
		if err := sess.Submit(ctx); errors.Is(err, session.ErrInFlight) || errors.Is(err, session.ErrNoCandidate) {
			fmt.Fprintln(os.Stdout, styleNotice(err.Error()))
		}
		return nil
	case PromptDismiss:
		sess.DismissNotice()
		return nil
	case PromptExit:
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func askPath(validator *upload.Validator) (string, error) {
	prompt := promptui.Prompt{
		Label: fmt.Sprintf("Path to resume (%s)", strings.Join(validator.Extensions(), ", ")),
		Validate: func(in string) error {
			if strings.TrimSpace(in) == "" {
				return errors.New("path is required")
			}
			return nil
		},
	}
	path, err := prompt.Run()
	return strings.TrimSpace(path), err
}

func choose(sess *session.Session, path string) {
	candidate, err := upload.FromPath(path)
	if err != nil {
		sess.PickFailed(err)
		return
	}
	sess.Select([]upload.Candidate{candidate})
}

// drawState redraws the relevant part of the screen after a transition.
func drawState(w io.Writer) session.Observer {
	return func(st session.State) {
		switch st.Status {
		case session.Idle:
			if st.Notice != nil {
				fmt.Fprintln(w, styleNotice(st.Notice.Message))
			} else if st.Candidate != nil {
				fmt.Fprintf(w, "Selected %s (%s)\n", st.Candidate.Name, upload.FormatLimit(st.Candidate.ByteSize))
			}
		case session.Submitting:
			fmt.Fprintln(w, "Parsing...")
		case session.Succeeded:
			fmt.Fprintln(w, styleSuccess("Parsed successfully"))
			if st.View != nil {
				if err := render.Text(w, *st.View); err != nil {
					fmt.Fprintln(w, styleError(err.Error()))
				}
			}
		case session.Failed:
			fmt.Fprintln(w, styleError(st.Error))
		}
	}
}
