package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/resume-insight/internal/projection"
	"github.com/spigell/resume-insight/internal/render"
	"github.com/spigell/resume-insight/internal/session"
	"github.com/spigell/resume-insight/internal/upload"
)

const (
	outputText = "text"
	outputJSON = "json"
)

var parseCmd = &cobra.Command{
	Use:   "parse FILE",
	Short: "Validate a resume, send it to the parsing service and print the result",
	Long: "Validate a resume, send it to the parsing service and print the result.\n" +
		"Only the first file is used when several are given.",
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		parse(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringP("output", "o", outputText, "output format: text or json")
}

func parse(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	logger := newLogger()

	output, _ := cmd.Flags().GetString("output")
	if output != outputText && output != outputJSON {
		logger.Fatal("unsupported output format", zap.String("output", output))
	}

	validator, client := newClient(logger)
	sess := session.New(validator, client, logger)

	var outcome upload.Outcome
	candidates, err := upload.Candidates(args)
	if err != nil {
		outcome = sess.PickFailed(err)
	} else {
		outcome = sess.Select(candidates)
	}
	if !outcome.Accepted() {
		logger.Fatal("document rejected", zap.Stringer("reason", outcome.Reason), zap.String("message", outcome.Message))
	}

	if err := sess.Submit(ctx); err != nil {
		logger.Fatal("parsing failed", zap.String("message", sess.State().Error), zap.Error(err))
	}

	if err := writeView(os.Stdout, output, *sess.State().View); err != nil {
		logger.Fatal("printing the result", zap.Error(err))
	}
}

func writeView(w io.Writer, output string, view projection.View) error {
	if output == outputJSON {
		pretty, err := json.MarshalIndent(view, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(pretty))
		return err
	}
	return render.Text(w, view)
}
