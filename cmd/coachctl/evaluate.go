package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"alfredoptarigan/interview-coach/internal/bootstrap"
	"alfredoptarigan/interview-coach/internal/config"
	"alfredoptarigan/interview-coach/internal/services"
)

type evaluateOptions struct {
	goal        string
	subType     string
	ageGroup    string
	text        string
	contextText string
	resumePath  string
	audioPath   string
	audioMIME   string
}

func newEvaluateCmd() *cobra.Command {
	opts := &evaluateOptions{}

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate one practice answer through the same pipeline the API uses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			config.SetupLogging(cfg)

			ctx := context.Background()
			app, err := bootstrap.Build(ctx, cfg)
			if err != nil {
				return err
			}

			contentType, body, err := encodeSubmission(opts)
			if err != nil {
				return err
			}

			evaluation, err := app.Evaluator.Evaluate(ctx, contentType, body)
			if err != nil {
				return err
			}

			for _, d := range evaluation.Degradations {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s input skipped: %s\n", d.Input, d.Reason)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(evaluation.Result)
		},
	}

	cmd.Flags().StringVar(&opts.goal, "goal", services.DefaultGoal, "interview goal (see 'coachctl goals')")
	cmd.Flags().StringVar(&opts.subType, "sub-type", services.DefaultSubType, "interview sub-type")
	cmd.Flags().StringVar(&opts.ageGroup, "age-group", "", "candidate age group")
	cmd.Flags().StringVar(&opts.text, "text", "", "typed answer")
	cmd.Flags().StringVar(&opts.contextText, "context", "", "résumé or context notes as plain text")
	cmd.Flags().StringVar(&opts.resumePath, "resume", "", "path to a résumé document (pdf, docx, txt)")
	cmd.Flags().StringVar(&opts.audioPath, "audio", "", "path to a recorded answer")
	cmd.Flags().StringVar(&opts.audioMIME, "audio-type", "", "MIME type of the recording (default audio/wav)")

	return cmd
}

// encodeSubmission renders the options as the multipart body the API accepts.
func encodeSubmission(opts *evaluateOptions) (string, io.Reader, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := []struct{ name, value string }{
		{services.FieldGoal, opts.goal},
		{services.FieldSubType, opts.subType},
		{services.FieldAgeGroup, opts.ageGroup},
		{services.FieldTextInput, opts.text},
		{services.FieldContextText, opts.contextText},
	}
	for _, f := range fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return "", nil, err
		}
	}

	if opts.resumePath != "" {
		if err := attachFile(w, services.FieldResumeFile, opts.resumePath, ""); err != nil {
			return "", nil, err
		}
	}
	if opts.audioPath != "" {
		if err := attachFile(w, services.FieldAudioFile, opts.audioPath, opts.audioMIME); err != nil {
			return "", nil, err
		}
	}

	if err := w.Close(); err != nil {
		return "", nil, err
	}
	return w.FormDataContentType(), &buf, nil
}

func attachFile(w *multipart.Writer, field, path, mimeType string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filepath.Base(path)))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	header.Set("Content-Type", mimeType)

	part, err := w.CreatePart(header)
	if err != nil {
		return err
	}
	_, err = io.Copy(part, f)
	return err
}
