package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formbuilder/pkg/export"
	"github.com/goliatone/go-formbuilder/pkg/openapi"
	"github.com/goliatone/go-formbuilder/pkg/submission"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Submit recorded answers and export the payload",
	Long: `Applies a JSON or YAML list of answers to the survey, submits it and writes
the resulting payload as JSON, YAML or an XLSX workbook.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}
		rawFormat, _ := cmd.Flags().GetString("format")
		format, err := export.ParseFormat(rawFormat)
		if err != nil {
			return err
		}
		answersPath, _ := cmd.Flags().GetString("answers")
		if answersPath == "" {
			return errors.New("--answers is required")
		}

		session, err := newSession(cfg, logger, nil)
		if err != nil {
			return err
		}
		defer session.Close()

		answers, err := export.LoadAnswers(answersPath)
		if err != nil {
			return err
		}
		if err := session.Form().Apply(answers); err != nil {
			return err
		}
		payload, err := session.Submit()
		if err != nil {
			var invalid *submission.ValidationError
			if errors.As(err, &invalid) {
				for _, issue := range invalid.Issues {
					fmt.Fprintf(cmd.ErrOrStderr(), "%d. %s: %s\n", issue.Index+1, issue.Question, issue.Message)
				}
			}
			return err
		}

		doc, err := openapi.Build(session.Store().Snapshot(), openapi.WithTitle(session.Title()))
		if err != nil {
			return err
		}
		if err := doc.ValidatePayload(payload); err != nil {
			return fmt.Errorf("payload does not match the answers schema: %w", err)
		}

		out, err := export.Encode(format, payload)
		if err != nil {
			return err
		}
		output, _ := cmd.Flags().GetString("output")
		if output == "" && format == export.FormatXLSX {
			return errors.New("--output is required for xlsx")
		}
		return writeOutput(cmd, output, out)
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().String("answers", "", "JSON or YAML answers file")
	exportCmd.Flags().String("format", "json", "payload format: json, yaml or xlsx")
	exportCmd.Flags().StringP("output", "o", "", "output file (stdout if empty)")
}

func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "written to %s\n", path)
	return nil
}
