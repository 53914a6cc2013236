package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formbuilder/internal/httpapi"
	"github.com/goliatone/go-formbuilder/pkg/openapi"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the OpenAPI description of the survey answers",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}
		session, err := newSession(cfg, logger, nil)
		if err != nil {
			return err
		}
		defer session.Close()

		doc, err := openapi.Build(session.Store().Snapshot(),
			openapi.WithTitle(session.Title()),
			openapi.WithPath(httpapi.PathSubmissions),
		)
		if err != nil {
			return err
		}
		if err := doc.Validate(cmd.Context()); err != nil {
			return err
		}

		var target any = doc.Spec()
		if answersOnly, _ := cmd.Flags().GetBool("answers-only"); answersOnly {
			target = doc.AnswersSchema()
		}

		format, _ := cmd.Flags().GetString("format")
		var out []byte
		switch format {
		case "json":
			out, err = openapi.MarshalJSON(target)
		case "yaml":
			out, err = openapi.MarshalYAML(target)
		default:
			return fmt.Errorf("unknown schema format %q", format)
		}
		if err != nil {
			return err
		}
		output, _ := cmd.Flags().GetString("output")
		return writeOutput(cmd, output, out)
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
	schemaCmd.Flags().String("format", "json", "output format: json or yaml")
	schemaCmd.Flags().Bool("answers-only", false, "print only the JSON schema of the answers object")
	schemaCmd.Flags().StringP("output", "o", "", "output file (stdout if empty)")
}
