package main

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formbuilder/pkg/orchestrator"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Render the survey document with the selected renderer",
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

		out, err := session.Render(cmd.Context(), orchestrator.Request{Renderer: cfg.Renderer})
		if err != nil {
			return err
		}
		output, _ := cmd.Flags().GetString("output")
		return writeOutput(cmd, output, out)
	},
}

func init() {
	rootCmd.AddCommand(previewCmd)
	previewCmd.Flags().StringP("output", "o", "", "output file (stdout if empty)")
}
