package main

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formbuilder/pkg/renderers/tui"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Build and answer a survey in the terminal",
	Long: `Starts an interactive terminal session. Add questions, preview the form,
answer it, submit and review the result. Ctrl+C leaves the session.`,
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

		style, _ := cmd.Flags().GetString("style")
		options := []tui.Option{tui.WithOutput(cmd.OutOrStdout()), tui.WithLogger(logger)}
		if style != "" {
			options = append(options, tui.WithGlamourStyle(style))
		}

		composer, err := tui.NewComposer(session.Builder(), options...)
		if err != nil {
			return err
		}
		answerer, err := tui.NewAnswerer(session.Form(), options...)
		if err != nil {
			return err
		}
		reviewer, err := tui.NewReviewer(session.Handoff(), options...)
		if err != nil {
			return err
		}
		app, err := tui.NewApp(tui.AppDeps{
			Composer:  composer,
			Answerer:  answerer,
			Reviewer:  reviewer,
			Form:      session.Form(),
			Submitter: session,
		}, options...)
		if err != nil {
			return err
		}
		return app.Run(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().String("style", "", "glamour style (dark, light, notty); auto-detected when empty")
}
