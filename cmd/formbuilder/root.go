package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formbuilder/internal/config"
	"github.com/goliatone/go-formbuilder/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "formbuilder",
	Short: "Build a survey, answer it and review the submission",
	Long: `formbuilder composes a survey out of Paragraph and CheckBox questions.
Questions can be added interactively in the terminal or through the web form,
answered, submitted and reviewed once.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "YAML configuration file")
	flags.StringSlice("env-file", nil, "dotenv files to load (default .env)")
	flags.StringP("questions", "q", "", "JSON or YAML survey document to preload")
	flags.String("renderer", "", "renderer used for previews")
	flags.String("restore", "", "answer restore strategy: position or identity")
	flags.String("log-level", "", "log level: debug, info, warn or error")
	flags.String("log-format", "", "log format: text or json")
}

// loadConfig reads the configuration and applies any flags that were set
// explicitly on the command line.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	envFiles, _ := cmd.Flags().GetStringSlice("env-file")
	cfg, err := config.Load(path, envFiles...)
	if err != nil {
		return config.Config{}, err
	}

	overrides := map[string]*string{
		"questions":  &cfg.Questions,
		"renderer":   &cfg.Renderer,
		"restore":    &cfg.Restore,
		"log-level":  &cfg.Log.Level,
		"log-format": &cfg.Log.Format,
	}
	for name, target := range overrides {
		if cmd.Flags().Changed(name) {
			*target, _ = cmd.Flags().GetString(name)
		}
	}
	if cmd.Flags().Lookup("addr") != nil && cmd.Flags().Changed("addr") {
		cfg.HTTP.Addr, _ = cmd.Flags().GetString("addr")
	}
	return cfg, cfg.Validate()
}

func newLogger(cfg config.Config) (*slog.Logger, error) {
	return logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
}
