package main

import (
	"fmt"
	"os"

	"github.com/hession/askmate/internal/cli"
	"github.com/hession/askmate/internal/config"
	"github.com/hession/askmate/internal/logger"
	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "askmate",
		Short: "AskMate - AI Q&A with live web search",
		Long: `AskMate is a command-line assistant that answers your questions.

Questions that need current information (news, weather, live data) are
answered by retrieving web search results first and grounding the model's
answer in them; everything else is answered directly from the model.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Load configuration; missing credentials fail here
			cfg, err := config.Load()
			if err != nil {
				if lerr := logger.Init(fallbackLoggerConfig()); lerr == nil {
					logger.Error("Startup failed: %v", err)
				}
				return fmt.Errorf("failed to load config: %w", err)
			}

			if err := logger.Init(loggerConfig(cfg)); err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer logger.Close()

			logConfigInfo(cfg)

			// Start CLI
			return cli.Run(cfg)
		},
	}

	// config subcommand
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Show or manage configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			fmt.Println(cfg.String())

			path, _ := config.ConfigPath()
			fmt.Printf("\nConfig file path: %s\n", path)
			return nil
		},
	}

	// version subcommand
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("AskMate v%s\n", version)
		},
	}

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loggerConfig builds the logger configuration from application config
func loggerConfig(cfg *config.Config) logger.Config {
	return logger.Config{
		LogDir:     config.LogDir(),
		Level:      logger.ParseLevel(cfg.Logging.Level),
		MaxDays:    cfg.Logging.MaxDays,
		ConsoleOut: cfg.Logging.Console,
	}
}

// fallbackLoggerConfig is used when startup fails before config is usable
func fallbackLoggerConfig() logger.Config {
	return logger.Config{
		LogDir:     config.LogDir(),
		Level:      logger.INFO,
		ConsoleOut: true,
	}
}

// logConfigInfo records the effective configuration with keys redacted
func logConfigInfo(cfg *config.Config) {
	modelKey := "(not configured)"
	if cfg.Model.APIKey != "" {
		if len(cfg.Model.APIKey) > 8 {
			modelKey = cfg.Model.APIKey[:8] + "..."
		} else {
			modelKey = "***"
		}
	}

	logger.Info("Model: %s @ %s (api key %s)", cfg.Model.Model, cfg.Model.BaseURL, modelKey)
	logger.Info("Web search provider: %s (limit %d, timeout %ds)",
		cfg.WebSearch.Provider, cfg.WebSearch.DefaultLimit, cfg.WebSearch.TimeoutSeconds)
	logger.Info("History enabled: %v", cfg.History.Enabled)
}
