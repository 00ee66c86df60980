package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fieldline/onboard/internal/config"
	"github.com/fieldline/onboard/internal/logger"
	"github.com/fieldline/onboard/internal/tui/onboard"
)

var createFlags struct {
	apiURL string
	token  string
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create your athlete profile",
	Long: `Create your athlete profile through the onboarding wizard.

The wizard collects your name, email, and date of birth, a unique nickname
(checked live against the profile service), your sports, optional social
links, and privacy settings, then submits everything in one request.

Configuration is loaded from multiple sources with the following precedence:
  CLI flags > Environment variables > Project config > Global config > Defaults

Project config: ./onboard.yml
Global config: ~/.config/onboard/onboard.yml`,
	RunE: runCreate,
}

func init() {
	createCmd.Flags().StringVar(&createFlags.apiURL, "api-url", "", "Profile service base URL (overrides config)")
	createCmd.Flags().StringVar(&createFlags.token, "token", "", "Bearer token for the profile service (overrides config)")
}

func runCreate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// CLI flags take precedence over everything
	if createFlags.apiURL != "" {
		cfg.APIURL = createFlags.apiURL
	}
	if createFlags.token != "" {
		cfg.AuthToken = createFlags.token
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	// Initialize logger from config
	if err := logger.Init(cfg.LogLevel, cfg.LogFile); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("Starting onboarding wizard (api: %s)", cfg.APIURL)
	if err := onboard.Run(cfg); err != nil {
		return fmt.Errorf("onboarding failed: %w", err)
	}

	return nil
}
