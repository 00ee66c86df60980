package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fieldline/onboard/internal/api"
	"github.com/fieldline/onboard/internal/config"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check configuration and profile service connectivity",
	Long: `Check that onboard is ready to run.

Reports which config files are in use, validates the effective
configuration, and probes the profile service with a nickname
availability request.`,
	RunE: runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) error {
	// Config file discovery
	if fileExists(config.GlobalPath()) {
		fmt.Printf("  ok  global config: %s\n", config.GlobalPath())
	} else {
		fmt.Printf("  --  global config: not found (%s)\n", config.GlobalPath())
	}
	if fileExists(config.ProjectPath()) {
		fmt.Printf("  ok  project config: %s\n", config.ProjectPath())
	} else {
		fmt.Printf("  --  project config: not found (./%s)\n", config.ProjectPath())
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("fail  config: %v\n", err)
		return fmt.Errorf("config is not loadable")
	}
	if err := cfg.Validate(); err != nil {
		fmt.Printf("fail  config: %v\n", err)
		return fmt.Errorf("config is not valid")
	}
	fmt.Printf("  ok  config valid (api_url=%s, debounce=%dms)\n", cfg.APIURL, cfg.DebounceMs)

	if cfg.AuthToken == "" {
		fmt.Println("  --  auth token: not set (profile creation will be unauthenticated)")
	} else {
		fmt.Println("  ok  auth token: set")
	}

	// Probe the availability endpoint; it is idempotent and unauthenticated,
	// so it doubles as a health check.
	client := api.NewClient(cfg.APIURL, cfg.AuthToken, time.Duration(cfg.RequestTimeoutMs)*time.Millisecond)
	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
	defer cancel()

	start := time.Now()
	if _, err := client.CheckNickname(ctx, "doctor_probe"); err != nil {
		fmt.Printf("fail  profile service: %v\n", err)
		return fmt.Errorf("profile service is not reachable at %s", cfg.APIURL)
	}
	fmt.Printf("  ok  profile service reachable (%s, %s)\n", cfg.APIURL, time.Since(start).Round(time.Millisecond))

	fmt.Println("\nAll checks passed. Run 'onboard create' to get started.")
	return nil
}
