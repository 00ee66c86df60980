// Command profiled runs the in-memory profile service stub. It exists so the
// wizard can be developed and demoed without the real backend.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/fieldline/onboard/internal/logger"
	"github.com/fieldline/onboard/internal/profiled"
)

// Version set via ldflags during build
var version = "dev"

var rootFlags struct {
	addr      string
	latencyMs int
	taken     []string
}

var rootCmd = &cobra.Command{
	Use:   "profiled",
	Short: "In-memory profile service stub for local development",
	Long: `profiled serves the profile API the onboarding wizard talks to, backed by
an in-memory store. It implements nickname availability lookups and
profile creation with the full error-code taxonomy.

Seed taken nicknames with --taken and add artificial latency with
--latency to exercise the wizard's pending states.`,
	RunE: runServe,
}

func init() {
	rootCmd.Flags().StringVar(&rootFlags.addr, "addr", ":8787", "Listen address")
	rootCmd.Flags().IntVar(&rootFlags.latencyMs, "latency", 0, "Artificial latency added to every request, in milliseconds")
	rootCmd.Flags().StringSliceVar(&rootFlags.taken, "taken", nil, "Nicknames to seed as already taken (repeatable)")
}

func runServe(cmd *cobra.Command, args []string) error {
	srv := profiled.New(profiled.Options{
		Taken:   rootFlags.taken,
		Latency: time.Duration(rootFlags.latencyMs) * time.Millisecond,
	})

	httpSrv := &http.Server{
		Addr:              rootFlags.addr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	fmt.Printf("profiled listening on %s (seeded nicknames: %d)\n", rootFlags.addr, len(rootFlags.taken))
	logger.Info("profiled listening on %s", rootFlags.addr)

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("serving: %w", err)
	}
	return nil
}

func main() {
	defer func() { _ = logger.Close() }()

	if err := fang.Execute(context.Background(), rootCmd, fang.WithVersion(version)); err != nil {
		logger.Error("Command execution failed: %v", err)
		os.Exit(1)
	}
}
