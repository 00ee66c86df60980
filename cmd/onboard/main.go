package main

import (
	"context"
	"os"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/fieldline/onboard/internal/logger"
	"github.com/fieldline/onboard/internal/tui/theme"
)

const (
	logoText1 = "█▀█ █▄ █ █▄▄ █▀█ ▄▀█ █▀█ █▀▄"
	logoText2 = "█▄█ █ ▀█ █▄█ █▄█ █▀█ █▀▄ █▄▀"
)

// Version set via ldflags during build
var version = "dev"

func main() {
	// Ensure logger is closed on exit
	defer func() { _ = logger.Close() }()

	if err := fang.Execute(context.Background(), rootCmd, fang.WithVersion(version)); err != nil {
		logger.Error("Command execution failed: %v", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Terminal wizard for creating your athlete profile",
}

// renderLogo creates the logo with gradient colors
func renderLogo() string {
	t := theme.NewCatppuccinMocha()
	line1 := theme.ApplyGradient(logoText1, t.Primary, t.Secondary)
	line2 := theme.ApplyGradient(logoText2, t.Primary, t.Secondary)
	return strings.Join([]string{line1, line2}, "\n")
}

func init() {
	// Set Long description with logo
	rootCmd.Long = renderLogo() + `

onboard walks you through creating an athlete profile from the terminal:
name and email, a unique nickname with live availability checking, your
sports, social links, and privacy settings, then submits everything to the
profile service in one request.

Configuration is loaded with the following precedence:
  Environment variables > Project config > Global config > Defaults

Project config: ./onboard.yml
Global config: ~/.config/onboard/onboard.yml`

	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(doctorCmd)
}
