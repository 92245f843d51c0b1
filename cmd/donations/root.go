package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"donationtracker/internal/client"
)

// Global flags.
var (
	flagBaseURL string
	flagTimeout time.Duration
)

var api *client.Client

var rootCmd = &cobra.Command{
	Use:   "donations",
	Short: "Manage donations through the donation tracker API",
	Long: `donations is a command-line client for the donation tracker API.

Examples:
  donations list
  donations get donation_1
  donations create --donor "John Smith" --type money --quantity 100 --unit dollars --date 2024-01-15
  donations update donation_1 --quantity 250
  donations delete donation_1
  donations stats`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		var err error
		api, err = client.New(flagBaseURL, client.WithTimeout(flagTimeout))
		return err
	},
}

func init() {
	_ = godotenv.Load()

	baseURL := os.Getenv("DONATIONS_API_URL")
	if baseURL == "" {
		baseURL = client.DefaultBaseURL
	}
	rootCmd.PersistentFlags().StringVar(&flagBaseURL, "api", baseURL, "API base URL (env DONATIONS_API_URL)")
	rootCmd.PersistentFlags().DurationVar(&flagTimeout, "timeout", 10*time.Second, "Request timeout")
}

// printJSON writes v indented when stdout is a terminal and compact otherwise.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	if f, ok := w.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}
