package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	host    string
	token   string
	timeout time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "cricket-cli",
	Short: "Operate the cricket fantasy service",
	Long: `A command-line interface for the internal job endpoints of the cricket
fantasy service: leaderboard runs, the selection lock override and cache refreshes.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&host, "host", envOr("CRICKET_HOST", "http://localhost:8080"), "Base URL of the server")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("INTERNAL_JOB_TOKEN"), "Internal job token")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "Request timeout")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
