package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/spf13/cobra"
)

const internalJobTokenHeader = "X-Internal-Job-Token"

func init() {
	rootCmd.AddCommand(runLeaderboardCmd)
	rootCmd.AddCommand(scheduleLeaderboardCmd)
	rootCmd.AddCommand(lockCmd)
	rootCmd.AddCommand(unlockCmd)
	rootCmd.AddCommand(lockStatusCmd)
	rootCmd.AddCommand(refreshFixturesCmd)
	rootCmd.AddCommand(refreshSquadsCmd)
	rootCmd.AddCommand(leaderboardCmd)

	runLeaderboardCmd.Flags().Bool("debug", true, "Include the per-user score breakdown")
	runLeaderboardCmd.Flags().String("reason", "cli", "Trigger recorded with the run")
	scheduleLeaderboardCmd.Flags().Duration("delay", 0, "Delay before the run starts")
	scheduleLeaderboardCmd.Flags().String("reason", "cli", "Reason used in the dispatch id")
	lockStatusCmd.Flags().Int64("fixture", 0, "Fixture id to derive the lock state for")
}

var runLeaderboardCmd = &cobra.Command{
	Use:   "run-leaderboard",
	Short: "Run the leaderboard aggregation now",
	RunE: func(cmd *cobra.Command, _ []string) error {
		debug, _ := cmd.Flags().GetBool("debug")
		reason, _ := cmd.Flags().GetString("reason")
		return doRequest(cmd.Context(), http.MethodPost, "/v1/internal/jobs/leaderboard", map[string]any{
			"reason":        reason,
			"include_debug": debug,
		})
	},
}

var scheduleLeaderboardCmd = &cobra.Command{
	Use:   "schedule-leaderboard",
	Short: "Queue a delayed leaderboard run",
	RunE: func(cmd *cobra.Command, _ []string) error {
		delay, _ := cmd.Flags().GetDuration("delay")
		reason, _ := cmd.Flags().GetString("reason")
		if delay < 0 {
			return fmt.Errorf("delay must not be negative")
		}
		return doRequest(cmd.Context(), http.MethodPost, "/v1/internal/jobs/leaderboard/schedule", map[string]any{
			"delay_seconds": int64(delay / time.Second),
			"reason":        reason,
		})
	},
}

var lockCmd = &cobra.Command{
	Use:   "lock",
	Short: "Disable the lock override so fixture start times close selections",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return doRequest(cmd.Context(), http.MethodPost, "/v1/internal/selections/lock", nil)
	},
}

var unlockCmd = &cobra.Command{
	Use:   "unlock",
	Short: "Enable the lock override so selections stay open",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return doRequest(cmd.Context(), http.MethodPost, "/v1/internal/selections/unlock", nil)
	},
}

var lockStatusCmd = &cobra.Command{
	Use:   "lock-status",
	Short: "Show the lock override and derived lock state",
	RunE: func(cmd *cobra.Command, _ []string) error {
		path := "/v1/selections/lock-status"
		if fixtureID, _ := cmd.Flags().GetInt64("fixture"); fixtureID > 0 {
			path += fmt.Sprintf("?fixture_id=%d", fixtureID)
		}
		return doRequest(cmd.Context(), http.MethodGet, path, nil)
	},
}

var refreshFixturesCmd = &cobra.Command{
	Use:   "refresh-fixtures",
	Short: "Force a fixture list fetch from the provider",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return doRequest(cmd.Context(), http.MethodPost, "/v1/internal/fixtures/refresh", nil)
	},
}

var refreshSquadsCmd = &cobra.Command{
	Use:   "refresh-squads",
	Short: "Refetch every cached squad",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return doRequest(cmd.Context(), http.MethodPost, "/v1/internal/squads/refresh", nil)
	},
}

var leaderboardCmd = &cobra.Command{
	Use:       "leaderboard [league|weekly|daily] [key]",
	Short:     "Print a leaderboard window",
	Args:      cobra.RangeArgs(0, 2),
	ValidArgs: []string{"league", "weekly", "daily"},
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := leaderboardPath(args)
		if err != nil {
			return err
		}
		return doRequest(cmd.Context(), http.MethodGet, path, nil)
	},
}

func leaderboardPath(args []string) (string, error) {
	kind := "league"
	if len(args) > 0 {
		kind = strings.ToLower(strings.TrimSpace(args[0]))
	}
	key := ""
	if len(args) > 1 {
		key = strings.TrimSpace(args[1])
	}

	switch kind {
	case "league":
		return "/v1/leaderboards/league", nil
	case "weekly":
		if key == "" {
			return "/v1/leaderboards/weekly", nil
		}
		return "/v1/leaderboards/weekly?week_start=" + url.QueryEscape(key), nil
	case "daily":
		if key == "" {
			return "/v1/leaderboards/daily", nil
		}
		return "/v1/leaderboards/daily?date=" + url.QueryEscape(key), nil
	default:
		return "", fmt.Errorf("unknown leaderboard %q: use league, weekly or daily", kind)
	}
}

func doRequest(ctx context.Context, method, path string, payload any) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var body io.Reader
	if payload != nil {
		encoded, err := sonic.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	target := strings.TrimRight(host, "/") + path
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(internalJobTokenHeader, token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("%s %s -> %d\n", method, target, resp.StatusCode)
	fmt.Println(string(raw))
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}
	return nil
}
