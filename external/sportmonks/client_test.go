package sportmonks

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/cricket-fantasy/internal/domain/fixture"
	"github.com/riskibarqy/cricket-fantasy/internal/platform/resilience"
	"github.com/riskibarqy/cricket-fantasy/internal/usecase"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, mutate func(*ClientConfig)) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := ClientConfig{
		HTTPClient:   server.Client(),
		BaseURL:      server.URL,
		Token:        "secret-token",
		RetryBackoff: time.Millisecond,
	}
	if mutate != nil {
		mutate(&cfg)
	}
	return NewClient(cfg)
}

func TestFetchFixtures_BuildsQueryAndMapsTeams(t *testing.T) {
	var gotQuery map[string]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/fixtures" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		q := r.URL.Query()
		gotQuery = map[string]string{
			"starts_between": q.Get("filter[starts_between]"),
			"league":         q.Get("filter[league_id]"),
			"include":        q.Get("include"),
			"token":          q.Get("api_token"),
		}
		_, _ = w.Write([]byte(`{"data":[{"id":900,"league_id":1,"season_id":1484,"localteam_id":2,"visitorteam_id":3,
			"starting_at":"2024-04-10T14:00:00.000000Z","status":"NS","live":false,
			"localteam":{"id":2,"name":"Chennai Super Kings","code":"CSK"},
			"visitorteam":{"data":{"id":3,"name":"Mumbai Indians","code":"MI"}}}]}`))
	}, func(cfg *ClientConfig) { cfg.LeagueID = 1 })

	from := time.Date(2024, 4, 9, 12, 0, 0, 0, time.UTC)
	to := time.Date(2024, 4, 12, 12, 0, 0, 0, time.UTC)
	fixtures, err := client.FetchFixtures(context.Background(), from, to)
	if err != nil {
		t.Fatalf("fetch fixtures: %v", err)
	}

	if gotQuery["starts_between"] != "2024-04-09,2024-04-12" {
		t.Fatalf("unexpected starts_between: %q", gotQuery["starts_between"])
	}
	if gotQuery["league"] != "1" || gotQuery["include"] != "localteam,visitorteam" || gotQuery["token"] != "secret-token" {
		t.Fatalf("unexpected query: %+v", gotQuery)
	}
	if len(fixtures) != 1 {
		t.Fatalf("expected one fixture, got %d", len(fixtures))
	}
	f := fixtures[0]
	if f.LocalTeam.Name != "Chennai Super Kings" || f.VisitorTeam.Code != "MI" {
		t.Fatalf("unexpected teams: %+v / %+v", f.LocalTeam, f.VisitorTeam)
	}
	if !f.StartingAt.Equal(time.Date(2024, 4, 10, 14, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected start: %s", f.StartingAt)
	}
}

func TestFetchFixture_ByID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/fixtures/99" || r.URL.Query().Get("include") != "localteam,visitorteam" {
			t.Errorf("unexpected request: %s?%s", r.URL.Path, r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"data":{"id":99,"league_id":1,"starting_at":"2024-04-10T14:00:00.000000Z","status":"Finished",
			"localteam":{"data":{"id":2,"name":"Chennai Super Kings"}},"visitorteam":{"id":3,"name":"Mumbai Indians"}}}`))
	}, nil)

	got, err := client.FetchFixture(context.Background(), 99)
	if err != nil {
		t.Fatalf("fetch fixture: %v", err)
	}
	if got.ID != 99 || !got.StartingAt.Equal(time.Date(2024, 4, 10, 14, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected fixture: %+v", got)
	}
	if got.LocalTeam.Name != "Chennai Super Kings" || got.VisitorTeam.ID != 3 {
		t.Fatalf("unexpected teams: %+v / %+v", got.LocalTeam, got.VisitorTeam)
	}
}

func TestFetchFixture_MissingFixtureIsNotFound(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Path == "/fixtures/404" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":{"message":"No result(s) found matching your request."}}`))
			return
		}
		_, _ = w.Write([]byte(`{"data":null}`))
	}, nil)

	if _, err := client.FetchFixture(context.Background(), 404); !errors.Is(err, fixture.ErrNotFound) {
		t.Fatalf("expected fixture.ErrNotFound for 404, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected a 404 not to be retried, got %d calls", calls.Load())
	}
	if _, err := client.FetchFixture(context.Background(), 5); !errors.Is(err, fixture.ErrNotFound) {
		t.Fatalf("expected fixture.ErrNotFound for empty payload, got %v", err)
	}
}

func TestFetchBattingAndBowling_AcceptWrappedAndDirectArrays(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("include") {
		case "batting.batsman":
			_, _ = w.Write([]byte(`{"data":{"id":900,"batting":{"data":[
				{"player_id":10,"score":30},{"player_id":10,"score":"25"},{"player_id":11,"score":null}]}}}`))
		case "bowling.bowler":
			_, _ = w.Write([]byte(`{"data":{"id":900,"bowling":[{"player_id":20,"wickets":2},{"player_id":"21"}]}}`))
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}, nil)

	batting, err := client.FetchBatting(context.Background(), 900)
	if err != nil {
		t.Fatalf("fetch batting: %v", err)
	}
	if len(batting) != 3 || batting[1].Runs != 25 || batting[2].Runs != 0 {
		t.Fatalf("unexpected batting: %+v", batting)
	}

	bowling, err := client.FetchBowling(context.Background(), 900)
	if err != nil {
		t.Fatalf("fetch bowling: %v", err)
	}
	if len(bowling) != 2 || bowling[0].Wickets != 2 || bowling[1].PlayerID != 21 || bowling[1].Wickets != 0 {
		t.Fatalf("unexpected bowling: %+v", bowling)
	}
}

func TestFetchSquad(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/teams/2/squad/1484" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"data":{"id":2,"name":"Chennai Super Kings","squad":[
			{"id":10,"fullname":"MS Dhoni","position":{"name":"Wicketkeeper"}},
			{"id":11,"firstname":"Ravindra","lastname":"Jadeja"}]}}`))
	}, nil)

	got, err := client.FetchSquad(context.Background(), 2, 1484)
	if err != nil {
		t.Fatalf("fetch squad: %v", err)
	}
	if got.TeamName != "Chennai Super Kings" || len(got.Players) != 2 {
		t.Fatalf("unexpected squad: %+v", got)
	}
	if got.Players[0].Position != "Wicketkeeper" || got.Players[1].FullName != "Ravindra Jadeja" {
		t.Fatalf("unexpected players: %+v", got.Players)
	}
}

func TestDoJSON_RetriesTransientStatus(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"data":[]}`))
	}, func(cfg *ClientConfig) { cfg.MaxRetries = 1 })

	if _, err := client.FetchFixtures(context.Background(), time.Now(), time.Now()); err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected 2 calls, got %d", calls.Load())
	}
}

func TestDoJSON_DoesNotRetryClientErrorsAndRedactsToken(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"bad token"}`))
	}, func(cfg *ClientConfig) { cfg.MaxRetries = 3 })

	_, err := client.FetchBatting(context.Background(), 1)
	if err == nil {
		t.Fatalf("expected error")
	}
	if calls.Load() != 1 {
		t.Fatalf("expected a single call, got %d", calls.Load())
	}
	if strings.Contains(err.Error(), "secret-token") {
		t.Fatalf("token leaked into error: %v", err)
	}
}

func TestDoJSON_OpenCircuitRejectsWithDependencyUnavailable(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}, func(cfg *ClientConfig) {
		cfg.CircuitBreaker = resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 1,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		}
	})

	if _, err := client.FetchBowling(context.Background(), 1); err == nil {
		t.Fatalf("expected first call to fail")
	}
	_, err := client.FetchBowling(context.Background(), 2)
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}

func TestRedactAPIURL(t *testing.T) {
	got := redactAPIURL("https://cricket.sportmonks.com/api/v2.0/fixtures?api_token=abc&include=batting")
	if strings.Contains(got, "abc") || !strings.Contains(got, "api_token=REDACTED") {
		t.Fatalf("unexpected redacted url: %s", got)
	}
}

func TestDoJSON_MissingTokenFailsWithoutCallingProvider(t *testing.T) {
	calls := 0
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	}, func(cfg *ClientConfig) {
		cfg.Token = " "
	})

	_, err := client.FetchBatting(context.Background(), 1)
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
	if calls != 0 {
		t.Fatalf("expected no provider calls, got %d", calls)
	}
}
