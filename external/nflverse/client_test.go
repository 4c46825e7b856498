package nflverse

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gridironlabs/nfl-stats/internal/platform/logging"
	"github.com/gridironlabs/nfl-stats/internal/platform/resilience"
	"github.com/gridironlabs/nfl-stats/internal/usecase"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := NewClient(ClientConfig{
		BaseURL:  srv.URL,
		TeamsURL: srv.URL + "/teams_colors_logos.csv",
		Timeout:  2 * time.Second,
		Logger:   logging.NewNop(),
	})
	return client, srv
}

func TestSeasonalRostersParsesCSV(t *testing.T) {
	var gotPath atomic.Value
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath.Store(r.URL.Path)
		_, _ = w.Write([]byte("\ufeffplayer_id,player_name,team\n00-001,Patrick Mahomes,KC\n00-002,Josh Allen\n"))
	}))

	dataset, err := client.SeasonalRosters(context.Background(), 2024)
	if err != nil {
		t.Fatalf("fetch rosters: %v", err)
	}
	if gotPath.Load() != "/rosters/roster_2024.csv" {
		t.Fatalf("unexpected request path: %v", gotPath.Load())
	}
	if len(dataset.Columns) != 3 || dataset.Columns[0] != "player_id" {
		t.Fatalf("unexpected columns: %+v", dataset.Columns)
	}
	if len(dataset.Rows) != 2 {
		t.Fatalf("unexpected row count: %d", len(dataset.Rows))
	}
	// Short rows are padded so every row matches the header width.
	if dataset.Rows[1][2] != "" {
		t.Fatalf("expected padded cell, got %q", dataset.Rows[1][2])
	}
}

func TestWeeklyStatsRequestsSeasonAsset(t *testing.T) {
	var gotPath atomic.Value
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath.Store(r.URL.Path)
		_, _ = w.Write([]byte("player_id,season,week\n00-001,2023,1\n"))
	}))

	dataset, err := client.WeeklyStats(context.Background(), 2023)
	if err != nil {
		t.Fatalf("fetch weekly stats: %v", err)
	}
	if gotPath.Load() != "/player_stats/player_stats_2023.csv" {
		t.Fatalf("unexpected request path: %v", gotPath.Load())
	}
	if len(dataset.Rows) != 1 {
		t.Fatalf("unexpected row count: %d", len(dataset.Rows))
	}
}

func TestFetchDoesNotRetryPermanentFailures(t *testing.T) {
	var calls atomic.Int64
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.NotFound(w, r)
	}))
	client.maxRetries = 3

	if _, err := client.SeasonalRosters(context.Background(), 1980); err == nil {
		t.Fatalf("expected error for missing release asset")
	}
	if calls.Load() != 1 {
		t.Fatalf("expected a single request for a 404, got %d", calls.Load())
	}
}

func TestCircuitBreakerRejectsAfterRepeatedFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	client := NewClient(ClientConfig{
		BaseURL: srv.URL,
		Timeout: time.Second,
		Logger:  logging.NewNop(),
		Breaker: resilience.BreakerConfig{
			Enabled:          true,
			FailureThreshold: 1,
			OpenTimeout:      time.Minute,
		},
	})

	if _, err := client.WeeklyStats(context.Background(), 2023); err == nil {
		t.Fatalf("expected transient failure")
	}
	_, err := client.WeeklyStats(context.Background(), 2024)
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected dependency unavailable from open breaker, got %v", err)
	}
}

func TestTeamMetadataMapsBrandingColumns(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(
			"team_abbr,team_name,team_color,team_color2,team_logo_wikipedia\n" +
				"KC,Kansas City Chiefs,#E31837,#FFB81C,https://upload.example/kc.png\n" +
				",Orphan Row,#000000,#FFFFFF,\n",
		))
	}))

	teams, err := client.TeamMetadata(context.Background())
	if err != nil {
		t.Fatalf("fetch team metadata: %v", err)
	}
	if len(teams) != 1 {
		t.Fatalf("unexpected team count: %d", len(teams))
	}
	meta := teams["KC"]
	if meta.Name != "Kansas City Chiefs" || meta.PrimaryColor != "#E31837" {
		t.Fatalf("unexpected team meta: %+v", meta)
	}
	if meta.LogoURL != "https://upload.example/kc.png" {
		t.Fatalf("expected wikipedia logo fallback, got %q", meta.LogoURL)
	}
}

func TestPlayerHeadshotsKeepsFirstURL(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/rosters/roster_2023.csv":
			_, _ = w.Write([]byte("gsis_id,headshot_url\n00-001,https://img.example/old.png\n00-002,\n"))
		case "/rosters/roster_2024.csv":
			_, _ = w.Write([]byte("gsis_id,headshot_url\n00-001,https://img.example/new.png\n00-002,https://img.example/kelce.png\n"))
		default:
			http.NotFound(w, r)
		}
	}))

	headshots, err := client.PlayerHeadshots(context.Background(), []int{2023, 2024})
	if err != nil {
		t.Fatalf("fetch headshots: %v", err)
	}
	if headshots["00-001"] != "https://img.example/old.png" {
		t.Fatalf("expected first URL to win, got %q", headshots["00-001"])
	}
	if headshots["00-002"] != "https://img.example/kelce.png" {
		t.Fatalf("expected empty URL to be skipped, got %q", headshots["00-002"])
	}
}
