package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/gridironlabs/nfl-stats/internal/config"
	"github.com/gridironlabs/nfl-stats/internal/domain/refdata"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()

	return config.Config{
		ServiceName:        "nfl-stats-api",
		ServiceVersion:     "test",
		HTTPAddr:           ":0",
		DBPath:             filepath.Join(t.TempDir(), "nfl.db"),
		Seasons:            []int{2024},
		CurrentSeason:      2024,
		CacheEnabled:       true,
		CacheTTL:           time.Minute,
		CORSAllowedOrigins: []string{"http://localhost:5173"},
		ReadTimeout:        time.Second,
		WriteTimeout:       time.Second,
		RefdataEnabled:     false,
	}
}

func TestNewHTTPServerBuildsAgainstEmptyStore(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	srv, closeStore, err := NewHTTPServer(context.Background(), testConfig(t), logger)
	if err != nil {
		t.Fatalf("build server: %v", err)
	}
	t.Cleanup(func() { _ = closeStore() })

	if srv.Handler == nil {
		t.Fatalf("expected a wired handler")
	}
	if srv.Addr != ":0" {
		t.Fatalf("unexpected addr: %s", srv.Addr)
	}
}

func TestNewHTTPServerRejectsEmptyAddr(t *testing.T) {
	cfg := testConfig(t)
	cfg.HTTPAddr = ""

	if _, _, err := NewHTTPServer(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil))); err == nil {
		t.Fatalf("expected error for empty http addr")
	}
}

type stubReferenceProvider struct {
	teams     map[string]refdata.TeamMeta
	headshots map[string]string
	err       error
}

func (s *stubReferenceProvider) TeamMetadata(context.Context) (map[string]refdata.TeamMeta, error) {
	return s.teams, s.err
}

func (s *stubReferenceProvider) PlayerHeadshots(context.Context, []int) (map[string]string, error) {
	return s.headshots, s.err
}

func TestFetchReferenceSnapshot(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	provider := &stubReferenceProvider{
		teams:     map[string]refdata.TeamMeta{"KC": {Abbr: "KC", Name: "Kansas City Chiefs"}},
		headshots: map[string]string{"00-001": "https://static.nflverse.com/headshots/00-001.png"},
	}

	snapshot := fetchReferenceSnapshot(context.Background(), provider, []int{2024}, logger)
	if _, ok := snapshot.Team("KC"); !ok {
		t.Fatalf("expected team metadata in the snapshot")
	}
	if _, ok := snapshot.Headshot("00-001"); !ok {
		t.Fatalf("expected headshot in the snapshot")
	}
}

func TestFetchReferenceSnapshotDegradesOnError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	provider := &stubReferenceProvider{err: errors.New("upstream down")}

	snapshot := fetchReferenceSnapshot(context.Background(), provider, []int{2024}, logger)
	if snapshot == nil {
		t.Fatalf("expected an empty snapshot, not nil")
	}
	if _, ok := snapshot.Team("KC"); ok {
		t.Fatalf("expected no team metadata")
	}
}
