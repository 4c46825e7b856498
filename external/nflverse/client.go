package nflverse

import (
	"bytes"
	"context"
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"

	"github.com/gridironlabs/nfl-stats/internal/domain/refdata"
	"github.com/gridironlabs/nfl-stats/internal/platform/logging"
	"github.com/gridironlabs/nfl-stats/internal/platform/resilience"
	"github.com/gridironlabs/nfl-stats/internal/usecase"
)

const (
	defaultBaseURL  = "https://github.com/nflverse/nflverse-data/releases/download"
	defaultTeamsURL = "https://raw.githubusercontent.com/nflverse/nflverse-pbp/master/teams_colors_logos.csv"

	// Weekly stat files run to a few tens of megabytes uncompressed.
	maxResponseBytes = 256 << 20
)

var errNFLverseTransient = crerr.New("nflverse transient failure")

var teamLogoColumns = []string{"team_logo_espn", "team_logo_wikipedia"}
var rosterIDColumns = []string{"gsis_id", "player_id"}

type ClientConfig struct {
	HTTPClient *http.Client
	BaseURL    string
	TeamsURL   string
	Timeout    time.Duration
	MaxRetries int
	Logger     *logging.Logger
	Breaker    resilience.BreakerConfig
}

// Client downloads published nflverse CSV release assets.
type Client struct {
	httpClient *http.Client
	baseURL    string
	teamsURL   string
	maxRetries int
	logger     *logging.Logger
	breaker    *resilience.Breaker
	flight     resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 60 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	teamsURL := strings.TrimSpace(cfg.TeamsURL)
	if teamsURL == "" {
		teamsURL = defaultTeamsURL
	}

	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		teamsURL:   teamsURL,
		maxRetries: maxRetries,
		logger:     logger,
		breaker:    resilience.NewBreaker(cfg.Breaker),
	}
}

// SeasonalRosters fetches the published roster file for one season.
func (c *Client) SeasonalRosters(ctx context.Context, season int) (usecase.Dataset, error) {
	if season <= 0 {
		return usecase.Dataset{}, fmt.Errorf("season must be greater than zero")
	}

	fullURL := fmt.Sprintf("%s/rosters/roster_%d.csv", c.baseURL, season)
	dataset, err := c.fetchDataset(ctx, fullURL)
	if err != nil {
		return usecase.Dataset{}, fmt.Errorf("fetch rosters season=%d: %w", season, err)
	}
	return dataset, nil
}

// WeeklyStats fetches the published per-game player stat file for one season.
func (c *Client) WeeklyStats(ctx context.Context, season int) (usecase.Dataset, error) {
	if season <= 0 {
		return usecase.Dataset{}, fmt.Errorf("season must be greater than zero")
	}

	fullURL := fmt.Sprintf("%s/player_stats/player_stats_%d.csv", c.baseURL, season)
	dataset, err := c.fetchDataset(ctx, fullURL)
	if err != nil {
		return usecase.Dataset{}, fmt.Errorf("fetch weekly stats season=%d: %w", season, err)
	}
	return dataset, nil
}

// TeamMetadata fetches the teams branding table keyed by abbreviation.
func (c *Client) TeamMetadata(ctx context.Context) (map[string]refdata.TeamMeta, error) {
	dataset, err := c.fetchDataset(ctx, c.teamsURL)
	if err != nil {
		return nil, fmt.Errorf("fetch team metadata: %w", err)
	}

	abbrIdx := dataset.ColumnIndex("team_abbr")
	if abbrIdx < 0 {
		return nil, fmt.Errorf("team metadata payload has no team_abbr column")
	}
	nameIdx := dataset.ColumnIndex("team_name")
	colorIdx := dataset.ColumnIndex("team_color")
	color2Idx := dataset.ColumnIndex("team_color2")
	logoIdx := -1
	for _, candidate := range teamLogoColumns {
		if idx := dataset.ColumnIndex(candidate); idx >= 0 {
			logoIdx = idx
			break
		}
	}

	out := make(map[string]refdata.TeamMeta, len(dataset.Rows))
	for _, row := range dataset.Rows {
		abbr := strings.ToUpper(strings.TrimSpace(cell(row, abbrIdx)))
		if abbr == "" {
			continue
		}
		if _, exists := out[abbr]; exists {
			continue
		}
		out[abbr] = refdata.TeamMeta{
			Abbr:           abbr,
			Name:           strings.TrimSpace(cell(row, nameIdx)),
			PrimaryColor:   strings.TrimSpace(cell(row, colorIdx)),
			SecondaryColor: strings.TrimSpace(cell(row, color2Idx)),
			LogoURL:        strings.TrimSpace(cell(row, logoIdx)),
		}
	}

	return out, nil
}

// PlayerHeadshots collects headshot URLs from the roster files of the given
// seasons. The first non-empty URL per player wins.
func (c *Client) PlayerHeadshots(ctx context.Context, seasons []int) (map[string]string, error) {
	out := make(map[string]string, 4096)
	for _, season := range seasons {
		dataset, err := c.SeasonalRosters(ctx, season)
		if err != nil {
			return nil, err
		}

		idIdx := -1
		for _, candidate := range rosterIDColumns {
			if idx := dataset.ColumnIndex(candidate); idx >= 0 {
				idIdx = idx
				break
			}
		}
		headshotIdx := dataset.ColumnIndex("headshot_url")
		if idIdx < 0 || headshotIdx < 0 {
			c.logger.WarnContext(ctx, "roster file has no headshot columns, skipping season",
				"season", season,
			)
			continue
		}

		for _, row := range dataset.Rows {
			id := strings.TrimSpace(cell(row, idIdx))
			url := strings.TrimSpace(cell(row, headshotIdx))
			if id == "" || url == "" {
				continue
			}
			if _, exists := out[id]; exists {
				continue
			}
			out[id] = url
		}
	}

	return out, nil
}

func (c *Client) fetchDataset(ctx context.Context, fullURL string) (usecase.Dataset, error) {
	out, err := c.flight.Do(fullURL, func() (any, error) {
		var raw []byte
		var reqErr error
		breakerErr := c.breaker.Do(func() error {
			raw, reqErr = c.executeRequest(ctx, fullURL)
			if reqErr != nil && !stderrors.Is(reqErr, errNFLverseTransient) {
				// Permanent failures such as a missing release asset must
				// not trip the breaker.
				return nil
			}
			return reqErr
		})
		if stderrors.Is(breakerErr, resilience.ErrCircuitOpen) {
			c.logger.WarnContext(ctx, "nflverse circuit breaker rejected request", "url", fullURL)
			return nil, fmt.Errorf("%w: nflverse is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
		if breakerErr != nil {
			return nil, breakerErr
		}
		if reqErr != nil {
			return nil, reqErr
		}
		return raw, nil
	})
	if err != nil {
		return usecase.Dataset{}, err
	}

	raw, ok := out.([]byte)
	if !ok {
		return usecase.Dataset{}, fmt.Errorf("unexpected response payload type %T", out)
	}

	return parseDataset(raw)
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "text/csv")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errNFLverseTransient, err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errNFLverseTransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else if isRetryableStatus(resp.StatusCode) {
				lastErr = fmt.Errorf("%w: provider status=%d", errNFLverseTransient, resp.StatusCode)
			} else {
				return nil, fmt.Errorf("provider status=%d url=%s", resp.StatusCode, fullURL)
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "nflverse request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func isRetryableStatus(status int) bool {
	if status == http.StatusTooManyRequests {
		return true
	}
	return status >= 500
}

func parseDataset(raw []byte) (usecase.Dataset, error) {
	reader := csv.NewReader(bytes.NewReader(raw))
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = false

	header, err := reader.Read()
	if err == io.EOF {
		return usecase.Dataset{}, nil
	}
	if err != nil {
		return usecase.Dataset{}, fmt.Errorf("read csv header: %w", err)
	}

	columns := make([]string, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		columns[i] = strings.TrimSpace(name)
	}

	rows := make([][]string, 0, 1024)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return usecase.Dataset{}, fmt.Errorf("read csv row: %w", err)
		}

		row := make([]string, len(columns))
		for i := range columns {
			if i < len(record) {
				row[i] = record[i]
			}
		}
		rows = append(rows, row)
	}

	return usecase.Dataset{Columns: columns, Rows: rows}, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
