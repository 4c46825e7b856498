package usecase

import (
	"context"

	"github.com/gridironlabs/nfl-stats/internal/domain/refdata"
)

// Dataset is a provider CSV parsed into memory. Cells stay as strings until
// the store assigns column affinities; an empty cell means missing.
type Dataset struct {
	Columns []string
	Rows    [][]string
}

// ColumnIndex returns the position of the named column, or -1.
func (d Dataset) ColumnIndex(name string) int {
	for i, col := range d.Columns {
		if col == name {
			return i
		}
	}
	return -1
}

func (d Dataset) cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// StatsProvider fetches published nflverse datasets.
type StatsProvider interface {
	SeasonalRosters(ctx context.Context, season int) (Dataset, error)
	WeeklyStats(ctx context.Context, season int) (Dataset, error)
}

// ReferenceProvider fetches team branding and player headshot reference data.
type ReferenceProvider interface {
	TeamMetadata(ctx context.Context) (map[string]refdata.TeamMeta, error)
	PlayerHeadshots(ctx context.Context, seasons []int) (map[string]string, error)
}

// LoaderStore is the ingestion write surface of the stats store.
type LoaderStore interface {
	ReplacePlayers(ctx context.Context, columns []string, rows [][]string) (int, error)
	ReplaceWeeklyStats(ctx context.Context, columns []string, rows [][]string) (int, error)
	CreateIndexes(ctx context.Context) error
}
