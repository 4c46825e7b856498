package player

import "context"

// Repository describes roster reads needed by use cases.
type Repository interface {
	Search(ctx context.Context, filter SearchFilter) ([]Player, error)
	GetByID(ctx context.Context, playerID string) (Player, bool, error)
}
