package draftstats

import (
	"context"

	"github.com/riskibarqy/commishbot/internal/domain/season"
)

type Repository interface {
	// GetLatest matches owner case-insensitively; the most recently computed
	// row wins when several exist.
	GetLatest(ctx context.Context, owner string, r season.Range) (OwnerDraftStats, bool, error)
	ListOwners(ctx context.Context) ([]string, error)
	DeleteRange(ctx context.Context, r season.Range) error
	Upsert(ctx context.Context, stats OwnerDraftStats) error
}
