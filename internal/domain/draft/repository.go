package draft

import (
	"context"

	"github.com/riskibarqy/commishbot/internal/domain/season"
)

type PickRepository interface {
	// ReplaceRange deletes every pick inside the range and inserts picks.
	ReplaceRange(ctx context.Context, r season.Range, picks []Pick) error
	ListOwners(ctx context.Context, r season.Range) ([]string, error)
	ListByOwner(ctx context.Context, owner string, r season.Range) ([]Pick, error)
}

type ScoreRepository interface {
	DeleteRange(ctx context.Context, r season.Range) error
	Upsert(ctx context.Context, scores []PlayerSeasonScore) error
	ListByRange(ctx context.Context, r season.Range) ([]PlayerSeasonScore, error)
}
