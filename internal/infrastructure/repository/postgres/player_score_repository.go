package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/commishbot/internal/domain/draft"
	"github.com/riskibarqy/commishbot/internal/domain/season"
	qb "github.com/riskibarqy/commishbot/internal/platform/querybuilder"
)

const playerScoresTable = "player_scores"

type PlayerScoreRepository struct {
	db *sqlx.DB
}

func NewPlayerScoreRepository(db *sqlx.DB) *PlayerScoreRepository {
	return &PlayerScoreRepository{db: db}
}

func (r *PlayerScoreRepository) DeleteRange(ctx context.Context, rng season.Range) error {
	query, args, err := qb.DeleteFrom(playerScoresTable).
		Where(qb.Between("season", rng.Min, rng.Max)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete player scores query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete player scores %s: %w", rng.String(), err)
	}
	return nil
}

// Upsert writes scores in batches. Keys must be unique within the slice.
func (r *PlayerScoreRepository) Upsert(ctx context.Context, scores []draft.PlayerSeasonScore) error {
	if len(scores) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert player scores tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, window := range batches(len(scores), insertBatchSize) {
		models := make([]any, 0, window[1]-window[0])
		for _, score := range scores[window[0]:window[1]] {
			models = append(models, playerScoreInsertModel{
				Player:      score.Player,
				Season:      score.Season,
				TotalPoints: score.TotalPoints.Round(2),
				GamesPlayed: score.GamesPlayed,
			})
		}
		query, args, err := qb.InsertModels(playerScoresTable, models, `ON CONFLICT (player, season)
DO UPDATE SET
    total_points = EXCLUDED.total_points,
    games_played = EXCLUDED.games_played`)
		if err != nil {
			return fmt.Errorf("build upsert player scores query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert player scores batch at %d: %w", window[0], err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert player scores tx: %w", err)
	}
	return nil
}

func (r *PlayerScoreRepository) ListByRange(ctx context.Context, rng season.Range) ([]draft.PlayerSeasonScore, error) {
	query, args, err := qb.Select("*").
		From(playerScoresTable).
		Where(qb.Between("season", rng.Min, rng.Max)).
		OrderBy("season", "player").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list player scores query: %w", err)
	}

	var rows []playerScoreTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list player scores: %w", err)
	}

	out := make([]draft.PlayerSeasonScore, 0, len(rows))
	for _, row := range rows {
		out = append(out, draft.PlayerSeasonScore{
			Player:      row.Player,
			Season:      row.Season,
			TotalPoints: row.TotalPoints,
			GamesPlayed: row.GamesPlayed,
		})
	}
	return out, nil
}
