package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/commishbot/internal/domain/draft"
	"github.com/riskibarqy/commishbot/internal/domain/season"
	qb "github.com/riskibarqy/commishbot/internal/platform/querybuilder"
)

const draftPicksTable = "draft_picks"

type DraftPickRepository struct {
	db *sqlx.DB
}

func NewDraftPickRepository(db *sqlx.DB) *DraftPickRepository {
	return &DraftPickRepository{db: db}
}

// ReplaceRange swaps every pick inside r for picks in one transaction.
func (r *DraftPickRepository) ReplaceRange(ctx context.Context, rng season.Range, picks []draft.Pick) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace draft picks tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query, args, err := qb.DeleteFrom(draftPicksTable).
		Where(qb.Between("season", rng.Min, rng.Max)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete draft picks query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete draft picks %s: %w", rng.String(), err)
	}

	for _, window := range batches(len(picks), insertBatchSize) {
		models := make([]any, 0, window[1]-window[0])
		for _, pick := range picks[window[0]:window[1]] {
			models = append(models, draftPickInsertModelFrom(pick))
		}
		query, args, err := qb.InsertModels(draftPicksTable, models, "")
		if err != nil {
			return fmt.Errorf("build insert draft picks query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert draft picks batch at %d: %w", window[0], err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace draft picks tx: %w", err)
	}
	return nil
}

func (r *DraftPickRepository) ListOwners(ctx context.Context, rng season.Range) ([]string, error) {
	query, args, err := qb.Select("owner").
		Distinct().
		From(draftPicksTable).
		Where(qb.Between("season", rng.Min, rng.Max)).
		OrderBy("owner").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list draft owners query: %w", err)
	}

	var owners []string
	if err := r.db.SelectContext(ctx, &owners, query, args...); err != nil {
		return nil, fmt.Errorf("list draft owners: %w", err)
	}
	return owners, nil
}

func (r *DraftPickRepository) ListByOwner(ctx context.Context, owner string, rng season.Range) ([]draft.Pick, error) {
	query, args, err := qb.Select("*").
		From(draftPicksTable).
		Where(
			qb.Eq("owner", owner),
			qb.Between("season", rng.Min, rng.Max),
		).
		OrderBy("season", "draft_position NULLS LAST", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list draft picks by owner query: %w", err)
	}

	var rows []draftPickTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list draft picks by owner: %w", err)
	}

	out := make([]draft.Pick, 0, len(rows))
	for _, row := range rows {
		out = append(out, draftPickFromRow(row))
	}
	return out, nil
}

func draftPickInsertModelFrom(pick draft.Pick) draftPickInsertModel {
	return draftPickInsertModel{
		Owner:         pick.Owner,
		Player:        nullableString(pick.Player),
		NFLTeam:       nullableString(pick.NFLTeam),
		NFLPosition:   nullableString(pick.NFLPosition),
		League:        nullableString(pick.League),
		DraftPosition: nullablePositiveInt(pick.DraftPosition),
		AuctionValue:  nullablePositiveInt(pick.AuctionValue),
		Season:        pick.Season,
	}
}

func draftPickFromRow(row draftPickTableModel) draft.Pick {
	return draft.Pick{
		Owner:         row.Owner,
		Player:        nullStringValue(row.Player),
		NFLTeam:       nullStringValue(row.NFLTeam),
		NFLPosition:   nullStringValue(row.NFLPosition),
		League:        nullStringValue(row.League),
		DraftPosition: intValue(row.DraftPosition),
		AuctionValue:  intValue(row.AuctionValue),
		Season:        row.Season,
	}
}
