package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/commishbot/internal/domain/draftstats"
	"github.com/riskibarqy/commishbot/internal/domain/season"
	"github.com/riskibarqy/commishbot/internal/platform/logging"
	qb "github.com/riskibarqy/commishbot/internal/platform/querybuilder"
)

const ownerDraftStatsTable = "owner_draft_stats"

type OwnerDraftStatsRepository struct {
	db     *sqlx.DB
	logger *logging.Logger
}

func NewOwnerDraftStatsRepository(db *sqlx.DB, logger *logging.Logger) *OwnerDraftStatsRepository {
	if logger == nil {
		logger = logging.Default()
	}
	return &OwnerDraftStatsRepository{db: db, logger: logger}
}

func (r *OwnerDraftStatsRepository) GetLatest(ctx context.Context, owner string, rng season.Range) (draftstats.OwnerDraftStats, bool, error) {
	query, args, err := ownerDraftStatsLatestBuilder(
		qb.EqFold("owner", owner),
		qb.Eq("season_min", rng.Min),
		qb.Eq("season_max", rng.Max),
	).ToSQL()
	if err != nil {
		return draftstats.OwnerDraftStats{}, false, fmt.Errorf("build get owner draft stats query: %w", err)
	}

	var row ownerDraftStatsTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isBindParameterMismatch(err) || isUnnamedPreparedStatementMissing(err) {
			return r.getLatestLiteral(ctx, owner, rng)
		}
		if isNotFound(err) {
			return draftstats.OwnerDraftStats{}, false, nil
		}
		return draftstats.OwnerDraftStats{}, false, fmt.Errorf("get owner draft stats: %w", err)
	}

	return r.fromRow(ctx, row), true, nil
}

// getLatestLiteral retries without bind parameters for poolers that drop
// unnamed prepared statements between parse and bind.
func (r *OwnerDraftStatsRepository) getLatestLiteral(ctx context.Context, owner string, rng season.Range) (draftstats.OwnerDraftStats, bool, error) {
	query, _, err := ownerDraftStatsLatestBuilder(
		qb.EqFoldLiteral("owner", owner),
		qb.Expr(fmt.Sprintf("season_min = %d", rng.Min)),
		qb.Expr(fmt.Sprintf("season_max = %d", rng.Max)),
	).ToSQL()
	if err != nil {
		return draftstats.OwnerDraftStats{}, false, fmt.Errorf("build get owner draft stats literal fallback query: %w", err)
	}

	var row ownerDraftStatsTableModel
	if err := r.db.GetContext(ctx, &row, query); err != nil {
		if isNotFound(err) {
			return draftstats.OwnerDraftStats{}, false, nil
		}
		return draftstats.OwnerDraftStats{}, false, fmt.Errorf("get owner draft stats literal fallback: %w", err)
	}

	return r.fromRow(ctx, row), true, nil
}

func (r *OwnerDraftStatsRepository) ListOwners(ctx context.Context) ([]string, error) {
	query, args, err := qb.Select("owner").
		Distinct().
		From(ownerDraftStatsTable).
		OrderBy("owner").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list stats owners query: %w", err)
	}

	var owners []string
	if err := r.db.SelectContext(ctx, &owners, query, args...); err != nil {
		return nil, fmt.Errorf("list stats owners: %w", err)
	}
	return owners, nil
}

// DeleteRange removes snapshots for exactly this range.
func (r *OwnerDraftStatsRepository) DeleteRange(ctx context.Context, rng season.Range) error {
	query, args, err := qb.DeleteFrom(ownerDraftStatsTable).
		Where(
			qb.Eq("season_min", rng.Min),
			qb.Eq("season_max", rng.Max),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete owner draft stats query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete owner draft stats %s: %w", rng.String(), err)
	}
	return nil
}

func (r *OwnerDraftStatsRepository) Upsert(ctx context.Context, stats draftstats.OwnerDraftStats) error {
	blob, err := sonic.MarshalString(stats.Complex.Normalize())
	if err != nil {
		return fmt.Errorf("encode complex stats for %s: %w", stats.Owner, err)
	}
	computedAt := stats.ComputedAt
	if computedAt.IsZero() {
		computedAt = time.Now().UTC()
	}

	insertModel := ownerDraftStatsInsertModel{
		Owner:             stats.Owner,
		SeasonMin:         stats.Range.Min,
		SeasonMax:         stats.Range.Max,
		TotalPicks:        stats.TotalPicks,
		SnakePicks:        stats.SnakePicks,
		AuctionPicks:      stats.AuctionPicks,
		AvgDraftPosition:  stats.AvgDraftPosition,
		EarliestPick:      stats.EarliestPick,
		LatestPick:        stats.LatestPick,
		AuctionTotalSpent: stats.AuctionTotalSpent,
		AuctionAvgValue:   stats.AuctionAvgValue,
		AuctionMaxBid:     stats.AuctionMaxBid,
		AuctionMinBid:     stats.AuctionMinBid,
		AuctionROI:        stats.AuctionROI,
		AuctionHitRate:    stats.AuctionHitRate,
		AuctionBustRate:   stats.AuctionBustRate,
		StatsJSON:         blob,
		ComputedAt:        computedAt,
	}

	query, args, err := qb.InsertModel(ownerDraftStatsTable, insertModel, `ON CONFLICT (owner, season_min, season_max)
DO UPDATE SET
    total_picks = EXCLUDED.total_picks,
    snake_picks = EXCLUDED.snake_picks,
    auction_picks = EXCLUDED.auction_picks,
    avg_draft_position = EXCLUDED.avg_draft_position,
    earliest_pick = EXCLUDED.earliest_pick,
    latest_pick = EXCLUDED.latest_pick,
    auction_total_spent = EXCLUDED.auction_total_spent,
    auction_avg_value = EXCLUDED.auction_avg_value,
    auction_max_bid = EXCLUDED.auction_max_bid,
    auction_min_bid = EXCLUDED.auction_min_bid,
    auction_roi = EXCLUDED.auction_roi,
    auction_hit_rate = EXCLUDED.auction_hit_rate,
    auction_bust_rate = EXCLUDED.auction_bust_rate,
    stats_json = EXCLUDED.stats_json,
    computed_at = EXCLUDED.computed_at`)
	if err != nil {
		return fmt.Errorf("build owner draft stats upsert query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert owner draft stats for %s: %w", stats.Owner, err)
	}
	return nil
}

func (r *OwnerDraftStatsRepository) fromRow(ctx context.Context, row ownerDraftStatsTableModel) draftstats.OwnerDraftStats {
	complexStats, err := decodeComplexStats(nullStringValue(row.StatsJSON))
	if err != nil {
		r.logger.WarnContext(ctx, "stored complex stats are unreadable, using empty blob",
			"owner", row.Owner,
			"stats_id", row.ID,
			"error", err,
		)
		complexStats = draftstats.EmptyComplexStats()
	}

	return draftstats.OwnerDraftStats{
		ID:                row.ID,
		Owner:             row.Owner,
		Range:             season.Range{Min: row.SeasonMin, Max: row.SeasonMax},
		TotalPicks:        row.TotalPicks,
		SnakePicks:        row.SnakePicks,
		AuctionPicks:      row.AuctionPicks,
		AvgDraftPosition:  row.AvgDraftPosition,
		EarliestPick:      row.EarliestPick,
		LatestPick:        row.LatestPick,
		AuctionTotalSpent: row.AuctionTotalSpent,
		AuctionAvgValue:   row.AuctionAvgValue,
		AuctionMaxBid:     row.AuctionMaxBid,
		AuctionMinBid:     row.AuctionMinBid,
		AuctionROI:        row.AuctionROI,
		AuctionHitRate:    row.AuctionHitRate,
		AuctionBustRate:   row.AuctionBustRate,
		Complex:           complexStats,
		ComputedAt:        row.ComputedAt,
	}
}

// decodeComplexStats treats a missing blob as empty; only malformed JSON is
// an error.
func decodeComplexStats(raw string) (draftstats.ComplexStats, error) {
	if strings.TrimSpace(raw) == "" {
		return draftstats.EmptyComplexStats(), nil
	}
	var out draftstats.ComplexStats
	if err := sonic.UnmarshalString(raw, &out); err != nil {
		return draftstats.ComplexStats{}, fmt.Errorf("decode complex stats: %w", err)
	}
	return out.Normalize(), nil
}

func ownerDraftStatsLatestBuilder(conditions ...qb.Condition) *qb.SelectBuilder {
	return qb.Select("*").
		From(ownerDraftStatsTable).
		Where(conditions...).
		OrderBy("computed_at DESC", "id DESC").
		Limit(1)
}
