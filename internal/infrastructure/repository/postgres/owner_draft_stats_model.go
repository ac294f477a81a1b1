package postgres

import (
	"database/sql"
	"time"
)

type ownerDraftStatsTableModel struct {
	ID                int64          `db:"id"`
	Owner             string         `db:"owner"`
	SeasonMin         int            `db:"season_min"`
	SeasonMax         int            `db:"season_max"`
	TotalPicks        int            `db:"total_picks"`
	SnakePicks        int            `db:"snake_picks"`
	AuctionPicks      int            `db:"auction_picks"`
	AvgDraftPosition  *float64       `db:"avg_draft_position"`
	EarliestPick      *int           `db:"earliest_pick"`
	LatestPick        *int           `db:"latest_pick"`
	AuctionTotalSpent int            `db:"auction_total_spent"`
	AuctionAvgValue   *float64       `db:"auction_avg_value"`
	AuctionMaxBid     *int           `db:"auction_max_bid"`
	AuctionMinBid     *int           `db:"auction_min_bid"`
	AuctionROI        *float64       `db:"auction_roi"`
	AuctionHitRate    *float64       `db:"auction_hit_rate"`
	AuctionBustRate   *float64       `db:"auction_bust_rate"`
	StatsJSON         sql.NullString `db:"stats_json"`
	ComputedAt        time.Time      `db:"computed_at"`
}

type ownerDraftStatsInsertModel struct {
	Owner             string    `db:"owner"`
	SeasonMin         int       `db:"season_min"`
	SeasonMax         int       `db:"season_max"`
	TotalPicks        int       `db:"total_picks"`
	SnakePicks        int       `db:"snake_picks"`
	AuctionPicks      int       `db:"auction_picks"`
	AvgDraftPosition  *float64  `db:"avg_draft_position"`
	EarliestPick      *int      `db:"earliest_pick"`
	LatestPick        *int      `db:"latest_pick"`
	AuctionTotalSpent int       `db:"auction_total_spent"`
	AuctionAvgValue   *float64  `db:"auction_avg_value"`
	AuctionMaxBid     *int      `db:"auction_max_bid"`
	AuctionMinBid     *int      `db:"auction_min_bid"`
	AuctionROI        *float64  `db:"auction_roi"`
	AuctionHitRate    *float64  `db:"auction_hit_rate"`
	AuctionBustRate   *float64  `db:"auction_bust_rate"`
	StatsJSON         string    `db:"stats_json"`
	ComputedAt        time.Time `db:"computed_at"`
}
