package postgres

import (
	"database/sql"
	"time"
)

type draftPickTableModel struct {
	ID            int64          `db:"id"`
	Owner         string         `db:"owner"`
	Player        sql.NullString `db:"player"`
	NFLTeam       sql.NullString `db:"player_nfl_team"`
	NFLPosition   sql.NullString `db:"player_nfl_position"`
	League        sql.NullString `db:"league"`
	DraftPosition *int           `db:"draft_position"`
	AuctionValue  *int           `db:"auction_value"`
	Season        int            `db:"season"`
	CreatedAt     time.Time      `db:"created_at"`
}

type draftPickInsertModel struct {
	Owner         string  `db:"owner"`
	Player        *string `db:"player"`
	NFLTeam       *string `db:"player_nfl_team"`
	NFLPosition   *string `db:"player_nfl_position"`
	League        *string `db:"league"`
	DraftPosition *int    `db:"draft_position"`
	AuctionValue  *int    `db:"auction_value"`
	Season        int     `db:"season"`
}
