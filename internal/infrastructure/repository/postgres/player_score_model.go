package postgres

import (
	"time"

	"github.com/shopspring/decimal"
)

type playerScoreTableModel struct {
	ID          int64           `db:"id"`
	Player      string          `db:"player"`
	Season      int             `db:"season"`
	TotalPoints decimal.Decimal `db:"total_points"`
	GamesPlayed int             `db:"games_played"`
	CreatedAt   time.Time       `db:"created_at"`
}

type playerScoreInsertModel struct {
	Player      string          `db:"player"`
	Season      int             `db:"season"`
	TotalPoints decimal.Decimal `db:"total_points"`
	GamesPlayed int             `db:"games_played"`
}
