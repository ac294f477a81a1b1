package postgres

import (
	"database/sql"
	"time"
)

type computationStatusTableModel struct {
	ID           int64          `db:"id"`
	Status       string         `db:"status"`
	SeasonMin    *int           `db:"season_min"`
	SeasonMax    *int           `db:"season_max"`
	TotalRecords *int           `db:"total_records"`
	StartedAt    *time.Time     `db:"started_at"`
	CompletedAt  *time.Time     `db:"completed_at"`
	ErrorMessage sql.NullString `db:"error_message"`
	CreatedAt    time.Time      `db:"created_at"`
}

type computationStatusInsertModel struct {
	Status    string    `db:"status"`
	SeasonMin int       `db:"season_min"`
	SeasonMax int       `db:"season_max"`
	StartedAt time.Time `db:"started_at"`
}
