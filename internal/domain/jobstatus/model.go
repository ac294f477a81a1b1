package jobstatus

import (
	"time"

	"github.com/riskibarqy/commishbot/internal/domain/season"
)

type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusError     Status = "error"
)

// Run is one precompute execution recorded in the status table.
type Run struct {
	ID           int64
	Status       Status
	Range        season.Range
	TotalRecords *int
	StartedAt    time.Time
	CompletedAt  *time.Time
	ErrorMessage string
	CreatedAt    time.Time
}
