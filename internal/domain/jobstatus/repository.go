package jobstatus

import (
	"context"
	"time"

	"github.com/riskibarqy/commishbot/internal/domain/season"
)

type Repository interface {
	Start(ctx context.Context, r season.Range, startedAt time.Time) (int64, error)
	SetTotalRecords(ctx context.Context, id int64, total int) error
	Complete(ctx context.Context, id int64, completedAt time.Time) error
	Fail(ctx context.Context, id int64, completedAt time.Time, message string) error
	Latest(ctx context.Context) (Run, bool, error)
}
