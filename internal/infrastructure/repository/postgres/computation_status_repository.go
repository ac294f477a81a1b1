package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/commishbot/internal/domain/jobstatus"
	"github.com/riskibarqy/commishbot/internal/domain/season"
	qb "github.com/riskibarqy/commishbot/internal/platform/querybuilder"
)

const computationStatusTable = "draft_computation_status"

type ComputationStatusRepository struct {
	db *sqlx.DB
}

func NewComputationStatusRepository(db *sqlx.DB) *ComputationStatusRepository {
	return &ComputationStatusRepository{db: db}
}

func (r *ComputationStatusRepository) Start(ctx context.Context, rng season.Range, startedAt time.Time) (int64, error) {
	query, args, err := qb.InsertModel(computationStatusTable, computationStatusInsertModel{
		Status:    string(jobstatus.StatusRunning),
		SeasonMin: rng.Min,
		SeasonMax: rng.Max,
		StartedAt: startedAt,
	}, "RETURNING id")
	if err != nil {
		return 0, fmt.Errorf("build insert computation status query: %w", err)
	}

	var id int64
	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert computation status: %w", err)
	}
	return id, nil
}

func (r *ComputationStatusRepository) SetTotalRecords(ctx context.Context, id int64, total int) error {
	return r.update(ctx, id, "set total records", qb.Update(computationStatusTable).
		Set("total_records", total))
}

func (r *ComputationStatusRepository) Complete(ctx context.Context, id int64, completedAt time.Time) error {
	return r.update(ctx, id, "complete", qb.Update(computationStatusTable).
		Set("status", string(jobstatus.StatusCompleted)).
		Set("completed_at", completedAt))
}

func (r *ComputationStatusRepository) Fail(ctx context.Context, id int64, completedAt time.Time, message string) error {
	return r.update(ctx, id, "fail", qb.Update(computationStatusTable).
		Set("status", string(jobstatus.StatusError)).
		Set("completed_at", completedAt).
		Set("error_message", message))
}

func (r *ComputationStatusRepository) Latest(ctx context.Context) (jobstatus.Run, bool, error) {
	query, args, err := qb.Select("*").
		From(computationStatusTable).
		OrderBy("id DESC").
		Limit(1).
		ToSQL()
	if err != nil {
		return jobstatus.Run{}, false, fmt.Errorf("build latest computation status query: %w", err)
	}

	var row computationStatusTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return jobstatus.Run{}, false, nil
		}
		return jobstatus.Run{}, false, fmt.Errorf("get latest computation status: %w", err)
	}

	run := jobstatus.Run{
		ID:           row.ID,
		Status:       jobstatus.Status(row.Status),
		Range:        season.Range{Min: intValue(row.SeasonMin), Max: intValue(row.SeasonMax)},
		TotalRecords: row.TotalRecords,
		CompletedAt:  row.CompletedAt,
		ErrorMessage: nullStringValue(row.ErrorMessage),
		CreatedAt:    row.CreatedAt,
	}
	if row.StartedAt != nil {
		run.StartedAt = *row.StartedAt
	}
	return run, true, nil
}

func (r *ComputationStatusRepository) update(ctx context.Context, id int64, action string, builder *qb.UpdateBuilder) error {
	query, args, err := builder.Where(qb.Eq("id", id)).ToSQL()
	if err != nil {
		return fmt.Errorf("build %s computation status query: %w", action, err)
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s computation status %d: %w", action, id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s computation status %d: no row updated", action, id)
	}
	return nil
}
