package usecase

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/commishbot/internal/domain/draft"
	"github.com/riskibarqy/commishbot/internal/domain/draftstats"
	"github.com/riskibarqy/commishbot/internal/domain/jobstatus"
	"github.com/riskibarqy/commishbot/internal/domain/season"
	"github.com/riskibarqy/commishbot/internal/platform/logging"
)

// DraftSource is the remote statistics API.
type DraftSource interface {
	FetchDraftHistory(ctx context.Context, r season.Range) ([]draft.Pick, error)
	FetchPlayerScores(ctx context.Context, r season.Range) ([]draft.WeeklyScore, error)
}

// SchemaMigrator creates the draft tables when they are missing.
type SchemaMigrator interface {
	EnsureSchema(ctx context.Context) error
}

type PrecomputeSummary struct {
	Range        season.Range
	Picks        int
	PlayerScores int
	Owners       int
	Duration     time.Duration
}

type PrecomputeService struct {
	source     DraftSource
	migrator   SchemaMigrator
	pickRepo   draft.PickRepository
	scoreRepo  draft.ScoreRepository
	statsRepo  draftstats.Repository
	statusRepo jobstatus.Repository
	thresholds draftstats.Thresholds
	logger     *logging.Logger
	now        func() time.Time
}

type PrecomputeDeps struct {
	Source     DraftSource
	Migrator   SchemaMigrator
	PickRepo   draft.PickRepository
	ScoreRepo  draft.ScoreRepository
	StatsRepo  draftstats.Repository
	StatusRepo jobstatus.Repository
	Thresholds draftstats.Thresholds
	Logger     *logging.Logger
}

func NewPrecomputeService(deps PrecomputeDeps) *PrecomputeService {
	logger := deps.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &PrecomputeService{
		source:     deps.Source,
		migrator:   deps.Migrator,
		pickRepo:   deps.PickRepo,
		scoreRepo:  deps.ScoreRepo,
		statsRepo:  deps.StatsRepo,
		statusRepo: deps.StatusRepo,
		thresholds: deps.Thresholds,
		logger:     logger,
		now:        time.Now,
	}
}

// Run refreshes picks, player scores and owner snapshots for r. Steps run in
// order and the first failure aborts the run. Only one run may execute at a
// time: overlapping runs interleave their delete and insert steps.
func (s *PrecomputeService) Run(ctx context.Context, r season.Range) (summary PrecomputeSummary, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PrecomputeService.Run")
	defer func() {
		recordSpanError(span, err)
		span.End()
	}()

	summary = PrecomputeSummary{Range: r}
	bounds := s.thresholds.Bounds()
	if r.Min > r.Max || !bounds.Contains(r.Min) || !bounds.Contains(r.Max) {
		return summary, errors.Wrapf(ErrInvalidInput, "season range %s outside %d-%d", r.String(), bounds.Min, bounds.Max)
	}

	startedAt := s.now()
	s.logger.InfoContext(ctx, "precompute started", "range", r.String())

	if err := s.migrator.EnsureSchema(ctx); err != nil {
		return summary, MarkStoreUnavailable(err, "ensure schema")
	}

	statusID, err := s.statusRepo.Start(ctx, r, startedAt)
	if err != nil {
		return summary, MarkStoreUnavailable(err, "record precompute start")
	}

	if err := s.run(ctx, statusID, r, &summary); err != nil {
		if failErr := s.statusRepo.Fail(context.WithoutCancel(ctx), statusID, s.now(), err.Error()); failErr != nil {
			s.logger.ErrorContext(ctx, "record precompute failure", "status_id", statusID, "error", failErr)
		}
		s.logger.ErrorContext(ctx, "precompute failed", "range", r.String(), "status_id", statusID, "error", err)
		return summary, err
	}

	if err := s.statusRepo.Complete(ctx, statusID, s.now()); err != nil {
		return summary, MarkStoreUnavailable(err, "record precompute completion")
	}
	summary.Duration = s.now().Sub(startedAt)
	s.logger.InfoContext(ctx, "precompute completed",
		"range", r.String(),
		"picks", summary.Picks,
		"player_scores", summary.PlayerScores,
		"owners", summary.Owners,
		"duration", summary.Duration,
	)
	return summary, nil
}

func (s *PrecomputeService) run(ctx context.Context, statusID int64, r season.Range, summary *PrecomputeSummary) error {
	picks, err := s.source.FetchDraftHistory(ctx, r)
	if err != nil {
		return errors.Wrap(err, "fetch draft history")
	}
	s.logger.InfoContext(ctx, "fetched draft picks", "range", r.String(), "count", len(picks))

	if err := s.pickRepo.ReplaceRange(ctx, r, picks); err != nil {
		return MarkStoreUnavailable(err, "store draft picks")
	}
	summary.Picks = len(picks)
	if err := s.statusRepo.SetTotalRecords(ctx, statusID, len(picks)); err != nil {
		return MarkStoreUnavailable(err, "record total records")
	}

	if r.Max >= s.thresholds.ScoresStartYear {
		scoreRange := season.Range{Min: max(r.Min, s.thresholds.ScoresStartYear), Max: r.Max}
		count, err := s.refreshScores(ctx, scoreRange)
		if err != nil {
			return err
		}
		summary.PlayerScores = count
	}

	scores, err := s.scoreRepo.ListByRange(ctx, r)
	if err != nil {
		return MarkStoreUnavailable(err, "load player scores")
	}
	lookup := draft.NewScoreLookup(scores)

	owners, err := s.pickRepo.ListOwners(ctx, r)
	if err != nil {
		return MarkStoreUnavailable(err, "list owners")
	}
	s.logger.InfoContext(ctx, "computing owner stats", "range", r.String(), "owners", len(owners))

	if err := s.statsRepo.DeleteRange(ctx, r); err != nil {
		return MarkStoreUnavailable(err, "clear owner stats")
	}
	for _, owner := range owners {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, "precompute cancelled")
		}
		ownerPicks, err := s.pickRepo.ListByOwner(ctx, owner, r)
		if err != nil {
			return MarkStoreUnavailable(err, "list picks for "+owner)
		}
		if len(ownerPicks) == 0 {
			continue
		}
		stats := draftstats.Compute(owner, r, ownerPicks, lookup, s.thresholds)
		stats.ComputedAt = s.now()
		if err := s.statsRepo.Upsert(ctx, stats); err != nil {
			return MarkStoreUnavailable(err, "store owner stats for "+owner)
		}
		summary.Owners++
	}
	return nil
}

// refreshScores pulls weekly scores one season at a time; whole ranges time
// out on the provider side.
func (s *PrecomputeService) refreshScores(ctx context.Context, r season.Range) (int, error) {
	if err := s.scoreRepo.DeleteRange(ctx, r); err != nil {
		return 0, MarkStoreUnavailable(err, "clear player scores")
	}

	total := 0
	for _, year := range r.Years() {
		rows, err := s.source.FetchPlayerScores(ctx, season.Range{Min: year, Max: year})
		if err != nil {
			return total, errors.Wrapf(err, "fetch player scores for %d", year)
		}
		scores := draft.AggregateWeeklyScores(rows)
		if err := s.scoreRepo.Upsert(ctx, scores); err != nil {
			return total, MarkStoreUnavailable(err, "store player scores")
		}
		total += len(scores)
		s.logger.InfoContext(ctx, "stored player scores", "season", year, "rows", len(rows), "players", len(scores))
	}
	return total, nil
}
