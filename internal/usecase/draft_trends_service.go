package usecase

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/commishbot/internal/domain/draftstats"
	"github.com/riskibarqy/commishbot/internal/domain/season"
	"github.com/riskibarqy/commishbot/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

type DraftTrendsQuery struct {
	Owner     string
	SeasonMin *int
	SeasonMax *int
}

type DraftTrendsReport struct {
	Stats     draftstats.OwnerDraftStats
	Insights  draftstats.Insights
	Requested season.Range
	// FellBack is set when Stats covers the full range instead of Requested.
	FellBack bool
}

type DraftTrendsService struct {
	statsRepo  draftstats.Repository
	thresholds draftstats.Thresholds
	logger     *logging.Logger
}

func NewDraftTrendsService(statsRepo draftstats.Repository, thresholds draftstats.Thresholds, logger *logging.Logger) *DraftTrendsService {
	if logger == nil {
		logger = logging.Default()
	}
	return &DraftTrendsService{
		statsRepo:  statsRepo,
		thresholds: thresholds,
		logger:     logger,
	}
}

func (s *DraftTrendsService) Thresholds() draftstats.Thresholds {
	return s.thresholds
}

// Lookup returns the best available snapshot for the owner. It never writes.
func (s *DraftTrendsService) Lookup(ctx context.Context, query DraftTrendsQuery) (report DraftTrendsReport, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DraftTrendsService.Lookup")
	defer func() {
		recordSpanError(span, err)
		span.End()
	}()

	owner := strings.TrimSpace(query.Owner)
	if owner == "" {
		return DraftTrendsReport{}, errors.Wrap(ErrInvalidInput, "owner is required")
	}

	bounds := s.thresholds.Bounds()
	requested := bounds.Normalize(query.SeasonMin, query.SeasonMax)
	span.SetAttributes(
		attribute.String("draft.owner", owner),
		attribute.String("draft.range", requested.String()),
	)

	stats, exists, err := s.statsRepo.GetLatest(ctx, owner, requested)
	if err != nil {
		return DraftTrendsReport{}, MarkStoreUnavailable(err, "get owner draft stats")
	}

	fellBack := false
	if !exists {
		full := bounds.Full()
		if requested != full {
			stats, exists, err = s.statsRepo.GetLatest(ctx, owner, full)
			if err != nil {
				return DraftTrendsReport{}, MarkStoreUnavailable(err, "get full range owner draft stats")
			}
			fellBack = exists
		}
	}
	if !exists {
		return DraftTrendsReport{}, s.notFound(ctx, owner)
	}

	if fellBack {
		s.logger.InfoContext(ctx, "draft trends fell back to full range",
			"owner", owner,
			"requested", requested.String(),
			"served", stats.Range.String(),
		)
	}

	return DraftTrendsReport{
		Stats:     stats,
		Insights:  draftstats.Analyze(stats, s.thresholds),
		Requested: requested,
		FellBack:  fellBack,
	}, nil
}

func (s *DraftTrendsService) notFound(ctx context.Context, owner string) error {
	owners, err := s.statsRepo.ListOwners(ctx)
	if err != nil {
		return MarkStoreUnavailable(err, "list owners for suggestions")
	}
	return &NotFoundError{
		Owner:       owner,
		Suggestions: draftstats.Suggest(owner, owners, draftstats.MaxSuggestions),
	}
}
