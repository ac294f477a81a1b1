package usecase

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/riskibarqy/commishbot/internal/domain/draft"
	"github.com/riskibarqy/commishbot/internal/domain/draftstats"
	"github.com/riskibarqy/commishbot/internal/domain/jobstatus"
	"github.com/riskibarqy/commishbot/internal/domain/season"
)

type stubDraftStatsRepository struct {
	mu       sync.Mutex
	rows     []draftstats.OwnerDraftStats
	getErr   error
	listErr  error
	lookups  []season.Range
	deleted  []season.Range
	upserted []draftstats.OwnerDraftStats
}

func (s *stubDraftStatsRepository) GetLatest(_ context.Context, owner string, r season.Range) (draftstats.OwnerDraftStats, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lookups = append(s.lookups, r)
	if s.getErr != nil {
		return draftstats.OwnerDraftStats{}, false, s.getErr
	}
	var (
		best  draftstats.OwnerDraftStats
		found bool
	)
	for _, row := range s.rows {
		if !strings.EqualFold(row.Owner, owner) || row.Range != r {
			continue
		}
		if !found || row.ComputedAt.After(best.ComputedAt) {
			best, found = row, true
		}
	}
	return best, found, nil
}

func (s *stubDraftStatsRepository) ListOwners(context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	seen := map[string]struct{}{}
	out := []string{}
	for _, row := range s.rows {
		if _, ok := seen[row.Owner]; ok {
			continue
		}
		seen[row.Owner] = struct{}{}
		out = append(out, row.Owner)
	}
	sort.Strings(out)
	return out, nil
}

func (s *stubDraftStatsRepository) DeleteRange(_ context.Context, r season.Range) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, r)
	return nil
}

func (s *stubDraftStatsRepository) Upsert(_ context.Context, stats draftstats.OwnerDraftStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upserted = append(s.upserted, stats)
	return nil
}

type stubDraftSource struct {
	picks       []draft.Pick
	scores      map[int][]draft.WeeklyScore
	failYear    int
	fetchErr    error
	scoreRanges []season.Range
}

func (s *stubDraftSource) FetchDraftHistory(context.Context, season.Range) ([]draft.Pick, error) {
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	return s.picks, nil
}

func (s *stubDraftSource) FetchPlayerScores(_ context.Context, r season.Range) ([]draft.WeeklyScore, error) {
	s.scoreRanges = append(s.scoreRanges, r)
	if s.failYear != 0 && r.Min == s.failYear {
		return nil, ErrDependencyUnavailable
	}
	return s.scores[r.Min], nil
}

type stubMigrator struct {
	calls int
	err   error
}

func (s *stubMigrator) EnsureSchema(context.Context) error {
	s.calls++
	return s.err
}

type stubPickRepository struct {
	picks []draft.Pick
}

func (s *stubPickRepository) ReplaceRange(_ context.Context, r season.Range, picks []draft.Pick) error {
	kept := s.picks[:0]
	for _, pick := range s.picks {
		if !r.Contains(pick.Season) {
			kept = append(kept, pick)
		}
	}
	s.picks = append(kept, picks...)
	return nil
}

func (s *stubPickRepository) ListOwners(_ context.Context, r season.Range) ([]string, error) {
	seen := map[string]struct{}{}
	out := []string{}
	for _, pick := range s.picks {
		if !r.Contains(pick.Season) {
			continue
		}
		if _, ok := seen[pick.Owner]; ok {
			continue
		}
		seen[pick.Owner] = struct{}{}
		out = append(out, pick.Owner)
	}
	sort.Strings(out)
	return out, nil
}

func (s *stubPickRepository) ListByOwner(_ context.Context, owner string, r season.Range) ([]draft.Pick, error) {
	out := []draft.Pick{}
	for _, pick := range s.picks {
		if pick.Owner == owner && r.Contains(pick.Season) {
			out = append(out, pick)
		}
	}
	return out, nil
}

type stubScoreRepository struct {
	rows    map[draft.ScoreKey]draft.PlayerSeasonScore
	deleted []season.Range
}

func (s *stubScoreRepository) DeleteRange(_ context.Context, r season.Range) error {
	s.deleted = append(s.deleted, r)
	for key := range s.rows {
		if r.Contains(key.Season) {
			delete(s.rows, key)
		}
	}
	return nil
}

func (s *stubScoreRepository) Upsert(_ context.Context, scores []draft.PlayerSeasonScore) error {
	if s.rows == nil {
		s.rows = map[draft.ScoreKey]draft.PlayerSeasonScore{}
	}
	for _, score := range scores {
		s.rows[score.Key()] = score
	}
	return nil
}

func (s *stubScoreRepository) ListByRange(_ context.Context, r season.Range) ([]draft.PlayerSeasonScore, error) {
	out := []draft.PlayerSeasonScore{}
	for key, score := range s.rows {
		if r.Contains(key.Season) {
			out = append(out, score)
		}
	}
	return out, nil
}

type stubStatusRepository struct {
	nextID   int64
	runs     map[int64]*jobstatus.Run
	startErr error
}

func (s *stubStatusRepository) Start(_ context.Context, r season.Range, startedAt time.Time) (int64, error) {
	if s.startErr != nil {
		return 0, s.startErr
	}
	if s.runs == nil {
		s.runs = map[int64]*jobstatus.Run{}
	}
	s.nextID++
	s.runs[s.nextID] = &jobstatus.Run{ID: s.nextID, Status: jobstatus.StatusRunning, Range: r, StartedAt: startedAt}
	return s.nextID, nil
}

func (s *stubStatusRepository) SetTotalRecords(_ context.Context, id int64, total int) error {
	s.runs[id].TotalRecords = &total
	return nil
}

func (s *stubStatusRepository) Complete(_ context.Context, id int64, completedAt time.Time) error {
	s.runs[id].Status = jobstatus.StatusCompleted
	s.runs[id].CompletedAt = &completedAt
	return nil
}

func (s *stubStatusRepository) Fail(_ context.Context, id int64, completedAt time.Time, message string) error {
	s.runs[id].Status = jobstatus.StatusError
	s.runs[id].CompletedAt = &completedAt
	s.runs[id].ErrorMessage = message
	return nil
}

func (s *stubStatusRepository) Latest(context.Context) (jobstatus.Run, bool, error) {
	if s.nextID == 0 {
		return jobstatus.Run{}, false, nil
	}
	return *s.runs[s.nextID], true, nil
}
