package draft

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Pick is one player selected by one owner in one season. Zero values mean
// the provider did not send the field.
type Pick struct {
	Owner         string
	Player        string
	NFLTeam       string
	NFLPosition   string
	League        string
	DraftPosition int
	AuctionValue  int
	Season        int
}

// IsAuction reports whether the pick carries a price from an auction-format
// season.
func (p Pick) IsAuction(auctionStartYear int) bool {
	return p.Season >= auctionStartYear && p.AuctionValue > 0
}

func (p Pick) HasDraftPosition() bool {
	return p.DraftPosition > 0
}

func (p Pick) Team() string {
	return normalizeLabel(strings.ToUpper(p.NFLTeam))
}

func (p Pick) Position() string {
	return normalizeLabel(strings.ToUpper(p.NFLPosition))
}

// WeeklyScore is one provider row: a player's fantasy points for one week.
type WeeklyScore struct {
	Player string
	Season int
	Week   int
	Points decimal.Decimal
}

// PlayerSeasonScore is the per-season total used to price auction picks.
type PlayerSeasonScore struct {
	Player      string
	Season      int
	TotalPoints decimal.Decimal
	GamesPlayed int
}

type ScoreKey struct {
	Player string
	Season int
}

func (s PlayerSeasonScore) Key() ScoreKey {
	return ScoreKey{Player: s.Player, Season: s.Season}
}

// ScoreLookup indexes season totals by (player, season).
type ScoreLookup map[ScoreKey]PlayerSeasonScore

func NewScoreLookup(scores []PlayerSeasonScore) ScoreLookup {
	out := make(ScoreLookup, len(scores))
	for _, score := range scores {
		out[score.Key()] = score
	}
	return out
}

func (l ScoreLookup) Find(player string, season int) (PlayerSeasonScore, bool) {
	if l == nil || player == "" {
		return PlayerSeasonScore{}, false
	}
	score, ok := l[ScoreKey{Player: player, Season: season}]
	return score, ok
}

const UnknownLabel = "Unknown"

func normalizeLabel(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return UnknownLabel
	}
	return v
}
