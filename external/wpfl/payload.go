package wpfl

import (
	"math"
	"strings"

	"github.com/riskibarqy/commishbot/internal/domain/draft"
	"github.com/riskibarqy/commishbot/internal/domain/leaguestats"
	"github.com/shopspring/decimal"
)

type draftPickPayload struct {
	Owner             string   `json:"owner"`
	Player            string   `json:"player"`
	PlayerNFLTeam     string   `json:"playerNflTeam"`
	PlayerNFLPosition string   `json:"playerNflPosition"`
	League            string   `json:"league"`
	DraftPosition     *float64 `json:"draftPosition"`
	AuctionValue      *float64 `json:"auctionValue"`
	Season            int      `json:"season"`
}

func (p draftPickPayload) toDomain() (draft.Pick, bool) {
	owner := strings.TrimSpace(p.Owner)
	if owner == "" || p.Season <= 0 {
		return draft.Pick{}, false
	}
	return draft.Pick{
		Owner:         owner,
		Player:        strings.TrimSpace(p.Player),
		NFLTeam:       strings.TrimSpace(p.PlayerNFLTeam),
		NFLPosition:   strings.TrimSpace(p.PlayerNFLPosition),
		League:        strings.TrimSpace(p.League),
		DraftPosition: roundedInt(p.DraftPosition),
		AuctionValue:  roundedInt(p.AuctionValue),
		Season:        p.Season,
	}, true
}

type playerScorePayload struct {
	Player string          `json:"player"`
	Season int             `json:"season"`
	Week   int             `json:"week"`
	Points decimal.Decimal `json:"points"`
}

func (p playerScorePayload) toDomain() draft.WeeklyScore {
	return draft.WeeklyScore{
		Player: strings.TrimSpace(p.Player),
		Season: p.Season,
		Week:   p.Week,
		Points: p.Points,
	}
}

type expectedWinsPayload struct {
	Owner        string          `json:"owner"`
	ExpectedWins decimal.Decimal `json:"expectedWins"`
	ActualWins   int             `json:"actualWins"`
	WeekMin      int             `json:"weekMin"`
	WeekMax      int             `json:"weekMax"`
}

func (p expectedWinsPayload) toDomain() leaguestats.ExpectedWins {
	return leaguestats.ExpectedWins{
		Owner:        strings.TrimSpace(p.Owner),
		ExpectedWins: p.ExpectedWins,
		ActualWins:   p.ActualWins,
		WeekMin:      p.WeekMin,
		WeekMax:      p.WeekMax,
	}
}

type coachingPayload struct {
	Owner            string          `json:"owner"`
	ActualPointsFor  decimal.Decimal `json:"actualPointsFor"`
	OptimalPointsFor decimal.Decimal `json:"optimalPointsFor"`
}

func (p coachingPayload) toDomain() leaguestats.Coaching {
	return leaguestats.Coaching{
		Owner:            strings.TrimSpace(p.Owner),
		ActualPointsFor:  p.ActualPointsFor,
		OptimalPointsFor: p.OptimalPointsFor,
	}
}

// roundedInt maps null and non-positive values to zero, which the domain
// treats as "not present".
func roundedInt(value *float64) int {
	if value == nil || *value <= 0 {
		return 0
	}
	return int(math.Round(*value))
}
