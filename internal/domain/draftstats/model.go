package draftstats

import (
	"time"

	"github.com/riskibarqy/commishbot/internal/domain/season"
)

// OwnerDraftStats is one precomputed snapshot for an owner over a season
// range. Nil pointers mean the metric could not be computed for the range.
type OwnerDraftStats struct {
	ID                int64
	Owner             string
	Range             season.Range
	TotalPicks        int
	SnakePicks        int
	AuctionPicks      int
	AvgDraftPosition  *float64
	EarliestPick      *int
	LatestPick        *int
	AuctionTotalSpent int
	AuctionAvgValue   *float64
	AuctionMaxBid     *int
	AuctionMinBid     *int
	AuctionROI        *float64
	AuctionHitRate    *float64
	AuctionBustRate   *float64
	Complex           ComplexStats
	ComputedAt        time.Time
}

// ComplexStats is the secondary statistics blob stored next to the row.
type ComplexStats struct {
	TeamFrequency     map[string]int           `json:"teamFrequency"`
	PositionFrequency map[string]int           `json:"positionFrequency"`
	PositionByRound   PositionByRound          `json:"positionByRound"`
	RepeatPlayers     []RepeatPlayer           `json:"repeatPlayers"`
	TopTeams          []TeamShare              `json:"topTeams"`
	FavoritePosition  *PositionShare           `json:"favoritePosition"`
	YearlyBreakdown   map[string]YearBreakdown `json:"yearlyBreakdown"`
	DraftTrends       DraftTrends              `json:"draftTrends"`
	Streaks           Streaks                  `json:"streaks"`
}

type PositionByRound struct {
	Early map[string]int `json:"early"`
	Mid   map[string]int `json:"mid"`
	Late  map[string]int `json:"late"`
}

func (p PositionByRound) Phase(phase RoundPhase) map[string]int {
	switch phase {
	case PhaseEarly:
		return p.Early
	case PhaseMid:
		return p.Mid
	default:
		return p.Late
	}
}

type RepeatPlayer struct {
	Player           string   `json:"player"`
	Count            int      `json:"count"`
	Seasons          []int    `json:"seasons"`
	Positions        []string `json:"positions"`
	Teams            []string `json:"teams"`
	AvgDraftPosition *float64 `json:"avgDraftPosition,omitempty"`
}

type TeamShare struct {
	Team       string  `json:"team"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type PositionShare struct {
	Position   string  `json:"position"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type YearBreakdown struct {
	Picks       int            `json:"picks"`
	AvgPosition float64        `json:"avgPosition"`
	Positions   map[string]int `json:"positions"`
}

type DraftTrends struct {
	PositionTrends map[string][]PositionTrendPoint `json:"positionTrends"`
	ReachRate      float64                         `json:"reachRate"`
	ValueHunting   float64                         `json:"valueHunting"`
	Consistency    float64                         `json:"consistency"`
}

type PositionTrendPoint struct {
	Year       int     `json:"year"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type Streaks struct {
	BestDraftYear  *int `json:"bestDraftYear"`
	WorstDraftYear *int `json:"worstDraftYear"`
}

// EmptyComplexStats is substituted whenever a stored blob cannot be decoded.
func EmptyComplexStats() ComplexStats {
	return ComplexStats{
		TeamFrequency:     map[string]int{},
		PositionFrequency: map[string]int{},
		PositionByRound: PositionByRound{
			Early: map[string]int{},
			Mid:   map[string]int{},
			Late:  map[string]int{},
		},
		RepeatPlayers:   []RepeatPlayer{},
		TopTeams:        []TeamShare{},
		YearlyBreakdown: map[string]YearBreakdown{},
		DraftTrends: DraftTrends{
			PositionTrends: map[string][]PositionTrendPoint{},
		},
	}
}

// Normalize fills nil collections left behind by a partial blob.
func (c ComplexStats) Normalize() ComplexStats {
	empty := EmptyComplexStats()
	if c.TeamFrequency == nil {
		c.TeamFrequency = empty.TeamFrequency
	}
	if c.PositionFrequency == nil {
		c.PositionFrequency = empty.PositionFrequency
	}
	if c.PositionByRound.Early == nil {
		c.PositionByRound.Early = map[string]int{}
	}
	if c.PositionByRound.Mid == nil {
		c.PositionByRound.Mid = map[string]int{}
	}
	if c.PositionByRound.Late == nil {
		c.PositionByRound.Late = map[string]int{}
	}
	if c.RepeatPlayers == nil {
		c.RepeatPlayers = empty.RepeatPlayers
	}
	if c.TopTeams == nil {
		c.TopTeams = empty.TopTeams
	}
	if c.YearlyBreakdown == nil {
		c.YearlyBreakdown = empty.YearlyBreakdown
	}
	if c.DraftTrends.PositionTrends == nil {
		c.DraftTrends.PositionTrends = empty.DraftTrends.PositionTrends
	}
	return c
}

type RoundPhase string

const (
	PhaseEarly RoundPhase = "early"
	PhaseMid   RoundPhase = "mid"
	PhaseLate  RoundPhase = "late"
)
