package draftstats

import (
	"fmt"

	"github.com/riskibarqy/commishbot/internal/domain/season"
)

// Thresholds holds every tunable constant used by aggregation, scoring and
// rendering. It is built once at startup and passed by value.
type Thresholds struct {
	SeasonMin        int
	SeasonMax        int
	AuctionStartYear int
	ScoresStartYear  int
	RoundsPerDraft   int
	EarlyRounds      int
	MidRounds        int

	HighAuctionBid    int
	LowAvgValue       float64
	HighConsistency   float64
	HighRepeatPlayers int

	EliteROI         float64
	EliteConsistency float64
	EliteLoyalty     int
	EliteHitRate     float64

	HighRiskBid  int
	HighAvgValue float64

	RBHeavy       float64
	WRHeavy       float64
	EarlyWR       float64
	EarlyRB       float64
	LateStreaming float64

	LateRoundPick          float64
	ValueHuntingMultiplier float64

	// Insight rule cutoffs, on the 0-100 scale of the value they compare.
	SignatureRepeatCount int
	AggressiveReachRate  float64
	HeavyPositionShare   float64
	EliteDraftIQ         float64
	HighRiskTolerance    float64
	HighValueHunting     float64
	HighBustRate         float64
	LowHitRate           float64
	LowConsistency       float64

	// BustPointsPerDollar flags a pick as a bust when it returned fewer
	// points than price times this value.
	BustPointsPerDollar float64

	MaxFieldLength       int
	MaxDescriptionLength int
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		SeasonMin:        2010,
		SeasonMax:        2024,
		AuctionStartYear: 2016,
		ScoresStartYear:  2015,
		RoundsPerDraft:   12,
		EarlyRounds:      3,
		MidRounds:        8,

		HighAuctionBid:    65,
		LowAvgValue:       12,
		HighConsistency:   80,
		HighRepeatPlayers: 5,

		EliteROI:         12,
		EliteConsistency: 85,
		EliteLoyalty:     7,
		EliteHitRate:     65,

		HighRiskBid:  50,
		HighAvgValue: 20,

		RBHeavy:       0.35,
		WRHeavy:       0.40,
		EarlyWR:       0.6,
		EarlyRB:       0.6,
		LateStreaming: 0.5,

		LateRoundPick:          100,
		ValueHuntingMultiplier: 20,
		BustPointsPerDollar:    5,

		SignatureRepeatCount: 3,
		AggressiveReachRate:  40,
		HeavyPositionShare:   30,
		EliteDraftIQ:         85,
		HighRiskTolerance:    70,
		HighValueHunting:     70,
		HighBustRate:         30,
		LowHitRate:           40,
		LowConsistency:       60,

		MaxFieldLength:       1024,
		MaxDescriptionLength: 4096,
	}
}

func (t Thresholds) Bounds() season.Bounds {
	return season.Bounds{Min: t.SeasonMin, Max: t.SeasonMax}
}

func (t Thresholds) Validate() error {
	if t.SeasonMin > t.SeasonMax {
		return fmt.Errorf("season min %d is after season max %d", t.SeasonMin, t.SeasonMax)
	}
	if t.AuctionStartYear < t.SeasonMin || t.AuctionStartYear > t.SeasonMax {
		return fmt.Errorf("auction start year %d outside %d-%d", t.AuctionStartYear, t.SeasonMin, t.SeasonMax)
	}
	if t.ScoresStartYear < t.SeasonMin || t.ScoresStartYear > t.SeasonMax {
		return fmt.Errorf("scores start year %d outside %d-%d", t.ScoresStartYear, t.SeasonMin, t.SeasonMax)
	}
	if t.RoundsPerDraft <= 0 {
		return fmt.Errorf("rounds per draft must be positive")
	}
	if t.EarlyRounds <= 0 || t.MidRounds < t.EarlyRounds {
		return fmt.Errorf("invalid round phases early=%d mid=%d", t.EarlyRounds, t.MidRounds)
	}
	if t.MaxFieldLength < 4 || t.MaxDescriptionLength < 4 {
		return fmt.Errorf("text limits must leave room for an ellipsis")
	}
	return nil
}

// Phase maps a 1-based overall draft position to its round phase.
func (t Thresholds) Phase(draftPosition int) RoundPhase {
	round := (draftPosition + t.RoundsPerDraft - 1) / t.RoundsPerDraft
	switch {
	case round <= t.EarlyRounds:
		return PhaseEarly
	case round <= t.MidRounds:
		return PhaseMid
	default:
		return PhaseLate
	}
}

// ReachPickLimit is the last overall pick that still counts as an early-phase
// pick.
func (t Thresholds) ReachPickLimit() int {
	return t.EarlyRounds * t.RoundsPerDraft
}
