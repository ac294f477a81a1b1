package draftstats

import "math"

type Archetype string

const (
	ArchetypeShark            Archetype = "Shark"
	ArchetypeValueVulture     Archetype = "Value Vulture"
	ArchetypePrecisionDrafter Archetype = "Precision Drafter"
	ArchetypeLoyaltyLegend    Archetype = "Loyalty Legend"
	ArchetypeChaosAgent       Archetype = "Chaos Agent"
)

func (a Archetype) Emoji() string {
	switch a {
	case ArchetypeShark:
		return "🦈"
	case ArchetypeValueVulture:
		return "🦊"
	case ArchetypePrecisionDrafter:
		return "🎯"
	case ArchetypeLoyaltyLegend:
		return "💘"
	default:
		return "🎲"
	}
}

func (a Archetype) Tagline() string {
	switch a {
	case ArchetypeShark:
		return "Smells blood in the water and pays whatever it takes."
	case ArchetypeValueVulture:
		return "Circles the board waiting for someone else's mistake."
	case ArchetypePrecisionDrafter:
		return "Same slot, same plan, every single year."
	case ArchetypeLoyaltyLegend:
		return "Never met a former favorite they wouldn't draft again."
	default:
		return "Nobody knows what comes next. Including them."
	}
}

// Metrics are the headline scores shown on the identity card.
type Metrics struct {
	DraftIQ       float64
	RiskTolerance float64
	Consistency   float64
	ValueHunting  float64
	Archetype     Archetype
}

func ComputeMetrics(s OwnerDraftStats, t Thresholds) Metrics {
	return Metrics{
		DraftIQ:       DraftIQ(s.AuctionROI, s.AuctionHitRate),
		RiskTolerance: RiskTolerance(s.AuctionMaxBid, s.AuctionAvgValue, t),
		Consistency:   ConsistencyScore(s),
		ValueHunting:  ValueHuntingScore(s),
		Archetype:     ClassifyArchetype(s, t),
	}
}

func DraftIQ(roi, hitRate *float64) float64 {
	score := 50.0
	if roi != nil {
		score += math.Min(25, *roi*5)
	}
	if hitRate != nil {
		score += *hitRate / 4
	}
	return clamp(score)
}

func RiskTolerance(maxBid *int, avgValue *float64, t Thresholds) float64 {
	score := 0.0
	if maxBid != nil && *maxBid > t.HighRiskBid {
		score += float64(*maxBid - t.HighRiskBid)
	}
	if avgValue != nil && *avgValue > t.HighAvgValue {
		score += 20
	}
	return clamp(score * 1.5)
}

// ConsistencyScore rates how predictable an owner's board is from position,
// team and player repetition plus the spread of their draft slots.
func ConsistencyScore(s OwnerDraftStats) float64 {
	score := 50.0
	c := s.Complex

	if fav := c.FavoritePosition; fav != nil {
		switch {
		case fav.Percentage > 40:
			score += 20
		case fav.Percentage > 30:
			score += 10
		}
	}
	if len(c.TopTeams) > 0 {
		switch share := c.TopTeams[0].Percentage; {
		case share > 15:
			score += 15
		case share > 10:
			score += 10
		}
	}

	frequent := 0
	for _, rp := range c.RepeatPlayers {
		if rp.Count >= 3 {
			frequent++
		}
	}
	switch {
	case frequent >= 3:
		score += 15
	case frequent >= 2:
		score += 10
	case frequent >= 1:
		score += 5
	}

	if s.EarliestPick != nil && s.LatestPick != nil && s.AvgDraftPosition != nil && *s.AvgDraftPosition > 0 {
		spread := float64(*s.LatestPick-*s.EarliestPick) / *s.AvgDraftPosition
		switch {
		case spread < 2:
			score += 10
		case spread < 3:
			score += 5
		}
	}
	return clamp(score)
}

func ValueHuntingScore(s OwnerDraftStats) float64 {
	score := 20.0
	avg := s.AuctionAvgValue

	if avg != nil {
		switch {
		case *avg < 10:
			score += 40
		case *avg < 15:
			score += 30
		case *avg < 20:
			score += 20
		case *avg > 25:
			score -= 10
		}
	}
	if roi := s.AuctionROI; roi != nil {
		switch {
		case *roi > 12:
			score += 30
		case *roi > 10:
			score += 20
		case *roi > 8:
			score += 10
		}
	}
	if s.AuctionMaxBid != nil && avg != nil && *avg > 0 {
		switch ratio := float64(*s.AuctionMaxBid) / *avg; {
		case ratio < 3:
			score += 20
		case ratio < 4:
			score += 10
		case ratio > 5:
			score -= 10
		}
	}
	if s.AuctionHitRate != nil && avg != nil && *s.AuctionHitRate > 50 && *avg < 20 {
		score += 10
	}
	return clamp(score)
}

// ClassifyArchetype applies the archetype rules in priority order; the first
// match wins.
func ClassifyArchetype(s OwnerDraftStats, t Thresholds) Archetype {
	switch {
	case s.AuctionMaxBid != nil && *s.AuctionMaxBid > t.HighAuctionBid:
		return ArchetypeShark
	case s.AuctionAvgValue != nil && *s.AuctionAvgValue < t.LowAvgValue:
		return ArchetypeValueVulture
	case s.Complex.DraftTrends.Consistency > t.HighConsistency:
		return ArchetypePrecisionDrafter
	case len(s.Complex.RepeatPlayers) > t.HighRepeatPlayers:
		return ArchetypeLoyaltyLegend
	default:
		return ArchetypeChaosAgent
	}
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}
