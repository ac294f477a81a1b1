package draftstats

import (
	"fmt"
	"strings"
)

const (
	maxSignatureMoves       = 4
	maxEliteTraits          = 4
	maxPositionArchitecture = 4
	maxPredictions          = 3
	maxSleepers             = 3
	maxRecommendations      = 4
)

// Insights is everything the draft trends card renders beyond raw numbers.
type Insights struct {
	Metrics              Metrics
	SignatureMoves       []string
	EliteTraits          []string
	PositionArchitecture []string
	Predictions          []string
	Sleepers             []string
	Recommendations      []string
}

// Analyze derives every score and rule list for s. It is pure.
func Analyze(s OwnerDraftStats, t Thresholds) Insights {
	s.Complex = s.Complex.Normalize()
	m := ComputeMetrics(s, t)
	return Insights{
		Metrics:              m,
		SignatureMoves:       signatureMoves(s, t),
		EliteTraits:          eliteTraits(s, m, t),
		PositionArchitecture: positionArchitecture(s, t),
		Predictions:          predictions(s, m, t),
		Sleepers:             sleepers(s, t),
		Recommendations:      recommendations(s, m, t),
	}
}

type ruleList struct {
	limit int
	items []string
}

func (l *ruleList) add(format string, args ...any) {
	if len(l.items) >= l.limit {
		return
	}
	l.items = append(l.items, fmt.Sprintf(format, args...))
}

func signatureMoves(s OwnerDraftStats, t Thresholds) []string {
	list := ruleList{limit: maxSignatureMoves}
	c := s.Complex

	if s.AuctionMaxBid != nil && *s.AuctionMaxBid > t.HighAuctionBid {
		list.add("🦈 Dropped $%d on a single player without blinking", *s.AuctionMaxBid)
	}
	if early := phaseShare(c.PositionByRound.Early, "RB"); early >= t.EarlyRB {
		list.add("🏃 RB-first: %.0f%% of early picks are running backs", early*100)
	} else if early := phaseShare(c.PositionByRound.Early, "WR"); early >= t.EarlyWR {
		list.add("📡 WR-first: %.0f%% of early picks are receivers", early*100)
	}
	if late := phaseShare(c.PositionByRound.Late, "QB", "TE"); late > t.LateStreaming {
		list.add("📻 Streams QB/TE late (%.0f%% of late picks)", late*100)
	}
	if len(c.RepeatPlayers) > 0 && c.RepeatPlayers[0].Count >= t.SignatureRepeatCount {
		top := c.RepeatPlayers[0]
		list.add("💝 Keeps coming back to **%s** (%dx)", top.Player, top.Count)
	}
	if c.DraftTrends.ReachRate > t.AggressiveReachRate {
		list.add("⚔️ Aggressive early: %.1f%% of picks in the first %d rounds", c.DraftTrends.ReachRate, t.EarlyRounds)
	}
	if fav := c.FavoritePosition; fav != nil && fav.Percentage > t.HeavyPositionShare {
		list.add("📍 Heavy %s drafter (%.1f%% of picks)", fav.Position, fav.Percentage)
	}
	return list.items
}

func eliteTraits(s OwnerDraftStats, m Metrics, t Thresholds) []string {
	list := ruleList{limit: maxEliteTraits}

	if s.AuctionROI != nil && *s.AuctionROI >= t.EliteROI {
		list.add("💎 Elite ROI at %.2f pts/$", *s.AuctionROI)
	}
	if s.Complex.DraftTrends.Consistency >= t.EliteConsistency {
		list.add("🎯 Surgical draft slot consistency (%.1f)", s.Complex.DraftTrends.Consistency)
	}
	if n := len(s.Complex.RepeatPlayers); n >= t.EliteLoyalty {
		list.add("💘 Loyalty hall of fame: %d players drafted more than once", n)
	}
	if s.AuctionHitRate != nil && *s.AuctionHitRate >= t.EliteHitRate {
		list.add("⭐ Hits on %.1f%% of auction buys", *s.AuctionHitRate)
	}
	if m.DraftIQ >= t.EliteDraftIQ {
		list.add("🧠 Draft IQ of %.0f", m.DraftIQ)
	}
	return list.items
}

func positionArchitecture(s OwnerDraftStats, t Thresholds) []string {
	list := ruleList{limit: maxPositionArchitecture}
	c := s.Complex

	if share := phaseShare(c.PositionFrequency, "RB"); share >= t.RBHeavy {
		list.add("🏃 RB-heavy build (%.0f%% of all picks)", share*100)
	}
	if share := phaseShare(c.PositionFrequency, "WR"); share >= t.WRHeavy {
		list.add("📡 WR-heavy build (%.0f%% of all picks)", share*100)
	}
	for _, phase := range []struct {
		label  string
		counts map[string]int
	}{
		{label: fmt.Sprintf("Early (1-%d)", t.EarlyRounds), counts: c.PositionByRound.Early},
		{label: fmt.Sprintf("Mid (%d-%d)", t.EarlyRounds+1, t.MidRounds), counts: c.PositionByRound.Mid},
		{label: fmt.Sprintf("Late (%d+)", t.MidRounds+1), counts: c.PositionByRound.Late},
	} {
		top := rankCounts(phase.counts, 3)
		if len(top) == 0 {
			continue
		}
		parts := make([]string, 0, len(top))
		for _, entry := range top {
			parts = append(parts, fmt.Sprintf("%s (%d)", entry.key, entry.count))
		}
		list.add("**%s:** %s", phase.label, strings.Join(parts, ", "))
	}
	return list.items
}

func predictions(s OwnerDraftStats, m Metrics, t Thresholds) []string {
	list := ruleList{limit: maxPredictions}
	c := s.Complex

	if m.Archetype == ArchetypeShark && s.AuctionMaxBid != nil {
		list.add("🔮 Another $%d+ bid is coming this season", *s.AuctionMaxBid-5)
	}
	if len(c.RepeatPlayers) > 0 {
		list.add("🔮 **%s** lands on this roster again", c.RepeatPlayers[0].Player)
	}
	if len(c.TopTeams) > 0 {
		list.add("🔮 At least one %s player goes in the first %d rounds", c.TopTeams[0].Team, t.EarlyRounds)
	}
	if m.RiskTolerance > t.HighRiskTolerance {
		list.add("🔮 Goes all in on a stud and punts the bench")
	} else if m.ValueHunting >= t.HighValueHunting {
		list.add("🔮 Wins the auction's bargain bin again")
	}
	return list.items
}

// sleepers lists repeat picks that were usually taken late.
func sleepers(s OwnerDraftStats, t Thresholds) []string {
	list := ruleList{limit: maxSleepers}
	for _, rp := range s.Complex.RepeatPlayers {
		if rp.AvgDraftPosition == nil || *rp.AvgDraftPosition <= t.LateRoundPick {
			continue
		}
		list.add("😴 **%s**: %dx, avg pick %.0f", rp.Player, rp.Count, *rp.AvgDraftPosition)
	}
	return list.items
}

func recommendations(s OwnerDraftStats, m Metrics, t Thresholds) []string {
	list := ruleList{limit: maxRecommendations}

	if s.AuctionBustRate != nil && *s.AuctionBustRate > t.HighBustRate {
		list.add("🎯 Trim the expensive gambles: %.1f%% of buys were busts", *s.AuctionBustRate)
	}
	if s.AuctionMaxBid != nil && *s.AuctionMaxBid > t.HighRiskBid && (s.AuctionROI == nil || *s.AuctionROI < t.EliteROI) {
		list.add("💸 Spread the budget: a $%d top bid is not paying off", *s.AuctionMaxBid)
	}
	if s.AuctionAvgValue != nil && *s.AuctionAvgValue > t.HighAvgValue {
		list.add("🔍 Hunt the mid tier: average spend is $%.1f", *s.AuctionAvgValue)
	}
	if s.AuctionHitRate != nil && *s.AuctionHitRate < t.LowHitRate {
		list.add("🧠 Trust the numbers over the names")
	}
	if m.Consistency < t.LowConsistency {
		list.add("🏗️ Pick a plan and stick to it")
	}
	if len(list.items) == 0 {
		list.add("👑 Keep doing exactly this")
	}
	return list.items
}

// phaseShare is the fraction of counts taken by the given positions.
func phaseShare(counts map[string]int, positions ...string) float64 {
	total := 0
	for _, n := range counts {
		total += n
	}
	if total == 0 {
		return 0
	}
	hit := 0
	for _, position := range positions {
		hit += counts[position]
	}
	return float64(hit) / float64(total)
}
