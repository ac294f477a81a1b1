package draftstats

import (
	"math"
	"sort"
	"strconv"

	"github.com/riskibarqy/commishbot/internal/domain/draft"
	"github.com/riskibarqy/commishbot/internal/domain/season"
)

const (
	topTeamsLimit      = 3
	repeatPlayersLimit = 10
)

// Compute builds the snapshot for one owner from that owner's picks in r.
// Picks belonging to other owners or seasons outside r must already be
// filtered out by the caller.
func Compute(owner string, r season.Range, picks []draft.Pick, scores draft.ScoreLookup, t Thresholds) OwnerDraftStats {
	out := OwnerDraftStats{
		Owner:      owner,
		Range:      r,
		TotalPicks: len(picks),
		Complex:    EmptyComplexStats(),
	}
	if len(picks) == 0 {
		return out
	}

	var (
		positioned     []float64
		auction        []draft.Pick
		earliest       = math.MaxInt
		latest         = 0
		positionSum    float64
		maxBid, minBid int
	)
	for _, pick := range picks {
		if pick.HasDraftPosition() {
			positioned = append(positioned, float64(pick.DraftPosition))
			positionSum += float64(pick.DraftPosition)
			earliest = min(earliest, pick.DraftPosition)
			latest = max(latest, pick.DraftPosition)
		}
		if pick.IsAuction(t.AuctionStartYear) {
			auction = append(auction, pick)
			out.AuctionTotalSpent += pick.AuctionValue
			if len(auction) == 1 {
				maxBid, minBid = pick.AuctionValue, pick.AuctionValue
			}
			maxBid = max(maxBid, pick.AuctionValue)
			minBid = min(minBid, pick.AuctionValue)
		}
	}
	out.AuctionPicks = len(auction)
	out.SnakePicks = out.TotalPicks - out.AuctionPicks

	if len(positioned) > 0 {
		out.AvgDraftPosition = ptr(round(positionSum/float64(len(positioned)), 2))
		out.EarliestPick = ptr(earliest)
		out.LatestPick = ptr(latest)
	}

	if len(auction) > 0 {
		out.AuctionAvgValue = ptr(round(float64(out.AuctionTotalSpent)/float64(len(auction)), 2))
		out.AuctionMaxBid = ptr(maxBid)
		out.AuctionMinBid = ptr(minBid)
		if r.Max >= t.ScoresStartYear {
			if perf, ok := auctionPerformance(auction, scores, t); ok {
				out.AuctionROI = ptr(perf.roi)
				out.AuctionHitRate = ptr(perf.hitRate)
				out.AuctionBustRate = ptr(perf.bustRate)
			}
		}
	}

	out.Complex = computeComplex(picks, positioned, auction, out.AuctionROI != nil, t)
	return out
}

type performance struct {
	roi      float64
	hitRate  float64
	bustRate float64
}

// auctionPerformance prices auction picks against the season totals of the
// drafted players. Picks without a known, positive score are ignored.
func auctionPerformance(auction []draft.Pick, scores draft.ScoreLookup, t Thresholds) (performance, bool) {
	type sample struct {
		value          float64
		points         float64
		pointsPerValue float64
	}

	samples := make([]sample, 0, len(auction))
	for _, pick := range auction {
		if pick.Player == "" || pick.Season < t.ScoresStartYear {
			continue
		}
		score, ok := scores.Find(pick.Player, pick.Season)
		if !ok || !score.TotalPoints.IsPositive() {
			continue
		}
		points := score.TotalPoints.InexactFloat64()
		value := float64(pick.AuctionValue)
		samples = append(samples, sample{value: value, points: points, pointsPerValue: points / value})
	}
	if len(samples) == 0 {
		return performance{}, false
	}

	var totalValue, totalPoints, ppvSum float64
	for _, s := range samples {
		totalValue += s.value
		totalPoints += s.points
		ppvSum += s.pointsPerValue
	}
	avgPPV := ppvSum / float64(len(samples))

	var hits, busts int
	for _, s := range samples {
		if s.pointsPerValue > avgPPV {
			hits++
		}
		if s.points < s.value*t.BustPointsPerDollar {
			busts++
		}
	}

	n := float64(len(samples))
	return performance{
		roi:      round(totalPoints/totalValue, 2),
		hitRate:  round(float64(hits)/n*100, 1),
		bustRate: round(float64(busts)/n*100, 1),
	}, true
}

func computeComplex(picks []draft.Pick, positioned []float64, auction []draft.Pick, hasROI bool, t Thresholds) ComplexStats {
	c := EmptyComplexStats()
	total := float64(len(picks))

	type playerAgg struct {
		count       int
		seasons     []int
		positions   map[string]struct{}
		teams       map[string]struct{}
		positionSum float64
		positioned  int
	}
	players := make(map[string]*playerAgg)
	yearPositionSum := make(map[string]float64)
	yearPositioned := make(map[string]int)
	reach := 0

	for _, pick := range picks {
		team := pick.Team()
		position := pick.Position()
		c.TeamFrequency[team]++
		c.PositionFrequency[position]++

		if pick.HasDraftPosition() {
			c.PositionByRound.Phase(t.Phase(pick.DraftPosition))[position]++
			if pick.DraftPosition <= t.ReachPickLimit() {
				reach++
			}
		}

		year := strconv.Itoa(pick.Season)
		yb, ok := c.YearlyBreakdown[year]
		if !ok {
			yb = YearBreakdown{Positions: map[string]int{}}
		}
		yb.Picks++
		yb.Positions[position]++
		c.YearlyBreakdown[year] = yb
		if pick.HasDraftPosition() {
			yearPositionSum[year] += float64(pick.DraftPosition)
			yearPositioned[year]++
		}

		if pick.Player == "" {
			continue
		}
		agg, ok := players[pick.Player]
		if !ok {
			agg = &playerAgg{positions: map[string]struct{}{}, teams: map[string]struct{}{}}
			players[pick.Player] = agg
		}
		agg.count++
		agg.seasons = append(agg.seasons, pick.Season)
		if position != draft.UnknownLabel {
			agg.positions[position] = struct{}{}
		}
		if team != draft.UnknownLabel {
			agg.teams[team] = struct{}{}
		}
		if pick.HasDraftPosition() {
			agg.positionSum += float64(pick.DraftPosition)
			agg.positioned++
		}
	}

	for year, yb := range c.YearlyBreakdown {
		if n := yearPositioned[year]; n > 0 {
			yb.AvgPosition = round(yearPositionSum[year]/float64(n), 2)
			c.YearlyBreakdown[year] = yb
		}
	}

	for _, entry := range rankCounts(c.TeamFrequency, topTeamsLimit) {
		c.TopTeams = append(c.TopTeams, TeamShare{
			Team:       entry.key,
			Count:      entry.count,
			Percentage: round(float64(entry.count)/total*100, 1),
		})
	}
	if fav := rankCounts(c.PositionFrequency, 1); len(fav) == 1 {
		c.FavoritePosition = &PositionShare{
			Position:   fav[0].key,
			Count:      fav[0].count,
			Percentage: round(float64(fav[0].count)/total*100, 1),
		}
	}

	for name, agg := range players {
		if agg.count < 2 {
			continue
		}
		seasons := append([]int(nil), agg.seasons...)
		sort.Ints(seasons)
		rp := RepeatPlayer{
			Player:    name,
			Count:     agg.count,
			Seasons:   seasons,
			Positions: sortedKeys(agg.positions),
			Teams:     sortedKeys(agg.teams),
		}
		if agg.positioned > 0 {
			rp.AvgDraftPosition = ptr(round(agg.positionSum/float64(agg.positioned), 1))
		}
		c.RepeatPlayers = append(c.RepeatPlayers, rp)
	}
	sort.Slice(c.RepeatPlayers, func(i, j int) bool {
		if c.RepeatPlayers[i].Count != c.RepeatPlayers[j].Count {
			return c.RepeatPlayers[i].Count > c.RepeatPlayers[j].Count
		}
		return c.RepeatPlayers[i].Player < c.RepeatPlayers[j].Player
	})
	if len(c.RepeatPlayers) > repeatPlayersLimit {
		c.RepeatPlayers = c.RepeatPlayers[:repeatPlayersLimit]
	}

	if len(positioned) > 0 {
		c.DraftTrends.Consistency = round(math.Max(0, 100-stdDev(positioned)*2), 1)
	}
	c.DraftTrends.ReachRate = round(float64(reach)/total*100, 1)

	lateRepeats := 0
	for _, rp := range c.RepeatPlayers {
		if rp.AvgDraftPosition != nil && *rp.AvgDraftPosition > t.LateRoundPick {
			lateRepeats++
		}
	}
	c.DraftTrends.ValueHunting = float64(lateRepeats) * t.ValueHuntingMultiplier

	for year, yb := range c.YearlyBreakdown {
		y, err := strconv.Atoi(year)
		if err != nil {
			continue
		}
		for position, count := range yb.Positions {
			c.DraftTrends.PositionTrends[position] = append(c.DraftTrends.PositionTrends[position], PositionTrendPoint{
				Year:       y,
				Count:      count,
				Percentage: round(float64(count)/float64(yb.Picks)*100, 1),
			})
		}
	}
	for position := range c.DraftTrends.PositionTrends {
		points := c.DraftTrends.PositionTrends[position]
		sort.Slice(points, func(i, j int) bool { return points[i].Year < points[j].Year })
	}

	if hasROI && len(auction) > 0 {
		c.Streaks = spendStreaks(auction)
	}
	return c
}

// spendStreaks ranks auction seasons by average price paid. Ties keep the
// earlier season.
func spendStreaks(auction []draft.Pick) Streaks {
	totals := make(map[int]float64)
	counts := make(map[int]int)
	for _, pick := range auction {
		totals[pick.Season] += float64(pick.AuctionValue)
		counts[pick.Season]++
	}
	years := make([]int, 0, len(totals))
	for year := range totals {
		years = append(years, year)
	}
	sort.Ints(years)

	var out Streaks
	best, worst := math.Inf(-1), math.Inf(1)
	for _, year := range years {
		avg := totals[year] / float64(counts[year])
		if avg > best {
			best = avg
			out.BestDraftYear = ptr(year)
		}
		if avg < worst {
			worst = avg
			out.WorstDraftYear = ptr(year)
		}
	}
	return out
}

type countEntry struct {
	key   string
	count int
}

// rankCounts returns the n most frequent keys, skipping the unknown label.
// Ties sort alphabetically so results are stable.
func rankCounts(freq map[string]int, n int) []countEntry {
	entries := make([]countEntry, 0, len(freq))
	for key, count := range freq {
		if key == draft.UnknownLabel {
			continue
		}
		entries = append(entries, countEntry{key: key, count: count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].key < entries[j].key
	})
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for key := range set {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

func stdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	var variance float64
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	return math.Sqrt(variance / float64(len(values)))
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func ptr[T any](v T) *T {
	return &v
}
