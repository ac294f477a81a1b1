package draft

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// AggregateWeeklyScores sums weekly rows into one total per (player, season).
// Rows without a player name are dropped.
func AggregateWeeklyScores(rows []WeeklyScore) []PlayerSeasonScore {
	totals := make(map[ScoreKey]*PlayerSeasonScore, len(rows)/8+1)
	for _, row := range rows {
		player := strings.TrimSpace(row.Player)
		if player == "" {
			continue
		}
		key := ScoreKey{Player: player, Season: row.Season}
		item, ok := totals[key]
		if !ok {
			item = &PlayerSeasonScore{Player: player, Season: row.Season, TotalPoints: decimal.Zero}
			totals[key] = item
		}
		item.TotalPoints = item.TotalPoints.Add(row.Points)
		item.GamesPlayed++
	}

	out := make([]PlayerSeasonScore, 0, len(totals))
	for _, item := range totals {
		out = append(out, *item)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Season != out[j].Season {
			return out[i].Season < out[j].Season
		}
		return out[i].Player < out[j].Player
	})
	return out
}
