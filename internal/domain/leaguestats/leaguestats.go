// Package leaguestats holds the season summaries the stats API computes per
// owner: expected wins and optimal-lineup coaching efficiency.
package leaguestats

import (
	"sort"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ExpectedWins compares an owner's schedule-independent expected wins with
// the wins actually recorded over weeks WeekMin..WeekMax.
type ExpectedWins struct {
	Owner        string
	ExpectedWins decimal.Decimal
	ActualWins   int
	WeekMin      int
	WeekMax      int
}

// SortByExpectedWins orders rows by expected wins, highest first.
func SortByExpectedWins(rows []ExpectedWins) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].ExpectedWins.GreaterThan(rows[j].ExpectedWins)
	})
}

// Coaching is the points an owner started against the best lineup they
// could have started.
type Coaching struct {
	Owner            string
	ActualPointsFor  decimal.Decimal
	OptimalPointsFor decimal.Decimal
}

// Efficiency is actual/optimal as a percentage; zero when no optimal points
// were recorded.
func (c Coaching) Efficiency() decimal.Decimal {
	if !c.OptimalPointsFor.IsPositive() {
		return decimal.Zero
	}
	return c.ActualPointsFor.Div(c.OptimalPointsFor).Mul(hundred)
}

// Bench is the points left on the bench.
func (c Coaching) Bench() decimal.Decimal {
	return c.OptimalPointsFor.Sub(c.ActualPointsFor)
}

// SortByEfficiency orders rows by coaching efficiency, highest first.
func SortByEfficiency(rows []Coaching) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Efficiency().GreaterThan(rows[j].Efficiency())
	})
}
