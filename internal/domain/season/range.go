package season

import "strconv"

// Bounds is the inclusive season window the league has data for.
type Bounds struct {
	Min int
	Max int
}

// Range is an inclusive season interval, always Min <= Max once normalized.
type Range struct {
	Min int
	Max int
}

func (b Bounds) Full() Range {
	return Range{Min: b.Min, Max: b.Max}
}

// Normalize applies the lookup defaults: a missing bound falls back to the
// nearest supported bound, values are clamped into the window and a reversed
// pair is swapped.
func (b Bounds) Normalize(min, max *int) Range {
	out := b.Full()
	if min != nil {
		out.Min = b.clamp(*min)
	}
	if max != nil {
		out.Max = b.clamp(*max)
	}
	if out.Min > out.Max {
		out.Min, out.Max = out.Max, out.Min
	}
	return out
}

func (b Bounds) Contains(year int) bool {
	return year >= b.Min && year <= b.Max
}

func (b Bounds) clamp(year int) int {
	if year < b.Min {
		return b.Min
	}
	if year > b.Max {
		return b.Max
	}
	return year
}

func (r Range) Contains(year int) bool {
	return year >= r.Min && year <= r.Max
}

func (r Range) Years() []int {
	if r.Max < r.Min {
		return nil
	}
	out := make([]int, 0, r.Max-r.Min+1)
	for year := r.Min; year <= r.Max; year++ {
		out = append(out, year)
	}
	return out
}

// String renders "2016" for a single season and "2010-2024" otherwise.
func (r Range) String() string {
	if r.Min == r.Max {
		return strconv.Itoa(r.Min)
	}
	return strconv.Itoa(r.Min) + "-" + strconv.Itoa(r.Max)
}
