package annotation

import (
	"fmt"
	"math"
	"strconv"
)

const (
	// GridStep is the width of one labeled interval in seconds.
	GridStep = 0.01
	// GridPrecision is the number of decimals grid points are rounded to.
	GridPrecision = 2
)

// TimePair spans from a clause onset to the end of a response that started
// inside that clause.
type TimePair struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Interval is one grid cell. Label is 1 when a response from the selected
// listener starts exactly at Start.
type Interval struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Label int     `json:"label"`
}

func (iv Interval) String() string {
	return fmt.Sprintf("Start Time: %s, End Time: %s, Label: %d",
		FormatSeconds(iv.Start), FormatSeconds(iv.End), iv.Label)
}

// PairTimes emits one TimePair per (clause, response) where the response is
// from listener and starts within [clause.StartTime, clause.EndTime).
func PairTimes(clauses, responses []Span, listener string) []TimePair {
	var pairs []TimePair
	for _, c := range clauses {
		for _, r := range responses {
			if r.Listener != listener {
				continue
			}
			if c.StartTime <= r.StartTime && r.StartTime < c.EndTime {
				pairs = append(pairs, TimePair{Start: c.StartTime, End: r.EndTime})
			}
		}
	}
	return pairs
}

// LabelIntervals walks each pair on a GridStep grid anchored at the pair's
// start. Cells are labeled 1 when a response from listener starts at the
// cell's start. With tolerance 0 the match is exact float equality;
// responses that fall between grid points never match.
func LabelIntervals(pairs []TimePair, responses []Span, listener string, tolerance float64) []Interval {
	var out []Interval
	for _, p := range pairs {
		cur := p.Start
		for cur < p.End {
			next := roundTo(cur+GridStep, GridPrecision)
			if next <= cur {
				// step below float resolution at this magnitude
				break
			}
			label := 0
			for _, r := range responses {
				if r.Listener == listener && onset(r.StartTime, cur, tolerance) {
					label = 1
					break
				}
			}
			out = append(out, Interval{Start: cur, End: next, Label: label})
			cur = next
		}
	}
	return out
}

func onset(start, cur, tolerance float64) bool {
	if tolerance <= 0 {
		return start == cur
	}
	return math.Abs(start-cur) <= tolerance
}

// roundTo rounds x to places decimals, correctly rounded from the exact
// binary value with ties to even, and returns the nearest float64.
func roundTo(x float64, places int) float64 {
	if math.IsInf(x, 0) || math.IsNaN(x) {
		return x
	}
	v, err := strconv.ParseFloat(strconv.FormatFloat(x, 'f', places, 64), 64)
	if err != nil {
		return x
	}
	return v
}

// FormatSeconds renders f as the shortest decimal that round-trips, always
// with a fractional part or exponent: 0.0, 0.01, 1e-05.
func FormatSeconds(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	if abs := math.Abs(f); abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	for _, c := range s {
		if c == '.' {
			return s
		}
	}
	return s + ".0"
}
