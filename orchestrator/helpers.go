package orchestrator

import "github.com/maastricht-university/alr-timing/annotation"

func summarize(docID int64, listener string, pairs []annotation.TimePair, intervals []annotation.Interval) Summary {
	s := Summary{
		DocID:     docID,
		Listener:  listener,
		Pairs:     len(pairs),
		Intervals: len(intervals),
	}
	for _, iv := range intervals {
		s.Seconds += iv.End - iv.Start
		if iv.Label == 1 {
			s.Positives++
		}
	}
	return s
}

// timeline flattens intervals into parallel onset/label series.
func timeline(intervals []annotation.Interval) ([]float64, []int) {
	ts := make([]float64, 0, len(intervals))
	labels := make([]int, 0, len(intervals))
	for _, iv := range intervals {
		ts = append(ts, iv.Start)
		labels = append(labels, iv.Label)
	}
	return ts, labels
}
