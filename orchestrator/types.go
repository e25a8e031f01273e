package orchestrator

import "github.com/maastricht-university/alr-timing/annotation"

type Summary struct {
	DocID     int64   `json:"doc_id"`
	Listener  string  `json:"listener"`
	Pairs     int     `json:"pairs"`     // clause/response pairs scanned
	Intervals int     `json:"intervals"` // grid cells emitted
	Positives int     `json:"positives"` // cells labeled 1
	Seconds   float64 `json:"seconds"`   // total covered time
}

type Result struct {
	Summary   Summary
	Pairs     []annotation.TimePair
	Intervals []annotation.Interval
}

// Exported lists the files written by Export.
type Exported struct {
	SessionID    string `json:"session_id"`
	LabelsPath   string `json:"labels_path"`
	SummaryPath  string `json:"summary_path"`
	TimelinePath string `json:"timeline_path,omitempty"`
}
