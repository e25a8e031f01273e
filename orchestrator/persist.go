package orchestrator

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/maastricht-university/alr-timing/annotation"
)

type PersistBundle struct {
	SessionID   string    `json:"session_id"`
	StorePath   string    `json:"store_path"`
	GeneratedAt time.Time `json:"generated_at"`
	Tolerance   float64   `json:"tolerance"`
	Summary     Summary   `json:"summary"`
}

func mkSessionDir(outputsRoot string, docID int64, now time.Time) (string, string, error) {
	sid := fmt.Sprintf("session_%s_doc%d", now.Format("20060102-150405"), docID)
	dir := filepath.Join(outputsRoot, sid)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", err
	}
	return sid, dir, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func persist(outputsRoot, storePath string, tolerance float64, now time.Time, res *Result) (*Exported, error) {
	sid, outDir, err := mkSessionDir(outputsRoot, res.Summary.DocID, now)
	if err != nil {
		return nil, err
	}

	labelsPath := filepath.Join(outDir, "labels.json")
	summaryPath := filepath.Join(outDir, "summary.json")

	intervals := res.Intervals
	if intervals == nil {
		intervals = []annotation.Interval{}
	}
	if err := writeJSON(labelsPath, intervals); err != nil {
		return nil, err
	}

	bundle := PersistBundle{
		SessionID:   sid,
		StorePath:   storePath,
		GeneratedAt: now,
		Tolerance:   tolerance,
		Summary:     res.Summary,
	}
	if err := writeJSON(summaryPath, bundle); err != nil {
		return nil, err
	}

	return &Exported{SessionID: sid, LabelsPath: labelsPath, SummaryPath: summaryPath}, nil
}
