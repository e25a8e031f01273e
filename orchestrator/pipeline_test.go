package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/maastricht-university/alr-timing/annotation"
	"github.com/maastricht-university/alr-timing/clients"
	cfg "github.com/maastricht-university/alr-timing/config"
	"github.com/maastricht-university/alr-timing/store"
	"github.com/maastricht-university/alr-timing/store/storetest"
)

func newTestPipeline(t *testing.T) (*Pipeline, *cfg.Root) {
	t.Helper()
	path := storetest.Write(t, store.Doc{
		ID:      1,
		Content: storetest.Text("今日は晴れ"),
		Clause:  storetest.Text(`[{"begin": 0, "end": 5, "starttime": 0.0, "endtime": 0.5}]`),
		Response: storetest.Text(`[` +
			`{"begin": 0, "end": 5, "starttime": 0.02, "endtime": 0.05, "listener": "o", "label": "back-channel", "lemma": "うん"},` +
			`{"begin": 0, "end": 5, "starttime": 0.03, "endtime": 0.04, "listener": "a", "label": "back-channel", "lemma": "はい"}]`),
	})
	s, err := store.Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	c := &cfg.Root{}
	c.Store.Path = path
	c.Labeling.Listener = "o"
	c.Paths.Outputs = t.TempDir()

	p := NewPipeline(c, s)
	p.now = func() time.Time { return time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC) }
	return p, c
}

func TestPipeline_RunAndReport(t *testing.T) {
	p, _ := newTestPipeline(t)

	res, err := p.Run(context.Background(), 1, "o")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	want := Summary{DocID: 1, Listener: "o", Pairs: 1, Intervals: 5, Positives: 1}
	got := res.Summary
	got.Seconds = 0
	if got != want {
		t.Errorf("Summary = %+v, want %+v", res.Summary, want)
	}

	var buf bytes.Buffer
	p.Report(&buf, res)
	wantOut := "Start Time: 0.0, End Time: 0.01, Label: 0\n" +
		"Start Time: 0.01, End Time: 0.02, Label: 0\n" +
		"Start Time: 0.02, End Time: 0.03, Label: 1\n" +
		"Start Time: 0.03, End Time: 0.04, Label: 0\n" +
		"Start Time: 0.04, End Time: 0.05, Label: 0\n"
	if buf.String() != wantOut {
		t.Errorf("Report() output:\n%s\nwant:\n%s", buf.String(), wantOut)
	}
}

func TestPipeline_RunMissingDoc(t *testing.T) {
	p, _ := newTestPipeline(t)
	if _, err := p.Run(context.Background(), 9, "o"); err == nil {
		t.Fatal("Run() expected error for a missing document")
	}
}

func TestPipeline_Export(t *testing.T) {
	p, c := newTestPipeline(t)
	res, err := p.Run(context.Background(), 1, "o")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	out, err := p.Export(context.Background(), res)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if out.SessionID != "session_20240501-103000_doc1" {
		t.Errorf("SessionID = %q", out.SessionID)
	}
	if filepath.Dir(out.LabelsPath) != filepath.Join(c.Paths.Outputs, out.SessionID) {
		t.Errorf("LabelsPath = %q", out.LabelsPath)
	}
	if out.TimelinePath != "" {
		t.Errorf("TimelinePath = %q without a visualization service", out.TimelinePath)
	}

	b, err := os.ReadFile(out.LabelsPath)
	if err != nil {
		t.Fatal(err)
	}
	var labels []annotation.Interval
	if err := json.Unmarshal(b, &labels); err != nil {
		t.Fatalf("labels.json: %v", err)
	}
	if len(labels) != 5 || labels[2].Label != 1 {
		t.Errorf("labels.json = %+v", labels)
	}

	b, err = os.ReadFile(out.SummaryPath)
	if err != nil {
		t.Fatal(err)
	}
	var bundle PersistBundle
	if err := json.Unmarshal(b, &bundle); err != nil {
		t.Fatalf("summary.json: %v", err)
	}
	if bundle.SessionID != out.SessionID || bundle.Summary.Positives != 1 {
		t.Errorf("summary.json = %+v", bundle)
	}
}

func TestPipeline_ExportTimeline(t *testing.T) {
	var req clients.TimelineReq
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&req)
		_, _ = w.Write([]byte(`{"status":"ok","path":"timeline.png"}`))
	}))
	defer srv.Close()

	p, c := newTestPipeline(t)
	c.Services.Visualization.URL = srv.URL

	res, err := p.Run(context.Background(), 1, "o")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	out, err := p.Export(context.Background(), res)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if out.TimelinePath != "timeline.png" {
		t.Errorf("TimelinePath = %q", out.TimelinePath)
	}
	if len(req.Timestamps) != 5 || req.Labels[2] != 1 || req.Listener != "o" {
		t.Errorf("timeline request = %+v", req)
	}
}

func TestPipeline_ExportTimelineFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	p, c := newTestPipeline(t)
	c.Services.Visualization.URL = srv.URL

	res, err := p.Run(context.Background(), 1, "o")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if _, err := p.Export(context.Background(), res); err == nil || !strings.Contains(err.Error(), "boom") {
		t.Errorf("Export() error = %v, want the service error", err)
	}
}

func TestSummarizeAndTimeline(t *testing.T) {
	intervals := []annotation.Interval{
		{Start: 0, End: 0.01, Label: 0},
		{Start: 0.01, End: 0.02, Label: 1},
		{Start: 0.5, End: 0.51, Label: 1},
	}
	s := summarize(3, "b", []annotation.TimePair{{Start: 0, End: 0.02}, {Start: 0.5, End: 0.51}}, intervals)
	if s.Pairs != 2 || s.Intervals != 3 || s.Positives != 2 {
		t.Errorf("summarize() = %+v", s)
	}
	if s.Seconds < 0.0299 || s.Seconds > 0.0301 {
		t.Errorf("Seconds = %v, want 0.03", s.Seconds)
	}

	ts, labels := timeline(intervals)
	if len(ts) != 3 || ts[2] != 0.5 || labels[1] != 1 {
		t.Errorf("timeline() = %v, %v", ts, labels)
	}
}
