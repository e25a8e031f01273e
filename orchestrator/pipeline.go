package orchestrator

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/maastricht-university/alr-timing/annotation"
	"github.com/maastricht-university/alr-timing/clients"
	cfg "github.com/maastricht-university/alr-timing/config"
	"github.com/maastricht-university/alr-timing/logging"
)

type Pipeline struct {
	cfg   *cfg.Root
	store annotation.Store
	http  *clients.HTTP
	now   func() time.Time
	log   *logrus.Entry
}

func NewPipeline(c *cfg.Root, s annotation.Store) *Pipeline {
	return &Pipeline{
		cfg:   c,
		store: s,
		http:  clients.NewHTTP(cfg.DurSeconds(c.Services.Visualization.TimeoutSec)),
		now:   time.Now,
		log:   logging.For("pipeline"),
	}
}

// Accessor returns an accessor for docID configured with the pipeline's
// labeling options.
func (p *Pipeline) Accessor(docID int64) *annotation.Accessor {
	return annotation.New(p.store, docID, annotation.WithTolerance(p.cfg.Labeling.Tolerance))
}

// Run labels the response timing of listener in document docID.
func (p *Pipeline) Run(ctx context.Context, docID int64, listener string) (*Result, error) {
	a := p.Accessor(docID)

	pairs, err := a.StartEndTimes(ctx, listener)
	if err != nil {
		return nil, err
	}
	intervals, err := a.AnnotateIntervals(ctx, listener)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Summary:   summarize(docID, listener, pairs, intervals),
		Pairs:     pairs,
		Intervals: intervals,
	}
	p.log.WithFields(logrus.Fields{
		"doc_id":    docID,
		"listener":  listener,
		"pairs":     res.Summary.Pairs,
		"intervals": res.Summary.Intervals,
		"positives": res.Summary.Positives,
	}).Info("labeling done")
	return res, nil
}

// Report writes one line per labeled interval.
func (p *Pipeline) Report(w io.Writer, res *Result) {
	annotation.WriteIntervals(w, res.Intervals)
}

// Export writes the labeling under paths.outputs and, when a visualization
// service is configured, asks it to render a timeline.
func (p *Pipeline) Export(ctx context.Context, res *Result) (*Exported, error) {
	out, err := persist(p.cfg.Paths.Outputs, p.cfg.Store.Path, p.cfg.Labeling.Tolerance, p.now(), res)
	if err != nil {
		return nil, fmt.Errorf("persist: %w", err)
	}
	p.log.WithField("session", out.SessionID).Info("labels written")

	url := p.cfg.Services.Visualization.URL
	if url == "" {
		return out, nil
	}
	ts, labels := timeline(res.Intervals)
	viz, err := p.http.GenerateTimeline(ctx, url, clients.TimelineReq{
		DocID:      res.Summary.DocID,
		Listener:   res.Summary.Listener,
		Timestamps: ts,
		Labels:     labels,
		OutputDir:  p.cfg.Paths.Outputs,
	})
	if err != nil {
		return nil, err
	}
	out.TimelinePath = viz.Path
	p.log.WithField("path", viz.Path).Info("timeline rendered")
	return out, nil
}
