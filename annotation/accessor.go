package annotation

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/maastricht-university/alr-timing/logging"
	"github.com/maastricht-university/alr-timing/store"
)

//go:generate mockgen -destination=mock_store_test.go -package=annotation . Store

// Store loads document columns by id.
type Store interface {
	Get(ctx context.Context, id int64, fields ...store.Field) (*store.Doc, error)
}

// Accessor reads the annotations of a single document.
type Accessor struct {
	store     Store
	docID     int64
	tolerance float64
	log       *logrus.Entry
}

type Option func(*Accessor)

// WithTolerance makes interval labeling accept response onsets within eps
// seconds of a grid point. The default, 0, requires exact equality.
func WithTolerance(eps float64) Option {
	return func(a *Accessor) { a.tolerance = eps }
}

func New(s Store, docID int64, opts ...Option) *Accessor {
	a := &Accessor{
		store: s,
		docID: docID,
		log:   logging.For("annotation").WithField("doc_id", docID),
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Content returns the document text.
func (a *Accessor) Content(ctx context.Context) (string, error) {
	d, err := a.store.Get(ctx, a.docID, store.FieldContent)
	if err != nil {
		return "", err
	}
	return d.Content.String, nil
}

// MetaInfo returns the id, speaker and topic of the document.
func (a *Accessor) MetaInfo(ctx context.Context) (MetaInfo, error) {
	d, err := a.store.Get(ctx, a.docID, store.FieldMetaInfo)
	if err != nil {
		return MetaInfo{}, err
	}
	if !d.MetaInfo.Valid {
		return MetaInfo{}, fmt.Errorf("doc %d: %w: meta_info is NULL", a.docID, ErrParse)
	}
	speaker, topic, err := parseMetaInfo(d.MetaInfo.String)
	if err != nil {
		return MetaInfo{}, fmt.Errorf("doc %d: %w", a.docID, err)
	}
	return MetaInfo{ID: d.ID, Speaker: speaker, Topic: topic}, nil
}

// Annotation returns the spans of one layer. A layer that was never stored
// yields an empty list.
func (a *Accessor) Annotation(ctx context.Context, kind Kind) ([]Span, error) {
	layers, err := a.annotations(ctx, kind)
	if err != nil {
		return nil, err
	}
	return layers[0], nil
}

// annotations loads several layers in one lookup, in the order requested.
func (a *Accessor) annotations(ctx context.Context, kinds ...Kind) ([][]Span, error) {
	fields := make([]store.Field, len(kinds))
	for i, k := range kinds {
		f, err := k.field()
		if err != nil {
			return nil, err
		}
		fields[i] = f
	}

	d, err := a.store.Get(ctx, a.docID, fields...)
	if err != nil {
		return nil, err
	}

	out := make([][]Span, len(kinds))
	for i, f := range fields {
		raw, err := d.Value(f)
		if err != nil {
			return nil, err
		}
		if !raw.Valid {
			out[i] = []Span{}
			continue
		}
		spans, err := DecodeSpans(raw.String)
		if err != nil {
			return nil, fmt.Errorf("doc %d %s: %w", a.docID, kinds[i], err)
		}
		out[i] = spans
	}
	return out, nil
}

// ResponseGroups groups response labels by the text span they align to.
func (a *Accessor) ResponseGroups(ctx context.Context) (*ResponseGroups, error) {
	responses, err := a.Annotation(ctx, KindResponse)
	if err != nil {
		return nil, err
	}

	g := newResponseGroups()
	// Responses are stored listener by listener starting with "o". The
	// current listener is tracked for logging only; every listener is kept.
	listener := "o"
	for _, r := range responses {
		if r.Listener != listener {
			a.log.WithFields(logrus.Fields{"from": listener, "to": r.Listener}).Debug("listener changed")
		}
		key := fmt.Sprintf("%d-%d", r.Begin, r.End)
		g.add(key, r.Label+":"+r.Lemma)
		listener = r.Listener
	}
	return g, nil
}

// StartEndTimes pairs every clause onset with the end of each response from
// listener that starts inside the clause.
func (a *Accessor) StartEndTimes(ctx context.Context, listener string) ([]TimePair, error) {
	layers, err := a.annotations(ctx, KindClause, KindResponse)
	if err != nil {
		return nil, err
	}
	return PairTimes(layers[0], layers[1], listener), nil
}

// AnnotateIntervals labels every StartEndTimes pair on a 10 ms grid.
func (a *Accessor) AnnotateIntervals(ctx context.Context, listener string) ([]Interval, error) {
	layers, err := a.annotations(ctx, KindClause, KindResponse)
	if err != nil {
		return nil, err
	}
	clauses, responses := layers[0], layers[1]

	pairs := PairTimes(clauses, responses, listener)
	out := LabelIntervals(pairs, responses, listener, a.tolerance)
	a.log.WithFields(logrus.Fields{
		"listener":  listener,
		"pairs":     len(pairs),
		"intervals": len(out),
	}).Debug("intervals annotated")
	return out, nil
}

// ResponseGroups is an insertion ordered map from "begin-end" keys to
// "<label>:<lemma>" entries.
type ResponseGroups struct {
	keys   []string
	groups map[string][]string
}

func newResponseGroups() *ResponseGroups {
	return &ResponseGroups{groups: map[string][]string{}}
}

func (g *ResponseGroups) add(key, entry string) {
	if _, ok := g.groups[key]; !ok {
		g.keys = append(g.keys, key)
	}
	g.groups[key] = append(g.groups[key], entry)
}

// Keys returns the span keys in first-seen order.
func (g *ResponseGroups) Keys() []string { return g.keys }

func (g *ResponseGroups) Get(key string) []string { return g.groups[key] }
