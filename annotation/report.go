package annotation

import (
	"context"
	"fmt"
	"io"
)

// WriteAnnotation prints the content followed by the token, chunk, clause
// and sentence layers with their surfaces and times.
func (a *Accessor) WriteAnnotation(ctx context.Context, w io.Writer) error {
	content, err := a.Content(ctx)
	if err != nil {
		return err
	}
	layers, err := a.annotations(ctx, KindToken, KindChunk, KindClause, KindSentence)
	if err != nil {
		return err
	}
	tokens, chunks, clauses, sentences := layers[0], layers[1], layers[2], layers[3]
	text := []rune(content)
	fs := FormatSeconds

	fmt.Fprintln(w, "content:")
	fmt.Fprintln(w, content)

	fmt.Fprintln(w, "tokens:")
	for _, t := range tokens {
		fmt.Fprintln(w, "  ", t.POS, "\t", surface(text, t))
		fmt.Fprintln(w, "  ", fs(t.StartTime), fs(t.EndTime))
	}

	fmt.Fprintln(w, "chunks:")
	for i, c := range chunks {
		fmt.Fprintln(w, "  ", fs(c.StartTime), fs(c.EndTime), surface(text, c))
		parent := -1
		if c.Link != nil {
			parent = c.Link.Parent
		}
		if parent == -1 {
			fmt.Fprintln(w, "\t-->", "None")
			continue
		}
		if parent < 0 || parent >= len(chunks) {
			return fmt.Errorf("doc %d chunk %d: %w: link %d out of range", a.docID, i, ErrParse, parent)
		}
		fmt.Fprintln(w, "\t-->", surface(text, chunks[parent]))
	}

	fmt.Fprintln(w, "clauses:")
	for _, c := range clauses {
		fmt.Fprintln(w, "  ", surface(text, c), "\t", c.Label)
		fmt.Fprintln(w, "  ", fs(c.StartTime), fs(c.EndTime))
	}

	fmt.Fprintln(w, "sentences:")
	for _, s := range sentences {
		fmt.Fprintln(w, "  ", surface(text, s))
		fmt.Fprintln(w, "  ", fs(s.StartTime), fs(s.EndTime))
	}
	return nil
}

// WriteResponses prints each clause followed by every response, from any
// listener, that starts while the clause is being spoken.
func (a *Accessor) WriteResponses(ctx context.Context, w io.Writer) error {
	content, err := a.Content(ctx)
	if err != nil {
		return err
	}
	layers, err := a.annotations(ctx, KindClause, KindResponse)
	if err != nil {
		return err
	}
	text := []rune(content)
	fs := FormatSeconds

	for _, u := range layers[0] {
		fmt.Fprintln(w, surface(text, u), "\t", fs(u.StartTime), "\t", fs(u.EndTime))
		for _, r := range layers[1] {
			if u.StartTime <= r.StartTime && r.StartTime < u.EndTime {
				fmt.Fprintf(w, "  %s, %s, %s, %s, %s\n",
					r.Listener, r.Lemma, r.Label, fs(r.StartTime), fs(r.EndTime))
			}
		}
	}
	return nil
}

// WriteGroups prints one line per response group in insertion order.
func WriteGroups(w io.Writer, g *ResponseGroups) {
	for _, k := range g.Keys() {
		fmt.Fprintf(w, "%s: %v\n", k, g.Get(k))
	}
}

// WriteIntervals prints one line per interval.
func WriteIntervals(w io.Writer, intervals []Interval) {
	for _, iv := range intervals {
		fmt.Fprintln(w, iv.String())
	}
}
