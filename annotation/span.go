package annotation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/maastricht-university/alr-timing/store"
)

var ErrParse = errors.New("parse error")

// Kind names an annotation layer stored as a span list.
type Kind string

const (
	KindSentence Kind = "sentence"
	KindClause   Kind = "clause"
	KindChunk    Kind = "chunk"
	KindToken    Kind = "token"
	KindResponse Kind = "response"
)

func (k Kind) field() (store.Field, error) {
	f := store.Field(k)
	if !f.Annotation() {
		return "", fmt.Errorf("annotation kind %q: %w", string(k), store.ErrUnknownField)
	}
	return f, nil
}

// Span is one annotation record: a character range of the document content
// and the time range it was spoken in. Which payload fields are set depends
// on the layer.
type Span struct {
	Begin     int     `json:"begin"`
	End       int     `json:"end"`
	StartTime float64 `json:"starttime"`
	EndTime   float64 `json:"endtime"`

	POS      string `json:"POS,omitempty"`      // token
	Label    string `json:"label,omitempty"`    // clause, response
	Link     *Link  `json:"link,omitempty"`     // chunk
	Listener string `json:"listener,omitempty"` // response
	Lemma    string `json:"lemma,omitempty"`    // response
}

// Validate checks begin <= end and starttime <= endtime.
func (s Span) Validate() error {
	if s.Begin > s.End {
		return fmt.Errorf("%w: span begin %d > end %d", ErrParse, s.Begin, s.End)
	}
	if s.StartTime > s.EndTime {
		return fmt.Errorf("%w: span starttime %v > endtime %v", ErrParse, s.StartTime, s.EndTime)
	}
	return nil
}

// UnmarshalJSON accepts times encoded either as numbers or as numeric strings.
func (s *Span) UnmarshalJSON(b []byte) error {
	type plain Span
	var aux struct {
		plain
		StartTime flexFloat `json:"starttime"`
		EndTime   flexFloat `json:"endtime"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*s = Span(aux.plain)
	s.StartTime = float64(aux.StartTime)
	s.EndTime = float64(aux.EndTime)
	return nil
}

type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		*f = flexFloat(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*f = flexFloat(v)
	return nil
}

// Link is a chunk's dependency link, stored as a two element list. The last
// element is the index of the parent chunk, or -1 for the root.
type Link struct {
	Tag    json.RawMessage
	Parent int
}

func (l Link) MarshalJSON() ([]byte, error) {
	tag := l.Tag
	if len(tag) == 0 {
		tag = json.RawMessage("null")
	}
	return json.Marshal([]any{tag, l.Parent})
}

func (l *Link) UnmarshalJSON(b []byte) error {
	var parts []json.RawMessage
	if err := json.Unmarshal(b, &parts); err != nil {
		return err
	}
	if len(parts) != 2 {
		return fmt.Errorf("link: want 2 elements, got %d", len(parts))
	}
	if err := json.Unmarshal(parts[1], &l.Parent); err != nil {
		return fmt.Errorf("link parent: %w", err)
	}
	l.Tag = parts[0]
	return nil
}

// DecodeSpans parses a serialized span list. A JSON null yields an empty list.
func DecodeSpans(raw string) ([]Span, error) {
	var spans []Span
	if err := json.Unmarshal([]byte(raw), &spans); err != nil {
		return nil, fmt.Errorf("%w: span list: %v", ErrParse, err)
	}
	if spans == nil {
		spans = []Span{}
	}
	for i, s := range spans {
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("span %d: %w", i, err)
		}
	}
	return spans, nil
}

// EncodeSpans is the inverse of DecodeSpans for canonically encoded lists.
func EncodeSpans(spans []Span) (string, error) {
	if spans == nil {
		spans = []Span{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(spans); err != nil {
		return "", err
	}
	return string(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}

// surface returns the text a span covers, clamped to the content bounds.
func surface(text []rune, s Span) string {
	b, e := s.Begin, s.End
	if b < 0 {
		b = 0
	}
	if e > len(text) {
		e = len(text)
	}
	if b >= e {
		return ""
	}
	return string(text[b:e])
}
