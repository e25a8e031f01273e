package store

import (
	"database/sql"
	"fmt"
)

// Field is a logical column of the docs table. Only the fields declared here
// can be projected; the mapping to storage columns is fixed.
type Field string

const (
	FieldID       Field = "id"
	FieldContent  Field = "content"
	FieldMetaInfo Field = "meta_info"
	FieldSentence Field = "sentence"
	FieldClause   Field = "clause"
	FieldChunk    Field = "chunk"
	FieldToken    Field = "token"
	FieldResponse Field = "response"
)

var columns = map[Field]string{
	FieldID:       "id",
	FieldContent:  "content",
	FieldMetaInfo: "meta_info",
	FieldSentence: "sentence",
	FieldClause:   "clause",
	FieldChunk:    "chunk",
	FieldToken:    "token",
	FieldResponse: "response",
}

// Column returns the storage column for f.
func (f Field) Column() (string, error) {
	c, ok := columns[f]
	if !ok {
		return "", fmt.Errorf("field %q: %w", string(f), ErrUnknownField)
	}
	return c, nil
}

// Annotation reports whether f holds a serialized span list. Annotation
// columns that were never created read as NULL instead of failing.
func (f Field) Annotation() bool {
	switch f {
	case FieldSentence, FieldClause, FieldChunk, FieldToken, FieldResponse:
		return true
	}
	return false
}

// Doc is one row of the docs table. Columns not selected by a query stay
// invalid (NULL).
type Doc struct {
	ID       int64          `gorm:"column:id;primaryKey"`
	Content  sql.NullString `gorm:"column:content"`
	MetaInfo sql.NullString `gorm:"column:meta_info"`
	Sentence sql.NullString `gorm:"column:sentence"`
	Clause   sql.NullString `gorm:"column:clause"`
	Chunk    sql.NullString `gorm:"column:chunk"`
	Token    sql.NullString `gorm:"column:token"`
	Response sql.NullString `gorm:"column:response"`
}

func (Doc) TableName() string { return "docs" }

// Value returns the raw column value for f.
func (d *Doc) Value(f Field) (sql.NullString, error) {
	switch f {
	case FieldID:
		return sql.NullString{String: fmt.Sprint(d.ID), Valid: true}, nil
	case FieldContent:
		return d.Content, nil
	case FieldMetaInfo:
		return d.MetaInfo, nil
	case FieldSentence:
		return d.Sentence, nil
	case FieldClause:
		return d.Clause, nil
	case FieldChunk:
		return d.Chunk, nil
	case FieldToken:
		return d.Token, nil
	case FieldResponse:
		return d.Response, nil
	}
	return sql.NullString{}, fmt.Errorf("field %q: %w", string(f), ErrUnknownField)
}
