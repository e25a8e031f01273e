package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/maastricht-university/alr-timing/logging"
)

// Store is a read-only handle on an annotation database.
type Store struct {
	db      *gorm.DB
	columns map[string]bool
	log     *logrus.Entry
}

// Open connects to the sqlite file at path in read-only mode. The returned
// Store owns the connection until Close.
func Open(ctx context.Context, path string) (*Store, error) {
	log := logging.For("store").WithField("path", path)

	dsn := fmt.Sprintf("file:%s?mode=ro", path)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w: %w", path, ErrUnavailable, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w: %w", path, ErrUnavailable, err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("open %s: %w: %w", path, ErrUnavailable, err)
	}

	s := &Store{db: db, columns: map[string]bool{}, log: log}
	if !db.WithContext(ctx).Migrator().HasTable(&Doc{}) {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("open %s: no %q table: %w", path, Doc{}.TableName(), ErrUnavailable)
	}
	cts, err := db.WithContext(ctx).Migrator().ColumnTypes(&Doc{})
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("open %s: read schema: %w: %w", path, ErrUnavailable, err)
	}
	for _, ct := range cts {
		s.columns[ct.Name()] = true
	}

	log.WithField("columns", len(s.columns)).Debug("store opened")
	return s, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	s.log.Debug("store closed")
	return sqlDB.Close()
}

// Get loads the requested fields of document id. The id is always loaded.
// Annotation fields whose column does not exist come back NULL; any other
// missing column is ErrNotFound.
func (s *Store) Get(ctx context.Context, id int64, fields ...Field) (*Doc, error) {
	cols := []string{columns[FieldID]}
	for _, f := range fields {
		c, err := f.Column()
		if err != nil {
			return nil, err
		}
		if !s.columns[c] {
			if f.Annotation() {
				s.log.WithField("column", c).Debug("annotation column absent")
				continue
			}
			return nil, fmt.Errorf("column %q: %w", c, ErrNotFound)
		}
		if f != FieldID {
			cols = append(cols, c)
		}
	}

	var doc Doc
	err := s.db.WithContext(ctx).Select(cols).Where("id = ?", id).Take(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("doc %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("doc %d: %w", id, err)
	}
	return &doc, nil
}

// IDs lists document ids in ascending order.
func (s *Store) IDs(ctx context.Context, limit, offset int) ([]int64, error) {
	var ids []int64
	err := s.db.WithContext(ctx).
		Model(&Doc{}).
		Order("id").
		Limit(limit).
		Offset(offset).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("list ids: %w", err)
	}
	return ids, nil
}
