// Package store is the typed key-value adapter over the relational
// backend. Collections are gorm models; operations carry no business
// logic. Query pagination is keyset-based: continuation keys are the
// (sort, tiebreak) pair of the last row, never an offset.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/newsfeed/internal/cursor"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store { return &Store{db: db} }

// DB exposes the underlying handle for multi-record transactions.
func (s *Store) DB() *gorm.DB { return s.db }

// Keyed yields a row's continuation position (sort value, tiebreak id).
type Keyed interface {
	PageKey() (int64, string)
}

// PageQuery describes one keyset page over a secondary index.
type PageQuery struct {
	Where      string
	Args       []any
	SortColumn string
	TieColumn  string
	// TimeSort marks SortColumn as a timestamp column; the cursor's
	// sort value is then interpreted as UnixNano.
	TimeSort   bool
	Limit      int
	StartAfter *cursor.Key
}

// Get fetches a single record; absence is (nil, nil), not an error.
func Get[T any](ctx context.Context, s *Store, query string, args ...any) (*T, error) {
	var rec T
	err := s.db.WithContext(ctx).Where(query, args...).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func Put[T any](ctx context.Context, s *Store, rec *T) error {
	return s.db.WithContext(ctx).Create(rec).Error
}

// PutIfAbsent inserts unless a unique index conflicts; it reports
// whether the row was written. This is the conditional write that
// replaces check-then-act existence probes.
func PutIfAbsent[T any](ctx context.Context, s *Store, rec *T) (bool, error) {
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(rec)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// PutAllIfAbsent batch-inserts, silently skipping unique conflicts.
func PutAllIfAbsent[T any](ctx context.Context, s *Store, recs []T) error {
	if len(recs) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&recs).Error
}

// DeleteWhere removes matching rows and reports how many went away.
func DeleteWhere[T any](ctx context.Context, s *Store, query string, args ...any) (int64, error) {
	var zero T
	res := s.db.WithContext(ctx).Where(query, args...).Delete(&zero)
	return res.RowsAffected, res.Error
}

func Exists[T any](ctx context.Context, s *Store, query string, args ...any) (bool, error) {
	var cnt int64
	var zero T
	err := s.db.WithContext(ctx).Model(&zero).Where(query, args...).Count(&cnt).Error
	if err != nil {
		return false, err
	}
	return cnt > 0, nil
}

// BatchGet fetches rows whose key column is in keys. Partial results are
// expected: missing keys are simply absent.
func BatchGet[T any](ctx context.Context, s *Store, column string, keys []string) ([]T, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	var recs []T
	err := s.db.WithContext(ctx).Where(fmt.Sprintf("%s IN ?", column), keys).Find(&recs).Error
	return recs, err
}

// QueryPage runs one descending keyset page. It probes limit+1 rows to
// learn whether the page is truncated and, if so, returns the
// continuation key of the last returned row.
func QueryPage[T Keyed](ctx context.Context, s *Store, q PageQuery) ([]T, *cursor.Key, error) {
	tx := s.db.WithContext(ctx).Where(q.Where, q.Args...)
	if q.StartAfter != nil {
		sortArg := any(q.StartAfter.Sort)
		if q.TimeSort {
			sortArg = time.Unix(0, q.StartAfter.Sort).UTC()
		}
		cond := fmt.Sprintf("%s < ? OR (%s = ? AND %s < ?)", q.SortColumn, q.SortColumn, q.TieColumn)
		tx = tx.Where(cond, sortArg, sortArg, q.StartAfter.ID)
	}

	var items []T
	err := tx.Order(fmt.Sprintf("%s DESC, %s DESC", q.SortColumn, q.TieColumn)).
		Limit(q.Limit + 1).
		Find(&items).Error
	if err != nil {
		return nil, nil, err
	}

	if len(items) <= q.Limit {
		return items, nil, nil
	}
	items = items[:q.Limit]
	sort, id := items[len(items)-1].PageKey()
	return items, &cursor.Key{Sort: sort, ID: id}, nil
}
