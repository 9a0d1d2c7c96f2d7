package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xy-planning-network/artmatch"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var _ Storage = (*Gorm)(nil)

// A PersistedState is a row holding one stored value.
type PersistedState struct {
	Key       string `gorm:"primaryKey;size:255"`
	Value     []byte
	UpdatedAt time.Time
}

// TableName implements gorm's schema.Tabler.
func (PersistedState) TableName() string { return "persisted_states" }

// A Gorm stores values in the persisted_states table.
type Gorm struct {
	db  *gorm.DB
	ttl time.Duration
}

// NewGorm constructs a *Gorm from an open connection,
// creating the persisted_states table if needed.
// A positive ttl expires rows that long after they were last set.
func NewGorm(db *gorm.DB, ttl time.Duration) (*Gorm, error) {
	if err := db.AutoMigrate(new(PersistedState)); err != nil {
		return nil, fmt.Errorf("%w: migrating persisted_states: %s", artmatch.ErrBadConfig, err)
	}

	return &Gorm{db: db, ttl: ttl}, nil
}

// Get returns the value stored under key.
func (s *Gorm) Get(ctx context.Context, key string) ([]byte, error) {
	var row PersistedState
	q := s.db.WithContext(ctx).Where("key = ?", key)
	if s.ttl > 0 {
		q = q.Where("updated_at > ?", s.cutoff())
	}

	err := q.First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, key)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %s", artmatch.ErrUnexpected, err)
	}

	return row.Value, nil
}

// Set upserts val under key.
// With a TTL, Set also deletes every expired row.
func (s *Gorm) Set(ctx context.Context, key string, val []byte) error {
	row := PersistedState{Key: key, Value: val, UpdatedAt: time.Now().UTC()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("%w: %s", artmatch.ErrUnexpected, err)
	}

	if s.ttl <= 0 {
		return nil
	}

	err = s.db.WithContext(ctx).Where("updated_at <= ?", s.cutoff()).Delete(new(PersistedState)).Error
	if err != nil {
		return fmt.Errorf("%w: expiring rows: %s", artmatch.ErrUnexpected, err)
	}

	return nil
}

func (s *Gorm) cutoff() time.Time { return time.Now().UTC().Add(-s.ttl) }

// Delete removes the row for key.
func (s *Gorm) Delete(ctx context.Context, key string) error {
	err := s.db.WithContext(ctx).Where("key = ?", key).Delete(new(PersistedState)).Error
	if err != nil {
		return fmt.Errorf("%w: %s", artmatch.ErrUnexpected, err)
	}

	return nil
}

// Close closes the underlying connection pool.
func (s *Gorm) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}
