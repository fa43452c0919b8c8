package kv

import (
	"context"
	"errors"
	"time"

	domain "billit-client/internal/domain/store"

	"gorm.io/gorm"
)

// Record is one durable client-state entry. Values are JSON blobs owned by
// the callers; there is no migration mechanism for their schema.
type Record struct {
	Key       string    `gorm:"column:key;primaryKey;size:191"`
	Value     []byte    `gorm:"column:value;type:blob"`
	Version   int64     `gorm:"column:version;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Record) TableName() string { return "client_state" }

type Store struct{ db *gorm.DB }

func NewStore(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Put writes value under key. expectedVersion 0 requires the key to be
// absent; store.AnyVersion skips the check; anything else must match the
// stored version or the write fails with ErrVersionConflict. Returns the new
// version.
func (s *Store) Put(ctx context.Context, key string, value []byte, expectedVersion int64) (int64, error) {
	var newVersion int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cur Record
		res := tx.Where("`key` = ?", key).First(&cur)
		switch {
		case errors.Is(res.Error, gorm.ErrRecordNotFound):
			if expectedVersion > 0 {
				return domain.ErrVersionConflict
			}
			newVersion = 1
			return tx.Create(&Record{Key: key, Value: value, Version: newVersion}).Error
		case res.Error != nil:
			return res.Error
		}

		if expectedVersion != domain.AnyVersion && expectedVersion != cur.Version {
			return domain.ErrVersionConflict
		}
		newVersion = cur.Version + 1
		return tx.Model(&Record{}).
			Where("`key` = ? AND version = ?", key, cur.Version).
			Updates(map[string]any{"value": value, "version": newVersion}).Error
	})
	if err != nil {
		return 0, err
	}
	return newVersion, nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, int64, error) {
	var rec Record
	res := s.db.WithContext(ctx).Where("`key` = ?", key).First(&rec)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, 0, domain.ErrNotFound
	}
	if res.Error != nil {
		return nil, 0, res.Error
	}
	return rec.Value, rec.Version, nil
}

// Remove is idempotent; removing an absent key is not an error.
func (s *Store) Remove(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Where("`key` = ?", key).Delete(&Record{}).Error
}
