package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// snapshotRecord is one persisted key/value row. The value column holds the
// whole JSON snapshot; Save replaces it atomically.
type snapshotRecord struct {
	Key       string    `gorm:"primaryKey;column:key"`
	Value     string    `gorm:"column:value;type:text"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (snapshotRecord) TableName() string {
	return "snapshots"
}

// GormStore persists snapshots in a single Postgres key/value table.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(databaseURL string) (*GormStore, error) {
	config := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	db, err := gorm.Open(postgres.Open(databaseURL), config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&snapshotRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &GormStore{db: db}, nil
}

func (s *GormStore) Get(ctx context.Context, key string, dest interface{}) error {
	var rec snapshotRecord
	err := s.db.WithContext(ctx).First(&rec, "key = ?", key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(rec.Value), dest); err != nil {
		return fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return nil
}

func (s *GormStore) Set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	rec := snapshotRecord{Key: key, Value: string(data), UpdatedAt: time.Now()}
	return s.db.WithContext(ctx).Save(&rec).Error
}

func (s *GormStore) Delete(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Delete(&snapshotRecord{}, "key = ?", key).Error
}
