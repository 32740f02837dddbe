package repository

import (
	"context"
	"errors"
	"time"

	"storefront/internal/domain/model"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// storage_entriesテーブルを使うKeyValueStorage
type StorageGormRepository struct {
	db *gorm.DB
}

// DI
func NewStorageGormRepository(db *gorm.DB) *StorageGormRepository {
	return &StorageGormRepository{db: db}
}

func (r *StorageGormRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var e model.StorageEntry

	err := r.db.WithContext(ctx).
		Where("key = ?", key).
		First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, pkgerrors.Wrapf(err, "get key %q", key)
	}
	return e.Value, true, nil
}

// 同じキーは丸ごと上書き
func (r *StorageGormRepository) Set(ctx context.Context, key string, value string) error {
	e := model.StorageEntry{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now(),
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&e).Error
	if err != nil {
		return pkgerrors.Wrapf(err, "set key %q", key)
	}
	return nil
}
