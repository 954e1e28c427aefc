package repository

import (
	"context"
	"errors"
	"fmt"
	"time"
	"vex-storefront/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StorageRepository is the string-keyed, string-valued substrate shared by
// the catalog, cart and order repositories. Writes are last-writer-wins;
// there are no transactions across slots.
type StorageRepository interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

type storageRepoImpl struct {
	db *gorm.DB
}

func NewStorageRepository(db *gorm.DB) StorageRepository {
	return &storageRepoImpl{
		db: db,
	}
}

func (r *storageRepoImpl) Get(ctx context.Context, key string) (string, bool, error) {
	var slot model.StorageSlot
	err := r.db.WithContext(ctx).
		Where("key = ?", key).
		First(&slot).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read slot %q: %w", key, err)
	}

	return slot.Value, true, nil
}

func (r *storageRepoImpl) Set(ctx context.Context, key, value string) error {
	slot := model.StorageSlot{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now(),
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			UpdateAll: true,
		}).
		Create(&slot).Error

	if err != nil {
		return fmt.Errorf("write slot %q: %w", key, err)
	}

	return nil
}

func (r *storageRepoImpl) Delete(ctx context.Context, key string) error {
	err := r.db.WithContext(ctx).
		Where("key = ?", key).
		Delete(&model.StorageSlot{}).Error

	if err != nil {
		return fmt.Errorf("delete slot %q: %w", key, err)
	}

	return nil
}
