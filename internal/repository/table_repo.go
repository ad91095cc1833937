package repository

import (
	"context"
	"errors"

	"elitecafe_v1/internal/model"

	"gorm.io/gorm"
)

// ==================== TableRepository 餐桌仓库 ====================

// TableRepository 餐桌目录只读仓库
type TableRepository interface {
	GetByID(ctx context.Context, id int64) (*model.RestaurantTable, error)
	// ListAvailableByChannel 指定渠道下、不在排除列表中的全部餐桌，按 ID 升序
	ListAvailableByChannel(ctx context.Context, channel string, excludeIDs []int64) ([]model.RestaurantTable, error)
	// ListAvailableByCapacity 指定渠道 + 容量档位下可用的餐桌，按 ID 升序
	ListAvailableByCapacity(ctx context.Context, capacity int, channel string, excludeIDs []int64) ([]model.RestaurantTable, error)
}

type tableRepo struct {
	db *gorm.DB
}

// NewTableRepository 创建餐桌仓库
func NewTableRepository(db *gorm.DB) TableRepository {
	return &tableRepo{db: db}
}

func (r *tableRepo) GetByID(ctx context.Context, id int64) (*model.RestaurantTable, error) {
	var t model.RestaurantTable
	err := r.db.WithContext(ctx).First(&t, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *tableRepo) ListAvailableByChannel(ctx context.Context, channel string, excludeIDs []int64) ([]model.RestaurantTable, error) {
	var tables []model.RestaurantTable
	q := r.db.WithContext(ctx).Where("table_type = ?", channel)
	if len(excludeIDs) > 0 {
		q = q.Where("id NOT IN ?", excludeIDs)
	}
	err := q.Order("id ASC").Find(&tables).Error
	return tables, err
}

func (r *tableRepo) ListAvailableByCapacity(ctx context.Context, capacity int, channel string, excludeIDs []int64) ([]model.RestaurantTable, error) {
	var tables []model.RestaurantTable
	q := r.db.WithContext(ctx).
		Where("capacity = ? AND table_type = ?", capacity, channel)
	if len(excludeIDs) > 0 {
		q = q.Where("id NOT IN ?", excludeIDs)
	}
	err := q.Order("id ASC").Find(&tables).Error
	return tables, err
}
