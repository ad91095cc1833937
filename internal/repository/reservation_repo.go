package repository

import (
	"context"
	"time"

	"elitecafe_v1/internal/model"

	"gorm.io/gorm"
)

// ==================== ReservationRepository 预订仓库 ====================

// ReservationRepository 预订仓库
type ReservationRepository interface {
	Create(ctx context.Context, r *model.Reservation) error
	AttachTables(ctx context.Context, r *model.Reservation, tables []model.RestaurantTable) error
	// BookedTableIDs 指定区间内被 statuses 状态预订占用的全部桌 ID（去重）
	BookedTableIDs(ctx context.Context, window model.TimeRange, statuses []string) ([]int64, error)
	// BookedAmong 候选桌中已被 pending/confirmed 预订占用的桌 ID，用于提交前复核
	BookedAmong(ctx context.Context, window model.TimeRange, tableIDs []int64) ([]int64, error)
	// CountTierTablesBooked 指定区间内某 (容量, 渠道) 档位被占用的桌数
	CountTierTablesBooked(ctx context.Context, window model.TimeRange, capacity int, channel string) (int64, error)
	// CancelPendingBefore 取消区间已结束仍未确认的 pending 预订，返回条数
	CancelPendingBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type reservationRepo struct {
	db *gorm.DB
}

// NewReservationRepository 创建预订仓库
func NewReservationRepository(db *gorm.DB) ReservationRepository {
	return &reservationRepo{db: db}
}

func (r *reservationRepo) Create(ctx context.Context, resv *model.Reservation) error {
	// 不级联创建 Tables 关联，桌位用 AttachTables 显式挂接
	return r.db.WithContext(ctx).Omit("Tables").Create(resv).Error
}

func (r *reservationRepo) AttachTables(ctx context.Context, resv *model.Reservation, tables []model.RestaurantTable) error {
	return r.db.WithContext(ctx).Model(resv).Omit("Tables.*").Association("Tables").Append(&tables)
}

func (r *reservationRepo) BookedTableIDs(ctx context.Context, window model.TimeRange, statuses []string) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Table("reservation_tables AS rt").
		Joins("JOIN reservations r ON r.id = rt.reservation_id").
		Where("r.status IN ?", statuses).
		Where("r.reserved_from < ? AND r.reserved_to > ?", window.To, window.From).
		Distinct("rt.restaurant_table_id").
		Pluck("rt.restaurant_table_id", &ids).Error
	return ids, err
}

func (r *reservationRepo) BookedAmong(ctx context.Context, window model.TimeRange, tableIDs []int64) ([]int64, error) {
	if len(tableIDs) == 0 {
		return nil, nil
	}
	var ids []int64
	err := r.db.WithContext(ctx).
		Table("reservation_tables AS rt").
		Joins("JOIN reservations r ON r.id = rt.reservation_id").
		Where("r.status IN ?", model.ReservationActiveStatuses).
		Where("r.reserved_from < ? AND r.reserved_to > ?", window.To, window.From).
		Where("rt.restaurant_table_id IN ?", tableIDs).
		Distinct("rt.restaurant_table_id").
		Pluck("rt.restaurant_table_id", &ids).Error
	return ids, err
}

func (r *reservationRepo) CountTierTablesBooked(ctx context.Context, window model.TimeRange, capacity int, channel string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("reservation_tables AS rt").
		Joins("JOIN reservations r ON r.id = rt.reservation_id").
		Joins("JOIN tables t ON t.id = rt.restaurant_table_id").
		Where("r.status = ?", model.ReservationStatusConfirmed).
		Where("r.reserved_from < ? AND r.reserved_to > ?", window.To, window.From).
		Where("t.capacity = ? AND t.table_type = ?", capacity, channel).
		Distinct("rt.restaurant_table_id").
		Count(&count).Error
	return count, err
}

func (r *reservationRepo) CancelPendingBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Reservation{}).
		Where("status = ? AND reserved_to < ?", model.ReservationStatusPending, cutoff).
		Update("status", model.ReservationStatusCancelled)
	return res.RowsAffected, res.Error
}
