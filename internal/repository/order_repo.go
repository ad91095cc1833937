package repository

import (
	"context"
	"errors"
	"time"

	"elitecafe_v1/internal/model"

	"gorm.io/gorm"
)

// ==================== 过滤条件 ====================

// OrderFilter 订单查询过滤条件
type OrderFilter struct {
	From *time.Time
	To   *time.Time
}

// ==================== MenuRepository 菜单仓库 ====================

// MenuRepository 菜单只读仓库
type MenuRepository interface {
	// GetByName 按菜名查菜单项，不存在时返回 (nil, nil)
	GetByName(ctx context.Context, name string) (*model.MenuItem, error)
}

type menuRepo struct {
	db *gorm.DB
}

// NewMenuRepository 创建菜单仓库
func NewMenuRepository(db *gorm.DB) MenuRepository {
	return &menuRepo{db: db}
}

func (r *menuRepo) GetByName(ctx context.Context, name string) (*model.MenuItem, error) {
	var item model.MenuItem
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ==================== OrderRepository 订单仓库 ====================

// OrderRepository 订单仓库
type OrderRepository interface {
	Create(ctx context.Context, o *model.CustOrder) error
	CreateItems(ctx context.Context, items []model.OrderItem) error
	UpdateTotal(ctx context.Context, id int64, total float64) error
	// ListWithItems 带明细的订单列表，按创建时间倒序
	ListWithItems(ctx context.Context, filter OrderFilter) ([]model.CustOrder, error)
}

type orderRepo struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓库
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepo{db: db}
}

func (r *orderRepo) Create(ctx context.Context, o *model.CustOrder) error {
	return r.db.WithContext(ctx).Omit("Items").Create(o).Error
}

func (r *orderRepo) CreateItems(ctx context.Context, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *orderRepo) UpdateTotal(ctx context.Context, id int64, total float64) error {
	return r.db.WithContext(ctx).
		Model(&model.CustOrder{}).
		Where("id = ?", id).
		Update("total", total).Error
}

func (r *orderRepo) ListWithItems(ctx context.Context, filter OrderFilter) ([]model.CustOrder, error) {
	var orders []model.CustOrder
	q := r.db.WithContext(ctx).Preload("Items")
	if filter.From != nil {
		q = q.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("created_at < ?", *filter.To)
	}
	err := q.Order("created_at DESC").Find(&orders).Error
	return orders, err
}
