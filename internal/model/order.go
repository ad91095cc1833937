package model

import (
	"time"

	"gorm.io/datatypes"
)

// ==================== 订单常量 ====================

// OrderType 订单类型
const (
	OrderTypeDelivery = "DELIVERY"
	OrderTypeTakeaway = "TAKEAWAY"
)

// OrderStatus 订单状态
const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

// ==================== MenuItem 菜单 ====================

// MenuItem 菜单项，下单时按名称查价
type MenuItem struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"size:255;uniqueIndex;not null" json:"name"`
	Price     float64   `gorm:"not null" json:"price"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (MenuItem) TableName() string { return "menu_items" }

// ==================== CustOrder 外卖/自提订单 ====================

// CustOrder 顾客订单主表
type CustOrder struct {
	ID            int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string `gorm:"size:255;not null" json:"name"`
	Phone         string `gorm:"size:15;not null" json:"phone"`
	CustomerEmail string `gorm:"size:255" json:"customer_email"`

	PaymentMethod string  `gorm:"size:16;not null" json:"payment_method"` // 目前只有 cod
	Type          string  `gorm:"size:16;not null" json:"type"`           // DELIVERY / TAKEAWAY
	Status        string  `gorm:"size:16;index;not null;default:pending" json:"status"`
	Total         float64 `json:"total"`

	// 配送地址（address / pincode / locality），自提订单为空
	DeliveryAddress datatypes.JSONMap `gorm:"type:jsonb" json:"delivery_address,omitempty"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (CustOrder) TableName() string { return "orders" }

// ==================== OrderItem 订单明细 ====================

// OrderItem 订单明细，下单时冻结菜名和单价
type OrderItem struct {
	ID         int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID    int64   `gorm:"index;not null" json:"order_id"`
	MenuItemID int64   `gorm:"index;not null" json:"menu_item_id"`
	ItemName   string  `gorm:"size:255;not null" json:"item_name"`
	ItemPrice  float64 `gorm:"not null" json:"item_price"`
	Quantity   int     `gorm:"not null" json:"quantity"`
}

func (OrderItem) TableName() string { return "order_items" }
