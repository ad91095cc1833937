package model

import "time"

// ==================== 渠道常量 ====================

// TableChannel 餐桌渠道：线上预订 / 线下散客
const (
	TableChannelOnline  = "online"
	TableChannelOffline = "offline"
)

// ==================== RestaurantTable 餐桌 ====================

// RestaurantTable 餐桌
// 由外部目录维护，本引擎只读
type RestaurantTable struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Capacity  int       `gorm:"not null;index" json:"capacity"`
	TableType string    `gorm:"size:16;index;not null;default:online" json:"table_type"` // online / offline
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (RestaurantTable) TableName() string { return "tables" }
