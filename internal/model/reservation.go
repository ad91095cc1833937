package model

import "time"

// ==================== 预订状态常量 ====================

// ReservationStatus 预订生命周期：pending -> confirmed，失败则回滚不落库
const (
	ReservationStatusPending   = "pending"   // 线下散客占位，待确认
	ReservationStatusConfirmed = "confirmed" // 已确认
	ReservationStatusCancelled = "cancelled" // 过期未确认，由后台任务释放
)

// ReservationActiveStatuses 占用桌位的预订状态
// pending 占位和 confirmed 预订都算占用，只有 cancelled 释放桌位
var ReservationActiveStatuses = []string{ReservationStatusPending, ReservationStatusConfirmed}

// BookingType 预订渠道
const (
	BookingTypeOnline  = "online"
	BookingTypeOffline = "offline"
)

// ==================== Reservation 预订 ====================

// Reservation 预订主表
// 由一次成功的预订事务整体创建：预订行、桌位关联、员工排班要么全部存在，要么全部不存在
type Reservation struct {
	ID   int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Code string `gorm:"size:36;uniqueIndex;not null" json:"code"` // 对外确认码

	// 客人信息（引擎透传，不做业务解释）
	FirstName   string `gorm:"size:200;not null" json:"first_name"`
	LastName    string `gorm:"size:300;not null" json:"last_name"`
	Email       string `gorm:"size:200;not null" json:"email"`
	PhoneNumber string `gorm:"size:20;not null" json:"phone_number"`

	BookedPersons int `gorm:"not null" json:"booked_persons"`

	// 槽位：日期 + 时间作为排班记账键，区间用于冲突检测
	ReservationDate string    `gorm:"size:10;index;not null" json:"reservation_date"` // 2006-01-02
	ReservationTime string    `gorm:"size:8;not null" json:"reservation_time"`        // 15:04:05
	ReservedFrom    time.Time `gorm:"index;not null" json:"reserved_from"`
	ReservedTo      time.Time `gorm:"index;not null" json:"reserved_to"`

	Status      string `gorm:"size:16;index;not null;default:pending" json:"status"`
	Message     string `gorm:"size:300" json:"message"`
	BookingType string `gorm:"size:16;index;not null" json:"booking_type"` // online / offline

	Tables []RestaurantTable `gorm:"many2many:reservation_tables;" json:"tables,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Reservation) TableName() string { return "reservations" }

// Window 预订占用的时间区间
func (r *Reservation) Window() TimeRange {
	return TimeRange{From: r.ReservedFrom, To: r.ReservedTo}
}
