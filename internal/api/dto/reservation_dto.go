package dto

import "elitecafe_v1/internal/service"

// ==================== 预订请求 ====================

// ReservationReq 在线/渠道预订请求
type ReservationReq struct {
	FirstName       string `json:"first_name" binding:"required,max=200"`
	LastName        string `json:"last_name" binding:"required,max=300"`
	Email           string `json:"email" binding:"required,email,max=200"`
	PhoneNumber     string `json:"phone_number" binding:"required,len=10,numeric"`
	Persons         int    `json:"persons" binding:"required,min=1,max=100"`
	ReservationDate string `json:"reservation_date" binding:"required,datetime=2006-01-02"`
	ReservationTime string `json:"reservation_time" binding:"required,datetime=15:04"`
	Message         string `json:"message" binding:"omitempty,max=300"`
	BookingType     string `json:"booking_type" binding:"required,oneof=online offline"`
}

// OfflineCheckReq 线下可用性查询
type OfflineCheckReq struct {
	ReservationDate string `json:"reservation_date" binding:"required,datetime=2006-01-02"`
	ReservationTime string `json:"reservation_time" binding:"required,datetime=15:04"`
	Persons         int    `json:"persons" binding:"required,min=1,max=10"`
}

// OfflineSaveReq 线下散客占位保存
type OfflineSaveReq struct {
	FirstName       string `json:"first_name" binding:"required,max=200"`
	LastName        string `json:"last_name" binding:"required,max=300"`
	Email           string `json:"email" binding:"required,email,max=200"`
	PhoneNumber     string `json:"phone_number" binding:"required,len=10,numeric"`
	Persons         int    `json:"persons" binding:"required,min=1,max=10"`
	ReservationDate string `json:"reservation_date" binding:"required,datetime=2006-01-02"`
	ReservationTime string `json:"reservation_time" binding:"required,datetime=15:04:05"`
	Message         string `json:"message" binding:"omitempty,max=300"`
	SelectedTableID int64  `json:"selected_table_id" binding:"required"`
}

// ==================== 预订响应 ====================

// TableView 桌位视图
type TableView struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Capacity  int    `json:"capacity"`
	TableType string `json:"table_type,omitempty"`
}

// ReservationResp 预订成功响应
type ReservationResp struct {
	Status                string                  `json:"status"`
	Message               string                  `json:"message"`
	ReservationID         int64                   `json:"reservation_id"`
	ReservationCode       string                  `json:"reservation_code"`
	AssignedTables        []service.AssignedTable `json:"assigned_tables"`
	TotalAssignedCapacity int                     `json:"total_assigned_capacity"`
	AssignedStaff         []service.StaffSummary  `json:"assigned_staff"`
}

// OfflineCheckResp 线下可用性响应
type OfflineCheckResp struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Tables  []TableView `json:"tables"`
}

// ErrorResp 业务拒绝 / 系统错误响应
type ErrorResp struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
