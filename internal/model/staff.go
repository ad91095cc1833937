package model

import "time"

// ==================== 角色常量 ====================

// StaffRole 员工角色，每人只有一个角色
const (
	RoleWaiter  = "Waiter"
	RoleManager = "Manager"
	RoleCleaner = "Cleaner"
)

// StaffRoles 一张桌子需要配齐的全部角色，顺序即分配顺序
var StaffRoles = []string{RoleWaiter, RoleManager, RoleCleaner}

// ==================== Staff 员工 ====================

// Staff 员工，本引擎只读
type Staff struct {
	StaffID   int64     `gorm:"primaryKey;autoIncrement;column:staff_id" json:"staff_id"`
	FirstName string    `gorm:"size:200;not null" json:"first_name"`
	LastName  string    `gorm:"size:300" json:"last_name"`
	Role      string    `gorm:"size:16;index;not null" json:"role"` // Waiter / Manager / Cleaner
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Staff) TableName() string { return "staff" }

// FullName 姓名拼接
func (s *Staff) FullName() string {
	if s.LastName == "" {
		return s.FirstName
	}
	return s.FirstName + " " + s.LastName
}

// ==================== StaffTableAssignment 排班 ====================

// StaffTableAssignment 一张桌子在一个 (日期, 时间) 槽位上的员工排班
// 同一槽位每张桌子至多一条记录（唯一索引），只随预订事务创建，从不原地更新
// 角色槽位未填时为 0
type StaffTableAssignment struct {
	ID            int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	ReservationID int64 `gorm:"index;not null" json:"reservation_id"`
	TableID       int64 `gorm:"not null;uniqueIndex:uniq_table_slot,priority:1" json:"table_id"`

	AssignmentDate    string `gorm:"size:10;not null;uniqueIndex:uniq_table_slot,priority:2" json:"assignment_date"` // 2006-01-02
	AssignmentTime    string `gorm:"size:8;not null;uniqueIndex:uniq_table_slot,priority:3" json:"assignment_time"`  // 15:04:05
	AssignmentEndTime string `gorm:"size:8" json:"assignment_end_time"`

	WaiterID  int64 `gorm:"index" json:"waiter_id"`
	ManagerID int64 `gorm:"index" json:"manager_id"`
	CleanerID int64 `gorm:"index" json:"cleaner_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (StaffTableAssignment) TableName() string { return "staff_table_assignments" }

// RoleStaffID 按角色取对应槽位的员工 ID
func (a *StaffTableAssignment) RoleStaffID(role string) int64 {
	switch role {
	case RoleWaiter:
		return a.WaiterID
	case RoleManager:
		return a.ManagerID
	case RoleCleaner:
		return a.CleanerID
	}
	return 0
}
