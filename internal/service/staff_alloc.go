package service

import (
	"context"
	"fmt"

	"elitecafe_v1/internal/model"
	"elitecafe_v1/internal/repository"
	"elitecafe_v1/pkg/config"

	"go.uber.org/zap"
)

// ==================== StaffAllocator 员工分配器 ====================

// StaffAllocator 给选中的每张桌配齐三种角色
type StaffAllocator struct {
	cfg *config.BookingConfig
}

// NewStaffAllocator 创建员工分配器
func NewStaffAllocator(cfg *config.BookingConfig) *StaffAllocator {
	return &StaffAllocator{cfg: cfg}
}

// Allocation 一次分配的产出：排班记录 + 被选中员工的详情
type Allocation struct {
	Assignments []model.StaffTableAssignment
	Staff       map[int64]model.Staff
}

// Allocate 为每张桌独立挑选 Waiter / Manager / Cleaner
//
// 约束：同一员工在本次预订内不会重复出现（一人一桌一角色）；
// 员工在该 (日期, 时间) 槽位上已接桌数达到 MaxTablesPerStaff 的不再入选；
// 候选内随机挑选，避免系统性压榨固定员工。
// 任何一张桌的任何角色配不齐，整个分配失败——不允许部分配员。
func (a *StaffAllocator) Allocate(ctx context.Context, uow *repository.BookingUnitOfWork, reservationID int64, tables []model.RestaurantTable, date, timeStr, endTimeStr string) (*Allocation, error) {
	usedByRole := map[string][]int64{
		model.RoleWaiter:  {},
		model.RoleManager: {},
		model.RoleCleaner: {},
	}
	result := &Allocation{Staff: make(map[int64]model.Staff)}

	for _, table := range tables {
		picked := make(map[string]int64, len(model.StaffRoles))

		for _, role := range model.StaffRoles {
			staff, err := uow.Staff.PickAvailable(ctx, role, date, timeStr, a.cfg.MaxTablesPerStaff, usedByRole[role])
			if err != nil {
				return nil, fmt.Errorf("查询可用 %s 失败: %v", role, err)
			}
			if staff == nil {
				zap.L().Warn("槽位配员失败",
					zap.String("role", role),
					zap.Int64("table_id", table.ID),
					zap.String("date", date),
					zap.String("time", timeStr))
				return nil, &StaffUnavailableError{Role: role, TableID: table.ID}
			}
			picked[role] = staff.StaffID
			usedByRole[role] = append(usedByRole[role], staff.StaffID)
			result.Staff[staff.StaffID] = *staff
		}

		result.Assignments = append(result.Assignments, model.StaffTableAssignment{
			ReservationID:     reservationID,
			TableID:           table.ID,
			AssignmentDate:    date,
			AssignmentTime:    timeStr,
			AssignmentEndTime: endTimeStr,
			WaiterID:          picked[model.RoleWaiter],
			ManagerID:         picked[model.RoleManager],
			CleanerID:         picked[model.RoleCleaner],
		})
	}

	return result, nil
}
