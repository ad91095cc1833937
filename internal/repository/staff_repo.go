package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"elitecafe_v1/internal/model"

	"gorm.io/gorm"
)

// ==================== StaffRepository 员工仓库 ====================

// StaffRepository 员工只读仓库
type StaffRepository interface {
	// PickAvailable 随机挑一名指定角色、在该槽位负荷未满、且不在排除列表中的员工
	// 没有可用员工时返回 (nil, nil)
	PickAvailable(ctx context.Context, role, date, timeStr string, maxTables int, excludeIDs []int64) (*model.Staff, error)
}

type staffRepo struct {
	db *gorm.DB
}

// NewStaffRepository 创建员工仓库
func NewStaffRepository(db *gorm.DB) StaffRepository {
	return &staffRepo{db: db}
}

// roleColumn 角色对应的排班表字段名
func roleColumn(role string) string {
	return strings.ToLower(role) + "_id"
}

func (r *staffRepo) PickAvailable(ctx context.Context, role, date, timeStr string, maxTables int, excludeIDs []int64) (*model.Staff, error) {
	col := roleColumn(role)

	// 子查询：该槽位上此角色已接满 maxTables 张桌的员工
	overloaded := r.db.Table("staff_table_assignments").
		Select(col).
		Where("assignment_date = ? AND assignment_time = ?", date, timeStr).
		Where(col+" > 0").
		Group(col).
		Having(fmt.Sprintf("COUNT(%s) >= ?", col), maxTables)

	q := r.db.WithContext(ctx).
		Where("role = ?", role).
		Where("staff_id NOT IN (?)", overloaded)
	if len(excludeIDs) > 0 {
		q = q.Where("staff_id NOT IN ?", excludeIDs)
	}

	// 随机挑选，避免固定压榨同一名员工
	var staff model.Staff
	err := q.Order("RANDOM()").First(&staff).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &staff, nil
}

// ==================== AssignmentRepository 排班仓库 ====================

// AssignmentRepository 排班仓库
type AssignmentRepository interface {
	// BatchCreate 批量插入排班，整批成功或整批失败
	BatchCreate(ctx context.Context, rows []model.StaffTableAssignment) error
	// ListForTables 查询一组桌在指定槽位上的排班
	ListForTables(ctx context.Context, tableIDs []int64, date, timeStr string) ([]model.StaffTableAssignment, error)
	// CountForStaffSlot 某员工以指定角色在槽位上已接的桌数
	CountForStaffSlot(ctx context.Context, role string, staffID int64, date, timeStr string) (int64, error)
}

type assignmentRepo struct {
	db *gorm.DB
}

// NewAssignmentRepository 创建排班仓库
func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepo{db: db}
}

func (r *assignmentRepo) BatchCreate(ctx context.Context, rows []model.StaffTableAssignment) error {
	if len(rows) == 0 {
		return errors.New("没有可插入的排班记录")
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

func (r *assignmentRepo) ListForTables(ctx context.Context, tableIDs []int64, date, timeStr string) ([]model.StaffTableAssignment, error) {
	var rows []model.StaffTableAssignment
	err := r.db.WithContext(ctx).
		Where("table_id IN ?", tableIDs).
		Where("assignment_date = ? AND assignment_time = ?", date, timeStr).
		Order("table_id ASC").
		Find(&rows).Error
	return rows, err
}

func (r *assignmentRepo) CountForStaffSlot(ctx context.Context, role string, staffID int64, date, timeStr string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.StaffTableAssignment{}).
		Where(roleColumn(role)+" = ?", staffID).
		Where("assignment_date = ? AND assignment_time = ?", date, timeStr).
		Count(&count).Error
	return count, err
}
