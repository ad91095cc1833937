package service

import (
	"errors"
	"fmt"
	"time"
)

// ==================== 预订结果错误 ====================
// 控制器按错误类型映射 HTTP 状态码和用户话术：
// 参数问题和"无桌可订"是正常业务结果，排班失败和存储故障才是系统错误

// ErrInvalidInput 请求字段不合法，未开启任何事务
var ErrInvalidInput = errors.New("invalid input")

// ErrPastTime 预订了已经过去的时间
var ErrPastTime = errors.New("cannot book for a past time")

// ErrSlotConflict 提交前复核发现桌位被并发预订抢走，调用方可原样重试
var ErrSlotConflict = errors.New("slot was taken by a concurrent booking")

// NoAvailabilityError 组合搜索没有找到满足人数的桌位组合
type NoAvailabilityError struct {
	Persons     int
	Slot        time.Time
	BookingType string
}

func (e *NoAvailabilityError) Error() string {
	return fmt.Sprintf("no suitable tables for %d guests at %s", e.Persons, e.Slot.Format("03:04 PM"))
}

// TierExhaustedError 小桌档位配额耗尽的精确拒绝
type TierExhaustedError struct {
	Capacity int
	Slot     time.Time
}

func (e *TierExhaustedError) Error() string {
	return fmt.Sprintf("all online tables of capacity %d are booked for %s", e.Capacity, e.Slot.Format("03:04 PM"))
}

// StaffUnavailableError 某张桌找不到可用角色，整个预订事务作废
type StaffUnavailableError struct {
	Role    string
	TableID int64
}

func (e *StaffUnavailableError) Error() string {
	return fmt.Sprintf("no available %s for table %d", e.Role, e.TableID)
}
