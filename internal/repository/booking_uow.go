package repository

import (
	"context"
	"time"

	"elitecafe_v1/internal/model"

	"gorm.io/gorm"
)

// ==================== 事务支持 ====================

// BookingUnitOfWork 预订工作单元（事务）
// 把一次预订涉及的全部仓库绑定到同一个事务连接上
type BookingUnitOfWork struct {
	db           *gorm.DB
	Tables       TableRepository
	Reservations ReservationRepository
	Staff        StaffRepository
	Assignments  AssignmentRepository
}

// NewBookingUnitOfWork 创建工作单元
func NewBookingUnitOfWork(db *gorm.DB) *BookingUnitOfWork {
	return &BookingUnitOfWork{
		db:           db,
		Tables:       NewTableRepository(db),
		Reservations: NewReservationRepository(db),
		Staff:        NewStaffRepository(db),
		Assignments:  NewAssignmentRepository(db),
	}
}

// Transaction 执行事务
// fn 返回 error 时整个事务回滚，预订行、桌位关联、排班记录都不会残留
func (u *BookingUnitOfWork) Transaction(ctx context.Context, fn func(uow *BookingUnitOfWork) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewBookingUnitOfWork(tx))
	})
}

// lockKeys 窗口覆盖的全部小时桶键，升序
// 两个区间只要有重叠就必然共享至少一个小时桶；所有事务按同一顺序取锁，不会死锁
func lockKeys(window model.TimeRange) []string {
	var keys []string
	for bucket := window.From.Truncate(time.Hour); bucket.Before(window.To); bucket = bucket.Add(time.Hour) {
		keys = append(keys, bucket.Format("2006-01-02 15"))
	}
	return keys
}

// LockWindow 对窗口覆盖的每个小时桶取事务级咨询锁，串行化窗口重叠的并发预订
// 错开但重叠的窗口（如 18:00 与 18:30）会在共享的桶上排队。
// PostgreSQL 上用 pg_advisory_xact_lock，事务结束自动释放；
// 其他方言（sqlite 测试库）没有咨询锁，依赖提交前的 BookedAmong 复核兜底
func (u *BookingUnitOfWork) LockWindow(ctx context.Context, window model.TimeRange) error {
	if u.db.Dialector.Name() != "postgres" {
		return nil
	}
	for _, key := range lockKeys(window) {
		err := u.db.WithContext(ctx).
			Exec("SELECT pg_advisory_xact_lock(hashtext(?))", key).Error
		if err != nil {
			return err
		}
	}
	return nil
}
