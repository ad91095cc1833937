package repository

import (
	"context"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"elitecafe_v1/internal/model"

	"github.com/google/uuid"
)

// ==================== 测试辅助 ====================

func setupReservationTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}

	err = db.AutoMigrate(
		&model.RestaurantTable{},
		&model.Reservation{},
		&model.Staff{},
		&model.StaffTableAssignment{},
	)
	if err != nil {
		t.Fatalf("数据库迁移失败: %v", err)
	}
	return db
}

func createTable(t *testing.T, db *gorm.DB, capacity int, channel string) model.RestaurantTable {
	t.Helper()
	table := model.RestaurantTable{Name: "T", Capacity: capacity, TableType: channel}
	if err := db.Create(&table).Error; err != nil {
		t.Fatalf("创建测试桌位失败: %v", err)
	}
	return table
}

func createReservation(t *testing.T, db *gorm.DB, status string, window model.TimeRange, tables ...model.RestaurantTable) {
	t.Helper()
	repo := NewReservationRepository(db)
	resv := &model.Reservation{
		Code:            uuid.New().String(),
		FirstName:       "Seed",
		LastName:        "Guest",
		Email:           "seed@example.com",
		PhoneNumber:     "0000000000",
		BookedPersons:   2,
		ReservationDate: window.From.Format("2006-01-02"),
		ReservationTime: window.From.Format("15:04:05"),
		ReservedFrom:    window.From,
		ReservedTo:      window.To,
		Status:          status,
		BookingType:     model.BookingTypeOnline,
	}
	if err := repo.Create(context.Background(), resv); err != nil {
		t.Fatalf("创建测试预订失败: %v", err)
	}
	if len(tables) > 0 {
		if err := repo.AttachTables(context.Background(), resv, tables); err != nil {
			t.Fatalf("关联测试桌位失败: %v", err)
		}
	}
}

var slot = time.Date(2030, 5, 20, 18, 0, 0, 0, time.Local)

// ==================== 单元测试 ====================

func TestBookedTableIDs(t *testing.T) {
	db := setupReservationTestDB(t)
	repo := NewReservationRepository(db)
	ctx := context.Background()

	tableA := createTable(t, db, 2, model.TableChannelOnline)
	tableB := createTable(t, db, 4, model.TableChannelOnline)

	window := model.TimeRange{From: slot, To: slot.Add(time.Hour)}
	createReservation(t, db, model.ReservationStatusConfirmed, window, tableA)
	// pending 占位另一张桌
	createReservation(t, db, model.ReservationStatusPending, window, tableB)

	// 只看 confirmed 时 pending 不算占用
	ids, err := repo.BookedTableIDs(ctx, window, []string{model.ReservationStatusConfirmed})
	if err != nil {
		t.Fatalf("查询占用桌位失败: %v", err)
	}
	if len(ids) != 1 || ids[0] != tableA.ID {
		t.Fatalf("ids = %v, want [%d]", ids, tableA.ID)
	}

	// pending + confirmed 两张都算
	ids, err = repo.BookedTableIDs(ctx, window,
		[]string{model.ReservationStatusPending, model.ReservationStatusConfirmed})
	if err != nil {
		t.Fatalf("查询占用桌位失败: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("ids = %v, want 2 张桌", ids)
	}

	// 端点相接的下一时段不冲突
	next := model.TimeRange{From: window.To, To: window.To.Add(time.Hour)}
	ids, err = repo.BookedTableIDs(ctx, next, []string{model.ReservationStatusConfirmed})
	if err != nil {
		t.Fatalf("查询占用桌位失败: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("相邻时段不应有占用, ids = %v", ids)
	}

	// 部分重叠冲突
	partial := model.TimeRange{From: slot.Add(30 * time.Minute), To: slot.Add(90 * time.Minute)}
	ids, err = repo.BookedTableIDs(ctx, partial, []string{model.ReservationStatusConfirmed})
	if err != nil {
		t.Fatalf("查询占用桌位失败: %v", err)
	}
	if len(ids) != 1 {
		t.Fatalf("部分重叠应算占用, ids = %v", ids)
	}
}

func TestBookedAmong(t *testing.T) {
	db := setupReservationTestDB(t)
	repo := NewReservationRepository(db)
	ctx := context.Background()

	tableA := createTable(t, db, 2, model.TableChannelOnline)
	tableB := createTable(t, db, 2, model.TableChannelOnline)
	tableC := createTable(t, db, 2, model.TableChannelOnline)

	window := model.TimeRange{From: slot, To: slot.Add(time.Hour)}
	createReservation(t, db, model.ReservationStatusConfirmed, window, tableA)
	// pending 占位在复核中同样算冲突
	createReservation(t, db, model.ReservationStatusPending, window, tableC)

	conflicted, err := repo.BookedAmong(ctx, window, []int64{tableA.ID, tableB.ID, tableC.ID})
	if err != nil {
		t.Fatalf("复核占用失败: %v", err)
	}
	if len(conflicted) != 2 {
		t.Fatalf("conflicted = %v, want [%d %d]", conflicted, tableA.ID, tableC.ID)
	}
	for _, id := range conflicted {
		if id == tableB.ID {
			t.Fatalf("空闲桌 %d 不应判为冲突", tableB.ID)
		}
	}

	// 空候选快速返回
	conflicted, err = repo.BookedAmong(ctx, window, nil)
	if err != nil || len(conflicted) != 0 {
		t.Fatalf("空候选应返回空, got %v, %v", conflicted, err)
	}
}

func TestCountTierTablesBooked(t *testing.T) {
	db := setupReservationTestDB(t)
	repo := NewReservationRepository(db)
	ctx := context.Background()

	small1 := createTable(t, db, 2, model.TableChannelOnline)
	small2 := createTable(t, db, 2, model.TableChannelOnline)
	big := createTable(t, db, 4, model.TableChannelOnline)
	offlineSmall := createTable(t, db, 2, model.TableChannelOffline)

	window := model.TimeRange{From: slot, To: slot.Add(time.Hour)}
	createReservation(t, db, model.ReservationStatusConfirmed, window, small1, big)
	createReservation(t, db, model.ReservationStatusConfirmed, window, small2)
	createReservation(t, db, model.ReservationStatusConfirmed, window, offlineSmall)
	// 同档位但区间不重叠的预订不计数
	later := model.TimeRange{From: slot.Add(2 * time.Hour), To: slot.Add(3 * time.Hour)}
	createReservation(t, db, model.ReservationStatusConfirmed, later, small1)

	count, err := repo.CountTierTablesBooked(ctx, window, 2, model.TableChannelOnline)
	if err != nil {
		t.Fatalf("统计档位占用失败: %v", err)
	}
	// 只数线上 2 人桌：small1 + small2，线下桌和 4 人桌不算
	if count != 2 {
		t.Fatalf("count = %d, want 2", count)
	}
}

func TestCancelPendingBefore(t *testing.T) {
	db := setupReservationTestDB(t)
	repo := NewReservationRepository(db)
	ctx := context.Background()

	expired := model.TimeRange{From: slot.Add(-3 * time.Hour), To: slot.Add(-2 * time.Hour)}
	active := model.TimeRange{From: slot, To: slot.Add(time.Hour)}

	createReservation(t, db, model.ReservationStatusPending, expired)
	createReservation(t, db, model.ReservationStatusConfirmed, expired)
	createReservation(t, db, model.ReservationStatusPending, active)

	n, err := repo.CancelPendingBefore(ctx, slot)
	if err != nil {
		t.Fatalf("清理过期占位失败: %v", err)
	}
	if n != 1 {
		t.Fatalf("清理条数 = %d, want 1", n)
	}

	var cancelled int64
	db.Model(&model.Reservation{}).
		Where("status = ?", model.ReservationStatusCancelled).Count(&cancelled)
	if cancelled != 1 {
		t.Errorf("cancelled 行数 = %d, want 1", cancelled)
	}
	// confirmed 和未到期的 pending 不受影响
	var confirmed int64
	db.Model(&model.Reservation{}).
		Where("status = ?", model.ReservationStatusConfirmed).Count(&confirmed)
	if confirmed != 1 {
		t.Errorf("confirmed 行数 = %d, want 1", confirmed)
	}
}
