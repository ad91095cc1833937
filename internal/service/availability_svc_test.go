package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"elitecafe_v1/internal/model"
	"elitecafe_v1/internal/repository"
	"elitecafe_v1/pkg/config"

	"github.com/google/uuid"
)

// ==================== 测试辅助 ====================

func setupBookingTestDB(t *testing.T) *gorm.DB {
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

func testBookingConfig() *config.BookingConfig {
	return &config.BookingConfig{
		SlotDurationMinutes:     60,
		MaxTablesPerCombination: 4,
		MaxTablesPerStaff:       3,
		ShiftLeadMinutes:        10,
		OfflineBufferMinutes:    45,
		MaxPersonsOnline:        100,
		MaxPersonsOffline:       10,
		OnlineQuotas:            map[string]int{"2": 3, "4": 6, "6": 2},
	}
}

func seedTable(t *testing.T, db *gorm.DB, name string, capacity int, channel string) model.RestaurantTable {
	t.Helper()
	table := model.RestaurantTable{Name: name, Capacity: capacity, TableType: channel}
	if err := db.Create(&table).Error; err != nil {
		t.Fatalf("创建测试桌位失败: %v", err)
	}
	return table
}

// seedOnlineTables 按容量批量建线上桌
func seedOnlineTables(t *testing.T, db *gorm.DB, capacities ...int) []model.RestaurantTable {
	t.Helper()
	tables := make([]model.RestaurantTable, 0, len(capacities))
	for i, c := range capacities {
		tables = append(tables, seedTable(t, db, fmt.Sprintf("Online-%d", i+1), c, model.TableChannelOnline))
	}
	return tables
}

func seedStaffSet(t *testing.T, db *gorm.DB, perRole int) {
	t.Helper()
	for _, role := range model.StaffRoles {
		for i := 0; i < perRole; i++ {
			s := model.Staff{
				FirstName: fmt.Sprintf("%s%d", role, i+1),
				LastName:  "Test",
				Role:      role,
			}
			if err := db.Create(&s).Error; err != nil {
				t.Fatalf("创建测试员工失败: %v", err)
			}
		}
	}
}

func seedReservation(t *testing.T, db *gorm.DB, status, bookingType string, window model.TimeRange, tables ...model.RestaurantTable) *model.Reservation {
	t.Helper()
	uow := repository.NewBookingUnitOfWork(db)
	ctx := context.Background()

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
		BookingType:     bookingType,
	}
	if err := uow.Reservations.Create(ctx, resv); err != nil {
		t.Fatalf("创建测试预订失败: %v", err)
	}
	if len(tables) > 0 {
		if err := uow.Reservations.AttachTables(ctx, resv, tables); err != nil {
			t.Fatalf("关联测试桌位失败: %v", err)
		}
	}
	return resv
}

// testSlot 固定在远未来，避免过期校验干扰
var testSlot = time.Date(2030, 5, 20, 18, 0, 0, 0, time.Local)

func testWindow(cfg *config.BookingConfig) model.TimeRange {
	return model.NewTimeRange(testSlot, cfg.SlotDuration())
}

// ==================== 单元测试 ====================

func TestBuildPool_ExcludesBookedTables(t *testing.T) {
	db := setupBookingTestDB(t)
	cfg := testBookingConfig()
	svc := NewAvailabilityService(cfg)
	uow := repository.NewBookingUnitOfWork(db)
	window := testWindow(cfg)

	tables := seedOnlineTables(t, db, 2, 2)
	seedReservation(t, db, model.ReservationStatusConfirmed, model.BookingTypeOnline, window, tables[0])

	pool, err := svc.BuildPool(context.Background(), uow, model.BookingTypeOnline, window)
	if err != nil {
		t.Fatalf("构建桌池失败: %v", err)
	}
	if len(pool) != 1 || pool[0].ID != tables[1].ID {
		t.Fatalf("桌池应只剩未占用的桌 %d, got %v", tables[1].ID, pool)
	}
}

func TestBuildPool_PendingHoldOccupiesTable(t *testing.T) {
	db := setupBookingTestDB(t)
	cfg := testBookingConfig()
	svc := NewAvailabilityService(cfg)
	uow := repository.NewBookingUnitOfWork(db)
	window := testWindow(cfg)

	tables := seedOnlineTables(t, db, 2, 2)
	// pending 占位和 confirmed 一样占桌
	seedReservation(t, db, model.ReservationStatusPending, model.BookingTypeOffline, window, tables[0])

	pool, err := svc.BuildPool(context.Background(), uow, model.BookingTypeOnline, window)
	if err != nil {
		t.Fatalf("构建桌池失败: %v", err)
	}
	if len(pool) != 1 || pool[0].ID != tables[1].ID {
		t.Fatalf("pending 占位中的桌不应进池, got %v", pool)
	}

	// cancelled 释放桌位
	if err := db.Model(&model.Reservation{}).
		Where("status = ?", model.ReservationStatusPending).
		Update("status", model.ReservationStatusCancelled).Error; err != nil {
		t.Fatalf("更新预订状态失败: %v", err)
	}
	pool, err = svc.BuildPool(context.Background(), uow, model.BookingTypeOnline, window)
	if err != nil {
		t.Fatalf("构建桌池失败: %v", err)
	}
	if len(pool) != 2 {
		t.Fatalf("cancelled 后桌位应释放, got %v", pool)
	}
}

func TestBuildPool_NonOverlappingReservationIgnored(t *testing.T) {
	db := setupBookingTestDB(t)
	cfg := testBookingConfig()
	svc := NewAvailabilityService(cfg)
	uow := repository.NewBookingUnitOfWork(db)
	window := testWindow(cfg)

	tables := seedOnlineTables(t, db, 2)
	// 紧邻的上一时段，端点相接不算冲突
	previous := model.TimeRange{From: window.From.Add(-time.Hour), To: window.From}
	seedReservation(t, db, model.ReservationStatusConfirmed, model.BookingTypeOnline, previous, tables[0])

	pool, err := svc.BuildPool(context.Background(), uow, model.BookingTypeOnline, window)
	if err != nil {
		t.Fatalf("构建桌池失败: %v", err)
	}
	if len(pool) != 1 {
		t.Fatalf("不重叠的预订不应占用桌位, pool = %v", pool)
	}
}

func TestBuildPool_TierQuotaTrimsCandidates(t *testing.T) {
	db := setupBookingTestDB(t)
	cfg := testBookingConfig()
	svc := NewAvailabilityService(cfg)
	uow := repository.NewBookingUnitOfWork(db)
	window := testWindow(cfg)

	// 5 张 2 人桌：配额 3，已占 2，余量只够放 1 张进池
	tables := seedOnlineTables(t, db, 2, 2, 2, 2, 2)
	seedReservation(t, db, model.ReservationStatusConfirmed, model.BookingTypeOnline, window, tables[0], tables[1])

	pool, err := svc.BuildPool(context.Background(), uow, model.BookingTypeOnline, window)
	if err != nil {
		t.Fatalf("构建桌池失败: %v", err)
	}
	if len(pool) != 1 {
		t.Fatalf("配额余量 1 时桌池应只有 1 张桌, got %d", len(pool))
	}
	if pool[0].ID == tables[0].ID || pool[0].ID == tables[1].ID {
		t.Errorf("已占用的桌不应进池: %v", pool[0])
	}
}

func TestCheckSmallPartyQuota_Exhausted(t *testing.T) {
	db := setupBookingTestDB(t)
	cfg := testBookingConfig()
	svc := NewAvailabilityService(cfg)
	uow := repository.NewBookingUnitOfWork(db)
	window := testWindow(cfg)

	// 2 人档位配额 3，三张 2 人桌全部订出
	tables := seedOnlineTables(t, db, 2, 2, 2)
	seedReservation(t, db, model.ReservationStatusConfirmed, model.BookingTypeOnline, window, tables...)

	err := svc.CheckSmallPartyQuota(context.Background(), uow, model.BookingTypeOnline, 2, window)
	var tierErr *TierExhaustedError
	if !errors.As(err, &tierErr) {
		t.Fatalf("期望 TierExhaustedError, got %v", err)
	}
	if tierErr.Capacity != 2 {
		t.Errorf("Capacity = %d, want 2", tierErr.Capacity)
	}

	// 人数超过最小档位时不触发短路
	if err := svc.CheckSmallPartyQuota(context.Background(), uow, model.BookingTypeOnline, 3, window); err != nil {
		t.Errorf("3 人不应触发小桌短路, got %v", err)
	}
	// 线下渠道不触发
	if err := svc.CheckSmallPartyQuota(context.Background(), uow, model.BookingTypeOffline, 2, window); err != nil {
		t.Errorf("线下渠道不应触发小桌短路, got %v", err)
	}
}

func TestBuildPool_OfflineShift(t *testing.T) {
	db := setupBookingTestDB(t)
	cfg := testBookingConfig()
	svc := NewAvailabilityService(cfg)
	uow := repository.NewBookingUnitOfWork(db)
	window := testWindow(cfg)

	// 只有线上桌，线下池默认为空
	seedOnlineTables(t, db, 2, 2, 2, 2, 4)

	// 距开台还有 15 分钟（提前量 10 分钟之外）：不转移
	svc.now = func() time.Time { return testSlot.Add(-15 * time.Minute) }
	pool, err := svc.BuildPool(context.Background(), uow, model.BookingTypeOffline, window)
	if err != nil {
		t.Fatalf("构建桌池失败: %v", err)
	}
	if len(pool) != 0 {
		t.Fatalf("提前量之外不应借用线上桌, got %v", pool)
	}

	// 距开台 5 分钟：线上空桌转入线下池，数量受档位配额约束
	svc.now = func() time.Time { return testSlot.Add(-5 * time.Minute) }
	pool, err = svc.BuildPool(context.Background(), uow, model.BookingTypeOffline, window)
	if err != nil {
		t.Fatalf("构建桌池失败: %v", err)
	}
	// 2 人档位配额 3（四张空桌裁到 3）+ 4 人档位 1 张
	if len(pool) != 4 {
		t.Fatalf("转移后桌池应有 4 张桌, got %d: %v", len(pool), pool)
	}

	// 隔天同一时刻不转移
	svc.now = func() time.Time { return testSlot.Add(-5*time.Minute).AddDate(0, 0, -1) }
	pool, err = svc.BuildPool(context.Background(), uow, model.BookingTypeOffline, window)
	if err != nil {
		t.Fatalf("构建桌池失败: %v", err)
	}
	if len(pool) != 0 {
		t.Fatalf("非当日不应借用线上桌, got %v", pool)
	}
}

func TestBuildPool_SortedByCapacityThenID(t *testing.T) {
	db := setupBookingTestDB(t)
	cfg := testBookingConfig()
	svc := NewAvailabilityService(cfg)
	uow := repository.NewBookingUnitOfWork(db)
	window := testWindow(cfg)

	seedOnlineTables(t, db, 6, 2, 4, 2)

	pool, err := svc.BuildPool(context.Background(), uow, model.BookingTypeOnline, window)
	if err != nil {
		t.Fatalf("构建桌池失败: %v", err)
	}
	for i := 1; i < len(pool); i++ {
		prev, cur := pool[i-1], pool[i]
		if prev.Capacity > cur.Capacity || (prev.Capacity == cur.Capacity && prev.ID > cur.ID) {
			t.Fatalf("桌池排序错误: %v", pool)
		}
	}
}

func TestOfflineAvailability_BufferExcludesNearbyBookings(t *testing.T) {
	db := setupBookingTestDB(t)
	cfg := testBookingConfig()
	svc := NewAvailabilityService(cfg)
	svc.now = func() time.Time { return testSlot.Add(-2 * time.Hour) }
	uow := repository.NewBookingUnitOfWork(db)

	tableA := seedTable(t, db, "Offline-A", 4, model.TableChannelOffline)
	tableB := seedTable(t, db, "Offline-B", 4, model.TableChannelOffline)

	// A 桌有一个在缓冲窗口内结束的 pending 占位
	held := model.TimeRange{From: testSlot.Add(-90 * time.Minute), To: testSlot.Add(-30 * time.Minute)}
	seedReservation(t, db, model.ReservationStatusPending, model.BookingTypeOffline, held, tableA)

	free, err := svc.OfflineAvailability(context.Background(), uow, testSlot)
	if err != nil {
		t.Fatalf("查询线下可用桌失败: %v", err)
	}
	if len(free) != 1 || free[0].ID != tableB.ID {
		t.Fatalf("缓冲窗口内占位应排除 A 桌, got %v", free)
	}
}

func TestOfflineAvailability_PastSlot(t *testing.T) {
	db := setupBookingTestDB(t)
	cfg := testBookingConfig()
	svc := NewAvailabilityService(cfg)
	svc.now = func() time.Time { return testSlot.Add(time.Hour) }
	uow := repository.NewBookingUnitOfWork(db)

	_, err := svc.OfflineAvailability(context.Background(), uow, testSlot)
	if !errors.Is(err, ErrPastTime) {
		t.Fatalf("期望 ErrPastTime, got %v", err)
	}
}
