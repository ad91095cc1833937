package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"elitecafe_v1/internal/model"
	"elitecafe_v1/internal/repository"
	"elitecafe_v1/pkg/config"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ==================== 请求 / 结果 ====================

// BookingRequest 一次预订请求
// 客人身份字段对引擎不透明，原样写入预订行
type BookingRequest struct {
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
	Persons     int
	Date        string // 2006-01-02
	Time        string // 15:04 或 15:04:05
	Message     string
	BookingType string // online / offline
}

// AssignedTable 分配结果中的桌位
type AssignedTable struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}

// StaffSummary 按员工聚合的排班摘要
type StaffSummary struct {
	StaffID          int64   `json:"staff_id"`
	Name             string  `json:"name"`
	Role             string  `json:"role"`
	AssignedTableIDs []int64 `json:"assigned_tables_ids"`
}

// BookingResult 预订成功的完整结果
type BookingResult struct {
	Reservation   *model.Reservation
	Tables        []AssignedTable
	TotalCapacity int
	Staff         []StaffSummary
}

// ==================== BookingService 预订服务 ====================

// BookingService 预订事务编排：
// 校验 -> 槽位锁 -> 配额台账 + 桌池 -> 组合搜索 -> 建预订 -> 配员 -> 批量排班 -> 提交
// 任何一步失败整体回滚，不存在部分落库的状态
type BookingService struct {
	uow          *repository.BookingUnitOfWork
	availability *AvailabilityService
	allocator    *StaffAllocator
	cfg          *config.BookingConfig
	now          func() time.Time
}

// NewBookingService 创建预订服务
func NewBookingService(uow *repository.BookingUnitOfWork, availability *AvailabilityService, allocator *StaffAllocator, cfg *config.BookingConfig) *BookingService {
	return &BookingService{
		uow:          uow,
		availability: availability,
		allocator:    allocator,
		cfg:          cfg,
		now:          time.Now,
	}
}

// parseSlot 解析 日期 + 时间 为本地时间，时间接受 15:04 和 15:04:05 两种格式
func parseSlot(date, timeStr string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02 15:04"} {
		if t, err := time.ParseInLocation(layout, date+" "+timeStr, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: 无法解析预订时间 %q %q", ErrInvalidInput, date, timeStr)
}

// validate 请求基本校验，失败时不开启事务
func (s *BookingService) validate(req *BookingRequest) (time.Time, error) {
	maxPersons := s.cfg.MaxPersonsOnline
	if req.BookingType == model.BookingTypeOffline {
		maxPersons = s.cfg.MaxPersonsOffline
	}
	if req.Persons < 1 || req.Persons > maxPersons {
		return time.Time{}, fmt.Errorf("%w: 人数必须在 1~%d 之间", ErrInvalidInput, maxPersons)
	}
	if req.BookingType != model.BookingTypeOnline && req.BookingType != model.BookingTypeOffline {
		return time.Time{}, fmt.Errorf("%w: 未知渠道 %q", ErrInvalidInput, req.BookingType)
	}

	start, err := parseSlot(req.Date, req.Time)
	if err != nil {
		return time.Time{}, err
	}
	if start.Before(s.now()) {
		return time.Time{}, ErrPastTime
	}
	return start, nil
}

// Book 执行一次完整的预订事务
func (s *BookingService) Book(ctx context.Context, req *BookingRequest) (*BookingResult, error) {
	start, err := s.validate(req)
	if err != nil {
		return nil, err
	}
	window := model.NewTimeRange(start, s.cfg.SlotDuration())
	dateStr := start.Format("2006-01-02")
	timeStr := start.Format("15:04:05")
	endTimeStr := window.To.Format("15:04:05")

	var result *BookingResult

	err = s.uow.Transaction(ctx, func(uow *repository.BookingUnitOfWork) error {
		// 窗口重叠的并发预订在这里排队，检查和提交之间不再有竞态窗口
		if err := uow.LockWindow(ctx, window); err != nil {
			return fmt.Errorf("获取槽位锁失败: %v", err)
		}

		// 小桌档位的精确拒绝短路
		if err := s.availability.CheckSmallPartyQuota(ctx, uow, req.BookingType, req.Persons, window); err != nil {
			return err
		}

		pool, err := s.availability.BuildPool(ctx, uow, req.BookingType, window)
		if err != nil {
			return err
		}

		chosen := FindBestCombination(pool, req.Persons, s.cfg.MaxTablesPerCombination)
		if len(chosen) == 0 {
			return &NoAvailabilityError{Persons: req.Persons, Slot: start, BookingType: req.BookingType}
		}

		// 提交前复核：候选桌读出之后有没有被别的事务抢先占用
		chosenIDs := make([]int64, 0, len(chosen))
		for _, t := range chosen {
			chosenIDs = append(chosenIDs, t.ID)
		}
		conflicted, err := uow.Reservations.BookedAmong(ctx, window, chosenIDs)
		if err != nil {
			return fmt.Errorf("复核桌位占用失败: %v", err)
		}
		if len(conflicted) > 0 {
			return ErrSlotConflict
		}

		resv := &model.Reservation{
			Code:            uuid.New().String(),
			FirstName:       req.FirstName,
			LastName:        req.LastName,
			Email:           req.Email,
			PhoneNumber:     req.PhoneNumber,
			BookedPersons:   req.Persons,
			ReservationDate: dateStr,
			ReservationTime: timeStr,
			ReservedFrom:    window.From,
			ReservedTo:      window.To,
			Status:          model.ReservationStatusConfirmed,
			Message:         req.Message,
			BookingType:     req.BookingType,
		}
		if err := uow.Reservations.Create(ctx, resv); err != nil {
			return fmt.Errorf("创建预订失败: %v", err)
		}
		if err := uow.Reservations.AttachTables(ctx, resv, chosen); err != nil {
			return fmt.Errorf("关联桌位失败: %v", err)
		}

		alloc, err := s.allocator.Allocate(ctx, uow, resv.ID, chosen, dateStr, timeStr, endTimeStr)
		if err != nil {
			return err
		}
		if err := uow.Assignments.BatchCreate(ctx, alloc.Assignments); err != nil {
			return fmt.Errorf("写入排班失败: %v", err)
		}

		result = buildBookingResult(resv, chosen, alloc)
		return nil
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("预订成功",
		zap.Int64("reservation_id", result.Reservation.ID),
		zap.String("code", result.Reservation.Code),
		zap.Int("persons", req.Persons),
		zap.Int("tables", len(result.Tables)))

	return result, nil
}

// buildBookingResult 整理响应：桌位列表 + 按员工聚合的排班摘要
func buildBookingResult(resv *model.Reservation, chosen []model.RestaurantTable, alloc *Allocation) *BookingResult {
	result := &BookingResult{Reservation: resv}
	for _, t := range chosen {
		result.Tables = append(result.Tables, AssignedTable{ID: t.ID, Name: t.Name, Capacity: t.Capacity})
		result.TotalCapacity += t.Capacity
	}

	grouped := make(map[int64]*StaffSummary)
	for _, row := range alloc.Assignments {
		for _, role := range model.StaffRoles {
			staffID := row.RoleStaffID(role)
			if staffID == 0 {
				continue
			}
			summary, ok := grouped[staffID]
			if !ok {
				st := alloc.Staff[staffID]
				summary = &StaffSummary{StaffID: staffID, Name: st.FullName(), Role: st.Role}
				grouped[staffID] = summary
			}
			if !containsID(summary.AssignedTableIDs, row.TableID) {
				summary.AssignedTableIDs = append(summary.AssignedTableIDs, row.TableID)
			}
		}
	}

	for _, summary := range grouped {
		sort.Slice(summary.AssignedTableIDs, func(i, j int) bool {
			return summary.AssignedTableIDs[i] < summary.AssignedTableIDs[j]
		})
		result.Staff = append(result.Staff, *summary)
	}
	sort.Slice(result.Staff, func(i, j int) bool {
		return result.Staff[i].StaffID < result.Staff[j].StaffID
	})
	return result
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// ==================== 线下散客 ====================

// WalkInRequest 线下散客直接指定桌位的占位请求
type WalkInRequest struct {
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
	Persons     int
	Date        string // 2006-01-02
	Time        string // 15:04:05
	Message     string
	TableID     int64
}

// SaveWalkIn 保存线下散客占位：pending 状态，单桌，不走组合搜索和配员
// 桌位由前台从 OfflineAvailability 的结果里挑选，这里只做冲突复核
func (s *BookingService) SaveWalkIn(ctx context.Context, req *WalkInRequest) (*model.Reservation, error) {
	if req.Persons < 1 || req.Persons > s.cfg.MaxPersonsOffline {
		return nil, fmt.Errorf("%w: 人数必须在 1~%d 之间", ErrInvalidInput, s.cfg.MaxPersonsOffline)
	}
	start, err := parseSlot(req.Date, req.Time)
	if err != nil {
		return nil, err
	}
	if start.Before(s.now()) {
		return nil, ErrPastTime
	}
	window := model.NewTimeRange(start, s.cfg.SlotDuration())

	// 带缓冲的冲突窗口：槽位前 OfflineBuffer 分钟内的已有预订同样冲突
	buffered := model.TimeRange{From: window.From.Add(-s.cfg.OfflineBuffer()), To: window.To}

	var resv *model.Reservation
	err = s.uow.Transaction(ctx, func(uow *repository.BookingUnitOfWork) error {
		if err := uow.LockWindow(ctx, buffered); err != nil {
			return fmt.Errorf("获取槽位锁失败: %v", err)
		}

		table, err := uow.Tables.GetByID(ctx, req.TableID)
		if err != nil {
			return fmt.Errorf("查询桌位失败: %v", err)
		}
		if table == nil {
			return fmt.Errorf("%w: 桌位 %d 不存在", ErrInvalidInput, req.TableID)
		}

		bookedIDs, err := uow.Reservations.BookedTableIDs(ctx, buffered, model.ReservationActiveStatuses)
		if err != nil {
			return fmt.Errorf("复核桌位占用失败: %v", err)
		}
		if containsID(bookedIDs, table.ID) {
			return ErrSlotConflict
		}

		resv = &model.Reservation{
			Code:            uuid.New().String(),
			FirstName:       req.FirstName,
			LastName:        req.LastName,
			Email:           req.Email,
			PhoneNumber:     req.PhoneNumber,
			BookedPersons:   req.Persons,
			ReservationDate: start.Format("2006-01-02"),
			ReservationTime: start.Format("15:04:05"),
			ReservedFrom:    window.From,
			ReservedTo:      window.To,
			Status:          model.ReservationStatusPending,
			Message:         req.Message,
			BookingType:     model.BookingTypeOffline,
		}
		if err := uow.Reservations.Create(ctx, resv); err != nil {
			return fmt.Errorf("创建预订失败: %v", err)
		}
		return uow.Reservations.AttachTables(ctx, resv, []model.RestaurantTable{*table})
	})
	if err != nil {
		return nil, err
	}
	return resv, nil
}

// OfflineAvailability 暴露给控制器的线下可用桌查询（只读，事务外执行）
func (s *BookingService) OfflineAvailability(ctx context.Context, date, timeStr string, persons int) ([]model.RestaurantTable, error) {
	if persons < 1 || persons > s.cfg.MaxPersonsOffline {
		return nil, fmt.Errorf("%w: 人数必须在 1~%d 之间", ErrInvalidInput, s.cfg.MaxPersonsOffline)
	}
	slot, err := parseSlot(date, timeStr)
	if err != nil {
		return nil, err
	}
	return s.availability.OfflineAvailability(ctx, s.uow, slot)
}
