package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"elitecafe_v1/internal/model"
	"elitecafe_v1/internal/repository"
	"elitecafe_v1/pkg/config"

	"go.uber.org/zap"
)

// ==================== AvailabilityService 可用性服务 ====================

// AvailabilityService 候选桌池和配额台账
// 只做读取，不产生任何写入；池构建必须跑在预订事务内部以避免读写竞态
type AvailabilityService struct {
	cfg *config.BookingConfig
	now func() time.Time
}

// NewAvailabilityService 创建可用性服务
func NewAvailabilityService(cfg *config.BookingConfig) *AvailabilityService {
	return &AvailabilityService{
		cfg: cfg,
		now: time.Now,
	}
}

// ==================== 配额台账 ====================

// onlineTierHeadroom 某线上容量档位的剩余配额：配额 - 已占用桌数
func (s *AvailabilityService) onlineTierHeadroom(ctx context.Context, uow *repository.BookingUnitOfWork, capacity int, window model.TimeRange) (int64, error) {
	quota, ok := s.cfg.OnlineQuota(capacity)
	if !ok {
		return 0, nil
	}
	booked, err := uow.Reservations.CountTierTablesBooked(ctx, window, capacity, model.TableChannelOnline)
	if err != nil {
		return 0, err
	}
	return int64(quota) - booked, nil
}

// CheckSmallPartyQuota 小桌档位的精确拒绝短路
// 仅线上渠道、且人数不超过最小配额档位容量时触发：该档位配额耗尽就直接报准确话术。
// 这是体验优化，不是正确性规则——池构建会独立执行同样的配额约束。
func (s *AvailabilityService) CheckSmallPartyQuota(ctx context.Context, uow *repository.BookingUnitOfWork, bookingType string, persons int, window model.TimeRange) error {
	smallest := s.cfg.SmallestQuotaCapacity()
	if bookingType != model.BookingTypeOnline || smallest == 0 || persons > smallest {
		return nil
	}
	headroom, err := s.onlineTierHeadroom(ctx, uow, smallest, window)
	if err != nil {
		return err
	}
	if headroom <= 0 {
		return &TierExhaustedError{Capacity: smallest, Slot: window.From}
	}
	return nil
}

// ==================== 候选桌池 ====================

// BuildPool 构建一次预订请求的候选桌池，结果按容量升序
//
// 线下请求先纳入全部未被占用的线下桌；线上桌按档位配额余量裁剪后纳入。
// 线下请求只有在槽位当天、且当前时间进入开台前 ShiftLead 提前量时才"借用"
// 空闲线上桌（线上释放给散客），且借用数量同样受线上配额余量约束，
// 不会让转移悄悄击穿线上渠道的总容量。
func (s *AvailabilityService) BuildPool(ctx context.Context, uow *repository.BookingUnitOfWork, bookingType string, window model.TimeRange) ([]model.RestaurantTable, error) {
	// pending 占位同样占桌，已入座的散客不能被后来的预订挤掉
	bookedIDs, err := uow.Reservations.BookedTableIDs(ctx, window, model.ReservationActiveStatuses)
	if err != nil {
		return nil, fmt.Errorf("查询已占用桌位失败: %v", err)
	}

	var pool []model.RestaurantTable

	if bookingType == model.BookingTypeOffline {
		offline, err := uow.Tables.ListAvailableByChannel(ctx, model.TableChannelOffline, bookedIDs)
		if err != nil {
			return nil, fmt.Errorf("查询线下桌位失败: %v", err)
		}
		pool = append(pool, offline...)
	}

	now := s.now()
	shiftThreshold := window.From.Add(-s.cfg.ShiftLead())
	shifted := bookingType == model.BookingTypeOffline &&
		!now.Before(shiftThreshold) &&
		sameDay(now, window.From)

	for _, capacity := range s.cfg.OnlineQuotaCapacities() {
		if bookingType == model.BookingTypeOnline || shifted {
			headroom, err := s.onlineTierHeadroom(ctx, uow, capacity, window)
			if err != nil {
				return nil, fmt.Errorf("统计容量 %d 档位配额失败: %v", capacity, err)
			}
			if headroom <= 0 {
				continue
			}
			candidates, err := uow.Tables.ListAvailableByCapacity(ctx, capacity, model.TableChannelOnline, bookedIDs)
			if err != nil {
				return nil, fmt.Errorf("查询容量 %d 线上桌位失败: %v", capacity, err)
			}
			if int64(len(candidates)) > headroom {
				candidates = candidates[:headroom]
			}
			pool = append(pool, candidates...)
		}
	}

	// 容量升序，同容量按 ID，保证组合搜索输入确定
	sort.Slice(pool, func(i, j int) bool {
		if pool[i].Capacity != pool[j].Capacity {
			return pool[i].Capacity < pool[j].Capacity
		}
		return pool[i].ID < pool[j].ID
	})

	zap.L().Debug("候选桌池构建完成",
		zap.String("booking_type", bookingType),
		zap.Bool("shifted", shifted),
		zap.Int("pool_size", len(pool)))

	return pool, nil
}

// ==================== 线下可用性检查 ====================

// OfflineAvailability 线下散客可用桌查询
// 冲突窗口在槽位前加 OfflineBuffer 缓冲：散客最早可提前 45 分钟入座，
// 不能挤占紧随其后的已订时段。pending 占位同样算占用。
func (s *AvailabilityService) OfflineAvailability(ctx context.Context, uow *repository.BookingUnitOfWork, slot time.Time) ([]model.RestaurantTable, error) {
	if slot.Before(s.now()) {
		return nil, ErrPastTime
	}

	window := model.TimeRange{
		From: slot.Add(-s.cfg.OfflineBuffer()),
		To:   slot.Add(s.cfg.SlotDuration()),
	}
	bookedIDs, err := uow.Reservations.BookedTableIDs(ctx, window, model.ReservationActiveStatuses)
	if err != nil {
		return nil, fmt.Errorf("查询已占用桌位失败: %v", err)
	}

	return uow.Tables.ListAvailableByChannel(ctx, model.TableChannelOffline, bookedIDs)
}

// sameDay 两个时间是否同一天（本地时区）
func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
