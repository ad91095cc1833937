package task

import (
	"context"
	"time"

	"elitecafe_v1/internal/repository"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ==================== ReservationExpireTask 预订过期清理 ====================

// ReservationExpireTask 定时取消区间已结束仍未确认的 pending 占位
// 只释放从未被确认的散客占位，不触碰 confirmed 预订
type ReservationExpireTask struct {
	reservations repository.ReservationRepository
	cron         *cron.Cron
	spec         string
}

// NewReservationExpireTask 创建过期清理任务
// spec 为带秒位的 cron 表达式，默认每小时整点执行
func NewReservationExpireTask(reservations repository.ReservationRepository, spec string) *ReservationExpireTask {
	return &ReservationExpireTask{
		reservations: reservations,
		cron:         cron.New(cron.WithSeconds()),
		spec:         spec,
	}
}

// Start 注册并启动定时任务
func (t *ReservationExpireTask) Start() error {
	_, err := t.cron.AddFunc(t.spec, func() {
		t.sweep()
	})
	if err != nil {
		return err
	}
	t.cron.Start()
	zap.L().Info("预订过期清理任务已启动", zap.String("cron", t.spec))
	return nil
}

// Stop 停止任务，等在途执行结束
func (t *ReservationExpireTask) Stop() {
	ctx := t.cron.Stop()
	<-ctx.Done()
}

// sweep 执行一轮清理
func (t *ReservationExpireTask) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	count, err := t.reservations.CancelPendingBefore(ctx, time.Now())
	if err != nil {
		zap.L().Error("清理过期占位失败", zap.Error(err))
		return
	}
	if count > 0 {
		zap.L().Info("已释放过期占位", zap.Int64("count", count))
	}
}
