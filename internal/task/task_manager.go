package task

import (
	"elitecafe_v1/internal/repository"
	"elitecafe_v1/pkg/config"

	"go.uber.org/zap"
)

// ==================== TaskManager 后台任务管理器 ====================

// TaskManager 统一管理后台定时任务
// 目前只有 pending 预订过期清理；预订事务本身不依赖任何后台任务
type TaskManager struct {
	expireTask *ReservationExpireTask
}

// TaskManagerDeps 任务管理器依赖
type TaskManagerDeps struct {
	Reservations repository.ReservationRepository
}

// NewTaskManager 创建任务管理器
func NewTaskManager(deps *TaskManagerDeps, cfg *config.TaskConfig) *TaskManager {
	m := &TaskManager{}
	if cfg.ExpireEnabled {
		m.expireTask = NewReservationExpireTask(deps.Reservations, cfg.ExpireCron)
	}
	return m
}

// StartAll 启动全部任务
func (m *TaskManager) StartAll() {
	if m.expireTask != nil {
		if err := m.expireTask.Start(); err != nil {
			zap.L().Error("启动过期清理任务失败", zap.Error(err))
		}
	}
}

// StopAll 停止全部任务
func (m *TaskManager) StopAll() {
	if m.expireTask != nil {
		m.expireTask.Stop()
	}
}
