package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"elitecafe_v1/internal/controller"
	"elitecafe_v1/internal/model"
	"elitecafe_v1/internal/repository"
	"elitecafe_v1/internal/router"
	"elitecafe_v1/internal/service"
	"elitecafe_v1/internal/task"
	"elitecafe_v1/pkg/config"
	"elitecafe_v1/pkg/database"
	"elitecafe_v1/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	configPath := flag.String("config", "", "配置文件路径（留空则使用默认值 + 环境变量）")
	flag.Parse()

	// 1. 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 2. 初始化日志
	l := logger.Init(cfg.Log.Debug)
	defer l.Sync()

	// 3. 初始化数据库
	db := initDatabase(cfg)

	// 4. 初始化依赖
	deps := initDependencies(db, cfg)

	// 5. 启动后台任务
	deps.Tasks.StartAll()
	defer deps.Tasks.StopAll()

	// 6. 初始化路由并启动服务
	r := router.SetupRouter(deps.Controllers)
	startServer(cfg.Server.Addr, r)
}

// ==================== 依赖容器 ====================

// Dependencies 依赖容器
type Dependencies struct {
	DB          *gorm.DB
	Uow         *repository.BookingUnitOfWork
	Controllers *router.Controllers
	Tasks       *task.TaskManager
}

// initDatabase 初始化数据库并迁移全部表
func initDatabase(cfg *config.Config) *gorm.DB {
	return database.InitDB(cfg.Database.DSN, cfg.Log.Debug,
		// 预订
		&model.RestaurantTable{}, &model.Reservation{},
		&model.Staff{}, &model.StaffTableAssignment{},
		// 订单
		&model.MenuItem{}, &model.CustOrder{}, &model.OrderItem{},
	)
}

// initDependencies 组装仓库、服务、控制器
func initDependencies(db *gorm.DB, cfg *config.Config) *Dependencies {
	uow := repository.NewBookingUnitOfWork(db)

	availabilitySvc := service.NewAvailabilityService(&cfg.Booking)
	allocator := service.NewStaffAllocator(&cfg.Booking)
	bookingSvc := service.NewBookingService(uow, availabilitySvc, allocator, &cfg.Booking)
	orderSvc := service.NewOrderService(
		repository.NewOrderRepository(db),
		repository.NewMenuRepository(db),
	)

	return &Dependencies{
		DB:  db,
		Uow: uow,
		Controllers: &router.Controllers{
			Reservation: controller.NewReservationController(bookingSvc),
			Order:       controller.NewOrderController(orderSvc),
		},
		Tasks: task.NewTaskManager(
			&task.TaskManagerDeps{Reservations: uow.Reservations},
			&cfg.Task,
		),
	}
}

// startServer 启动 HTTP 服务并处理优雅退出
func startServer(addr string, handler http.Handler) {
	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	go func() {
		zap.L().Info("服务启动", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("服务启动失败", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zap.L().Info("收到退出信号，开始优雅关闭")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zap.L().Error("优雅关闭失败", zap.Error(err))
	}
}
