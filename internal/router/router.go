package router

import (
	"elitecafe_v1/internal/controller"
	"elitecafe_v1/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Controllers 路由需要的全部控制器
type Controllers struct {
	Reservation *controller.ReservationController
	Order       *controller.OrderController
}

// SetupRouter 创建 gin 引擎并注册所有路由
func SetupRouter(ctls *Controllers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLog(zap.L()))

	api := r.Group("/api")
	{
		// reservation 预订
		reservations := api.Group("/reservations")
		{
			// POST /api/reservations
			reservations.POST("", ctls.Reservation.Create)
			// POST /api/reservations/offline/check
			reservations.POST("/offline/check", ctls.Reservation.CheckOfflineAvailability)
			// POST /api/reservations/offline
			reservations.POST("/offline", ctls.Reservation.SaveOffline)
		}

		// order 订单
		orders := api.Group("/orders")
		{
			// POST /api/orders
			orders.POST("", ctls.Order.Store)
		}

		// admin 后台
		admin := api.Group("/admin")
		{
			// GET /api/admin/orders
			admin.GET("/orders", ctls.Order.AdminList)
		}
	}

	return r
}
