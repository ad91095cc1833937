package controller

import (
	"errors"
	"net/http"

	"elitecafe_v1/internal/api/dto"
	"elitecafe_v1/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// OrderController 外卖/自提订单接口
type OrderController struct {
	orderSvc *service.OrderService
}

// NewOrderController 创建订单控制器
func NewOrderController(orderSvc *service.OrderService) *OrderController {
	return &OrderController{
		orderSvc: orderSvc,
	}
}

// Store 下单
// @Summary 顾客下单
// @Description 按后台菜单现价逐条计价，5% GST
// @Tags Order (订单)
// @Accept json
// @Produce json
// @Success 201 {object} dto.StoreOrderResp
// @Failure 422 {object} dto.ErrorResp "参数校验失败"
// @Failure 500 {object} dto.ErrorResp
// @Router /api/orders [post]
func (c *OrderController) Store(ctx *gin.Context) {
	var req dto.StoreOrderReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, dto.ErrorResp{Status: "error", Message: "Validation failed: " + err.Error()})
		return
	}

	cart := make([]service.CartItem, 0, len(req.Cart))
	for _, item := range req.Cart {
		cart = append(cart, service.CartItem{Name: item.Name, Quantity: item.Quantity})
	}

	result, err := c.orderSvc.StoreOrder(ctx.Request.Context(), &service.StoreOrderRequest{
		Name:          req.Name,
		Phone:         req.Phone,
		CustomerEmail: req.CustomerEmail,
		PaymentMethod: req.PaymentMethod,
		Type:          req.Type,
		Address:       req.Address,
		Pincode:       req.Pincode,
		Locality:      req.Locality,
		Cart:          cart,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			ctx.JSON(http.StatusUnprocessableEntity, dto.ErrorResp{Status: "error", Message: "Validation failed."})
			return
		}
		zap.L().Error("下单失败", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResp{Status: "error", Message: "Failed to place order."})
		return
	}

	ctx.JSON(http.StatusCreated, dto.StoreOrderResp{
		Status:  "success",
		Message: "Order placed successfully!",
		OrderID: result.OrderID,
		Total:   result.Total,
	})
}

// AdminList 后台订单列表
// @Summary 后台订单列表
// @Description 带账单明细的订单列表，支持 date_filter 快捷筛选
// @Tags Order (订单)
// @Produce json
// @Param date_filter query string false "today / this_week / this_month / last_month / last_3_months"
// @Success 200 {array} service.AdminOrderView
// @Failure 500 {object} dto.ErrorResp
// @Router /api/admin/orders [get]
func (c *OrderController) AdminList(ctx *gin.Context) {
	views, err := c.orderSvc.AdminList(ctx.Request.Context(), ctx.Query("date_filter"))
	if err != nil {
		zap.L().Error("查询订单列表失败", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResp{Status: "error", Message: "Failed to list orders."})
		return
	}
	ctx.JSON(http.StatusOK, views)
}
