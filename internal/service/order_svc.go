package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"elitecafe_v1/internal/model"
	"elitecafe_v1/internal/repository"

	"gorm.io/datatypes"
)

// ==================== 常量 ====================

const (
	// 下单时按菜品小计收 5% GST
	orderGSTRate = 0.05
	// 账单视图：小计之上 10% GST + 5% 服务费
	billGSTRate     = 0.10
	billCafeFeeRate = 0.05

	thankYouNote = "Thank you for ordering with EliteCafe!"
)

// ==================== 请求 / 视图 ====================

// CartItem 购物车条目
type CartItem struct {
	Name     string
	Quantity int
}

// StoreOrderRequest 下单请求
type StoreOrderRequest struct {
	Name          string
	Phone         string
	CustomerEmail string
	PaymentMethod string // cod
	Type          string // delivery / takeaway
	Address       string
	Pincode       string
	Locality      string
	Cart          []CartItem
}

// StoreOrderResult 下单结果
type StoreOrderResult struct {
	OrderID int64
	Total   float64
}

// BillItemView 账单明细行
type BillItemView struct {
	SNo      int     `json:"sno"`
	ItemName string  `json:"item_name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	Total    float64 `json:"total"`
}

// AdminOrderView 后台订单账单视图
type AdminOrderView struct {
	ID            int64          `json:"id"`
	CustomerName  string         `json:"customer_name"`
	CustomerPhone string         `json:"customer_phone"`
	Type          string         `json:"type"`
	Items         []BillItemView `json:"items"`
	PaymentMethod string         `json:"payment_method"`
	Subtotal      float64        `json:"subtotal"`
	GST           float64        `json:"gst"`
	CafeCharges   float64        `json:"cafe_charges"`
	Total         float64        `json:"total"`
	ThankYou      string         `json:"thank_you"`
	CreatedAt     string         `json:"created_at"`
}

// ==================== OrderService 订单服务 ====================

// OrderService 外卖/自提订单，预订引擎之外的简单子系统
type OrderService struct {
	orders repository.OrderRepository
	menu   repository.MenuRepository
	now    func() time.Time
}

// NewOrderService 创建订单服务
func NewOrderService(orders repository.OrderRepository, menu repository.MenuRepository) *OrderService {
	return &OrderService{
		orders: orders,
		menu:   menu,
		now:    time.Now,
	}
}

// round2 保留两位小数
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// StoreOrder 落一笔顾客订单：逐条按菜单现价计价，小计加 5% GST 汇总
// 菜单里查不到的条目直接跳过（前端菜单可能落后于后台下架）
func (s *OrderService) StoreOrder(ctx context.Context, req *StoreOrderRequest) (*StoreOrderResult, error) {
	orderType := strings.ToUpper(req.Type)
	if orderType != model.OrderTypeDelivery && orderType != model.OrderTypeTakeaway {
		return nil, fmt.Errorf("%w: 未知订单类型 %q", ErrInvalidInput, req.Type)
	}
	if len(req.Cart) == 0 {
		return nil, fmt.Errorf("%w: 购物车为空", ErrInvalidInput)
	}

	order := &model.CustOrder{
		Name:          req.Name,
		Phone:         req.Phone,
		CustomerEmail: req.CustomerEmail,
		PaymentMethod: req.PaymentMethod,
		Type:          orderType,
		Status:        model.OrderStatusPending,
	}
	if orderType == model.OrderTypeDelivery {
		order.DeliveryAddress = datatypes.JSONMap{
			"address":  req.Address,
			"pincode":  req.Pincode,
			"locality": req.Locality,
		}
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("创建订单失败: %v", err)
	}

	var (
		total float64
		items []model.OrderItem
	)
	for _, entry := range req.Cart {
		menuItem, err := s.menu.GetByName(ctx, entry.Name)
		if err != nil {
			return nil, fmt.Errorf("查询菜单失败: %v", err)
		}
		if menuItem == nil {
			continue
		}
		base := menuItem.Price * float64(entry.Quantity)
		total += base + base*orderGSTRate

		items = append(items, model.OrderItem{
			OrderID:    order.ID,
			MenuItemID: menuItem.ID,
			ItemName:   menuItem.Name,
			ItemPrice:  menuItem.Price,
			Quantity:   entry.Quantity,
		})
	}
	if err := s.orders.CreateItems(ctx, items); err != nil {
		return nil, fmt.Errorf("保存订单明细失败: %v", err)
	}

	total = round2(total)
	if err := s.orders.UpdateTotal(ctx, order.ID, total); err != nil {
		return nil, fmt.Errorf("更新订单金额失败: %v", err)
	}

	return &StoreOrderResult{OrderID: order.ID, Total: total}, nil
}

// dateFilterRange 日期筛选关键字换算成 [From, To) 区间
func (s *OrderService) dateFilterRange(filter string) repository.OrderFilter {
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var from, to time.Time
	switch filter {
	case "today":
		from, to = today, today.AddDate(0, 0, 1)
	case "this_week":
		// 周一作为一周起点
		offset := (int(now.Weekday()) + 6) % 7
		from = today.AddDate(0, 0, -offset)
		to = from.AddDate(0, 0, 7)
	case "this_month":
		from = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		to = from.AddDate(0, 1, 0)
	case "last_month":
		to = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		from = to.AddDate(0, -1, 0)
	case "last_3_months":
		from = now.AddDate(0, -3, 0)
		return repository.OrderFilter{From: &from}
	default:
		return repository.OrderFilter{}
	}
	return repository.OrderFilter{From: &from, To: &to}
}

// AdminList 后台订单列表，带逐单账单：小计 + 10% GST + 5% 服务费
func (s *OrderService) AdminList(ctx context.Context, dateFilter string) ([]AdminOrderView, error) {
	orders, err := s.orders.ListWithItems(ctx, s.dateFilterRange(dateFilter))
	if err != nil {
		return nil, fmt.Errorf("查询订单失败: %v", err)
	}

	views := make([]AdminOrderView, 0, len(orders))
	for _, order := range orders {
		var (
			subtotal float64
			items    []BillItemView
		)
		for i, item := range order.Items {
			lineTotal := item.ItemPrice * float64(item.Quantity)
			subtotal += lineTotal
			items = append(items, BillItemView{
				SNo:      i + 1,
				ItemName: item.ItemName,
				Quantity: item.Quantity,
				Price:    round2(item.ItemPrice),
				Total:    round2(lineTotal),
			})
		}

		gst := subtotal * billGSTRate
		cafe := subtotal * billCafeFeeRate

		views = append(views, AdminOrderView{
			ID:            order.ID,
			CustomerName:  order.Name,
			CustomerPhone: order.Phone,
			Type:          order.Type,
			Items:         items,
			PaymentMethod: order.PaymentMethod,
			Subtotal:      round2(subtotal),
			GST:           round2(gst),
			CafeCharges:   round2(cafe),
			Total:         round2(subtotal + gst + cafe),
			ThankYou:      thankYouNote,
			CreatedAt:     order.CreatedAt.Format("02 Jan 2006, 03:04 PM"),
		})
	}
	return views, nil
}
