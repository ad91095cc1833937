package dto

// ==================== 订单请求 ====================

// CartItemReq 购物车条目
type CartItemReq struct {
	Name     string  `json:"name" binding:"required"`
	Price    float64 `json:"price" binding:"min=0"`
	Quantity int     `json:"quantity" binding:"required,min=1"`
}

// StoreOrderReq 下单请求
// 价格以后台菜单为准，前端传来的 price 仅作展示用途不参与计算
type StoreOrderReq struct {
	Name          string        `json:"name" binding:"required,max=255"`
	Phone         string        `json:"phone" binding:"required,max=15"`
	CustomerEmail string        `json:"customer_email" binding:"omitempty,email"`
	PaymentMethod string        `json:"payment_method" binding:"required,oneof=cod"`
	Type          string        `json:"type" binding:"required,oneof=delivery takeaway"`
	Address       string        `json:"address" binding:"required_if=Type delivery,omitempty,max=500"`
	Pincode       string        `json:"pincode" binding:"required_if=Type delivery,omitempty,max=10"`
	Locality      string        `json:"locality" binding:"omitempty,max=255"`
	Cart          []CartItemReq `json:"cart" binding:"required,min=1,dive"`
}

// ==================== 订单响应 ====================

// StoreOrderResp 下单响应
type StoreOrderResp struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	OrderID int64   `json:"order_id"`
	Total   float64 `json:"total"`
}
