package api

import (
	"time"

	"getunitycodes/internal/model"
)

// PaymentMethods 是結帳可選的付款方式
var PaymentMethods = []string{"Credit Card", "PayPal", "Google Pay", "Apple Pay"}

// swagger:model api.CheckoutRequest
type CheckoutRequest struct {
	Name          string `json:"name" validate:"required" example:"Alice"`
	Email         string `json:"email" validate:"required,email" example:"alice@example.com"`
	Address       string `json:"address,omitempty" example:"1 Main St"`
	PaymentMethod string `json:"payment_method" validate:"required" example:"PayPal"`
}

// Order 不落地，只回傳給前端並送到 order.placed
// swagger:model api.Order
type Order struct {
	UserID        int               `json:"user_id"`
	Name          string            `json:"name"`
	Email         string            `json:"email"`
	Address       string            `json:"address,omitempty"`
	Items         []model.ListEntry `json:"items"`
	Total         string            `json:"total" example:"18.00"`
	PaymentMethod string            `json:"payment_method"`
	PlacedAt      time.Time         `json:"placed_at"`
}

// swagger:model api.CheckoutResponse
type CheckoutResponse struct {
	Message string `json:"message" example:"Order placed successfully"`
	Order   Order  `json:"order"`
}
