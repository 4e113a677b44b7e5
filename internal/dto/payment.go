package dto

import "time"

// CreateOrderRequest opens a provider order. Amount is in rupees, matching
// the checkout widget; the service converts to paise.
type CreateOrderRequest struct {
	Amount    int64  `json:"amount" validate:"required,gt=0"`
	PlanType  string `json:"planType" validate:"required,plan_type"`
	ScanCount int    `json:"scanCount" validate:"omitempty,gte=1"`
}

type CreateOrderResponse struct {
	OrderID  string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type VerifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id" validate:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" validate:"required"`
	RazorpaySignature string `json:"razorpay_signature" validate:"required"`
	PlanType          string `json:"planType" validate:"required,plan_type"`
	ScanCount         int    `json:"scanCount" validate:"omitempty,gte=1"`
}

type PlanDetails struct {
	AccountType string     `json:"accountType"`
	MaxScans    int        `json:"maxScans"`
	ExpiryDate  *time.Time `json:"expiryDate,omitempty"`
	CustomScans int        `json:"customScans"`
}

type VerifyPaymentResponse struct {
	Status      string       `json:"status"`
	Message     string       `json:"message"`
	PlanDetails *PlanDetails `json:"planDetails,omitempty"`
}
