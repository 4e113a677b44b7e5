package services

import (
	"fmt"
	"time"

	"mediscan_backend/internal/dto"
	"mediscan_backend/internal/logger"
	"mediscan_backend/internal/models"
	"mediscan_backend/internal/payment"
	"mediscan_backend/internal/repositories"
	"mediscan_backend/pkg/apperrors"
)

// PaymentService drives the two-step purchase flow: create a provider
// order, then verify the provider's callback signature and credit the
// entitlement exactly once.
type PaymentService interface {
	CreateOrder(userID string, req *dto.CreateOrderRequest) (*dto.CreateOrderResponse, error)
	VerifyPayment(userID string, req *dto.VerifyPaymentRequest) (*dto.VerifyPaymentResponse, error)
}

type paymentService struct {
	orderRepo   repositories.OrderRepository
	entitlement EntitlementService
	provider    payment.Provider
	keySecret   string
	now         func() time.Time
}

func NewPaymentService(
	orderRepo repositories.OrderRepository,
	entitlement EntitlementService,
	provider payment.Provider,
	keySecret string,
) PaymentService {
	return &paymentService{
		orderRepo:   orderRepo,
		entitlement: entitlement,
		provider:    provider,
		keySecret:   keySecret,
		now:         time.Now,
	}
}

func (s *paymentService) CreateOrder(userID string, req *dto.CreateOrderRequest) (*dto.CreateOrderResponse, error) {
	if req.PlanType == models.PlanTypeCustom && req.ScanCount < 1 {
		return nil, apperrors.ErrInvalidOperation("payment", "Invalid scan count")
	}

	// Amount arrives in rupees; the provider bills in paise.
	amountMinor := req.Amount * 100
	receipt := fmt.Sprintf("receipt_%d", s.now().UnixMilli())

	providerOrder, err := s.provider.CreateOrder(amountMinor, "INR", receipt, map[string]interface{}{
		"planType":  req.PlanType,
		"scanCount": req.ScanCount,
	})
	if err != nil {
		logger.Error("provider order creation failed", "error", err, "user_id", userID)
		return nil, apperrors.ErrProviderUnavailable(err)
	}

	order := &models.Order{
		OrderID:          providerOrder.OrderID,
		UserID:           userID,
		AmountMinorUnits: providerOrder.AmountMinorUnits,
		Currency:         providerOrder.Currency,
		PlanType:         req.PlanType,
		ScanCount:        req.ScanCount,
		Status:           models.OrderStatusCreated,
	}
	if err := s.orderRepo.Create(order); err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.Info("payment order created",
		"order_id", order.OrderID,
		"user_id", userID,
		"plan_type", order.PlanType,
		"amount_paise", order.AmountMinorUnits,
	)

	return &dto.CreateOrderResponse{
		OrderID:  providerOrder.OrderID,
		Amount:   providerOrder.AmountMinorUnits,
		Currency: providerOrder.Currency,
	}, nil
}

func (s *paymentService) VerifyPayment(userID string, req *dto.VerifyPaymentRequest) (*dto.VerifyPaymentResponse, error) {
	if !payment.VerifySignature(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature, s.keySecret) {
		// Best effort: the order only moves to failed from created, so a
		// forged callback cannot taint an already verified purchase.
		if err := s.orderRepo.MarkFailed(req.RazorpayOrderID); err != nil {
			logger.Warn("could not mark order failed", "order_id", req.RazorpayOrderID, "error", err)
		}
		logger.Warn("payment signature mismatch", "order_id", req.RazorpayOrderID, "user_id", userID)
		return nil, apperrors.ErrSignatureMismatch
	}

	order, err := s.orderRepo.FindByOrderID(req.RazorpayOrderID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrOrderNotFound) {
			return nil, apperrors.ErrOrderNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	if order.UserID != userID {
		// Do not leak another user's order; behave as if it does not exist.
		return nil, apperrors.ErrOrderNotFound
	}

	if order.Status == models.OrderStatusVerified {
		return alreadyVerifiedResponse(), nil
	}

	if err := s.orderRepo.MarkVerified(req.RazorpayOrderID, req.RazorpayPaymentID, s.now()); err != nil {
		if apperrors.Is(err, repositories.ErrOrderAlreadyVerified) {
			// Lost the race with a concurrent verify; the winner credited.
			return alreadyVerifiedResponse(), nil
		}
		if apperrors.Is(err, repositories.ErrOrderNotFound) {
			return nil, apperrors.ErrOrderNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	// Credit from the stored order row, not from the callback payload:
	// planType and scanCount were fixed at order creation.
	details, err := s.entitlement.CreditPurchase(userID, order.PlanType, order.ScanCount, s.now())
	if err != nil {
		return nil, err
	}

	logger.Info("payment verified",
		"order_id", order.OrderID,
		"payment_id", req.RazorpayPaymentID,
		"user_id", userID,
		"plan_type", order.PlanType,
	)

	return &dto.VerifyPaymentResponse{
		Status:      "success",
		Message:     "Payment verified successfully",
		PlanDetails: details,
	}, nil
}

func alreadyVerifiedResponse() *dto.VerifyPaymentResponse {
	return &dto.VerifyPaymentResponse{
		Status:  "already_verified",
		Message: "Payment was already verified",
	}
}
