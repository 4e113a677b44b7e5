package services

import (
	"time"

	"gorm.io/gorm"

	"mediscan_backend/internal/config"
	"mediscan_backend/internal/imaging"
	"mediscan_backend/internal/inference"
	"mediscan_backend/internal/otp"
	"mediscan_backend/internal/payment"
	"mediscan_backend/internal/repositories"
	"mediscan_backend/internal/sms"
)

// ServiceContainer wires repositories and external providers into the
// service layer once, at startup.
type ServiceContainer struct {
	Auth        AuthService
	Entitlement EntitlementService
	Payment     PaymentService
	Analysis    AnalysisService
}

func NewServiceContainer(db *gorm.DB, cfg *config.Config, otpStore *otp.Store, smsProvider sms.Provider, paymentProvider payment.Provider, inferenceClient inference.Client) *ServiceContainer {
	userRepo := repositories.NewUserRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	activityRepo := repositories.NewActivityRepository(db)

	entitlement := NewEntitlementService(userRepo)

	return &ServiceContainer{
		Auth:        NewAuthService(userRepo, otpStore, smsProvider),
		Entitlement: entitlement,
		Payment:     NewPaymentService(orderRepo, entitlement, paymentProvider, cfg.Razorpay.KeySecret),
		Analysis: NewAnalysisService(
			userRepo,
			activityRepo,
			entitlement,
			inferenceClient,
			imaging.NewPreprocessor(1600),
			time.Duration(cfg.Inference.TimeoutSeconds)*time.Second,
		),
	}
}
