package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"mediscan_backend/database"
	"mediscan_backend/internal/auth"
	"mediscan_backend/internal/config"
	"mediscan_backend/internal/handlers"
	"mediscan_backend/internal/inference"
	"mediscan_backend/internal/logger"
	"mediscan_backend/internal/middleware"
	"mediscan_backend/internal/otp"
	"mediscan_backend/internal/payment"
	"mediscan_backend/internal/repositories"
	"mediscan_backend/internal/routes"
	"mediscan_backend/internal/services"
	"mediscan_backend/internal/sms"
	"mediscan_backend/internal/validator"
	"mediscan_backend/internal/workers"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	auth.Configure(cfg.JWT.Secret, cfg.JWT.TTLDays)

	gormDB, err := database.ConnectGorm()
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	if err := database.AutoMigrate(); err != nil {
		logger.Fatal("Database migration failed", "error", err)
	}
	logger.Info("Database connected and migrated")

	otpStore := otp.NewStore(otp.DefaultTTL)

	ginRouter := SetupRouter(cfg, gormDB, otpStore)

	worker := workers.NewEntitlementWorker(repositories.NewUserRepository(gormDB), otpStore)
	worker.Start(context.Background())

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

func SetupRouter(cfg *config.Config, gormDB *gorm.DB, otpStore *otp.Store) *gin.Engine {
	smsProvider := buildSMSProvider(cfg)
	paymentProvider := payment.NewRazorpayProvider(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret)
	inferenceClient := inference.NewHTTPClient(cfg.Inference.BaseURL, time.Duration(cfg.Inference.TimeoutSeconds)*time.Second)

	serviceContainer := services.NewServiceContainer(gormDB, cfg, otpStore, smsProvider, paymentProvider, inferenceClient)
	appHandlers := initializeHandlers(serviceContainer)

	ginRouter := initializeGinRouter(cfg)
	routes.RegisterRoutes(ginRouter, appHandlers)

	return ginRouter
}

// buildSMSProvider falls back to console delivery when Twilio credentials
// are absent, which is the normal state of a dev machine.
func buildSMSProvider(cfg *config.Config) sms.Provider {
	if cfg.Twilio.AccountSID == "" || cfg.Twilio.AuthToken == "" {
		logger.Warn("Twilio credentials missing. OTP codes will be logged to the console.")
		return sms.ConsoleProvider{}
	}
	return sms.NewTwilioProvider(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.Twilio.FromNumber)
}

func initializeHandlers(sc *services.ServiceContainer) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)
	otpLimiter := middleware.NewOTPRateLimiter()

	return &handlers.AppHandlers{
		AuthHandler:     handlers.NewAuthHandler(baseHandler, sc.Auth, otpLimiter),
		UserHandler:     handlers.NewUserHandler(baseHandler, sc.Auth, sc.Analysis),
		PaymentHandler:  handlers.NewPaymentHandler(baseHandler, sc.Payment),
		AnalysisHandler: handlers.NewAnalysisHandler(baseHandler, sc.Analysis),
	}
}

func initializeGinRouter(cfg *config.Config) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.CORS.Origin))
	return router
}
