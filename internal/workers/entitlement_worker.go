package workers

import (
	"context"
	"time"

	"mediscan_backend/internal/logger"
	"mediscan_backend/internal/otp"
	"mediscan_backend/internal/repositories"
)

// EntitlementWorker runs the background housekeeping of the scan ledger:
// downgrading lapsed plans and pruning expired OTP codes.
type EntitlementWorker struct {
	userRepo repositories.UserRepository
	otpStore *otp.Store
	interval time.Duration
}

func NewEntitlementWorker(userRepo repositories.UserRepository, otpStore *otp.Store) *EntitlementWorker {
	return &EntitlementWorker{
		userRepo: userRepo,
		otpStore: otpStore,
		interval: time.Hour,
	}
}

func (w *EntitlementWorker) Start(ctx context.Context) {
	go w.expireLapsedPlans(ctx)
	go w.pruneOTPCodes(ctx)
}

// expireLapsedPlans normalizes users whose plan window has passed back to
// the free tier. Reads already treat a lapsed plan as empty, so the sweep
// only keeps the stored state honest.
func (w *EntitlementWorker) expireLapsedPlans(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Entitlement worker stopped")
			return
		case <-ticker.C:
			count, err := w.userRepo.ExpireLapsedPlans(time.Now())
			logger.WorkerLog("entitlement", "expire lapsed plans", err)
			if err == nil && count > 0 {
				logger.Info("Lapsed plans downgraded", "count", count)
			}
		}
	}
}

func (w *EntitlementWorker) pruneOTPCodes(ctx context.Context) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if pruned := w.otpStore.Prune(); pruned > 0 {
				logger.Info("Expired OTP codes pruned", "count", pruned)
			}
		}
	}
}
