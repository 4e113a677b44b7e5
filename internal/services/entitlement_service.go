package services

import (
	"time"

	"mediscan_backend/internal/dto"
	"mediscan_backend/internal/logger"
	"mediscan_backend/internal/models"
	"mediscan_backend/internal/repositories"
	"mediscan_backend/pkg/apperrors"
)

// EntitlementService owns the scan ledger: how many analyses a user has
// left, how purchases credit the pools and how one analysis debits them.
type EntitlementService interface {
	ScansRemaining(userID string, now time.Time) (int, error)
	// CreditPurchase applies a verified purchase. Custom packs only grow the
	// non-expiring balance; named plans stack onto an active plan of the
	// same kind and replace anything else.
	CreditPurchase(userID, planType string, scanCount int, now time.Time) (*dto.PlanDetails, error)
	// DebitForAnalysis takes one scan, plan pool first, and reports which
	// pool paid.
	DebitForAnalysis(userID string, now time.Time) (repositories.ScanSource, error)
}

type entitlementService struct {
	userRepo repositories.UserRepository
}

func NewEntitlementService(userRepo repositories.UserRepository) EntitlementService {
	return &entitlementService{userRepo: userRepo}
}

func (s *entitlementService) ScansRemaining(userID string, now time.Time) (int, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return 0, apperrors.ErrNotFound(err)
		}
		return 0, apperrors.InternalError(err)
	}
	return user.ScansRemaining(now), nil
}

func (s *entitlementService) CreditPurchase(userID, planType string, scanCount int, now time.Time) (*dto.PlanDetails, error) {
	if planType == models.PlanTypeCustom {
		return s.creditCustomScans(userID, scanCount, now)
	}
	return s.creditPlan(userID, planType, now)
}

func (s *entitlementService) creditCustomScans(userID string, scanCount int, now time.Time) (*dto.PlanDetails, error) {
	if scanCount < 1 {
		return nil, apperrors.ErrInvalidOperation("entitlement", "Invalid scan count")
	}

	if err := s.userRepo.AddCustomScans(userID, scanCount); err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.Info("custom scans credited", "user_id", userID, "count", scanCount, "balance", user.CustomScansBalance)

	return &dto.PlanDetails{
		AccountType: string(user.PlanKind),
		MaxScans:    user.PlanScansTotal,
		ExpiryDate:  user.PlanExpiresAt,
		CustomScans: user.CustomScansBalance,
	}, nil
}

func (s *entitlementService) creditPlan(userID, planType string, now time.Time) (*dto.PlanDetails, error) {
	spec, ok := models.ResolvePlan(planType)
	if !ok {
		return nil, apperrors.ErrUnknownPlanType
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	var (
		total    int
		consumed int
		expiry   time.Time
	)

	if user.PlanKind == spec.Kind && user.PlanActive(now) && user.PlanExpiresAt != nil {
		// Same tier, still running: stack the pack on top of the current
		// window instead of resetting it
		total = user.PlanScansTotal + spec.ScanLimit
		consumed = user.PlanScansConsumed
		expiry = user.PlanExpiresAt.AddDate(0, 0, spec.ValidityDays)
	} else {
		// New tier or lapsed plan: replace. Unused scans of the old plan are
		// forfeited, which is the stated product policy.
		total = spec.ScanLimit
		consumed = 0
		expiry = now.AddDate(0, 0, spec.ValidityDays)
	}

	if err := s.userRepo.ApplyPlan(userID, spec.Kind, total, consumed, expiry, now); err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.Info("plan activated",
		"user_id", userID,
		"plan", spec.Kind,
		"scan_limit", total,
		"expires_at", expiry,
	)

	return &dto.PlanDetails{
		AccountType: string(spec.Kind),
		MaxScans:    total,
		ExpiryDate:  &expiry,
		CustomScans: user.CustomScansBalance,
	}, nil
}

func (s *entitlementService) DebitForAnalysis(userID string, now time.Time) (repositories.ScanSource, error) {
	source, err := s.userRepo.DebitScan(userID, now)
	if err != nil {
		if apperrors.Is(err, repositories.ErrNoScansRemaining) {
			return "", apperrors.ErrInsufficientScans
		}
		return "", apperrors.InternalError(err)
	}
	return source, nil
}
