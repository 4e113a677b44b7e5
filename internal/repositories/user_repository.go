package repositories

import (
	"errors"
	"time"

	"mediscan_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrNoScansRemaining  = errors.New("no scans remaining")
)

// ScanSource names the ledger pool a debit was taken from.
type ScanSource string

const (
	ScanSourcePlan   ScanSource = "plan"
	ScanSourceFree   ScanSource = "free"
	ScanSourceCustom ScanSource = "custom"
)

type UserRepository interface {
	FindByID(id string) (*models.User, error)
	FindByMobile(mobile string) (*models.User, error)
	Create(user *models.User) error
	UpdatePassword(mobile, passwordHash string) error

	// Ledger mutations. Each is a single conditional UPDATE so concurrent
	// requests cannot both win the last scan.
	DebitScan(userID string, now time.Time) (ScanSource, error)
	AddCustomScans(userID string, count int) error
	ApplyPlan(userID string, kind models.PlanKind, total, consumed int, expiresAt, purchasedAt time.Time) error

	ExpireLapsedPlans(now time.Time) (int64, error)
}

type UserRepositoryImpl struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &UserRepositoryImpl{db: db}
}

func (r *UserRepositoryImpl) FindByID(id string) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByMobile(mobile string) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "mobile = ?", mobile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) Create(user *models.User) error {
	var existing models.User
	if err := r.db.Where("mobile = ?", user.Mobile).First(&existing).Error; err == nil {
		return ErrUserAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if err := r.db.Create(user).Error; err != nil {
		// Unique index on mobile closes the race between the check and the
		// insert.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrUserAlreadyExists
		}
		return err
	}
	return nil
}

func (r *UserRepositoryImpl) UpdatePassword(mobile, passwordHash string) error {
	res := r.db.Model(&models.User{}).
		Where("mobile = ?", mobile).
		Update("password_hash", passwordHash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// DebitScan takes one scan from the first pool that can pay: active plan,
// then leftover free grant, then custom balance. Every variant increments
// the lifetime analysis count in the same statement.
func (r *UserRepositoryImpl) DebitScan(userID string, now time.Time) (ScanSource, error) {
	// Plan pool: kind set, window open, scans left
	res := r.db.Model(&models.User{}).
		Where("id = ? AND plan_kind <> ? AND plan_scans_consumed < plan_scans_total AND (plan_expires_at IS NULL OR plan_expires_at >= ?)",
			userID, models.PlanKindNone, now).
		Updates(map[string]interface{}{
			"plan_scans_consumed": gorm.Expr("plan_scans_consumed + 1"),
			"analysis_count":      gorm.Expr("analysis_count + 1"),
		})
	if res.Error != nil {
		return "", res.Error
	}
	if res.RowsAffected == 1 {
		return ScanSourcePlan, nil
	}

	// Free grant
	res = r.db.Model(&models.User{}).
		Where("id = ? AND free_scans_used < free_scans_granted", userID).
		Updates(map[string]interface{}{
			"free_scans_used": gorm.Expr("free_scans_used + 1"),
			"analysis_count":  gorm.Expr("analysis_count + 1"),
		})
	if res.Error != nil {
		return "", res.Error
	}
	if res.RowsAffected == 1 {
		return ScanSourceFree, nil
	}

	// Custom balance
	res = r.db.Model(&models.User{}).
		Where("id = ? AND custom_scans_balance > 0", userID).
		Updates(map[string]interface{}{
			"custom_scans_balance": gorm.Expr("custom_scans_balance - 1"),
			"analysis_count":       gorm.Expr("analysis_count + 1"),
		})
	if res.Error != nil {
		return "", res.Error
	}
	if res.RowsAffected == 1 {
		return ScanSourceCustom, nil
	}

	return "", ErrNoScansRemaining
}

func (r *UserRepositoryImpl) AddCustomScans(userID string, count int) error {
	res := r.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("custom_scans_balance", gorm.Expr("custom_scans_balance + ?", count))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepositoryImpl) ApplyPlan(userID string, kind models.PlanKind, total, consumed int, expiresAt, purchasedAt time.Time) error {
	res := r.db.Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"plan_kind":           kind,
			"plan_scans_total":    total,
			"plan_scans_consumed": consumed,
			"plan_expires_at":     expiresAt,
			"plan_purchased_at":   purchasedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// ExpireLapsedPlans normalizes ledgers whose subscription window has closed.
// ScansRemaining already reports 0 for these; this keeps the stored state in
// line with what the user sees.
func (r *UserRepositoryImpl) ExpireLapsedPlans(now time.Time) (int64, error) {
	res := r.db.Model(&models.User{}).
		Where("plan_kind <> ? AND plan_expires_at IS NOT NULL AND plan_expires_at < ?", models.PlanKindNone, now).
		Updates(map[string]interface{}{
			"plan_kind":           models.PlanKindNone,
			"plan_scans_total":    0,
			"plan_scans_consumed": 0,
			"plan_expires_at":     nil,
		})
	return res.RowsAffected, res.Error
}
