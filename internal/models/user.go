package models

import "time"

// User carries identity plus the full entitlement ledger: the free grant,
// the current subscription window and the non-expiring custom scan balance.
type User struct {
	BaseModel
	Name         string `gorm:"not null"`
	Mobile       string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`

	FreeScansGranted int `gorm:"not null;default:5"`
	FreeScansUsed    int `gorm:"not null;default:0"`

	// Lifetime analysis total. Monotonic, independent of which pool paid.
	AnalysisCount int `gorm:"not null;default:0"`

	PlanKind          PlanKind `gorm:"type:varchar(40);not null;default:'none'"`
	PlanScansTotal    int      `gorm:"not null;default:0"`
	PlanScansConsumed int      `gorm:"not null;default:0"`
	PlanExpiresAt     *time.Time
	PlanPurchasedAt   *time.Time

	CustomScansBalance int `gorm:"not null;default:0"`
}

// DefaultFreeScans is the allotment granted at account creation.
const DefaultFreeScans = 5

// PlanActive reports whether the subscription window covers now. A nil
// expiry means the plan never lapses.
func (u *User) PlanActive(now time.Time) bool {
	if u.PlanKind == PlanKindNone {
		return false
	}
	return u.PlanExpiresAt == nil || !now.After(*u.PlanExpiresAt)
}

// EffectivePlanScans returns the usable subscription scans at now. Expired
// plan scans are not usable regardless of how many remain.
func (u *User) EffectivePlanScans(now time.Time) int {
	if !u.PlanActive(now) {
		return 0
	}
	remaining := u.PlanScansTotal - u.PlanScansConsumed
	if remaining < 0 {
		return 0
	}
	return remaining
}

// FreeScansRemaining returns the unused part of the signup grant.
func (u *User) FreeScansRemaining() int {
	remaining := u.FreeScansGranted - u.FreeScansUsed
	if remaining < 0 {
		return 0
	}
	return remaining
}

// ScansRemaining is the aggregate over all pools: active plan scans, leftover
// free grant and the custom balance.
func (u *User) ScansRemaining(now time.Time) int {
	return u.EffectivePlanScans(now) + u.FreeScansRemaining() + u.CustomScansBalance
}
