package dto

import (
	"time"

	"mediscan_backend/internal/models"
)

// UserResponse is the user projection returned by auth endpoints and /me.
type UserResponse struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name"`
	Mobile             string     `json:"mobile"`
	PlanKind           string     `json:"planKind"`
	AnalysisCount      int        `json:"analysisCount"`
	PlanScansTotal     int        `json:"planScansTotal"`
	PlanScansConsumed  int        `json:"planScansConsumed"`
	PlanExpiresAt      *time.Time `json:"planExpiryDate"`
	PlanPurchasedAt    *time.Time `json:"planPurchaseDate"`
	FreeScansRemaining int        `json:"freeScansRemaining"`
	CustomScans        int        `json:"customScans"`
	ScansRemaining     int        `json:"scansRemaining"`
}

func NewUserResponse(u *models.User, now time.Time) UserResponse {
	return UserResponse{
		ID:                 u.ID,
		Name:               u.Name,
		Mobile:             u.Mobile,
		PlanKind:           string(u.PlanKind),
		AnalysisCount:      u.AnalysisCount,
		PlanScansTotal:     u.PlanScansTotal,
		PlanScansConsumed:  u.PlanScansConsumed,
		PlanExpiresAt:      u.PlanExpiresAt,
		PlanPurchasedAt:    u.PlanPurchasedAt,
		FreeScansRemaining: u.FreeScansRemaining(),
		CustomScans:        u.CustomScansBalance,
		ScansRemaining:     u.ScansRemaining(now),
	}
}
