package models

import "time"

// Order is a payment-provider purchase intent. Verified orders are the
// durable purchase record and are never mutated again.
type Order struct {
	BaseModel
	OrderID          string      `gorm:"uniqueIndex;not null"` // provider-issued id
	UserID           string      `gorm:"type:uuid;not null;index"`
	AmountMinorUnits int64       `gorm:"not null"`
	Currency         string      `gorm:"type:varchar(8);not null;default:'INR'"`
	PlanType         string      `gorm:"type:varchar(40);not null"`
	ScanCount        int         `gorm:"not null;default:0"` // custom purchases only
	Status           OrderStatus `gorm:"type:varchar(20);not null;default:'created'"`
	PaymentID        string
	VerifiedAt       *time.Time
}
