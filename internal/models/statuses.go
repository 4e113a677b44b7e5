package models

type PlanKind string
type OrderStatus string

const (
	PlanKindNone                 PlanKind = "none"
	PlanKindSmallBusinessMonthly PlanKind = "small-business-monthly"
	PlanKindSmallBusinessYearly  PlanKind = "small-business-yearly"
	PlanKindLargeBusinessMonthly PlanKind = "large-business-monthly"
	PlanKindLargeBusinessYearly  PlanKind = "large-business-yearly"

	OrderStatusCreated  OrderStatus = "created"
	OrderStatusVerified OrderStatus = "verified"
	OrderStatusFailed   OrderStatus = "failed"
)

// PlanTypeCustom is the purchase type for non-expiring scan packs. It is not
// a PlanKind: custom scans live in their own pool and never touch plan state.
const PlanTypeCustom = "custom"
