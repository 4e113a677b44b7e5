package models

// PlanSpec describes one purchasable subscription tier.
type PlanSpec struct {
	Kind         PlanKind
	ScanLimit    int
	ValidityDays int
}

// planCatalog is the closed set of subscription tiers. Adding a tier is a
// single entry here plus its PlanKind constant.
var planCatalog = map[PlanKind]PlanSpec{
	PlanKindSmallBusinessMonthly: {Kind: PlanKindSmallBusinessMonthly, ScanLimit: 100, ValidityDays: 30},
	PlanKindSmallBusinessYearly:  {Kind: PlanKindSmallBusinessYearly, ScanLimit: 2000, ValidityDays: 365},
	PlanKindLargeBusinessMonthly: {Kind: PlanKindLargeBusinessMonthly, ScanLimit: 1000, ValidityDays: 30},
	PlanKindLargeBusinessYearly:  {Kind: PlanKindLargeBusinessYearly, ScanLimit: 10000, ValidityDays: 365},
}

// planAliases maps the plan ids older clients still send to their canonical
// kinds.
var planAliases = map[string]PlanKind{
	"monthly":          PlanKindSmallBusinessMonthly,
	"yearly":           PlanKindSmallBusinessYearly,
	"hospital-monthly": PlanKindLargeBusinessMonthly,
	"hospital-yearly":  PlanKindLargeBusinessYearly,
}

// ResolvePlan maps a client-supplied plan type (canonical or legacy alias) to
// its PlanSpec. Returns false for unknown types and for "custom", which is
// not a subscription tier.
func ResolvePlan(planType string) (PlanSpec, bool) {
	kind := PlanKind(planType)
	if alias, ok := planAliases[planType]; ok {
		kind = alias
	}
	spec, ok := planCatalog[kind]
	return spec, ok
}

// IsValidPlanType reports whether planType names a subscription tier or a
// custom scan purchase.
func IsValidPlanType(planType string) bool {
	if planType == PlanTypeCustom {
		return true
	}
	_, ok := ResolvePlan(planType)
	return ok
}
