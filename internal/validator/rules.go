package validator

import (
	"log"
	"regexp"

	"mediscan_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// Indian mobile numbers: 10 digits, first digit 6-9.
var mobilePattern = regexp.MustCompile(`^[6-9]\d{9}$`)

// registerCustomRules installs all custom validation tags. Registration
// failures abort startup.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	// 'in_mobile': the login key format
	mustRegister("in_mobile", validateMobile)

	// 'plan_type': canonical plan kinds, legacy aliases and "custom"
	mustRegister("plan_type", validatePlanType)
}

func validateMobile(fl validator.FieldLevel) bool {
	return mobilePattern.MatchString(fl.Field().String())
}

func validatePlanType(fl validator.FieldLevel) bool {
	return models.IsValidPlanType(fl.Field().String())
}
