package apperrors

import (
	"net/http"
)

// Factories and predefined variables for the billing and analysis domain.

// ErrNotFound converts a repository miss (gorm.ErrRecordNotFound and friends)
// into a 404 AppError.
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// --- Auth ---

var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid mobile number or password",
	http.StatusUnauthorized,
)

var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)

var ErrInvalidOTP = New(
	CodeInvalidOTP,
	"auth",
	"Invalid or expired OTP",
	http.StatusBadRequest,
)

var ErrMobileAlreadyRegistered = New(
	CodeAlreadyExists,
	"auth",
	"A user with this mobile number already exists",
	http.StatusBadRequest,
)

var ErrWeakPassword = New(
	CodeValidationFailed,
	"auth",
	"Password must be at least 6 characters",
	http.StatusBadRequest,
)

// --- Entitlement ---

// ErrInsufficientScans gates the analysis endpoint. 402 routes the client to
// the purchase flow.
var ErrInsufficientScans = New(
	CodeInsufficientScans,
	"entitlement",
	"No scans remaining. Please purchase more scans or upgrade your plan.",
	http.StatusPaymentRequired,
)

// --- Billing ---

// ErrSignatureMismatch means a payment callback failed the HMAC check. A
// forged client-side success must never credit the ledger.
var ErrSignatureMismatch = New(
	CodeSignatureMismatch,
	"billing",
	"Payment signature verification failed",
	http.StatusBadRequest,
)

var ErrOrderNotFound = New(
	CodeOrderNotFound,
	"billing",
	"Payment order not found",
	http.StatusNotFound,
)

var ErrUnknownPlanType = New(
	CodeValidationFailed,
	"billing",
	"Invalid plan type",
	http.StatusBadRequest,
)

// ErrProviderUnavailable surfaces a payment-provider failure as-is. No local
// retry; the client retries the whole flow.
func ErrProviderUnavailable(err error) *AppError {
	return Wrap(err, CodeProviderUnavailable, "billing", "Payment provider unavailable", http.StatusBadGateway)
}

// --- Inference ---

func ErrInferenceFailure(err error) *AppError {
	return Wrap(err, CodeInferenceFailure, "inference", "Failed to analyze image", http.StatusBadGateway)
}
