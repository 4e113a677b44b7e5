package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediscan_backend/internal/dto"
	"mediscan_backend/internal/models"
	"mediscan_backend/pkg/apperrors"
)

const testKeySecret = "test_key_secret"

func signCallback(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(testKeySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func newPaymentFixture(t *testing.T) (*fakeUserRepo, *fakeOrderRepo, *fakePaymentProvider, PaymentService) {
	t.Helper()
	userRepo := newFakeUserRepo(newLedgerUser("u1"))
	orderRepo := newFakeOrderRepo()
	provider := &fakePaymentProvider{}
	entitlement := NewEntitlementService(userRepo)
	svc := NewPaymentService(orderRepo, entitlement, provider, testKeySecret)
	return userRepo, orderRepo, provider, svc
}

func TestCreateOrderConvertsRupeesToPaise(t *testing.T) {
	_, orderRepo, provider, svc := newPaymentFixture(t)

	resp, err := svc.CreateOrder("u1", &dto.CreateOrderRequest{Amount: 999, PlanType: "small-business-monthly"})
	require.NoError(t, err)

	assert.Equal(t, int64(99900), resp.Amount)
	assert.Equal(t, "INR", resp.Currency)
	require.Len(t, provider.orders, 1)

	stored, err := orderRepo.FindByOrderID(resp.OrderID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCreated, stored.Status)
	assert.Equal(t, "u1", stored.UserID)
	assert.Equal(t, "small-business-monthly", stored.PlanType)
}

func TestCreateOrderCustomRequiresScanCount(t *testing.T) {
	_, _, _, svc := newPaymentFixture(t)

	_, err := svc.CreateOrder("u1", &dto.CreateOrderRequest{Amount: 100, PlanType: "custom", ScanCount: 0})
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.HTTPCode)
}

func TestCreateOrderProviderDown(t *testing.T) {
	_, _, provider, svc := newPaymentFixture(t)
	provider.fail = true

	_, err := svc.CreateOrder("u1", &dto.CreateOrderRequest{Amount: 100, PlanType: "small-business-monthly"})
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 502, appErr.HTTPCode)
}

func TestVerifyPaymentCreditsPlanOnce(t *testing.T) {
	userRepo, _, _, svc := newPaymentFixture(t)

	created, err := svc.CreateOrder("u1", &dto.CreateOrderRequest{Amount: 999, PlanType: "small-business-monthly"})
	require.NoError(t, err)

	req := &dto.VerifyPaymentRequest{
		RazorpayOrderID:   created.OrderID,
		RazorpayPaymentID: "pay_001",
		RazorpaySignature: signCallback(created.OrderID, "pay_001"),
	}

	resp, err := svc.VerifyPayment("u1", req)
	require.NoError(t, err)
	assert.Equal(t, "success", resp.Status)
	require.NotNil(t, resp.PlanDetails)
	assert.Equal(t, 100, resp.PlanDetails.MaxScans)

	user, err := userRepo.FindByID("u1")
	require.NoError(t, err)
	assert.Equal(t, models.PlanKindSmallBusinessMonthly, user.PlanKind)
	assert.Equal(t, 100, user.PlanScansTotal)

	// Replaying the same callback must not credit again.
	resp, err = svc.VerifyPayment("u1", req)
	require.NoError(t, err)
	assert.Equal(t, "already_verified", resp.Status)

	user, err = userRepo.FindByID("u1")
	require.NoError(t, err)
	assert.Equal(t, 100, user.PlanScansTotal, "no double credit")
}

func TestVerifyPaymentCreditsCustomScans(t *testing.T) {
	userRepo, _, _, svc := newPaymentFixture(t)

	created, err := svc.CreateOrder("u1", &dto.CreateOrderRequest{Amount: 500, PlanType: "custom", ScanCount: 50})
	require.NoError(t, err)

	resp, err := svc.VerifyPayment("u1", &dto.VerifyPaymentRequest{
		RazorpayOrderID:   created.OrderID,
		RazorpayPaymentID: "pay_002",
		RazorpaySignature: signCallback(created.OrderID, "pay_002"),
	})
	require.NoError(t, err)
	assert.Equal(t, "success", resp.Status)

	user, err := userRepo.FindByID("u1")
	require.NoError(t, err)
	assert.Equal(t, 50, user.CustomScansBalance)
	assert.Equal(t, models.PlanKindNone, user.PlanKind)
}

func TestVerifyPaymentRejectsTamperedSignature(t *testing.T) {
	userRepo, orderRepo, _, svc := newPaymentFixture(t)

	created, err := svc.CreateOrder("u1", &dto.CreateOrderRequest{Amount: 999, PlanType: "small-business-monthly"})
	require.NoError(t, err)

	_, err = svc.VerifyPayment("u1", &dto.VerifyPaymentRequest{
		RazorpayOrderID:   created.OrderID,
		RazorpayPaymentID: "pay_003",
		RazorpaySignature: signCallback(created.OrderID, "pay_other"),
	})
	assert.ErrorIs(t, err, apperrors.ErrSignatureMismatch)

	stored, err := orderRepo.FindByOrderID(created.OrderID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusFailed, stored.Status)

	user, err := userRepo.FindByID("u1")
	require.NoError(t, err)
	assert.Equal(t, models.PlanKindNone, user.PlanKind, "nothing credited")
}

func TestVerifyPaymentUnknownOrder(t *testing.T) {
	_, _, _, svc := newPaymentFixture(t)

	_, err := svc.VerifyPayment("u1", &dto.VerifyPaymentRequest{
		RazorpayOrderID:   "order_ghost",
		RazorpayPaymentID: "pay_004",
		RazorpaySignature: signCallback("order_ghost", "pay_004"),
	})
	assert.ErrorIs(t, err, apperrors.ErrOrderNotFound)
}

func TestVerifyPaymentForeignOrderIsHidden(t *testing.T) {
	userRepo, _, _, svc := newPaymentFixture(t)
	other := newLedgerUser("u2")
	other.Mobile = "9876500000"
	require.NoError(t, userRepo.Create(other))

	created, err := svc.CreateOrder("u1", &dto.CreateOrderRequest{Amount: 999, PlanType: "small-business-monthly"})
	require.NoError(t, err)

	_, err = svc.VerifyPayment("u2", &dto.VerifyPaymentRequest{
		RazorpayOrderID:   created.OrderID,
		RazorpayPaymentID: "pay_005",
		RazorpaySignature: signCallback(created.OrderID, "pay_005"),
	})
	assert.ErrorIs(t, err, apperrors.ErrOrderNotFound)
}

func TestVerifyPaymentLegacyAliasPlanType(t *testing.T) {
	userRepo, _, _, svc := newPaymentFixture(t)

	created, err := svc.CreateOrder("u1", &dto.CreateOrderRequest{Amount: 999, PlanType: "monthly"})
	require.NoError(t, err)

	resp, err := svc.VerifyPayment("u1", &dto.VerifyPaymentRequest{
		RazorpayOrderID:   created.OrderID,
		RazorpayPaymentID: "pay_006",
		RazorpaySignature: signCallback(created.OrderID, "pay_006"),
	})
	require.NoError(t, err)
	assert.Equal(t, "success", resp.Status)

	user, err := userRepo.FindByID("u1")
	require.NoError(t, err)
	assert.Equal(t, models.PlanKindSmallBusinessMonthly, user.PlanKind)
}
