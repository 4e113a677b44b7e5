package services

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediscan_backend/internal/auth"
	"mediscan_backend/internal/dto"
	"mediscan_backend/internal/otp"
	"mediscan_backend/pkg/apperrors"
)

var codePattern = regexp.MustCompile(`\b(\d{6})\b`)

func lastCode(t *testing.T, sms *recordingSMS) string {
	t.Helper()
	require.NotEmpty(t, sms.messages)
	match := codePattern.FindStringSubmatch(sms.messages[len(sms.messages)-1])
	require.NotNil(t, match, "no code in SMS body")
	return match[1]
}

func init() {
	auth.Configure("test-secret", 7)
}

func newAuthFixture() (*fakeUserRepo, *recordingSMS, AuthService) {
	userRepo := newFakeUserRepo()
	smsProvider := &recordingSMS{}
	store := otp.NewStore(otp.DefaultTTL)
	return userRepo, smsProvider, NewAuthService(userRepo, store, smsProvider)
}

func TestRegistrationFlow(t *testing.T) {
	userRepo, smsProvider, svc := newAuthFixture()

	require.NoError(t, svc.SendRegistrationOTP("9876543210"))
	code := lastCode(t, smsProvider)

	resp, err := svc.VerifyAndRegister(&dto.RegisterRequest{
		Name:     "Asha",
		Mobile:   "9876543210",
		Password: "s3cret1",
		OTP:      code,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "Asha", resp.User.Name)
	assert.Equal(t, 5, resp.User.FreeScansRemaining, "signup grant")

	user, err := userRepo.FindByMobile("9876543210")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret1", user.PasswordHash, "password is hashed")
}

func TestRegistrationRejectsWrongOTP(t *testing.T) {
	_, _, svc := newAuthFixture()

	require.NoError(t, svc.SendRegistrationOTP("9876543210"))

	_, err := svc.VerifyAndRegister(&dto.RegisterRequest{
		Name:     "Asha",
		Mobile:   "9876543210",
		Password: "s3cret1",
		OTP:      "000000",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidOTP)
}

func TestOTPIsSingleUse(t *testing.T) {
	_, smsProvider, svc := newAuthFixture()

	require.NoError(t, svc.SendRegistrationOTP("9876543210"))
	code := lastCode(t, smsProvider)

	_, err := svc.VerifyAndRegister(&dto.RegisterRequest{
		Name: "Asha", Mobile: "9876543210", Password: "s3cret1", OTP: code,
	})
	require.NoError(t, err)

	// Same code again: consumed.
	_, err = svc.VerifyAndRegister(&dto.RegisterRequest{
		Name: "Asha2", Mobile: "9876543211", Password: "s3cret1", OTP: code,
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidOTP)
}

func TestSendOTPRejectsRegisteredMobile(t *testing.T) {
	userRepo, _, svc := newAuthFixture()
	existing := newLedgerUser("u1")
	require.NoError(t, userRepo.Create(existing))

	err := svc.SendRegistrationOTP(existing.Mobile)
	assert.ErrorIs(t, err, apperrors.ErrMobileAlreadyRegistered)
}

func TestUndeliveredOTPIsNotRedeemable(t *testing.T) {
	_, smsProvider, svc := newAuthFixture()
	smsProvider.fail = true

	err := svc.SendRegistrationOTP("9876543210")
	require.Error(t, err)
	assert.Empty(t, smsProvider.messages)
}

func TestLogin(t *testing.T) {
	_, smsProvider, svc := newAuthFixture()

	require.NoError(t, svc.SendRegistrationOTP("9876543210"))
	_, err := svc.VerifyAndRegister(&dto.RegisterRequest{
		Name: "Asha", Mobile: "9876543210", Password: "s3cret1", OTP: lastCode(t, smsProvider),
	})
	require.NoError(t, err)

	resp, err := svc.Login(&dto.LoginRequest{Mobile: "9876543210", Password: "s3cret1"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)

	_, err = svc.Login(&dto.LoginRequest{Mobile: "9876543210", Password: "wrong"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = svc.Login(&dto.LoginRequest{Mobile: "9999999999", Password: "s3cret1"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials, "unknown mobile is indistinguishable from a bad password")
}

func TestPasswordResetFlow(t *testing.T) {
	_, smsProvider, svc := newAuthFixture()

	require.NoError(t, svc.SendRegistrationOTP("9876543210"))
	_, err := svc.VerifyAndRegister(&dto.RegisterRequest{
		Name: "Asha", Mobile: "9876543210", Password: "oldpass1", OTP: lastCode(t, smsProvider),
	})
	require.NoError(t, err)

	require.NoError(t, svc.SendPasswordResetOTP("9876543210"))
	err = svc.ResetPassword(&dto.ResetPasswordRequest{
		Mobile:      "9876543210",
		OTP:         lastCode(t, smsProvider),
		NewPassword: "newpass1",
	})
	require.NoError(t, err)

	_, err = svc.Login(&dto.LoginRequest{Mobile: "9876543210", Password: "oldpass1"})
	assert.Error(t, err)
	_, err = svc.Login(&dto.LoginRequest{Mobile: "9876543210", Password: "newpass1"})
	assert.NoError(t, err)
}

func TestPasswordResetUnknownMobile(t *testing.T) {
	_, _, svc := newAuthFixture()

	err := svc.SendPasswordResetOTP("9876543210")
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.HTTPCode)
}

func TestRegistrationRejectsWeakPassword(t *testing.T) {
	_, smsProvider, svc := newAuthFixture()

	require.NoError(t, svc.SendRegistrationOTP("9876543210"))

	_, err := svc.VerifyAndRegister(&dto.RegisterRequest{
		Name: "Asha", Mobile: "9876543210", Password: "abc", OTP: lastCode(t, smsProvider),
	})
	assert.ErrorIs(t, err, apperrors.ErrWeakPassword)
}
