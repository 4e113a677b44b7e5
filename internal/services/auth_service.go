package services

import (
	"fmt"
	"net/http"
	"time"

	"mediscan_backend/internal/auth"
	"mediscan_backend/internal/dto"
	"mediscan_backend/internal/logger"
	"mediscan_backend/internal/models"
	"mediscan_backend/internal/otp"
	"mediscan_backend/internal/repositories"
	"mediscan_backend/internal/sms"
	"mediscan_backend/pkg/apperrors"
)

type AuthService interface {
	SendRegistrationOTP(mobile string) error
	VerifyAndRegister(req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(req *dto.LoginRequest) (*dto.AuthResponse, error)
	GetProfile(userID string) (*dto.UserResponse, error)
	SendPasswordResetOTP(mobile string) error
	ResetPassword(req *dto.ResetPasswordRequest) error
}

type authService struct {
	userRepo repositories.UserRepository
	otpStore *otp.Store
	sms      sms.Provider
	now      func() time.Time
}

func NewAuthService(userRepo repositories.UserRepository, otpStore *otp.Store, smsProvider sms.Provider) AuthService {
	return &authService{
		userRepo: userRepo,
		otpStore: otpStore,
		sms:      smsProvider,
		now:      time.Now,
	}
}

func (s *authService) SendRegistrationOTP(mobile string) error {
	_, err := s.userRepo.FindByMobile(mobile)
	if err == nil {
		return apperrors.ErrMobileAlreadyRegistered
	}
	if !apperrors.Is(err, repositories.ErrUserNotFound) {
		return apperrors.InternalError(err)
	}

	code, err := s.otpStore.Issue(mobile)
	if err != nil {
		return apperrors.InternalError(err)
	}
	return s.deliverOTP(mobile, code, "verification")
}

func (s *authService) VerifyAndRegister(req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if !s.otpStore.Verify(req.Mobile, req.OTP) {
		return nil, apperrors.ErrInvalidOTP
	}
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.ErrWeakPassword
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Name:             req.Name,
		Mobile:           req.Mobile,
		PasswordHash:     hash,
		PlanKind:         models.PlanKindNone,
		FreeScansGranted: models.DefaultFreeScans,
	}
	if err := s.userRepo.Create(user); err != nil {
		if apperrors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, apperrors.ErrMobileAlreadyRegistered
		}
		return nil, apperrors.InternalError(err)
	}

	logger.Info("user registered", "user_id", user.ID, "mobile", maskMobile(user.Mobile))
	return s.issueSession(user)
}

func (s *authService) Login(req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByMobile(req.Mobile)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}
	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}
	return s.issueSession(user)
}

func (s *authService) GetProfile(userID string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	resp := dto.NewUserResponse(user, s.now())
	return &resp, nil
}

func (s *authService) SendPasswordResetOTP(mobile string) error {
	if _, err := s.userRepo.FindByMobile(mobile); err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}

	code, err := s.otpStore.Issue(mobile)
	if err != nil {
		return apperrors.InternalError(err)
	}
	return s.deliverOTP(mobile, code, "password reset")
}

func (s *authService) ResetPassword(req *dto.ResetPasswordRequest) error {
	if !s.otpStore.Verify(req.Mobile, req.OTP) {
		return apperrors.ErrInvalidOTP
	}
	if err := auth.ValidatePassword(req.NewPassword); err != nil {
		return apperrors.ErrWeakPassword
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if err := s.userRepo.UpdatePassword(req.Mobile, hash); err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}

	logger.Info("password reset", "mobile", maskMobile(req.Mobile))
	return nil
}

func (s *authService) issueSession(user *models.User) (*dto.AuthResponse, error) {
	token, err := auth.GenerateToken(user.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.AuthResponse{
		Token: token,
		User:  dto.NewUserResponse(user, s.now()),
	}, nil
}

func (s *authService) deliverOTP(mobile, code, purpose string) error {
	body := fmt.Sprintf("Your MediScan %s code is %s. It is valid for 5 minutes.", purpose, code)
	if err := s.sms.Send(mobile, body); err != nil {
		// A code the user never received must not stay redeemable.
		s.otpStore.Remove(mobile)
		logger.Error("otp delivery failed", "mobile", maskMobile(mobile), "error", err)
		return apperrors.Wrap(err, apperrors.CodeExternalServiceError, "auth", "Failed to send verification code", http.StatusBadGateway)
	}
	return nil
}

func maskMobile(mobile string) string {
	if len(mobile) < 4 {
		return "****"
	}
	return "******" + mobile[len(mobile)-4:]
}
