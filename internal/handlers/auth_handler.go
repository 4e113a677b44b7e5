package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mediscan_backend/internal/dto"
	"mediscan_backend/internal/middleware"
	"mediscan_backend/internal/services"
)

type AuthHandler struct {
	*BaseHandler
	authService services.AuthService
	otpLimiter  *middleware.OTPRateLimiter
}

func NewAuthHandler(base *BaseHandler, authService services.AuthService, otpLimiter *middleware.OTPRateLimiter) *AuthHandler {
	return &AuthHandler{
		BaseHandler: base,
		authService: authService,
		otpLimiter:  otpLimiter,
	}
}

func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	{
		auth.POST("/send-registration-otp", h.otpLimiter.Middleware(), h.SendOTP)
		auth.POST("/verify-and-register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/send-password-reset-otp", h.otpLimiter.Middleware(), h.ForgotPassword)
		auth.POST("/reset-password", h.ResetPassword)
	}
}

// SendOTP godoc
// @Summary      Send a registration OTP
// @Description  Sends a 6-digit verification code to an unregistered mobile number
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body  dto.SendOTPRequest  true  "Mobile number"
// @Success      200  {object}  map[string]string
// @Failure      409  {object}  apperrors.ErrorResponse
// @Failure      429  {object}  map[string]string
// @Router       /auth/send-registration-otp [post]
func (h *AuthHandler) SendOTP(c *gin.Context) {
	var req dto.SendOTPRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.authService.SendRegistrationOTP(req.Mobile); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "OTP sent successfully"})
}

// Register godoc
// @Summary      Register with OTP verification
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body  dto.RegisterRequest  true  "Registration payload"
// @Success      201  {object}  dto.AuthResponse
// @Failure      400  {object}  apperrors.ErrorResponse
// @Router       /auth/verify-and-register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.authService.VerifyAndRegister(&req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Login godoc
// @Summary      Log in with mobile and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body  dto.LoginRequest  true  "Credentials"
// @Success      200  {object}  dto.AuthResponse
// @Failure      401  {object}  apperrors.ErrorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.authService.Login(&req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ForgotPassword godoc
// @Summary      Send a password-reset OTP
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body  dto.SendOTPRequest  true  "Mobile number"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  apperrors.ErrorResponse
// @Router       /auth/send-password-reset-otp [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req dto.SendOTPRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.authService.SendPasswordResetOTP(req.Mobile); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "OTP sent successfully"})
}

// ResetPassword godoc
// @Summary      Reset password with OTP
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body  dto.ResetPasswordRequest  true  "Reset payload"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  apperrors.ErrorResponse
// @Router       /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.authService.ResetPassword(&req); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password reset successfully"})
}
