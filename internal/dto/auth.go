package dto

// SendOTPRequest starts OTP delivery for registration or password reset.
type SendOTPRequest struct {
	Mobile string `json:"mobile" validate:"required,in_mobile"`
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Mobile   string `json:"mobile" validate:"required,in_mobile"`
	Password string `json:"password" validate:"required,min=6"`
	OTP      string `json:"otp" validate:"required,len=6"`
}

type LoginRequest struct {
	Mobile   string `json:"mobile" validate:"required,in_mobile"`
	Password string `json:"password" validate:"required"`
}

type ResetPasswordRequest struct {
	Mobile      string `json:"mobile" validate:"required,in_mobile"`
	OTP         string `json:"otp" validate:"required,len=6"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
