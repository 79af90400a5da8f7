package dto

import (
	"regexp"
	"unicode"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidatePasswordStrength validates password strength requirements:
// - At least 8 characters
// - At least one uppercase letter
// - At least one lowercase letter
// - At least one digit
// - At least one special character
func ValidatePasswordStrength(password string) (bool, string) {
	if len(password) < 8 {
		return false, "Password must be at least 8 characters"
	}
	if len(password) > 72 {
		return false, "Password must not exceed 72 characters"
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, c := range password {
		switch {
		case unicode.IsUpper(c):
			hasUpper = true
		case unicode.IsLower(c):
			hasLower = true
		case unicode.IsDigit(c):
			hasDigit = true
		case unicode.IsPunct(c) || unicode.IsSymbol(c):
			hasSpecial = true
		}
	}

	if !hasUpper {
		return false, "Password must contain at least one uppercase letter"
	}
	if !hasLower {
		return false, "Password must contain at least one lowercase letter"
	}
	if !hasDigit {
		return false, "Password must contain at least one digit"
	}
	if !hasSpecial {
		return false, "Password must contain at least one special character"
	}

	return true, ""
}

// ValidateEmailFormat validates email format more strictly than the
// binding tag
func ValidateEmailFormat(email string) (bool, string) {
	if !emailRegex.MatchString(email) {
		return false, "Invalid email format"
	}
	return true, ""
}

// OtpRequest asks for a one-time registration code
type OtpRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// RegisterClientRequest represents client registration
type RegisterClientRequest struct {
	Name     string `json:"name" binding:"required,min=2"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Otp      string `json:"otp" binding:"required,len=6"`
}

// ValidatePassword validates password strength
func (r *RegisterClientRequest) ValidatePassword() (bool, string) {
	return ValidatePasswordStrength(r.Password)
}

// ValidateEmail validates email format
func (r *RegisterClientRequest) ValidateEmail() (bool, string) {
	return ValidateEmailFormat(r.Email)
}

// RegisterVendorRequest represents vendor registration
type RegisterVendorRequest struct {
	Name     string `json:"name" binding:"required,min=2"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Otp      string `json:"otp" binding:"required,len=6"`
	IDProof  string `json:"idProof"`
}

// ValidatePassword validates password strength
func (r *RegisterVendorRequest) ValidatePassword() (bool, string) {
	return ValidatePasswordStrength(r.Password)
}

// ValidateEmail validates email format
func (r *RegisterVendorRequest) ValidateEmail() (bool, string) {
	return ValidateEmailFormat(r.Email)
}

// LoginRequest represents login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// GoogleLoginRequest represents login via a Google-verified email
type GoogleLoginRequest struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name" binding:"required,min=2"`
}

// ForgotPasswordRequest asks for a password-reset mail
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest represents a token-backed password reset
type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	NewPassword string `json:"newPassword" binding:"required,min=8,max=72"`
	Token       string `json:"token" binding:"required"`
}

// ValidatePassword validates password strength
func (r *ResetPasswordRequest) ValidatePassword() (bool, string) {
	return ValidatePasswordStrength(r.NewPassword)
}

// ChangePasswordRequest represents an authenticated password change
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8,max=72"`
}

// ValidatePassword validates password strength
func (r *ChangePasswordRequest) ValidatePassword() (bool, string) {
	return ValidatePasswordStrength(r.NewPassword)
}

// AuthResponse represents a successful authentication. The refresh
// token travels in an HTTP-only cookie, never in the body.
type AuthResponse struct {
	AccessToken string       `json:"accessToken"`
	User        UserResponse `json:"user"`
}

// UserResponse represents principal data in responses
type UserResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone,omitempty"`
	Role           string `json:"role"`
	Status         string `json:"status"`
	VendorID       string `json:"vendorId,omitempty"`
	VendorStatus   string `json:"vendorStatus,omitempty"`
	GoogleVerified bool   `json:"googleVerified,omitempty"`
	CreatedAt      string `json:"createdAt"`
}
