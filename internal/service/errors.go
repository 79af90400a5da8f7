package service

import "errors"

var (
	ErrEmailExists           = errors.New("email already registered")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrUserNotFound          = errors.New("user not found")
	ErrUserBlocked           = errors.New("user is blocked")
	ErrVendorNotApproved     = errors.New("vendor is not approved")
	ErrInvalidToken          = errors.New("invalid token")
	ErrTokenExpired          = errors.New("token expired")
	ErrInvalidOtp            = errors.New("invalid or expired otp")
	ErrSamePassword          = errors.New("new password must differ from the old one")
	ErrGoogleAccount         = errors.New("account uses google sign-in")
	ErrInvalidOrExpiredReset = errors.New("invalid or expired reset token")
	ErrEventNotFound         = errors.New("event not found")
	ErrNotEventOwner         = errors.New("event belongs to another vendor")
	ErrVendorNotPending      = errors.New("vendor application already decided")
)
