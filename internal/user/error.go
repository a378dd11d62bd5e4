package user

import "errors"

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrPhoneRequired = errors.New("phone number is required")
	ErrNameRequired  = errors.New("name is required")
)
