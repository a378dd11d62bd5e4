package shop

import "errors"

var (
	ErrShopNotFound       = errors.New("shop not found")
	ErrInvalidCredentials = errors.New("invalid shop name or password")
	ErrInvalidInput       = errors.New("shop name and password are required")
)
