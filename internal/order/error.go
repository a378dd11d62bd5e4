package order

import "errors"

var (
	// -- Authentication/Authorization --
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("order belongs to another shop")

	// -- Validation & Input --
	ErrPhoneRequired  = errors.New("phone number is required")
	ErrInvalidDays    = errors.New("days must be a positive whole number")
	ErrNoImages       = errors.New("at least one image is required")
	ErrTooManyImages  = errors.New("too many images")
	ErrInvalidStatus  = errors.New("status must be pending or done")
	ErrInvalidPricing = errors.New("line items need a name and a non-negative price with at most two decimals")
	ErrInvalidImage   = errors.New("image index out of range")

	// -- Resource State --
	ErrOrderNotFound = errors.New("order not found")
)
