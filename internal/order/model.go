package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxImages caps the photographs attached to one submission.
const MaxImages = 12

type Status string

const (
	StatusPending Status = "pending"
	StatusDone    Status = "done"
)

func (s Status) Valid() bool {
	return s == StatusPending || s == StatusDone
}

// Toggled flips pending <-> done.
func (s Status) Toggled() Status {
	if s == StatusDone {
		return StatusPending
	}
	return StatusDone
}

type Image struct {
	ContentType string
	Data        []byte
}

type LineItem struct {
	Name  string
	Price decimal.Decimal
}

type Order struct {
	ID           uuid.UUID
	PhoneNumber  string
	Days         int
	CustomerName string
	Description  string
	Address      string
	ShopName     string
	Images       []Image
	Items        []LineItem
	TotalPrice   decimal.Decimal
	Status       Status
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SubmitInput is an order as it arrives from the submission form; Days is
// still the raw form value.
type SubmitInput struct {
	PhoneNumber  string
	Days         string
	CustomerName string
	Description  string
	Address      string
	ShopName     string
	Images       []Image
}

type Filter struct {
	PhoneNumber string
	ShopName    string
}

type PricingInput struct {
	Items      []LineItem
	TotalPrice *decimal.Decimal
}
