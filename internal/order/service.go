package order

import (
	"context"
	"math"
	"strconv"
	"strings"

	"medicart-be/internal/logger"
	"medicart-be/internal/metrics"
	"medicart-be/internal/notify"
	"medicart-be/internal/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Service interface {
	Submit(ctx context.Context, input SubmitInput) (*Order, error)
	List(ctx context.Context, filter Filter) ([]*Order, error)
	GetDetails(ctx context.Context, id uuid.UUID) (*Order, error)
	GetImage(ctx context.Context, id uuid.UUID, index int) (*Image, error)
	SetStatus(ctx context.Context, id uuid.UUID, status Status) (Status, error)
	ToggleStatus(ctx context.Context, id uuid.UUID) (Status, error)
	UpdatePricing(ctx context.Context, id uuid.UUID, input PricingInput) (*Order, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteAll(ctx context.Context) (int64, error)
}

// Notifier receives the new-order event after the order is stored.
type Notifier interface {
	Publish(ctx context.Context, shop string, ev notify.Event) int
}

// Prices are stored as NUMERIC(12,2).
var maxPrice = decimal.New(1, 10)

func validPrice(d decimal.Decimal) bool {
	return !d.IsNegative() && d.Equal(d.Truncate(2)) && d.LessThan(maxPrice)
}

type service struct {
	repo     Repository
	notifier Notifier
	metrics  *metrics.Registry
}

func NewService(repo Repository, notifier Notifier, m *metrics.Registry) Service {
	if m == nil {
		m = metrics.NewRegistry()
	}
	return &service{repo: repo, notifier: notifier, metrics: m}
}

func (s *service) Submit(ctx context.Context, input SubmitInput) (*Order, error) {
	phone := utils.NormalizePhone(input.PhoneNumber)
	if phone == "" {
		return nil, ErrPhoneRequired
	}

	days, err := strconv.Atoi(strings.TrimSpace(input.Days))
	if err != nil || days < 1 || days > math.MaxInt32 {
		return nil, ErrInvalidDays
	}

	if len(input.Images) == 0 {
		return nil, ErrNoImages
	}
	if len(input.Images) > MaxImages {
		return nil, ErrTooManyImages
	}

	o := &Order{
		ID:           uuid.New(),
		PhoneNumber:  phone,
		Days:         days,
		CustomerName: strings.TrimSpace(input.CustomerName),
		Description:  strings.TrimSpace(input.Description),
		Address:      strings.TrimSpace(input.Address),
		ShopName:     strings.TrimSpace(input.ShopName),
		Images:       input.Images,
		Items:        []LineItem{},
		TotalPrice:   decimal.Zero,
		Status:       StatusPending,
	}

	log := logger.FromCtx(ctx).With(
		zap.String("service", "Order"),
		zap.String("method", "Submit"),
		zap.String("order_id", o.ID.String()),
	)

	if err := s.repo.Create(ctx, o); err != nil {
		log.Error("failed to save submission", zap.Error(err))
		return nil, err
	}

	s.metrics.OrdersCreated.Inc()
	s.metrics.ImagesStored.Add(uint64(len(o.Images)))

	if o.ShopName != "" && s.notifier != nil {
		delivered := s.notifier.Publish(ctx, o.ShopName, notify.Event{
			ShopName: o.ShopName,
			Message:  notify.MessageNewMedicine,
			OrderID:  o.ID.String(),
		})
		log.Info("new order announced", zap.Int("listeners", delivered))
	}

	log.Info("submission saved", zap.Int("images", len(o.Images)))
	return o, nil
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Order, error) {
	filter.PhoneNumber = utils.NormalizePhone(filter.PhoneNumber)
	filter.ShopName = strings.TrimSpace(filter.ShopName)
	return s.repo.List(ctx, filter)
}

func (s *service) GetDetails(ctx context.Context, id uuid.UUID) (*Order, error) {
	return s.authorize(ctx, id)
}

func (s *service) GetImage(ctx context.Context, id uuid.UUID, index int) (*Image, error) {
	if index < 0 || index >= MaxImages {
		return nil, ErrInvalidImage
	}
	return s.repo.GetImage(ctx, id, index)
}

func (s *service) SetStatus(ctx context.Context, id uuid.UUID, status Status) (Status, error) {
	if !status.Valid() {
		return "", ErrInvalidStatus
	}
	if _, err := s.authorize(ctx, id); err != nil {
		return "", err
	}
	if err := s.repo.SetStatus(ctx, id, status); err != nil {
		return "", err
	}

	logger.FromCtx(ctx).Info("order status set",
		zap.String("order_id", id.String()),
		zap.String("status", string(status)),
	)
	return status, nil
}

func (s *service) ToggleStatus(ctx context.Context, id uuid.UUID) (Status, error) {
	if _, err := s.authorize(ctx, id); err != nil {
		return "", err
	}

	status, err := s.repo.ToggleStatus(ctx, id)
	if err != nil {
		return "", err
	}

	logger.FromCtx(ctx).Info("order status toggled",
		zap.String("order_id", id.String()),
		zap.String("status", string(status)),
	)
	return status, nil
}

// UpdatePricing replaces the priced items wholesale. Without an explicit
// total, the total is the sum of the item prices.
func (s *service) UpdatePricing(ctx context.Context, id uuid.UUID, input PricingInput) (*Order, error) {
	items := make([]LineItem, 0, len(input.Items))
	sum := decimal.Zero
	for _, it := range input.Items {
		name := strings.TrimSpace(it.Name)
		if name == "" || !validPrice(it.Price) {
			return nil, ErrInvalidPricing
		}
		items = append(items, LineItem{Name: name, Price: it.Price})
		sum = sum.Add(it.Price)
	}

	total := sum
	if input.TotalPrice == nil && !validPrice(total) {
		return nil, ErrInvalidPricing
	}
	if input.TotalPrice != nil {
		if !validPrice(*input.TotalPrice) {
			return nil, ErrInvalidPricing
		}
		total = *input.TotalPrice
	}

	o, err := s.authorize(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.ReplacePricing(ctx, id, items, total); err != nil {
		return nil, err
	}

	o.Items = items
	o.TotalPrice = total

	logger.FromCtx(ctx).Info("order priced",
		zap.String("order_id", id.String()),
		zap.Int("items", len(items)),
		zap.String("total", total.StringFixed(2)),
	)
	return o, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.authorize(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	logger.FromCtx(ctx).Info("order deleted", zap.String("order_id", id.String()))
	return nil
}

// DeleteAll clears the whole store regardless of shop. The caller only
// needs to be a logged-in shop.
func (s *service) DeleteAll(ctx context.Context) (int64, error) {
	if _, ok := utils.GetShopFromContext(ctx); !ok {
		return 0, ErrUnauthorized
	}

	n, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}

	logger.FromCtx(ctx).Warn("all orders deleted", zap.Int64("count", n))
	return n, nil
}

// authorize loads the order and checks that the calling shop may act on it:
// either the order is addressed to that shop or to no shop at all.
func (s *service) authorize(ctx context.Context, id uuid.UUID) (*Order, error) {
	shop, ok := utils.GetShopFromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if o.ShopName != "" && o.ShopName != shop.Name {
		logger.FromCtx(ctx).Warn("cross-shop order access",
			zap.String("order_id", id.String()),
			zap.String("order_shop", o.ShopName),
		)
		return nil, ErrForbidden
	}
	return o, nil
}
