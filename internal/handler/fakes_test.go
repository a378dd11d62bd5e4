package handler

import (
	"context"
	"sync"
	"time"

	"medicart-be/internal/notify"
	"medicart-be/internal/order"
	"medicart-be/internal/shop"
	"medicart-be/internal/user"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type memOrders struct {
	mu     sync.Mutex
	orders []*order.Order
}

func (m *memOrders) Create(_ context.Context, o *order.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o.CreatedAt = time.Now()
	o.UpdatedAt = o.CreatedAt
	cp := *o
	m.orders = append(m.orders, &cp)
	return nil
}

func (m *memOrders) List(_ context.Context, f order.Filter) ([]*order.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*order.Order{}
	for i := len(m.orders) - 1; i >= 0; i-- {
		o := m.orders[i]
		if f.PhoneNumber != "" && o.PhoneNumber != f.PhoneNumber {
			continue
		}
		if f.ShopName != "" && o.ShopName != f.ShopName {
			continue
		}
		cp := *o
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memOrders) find(id uuid.UUID) *order.Order {
	for _, o := range m.orders {
		if o.ID == id {
			return o
		}
	}
	return nil
}

func (m *memOrders) GetByID(_ context.Context, id uuid.UUID) (*order.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o := m.find(id)
	if o == nil {
		return nil, order.ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *memOrders) GetImage(_ context.Context, id uuid.UUID, index int) (*order.Image, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o := m.find(id)
	if o == nil || index >= len(o.Images) {
		return nil, order.ErrInvalidImage
	}
	img := o.Images[index]
	return &img, nil
}

func (m *memOrders) SetStatus(_ context.Context, id uuid.UUID, s order.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o := m.find(id)
	if o == nil {
		return order.ErrOrderNotFound
	}
	o.Status = s
	return nil
}

func (m *memOrders) ToggleStatus(_ context.Context, id uuid.UUID) (order.Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o := m.find(id)
	if o == nil {
		return "", order.ErrOrderNotFound
	}
	o.Status = o.Status.Toggled()
	return o.Status, nil
}

func (m *memOrders) ReplacePricing(_ context.Context, id uuid.UUID, items []order.LineItem, total decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o := m.find(id)
	if o == nil {
		return order.ErrOrderNotFound
	}
	o.Items = items
	o.TotalPrice = total
	return nil
}

func (m *memOrders) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, o := range m.orders {
		if o.ID == id {
			m.orders = append(m.orders[:i], m.orders[i+1:]...)
			return nil
		}
	}
	return order.ErrOrderNotFound
}

func (m *memOrders) DeleteAll(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := int64(len(m.orders))
	m.orders = nil
	return n, nil
}

type memUsers struct {
	mu    sync.Mutex
	users map[string]*user.User
	err   error
}

func (m *memUsers) Upsert(_ context.Context, phone, name string) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.users[phone]
	if !ok {
		u = &user.User{ID: len(m.users) + 1, PhoneNumber: phone, CreatedAt: time.Now()}
		m.users[phone] = u
	}
	u.Name = name
	u.UpdatedAt = time.Now()
	cp := *u
	return &cp, nil
}

func (m *memUsers) FindByPhone(_ context.Context, phone string) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.users[phone]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

type memShops struct {
	mu    sync.Mutex
	shops map[string]*shop.Shop
}

func (m *memShops) FindByName(_ context.Context, name string) (*shop.Shop, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.shops[name]
	if !ok {
		return nil, shop.ErrShopNotFound
	}
	return s, nil
}

func (m *memShops) Upsert(_ context.Context, name, hash string) (*shop.Shop, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := &shop.Shop{ID: uuid.New(), Name: name, PasswordHash: hash, CreatedAt: time.Now()}
	m.shops[name] = s
	return s, nil
}

type recordingSink struct {
	mu     sync.Mutex
	events []notify.Event
}

func (s *recordingSink) Send(_ context.Context, ev notify.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return nil
}

func (s *recordingSink) Close() error { return nil }

func (s *recordingSink) Events() []notify.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]notify.Event(nil), s.events...)
}
