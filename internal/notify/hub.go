package notify

import (
	"context"
	"sync"

	"medicart-be/internal/logger"
	"medicart-be/internal/metrics"

	"go.uber.org/zap"
)

const MessageNewMedicine = "new medicine added"

type Event struct {
	ShopName string `json:"shopName"`
	Message  string `json:"message"`
	OrderID  string `json:"orderId,omitempty"`
}

// Sink is one live listener, usually a websocket connection.
type Sink interface {
	Send(ctx context.Context, ev Event) error
	Close() error
}

type subscription struct {
	sink Sink
}

// Hub fans events out to the sinks registered for a shop. Events are not
// stored; a sink only sees what is published while it is subscribed.
type Hub struct {
	mu      sync.RWMutex
	byShop  map[string][]*subscription
	metrics *metrics.Registry
}

func NewHub(m *metrics.Registry) *Hub {
	if m == nil {
		m = metrics.NewRegistry()
	}
	return &Hub{byShop: make(map[string][]*subscription), metrics: m}
}

// Subscribe registers sink under shop. The returned func removes it and is
// safe to call more than once.
func (h *Hub) Subscribe(shop string, sink Sink) func() {
	sub := &subscription{sink: sink}

	h.mu.Lock()
	h.byShop[shop] = append(h.byShop[shop], sub)
	h.mu.Unlock()
	h.metrics.ActiveSubscribers.Inc()

	var once sync.Once
	return func() {
		once.Do(func() { h.remove(shop, sub) })
	}
}

// Publish delivers ev to every sink of shop in subscription order and
// returns how many accepted it. Failing sinks are dropped and closed.
func (h *Hub) Publish(ctx context.Context, shop string, ev Event) int {
	h.mu.RLock()
	subs := make([]*subscription, len(h.byShop[shop]))
	copy(subs, h.byShop[shop])
	h.mu.RUnlock()

	delivered := 0
	for _, sub := range subs {
		if err := sub.sink.Send(ctx, ev); err != nil {
			logger.FromCtx(ctx).Warn("dropping notification sink",
				zap.String("shop_name", shop),
				zap.Error(err),
			)
			h.metrics.NotificationsDropped.Inc()
			h.remove(shop, sub)
			_ = sub.sink.Close()
			continue
		}
		delivered++
		h.metrics.NotificationsSent.Inc()
	}
	return delivered
}

// Subscribers reports the live sink count for shop.
func (h *Hub) Subscribers(shop string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.byShop[shop])
}

// Close closes and forgets every sink.
func (h *Hub) Close() {
	h.mu.Lock()
	all := h.byShop
	h.byShop = make(map[string][]*subscription)
	h.mu.Unlock()

	for _, subs := range all {
		for _, sub := range subs {
			h.metrics.ActiveSubscribers.Dec()
			_ = sub.sink.Close()
		}
	}
}

func (h *Hub) remove(shop string, target *subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs := h.byShop[shop]
	for i, sub := range subs {
		if sub == target {
			h.byShop[shop] = append(subs[:i:i], subs[i+1:]...)
			if len(h.byShop[shop]) == 0 {
				delete(h.byShop, shop)
			}
			h.metrics.ActiveSubscribers.Dec()
			return
		}
	}
}
