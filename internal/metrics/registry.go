package metrics

import "time"

// Registry holds the process-wide counters reported by /health.
type Registry struct {
	OrdersCreated        Counter
	ImagesStored         Counter
	NotificationsSent    Counter
	NotificationsDropped Counter
	ActiveSubscribers    Gauge

	uptime *Timer
}

func NewRegistry() *Registry {
	return &Registry{uptime: StartTimer()}
}

func (r *Registry) Snapshot() map[string]interface{} {
	return map[string]interface{}{
		"ordersCreated":        r.OrdersCreated.Load(),
		"imagesStored":         r.ImagesStored.Load(),
		"notificationsSent":    r.NotificationsSent.Load(),
		"notificationsDropped": r.NotificationsDropped.Load(),
		"activeSubscribers":    r.ActiveSubscribers.Load(),
		"uptimeSeconds":        int64(r.uptime.Elapsed() / time.Second),
	}
}
