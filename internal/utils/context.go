package utils

import "context"

type contextKey string

const (
	ShopIDKey   contextKey = "shop_id"
	ShopNameKey contextKey = "shop_name"
)

// ShopIdentity is the authenticated shop carried through a request.
type ShopIdentity struct {
	ID   string
	Name string
}

// SetShopContext sets shop info into context (called by the auth middleware).
func SetShopContext(ctx context.Context, id, name string) context.Context {
	ctx = context.WithValue(ctx, ShopIDKey, id)
	ctx = context.WithValue(ctx, ShopNameKey, name)
	return ctx
}

// GetShopFromContext retrieves the authenticated shop, if any.
func GetShopFromContext(ctx context.Context) (ShopIdentity, bool) {
	name, ok := ctx.Value(ShopNameKey).(string)
	if !ok || name == "" {
		return ShopIdentity{}, false
	}
	id, _ := ctx.Value(ShopIDKey).(string)
	return ShopIdentity{ID: id, Name: name}, true
}
