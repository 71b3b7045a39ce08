package middleware

import "context"

type contextKey string

const (
	ctxSellerID   contextKey = "seller_id"
	ctxSellerType contextKey = "seller_type"
)

func SellerIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxSellerID).(string); ok {
		return v
	}
	return ""
}

func SellerTypeFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxSellerType).(string); ok {
		return v
	}
	return ""
}
