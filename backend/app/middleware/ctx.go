package middleware

import (
	"context"

	jwtutil "blog-cms/backend/app/jwt"
)

type ctxKey int

const (
	ClaimsKey ctxKey = iota + 1
	RequestIDKey
)

func GetClaims(ctx context.Context) *jwtutil.Claims {
	if v := ctx.Value(ClaimsKey); v != nil {
		if c, ok := v.(*jwtutil.Claims); ok {
			return c
		}
	}
	return nil
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}
