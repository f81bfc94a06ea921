// Package authtoken carries the inbound bearer credential through the request
// context so outbound inventory calls can forward it unchanged. The booking
// service never mints or rewrites tokens.
package authtoken

import "context"

type ctxKey struct{}

func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, ctxKey{}, token)
}

func FromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(ctxKey{}).(string)
	return token, ok && token != ""
}
