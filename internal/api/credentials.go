package api

import (
	"context"
	"net/http"
)

type cookiesKey struct{}

// WithCookies attaches the page request's cookies so Confirm forwards them
// upstream, the server-side counterpart of sending credentials.
func WithCookies(ctx context.Context, cookies []*http.Cookie) context.Context {
	if len(cookies) == 0 {
		return ctx
	}
	return context.WithValue(ctx, cookiesKey{}, cookies)
}

// CookiesFromContext returns the cookies stored by WithCookies.
func CookiesFromContext(ctx context.Context) []*http.Cookie {
	cookies, _ := ctx.Value(cookiesKey{}).([]*http.Cookie)
	return cookies
}
