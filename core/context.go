package core

import (
	"context"
	"time"
)

// Context keys for request options
type contextKey string

const (
	nowKey     contextKey = "now"
	noCacheKey contextKey = "noCache"
)

// WithNow pins the clock used for period filtering.
func WithNow(ctx context.Context, now time.Time) context.Context {
	return context.WithValue(ctx, nowKey, now)
}

// nowFrom returns the pinned clock from context, or the wall clock.
func nowFrom(ctx context.Context) time.Time {
	if now, ok := ctx.Value(nowKey).(time.Time); ok {
		return now
	}
	return time.Now()
}

// WithoutCache makes the dashboard builder skip the metric cache.
func WithoutCache(ctx context.Context) context.Context {
	return context.WithValue(ctx, noCacheKey, true)
}

// shouldSkipCache returns whether the metric cache is bypassed
func shouldSkipCache(ctx context.Context) bool {
	skip, ok := ctx.Value(noCacheKey).(bool)
	return ok && skip
}
