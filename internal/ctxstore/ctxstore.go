// Package ctxstore is a typed wrapper over context values, used for
// request-scoped data such as trace ids and the authenticated user.
package ctxstore

import "context"

// Key names a stored value. It doubles as the attribute key in log output.
type Key string

func (k Key) String() string {
	return string(k)
}

func With[T any](ctx context.Context, key Key, value T) context.Context {
	return context.WithValue(ctx, key, value)
}

func From[T any](ctx context.Context, key Key) (T, bool) {
	value, ok := ctx.Value(key).(T)
	return value, ok
}

// MustFrom is for values guaranteed by middleware ordering. A miss is a
// programming error, so it panics.
func MustFrom[T any](ctx context.Context, key Key) T {
	value, ok := From[T](ctx, key)
	if !ok {
		panic("ctxstore: no value for key " + key.String())
	}
	return value
}
