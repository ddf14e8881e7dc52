// Package cached wraps the application services with a read-through cache.
// The core services stay cache-agnostic; these decorators key every read by
// operation name plus arguments and invalidate by prefix on mutation.
package cached

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Store is the cache port the decorators run against. Implementations
// marshal values as JSON.
type Store interface {
	// Get loads the value for key into dest, reporting whether it was found.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPrefix(ctx context.Context, prefix string) error
}

// key renders "op:arg1:arg2:..." with a stable encoding for optional args.
func key(op string, args ...interface{}) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, op)
	for _, a := range args {
		parts = append(parts, renderArg(a))
	}
	return strings.Join(parts, ":")
}

func renderArg(a interface{}) string {
	switch v := a.(type) {
	case nil:
		return "-"
	case *int:
		if v == nil {
			return "-"
		}
		return fmt.Sprintf("%d", *v)
	case *int64:
		if v == nil {
			return "-"
		}
		return fmt.Sprintf("%d", *v)
	case *bool:
		if v == nil {
			return "-"
		}
		return fmt.Sprintf("%t", *v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
