// Package redisprobe provides a smon.Probe over an existing redis client.
// It is built against go-redis/redis/v8 so the ping call takes a context,
// matching the context-threading discipline used throughout this module.
package redisprobe

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/kopchik/smon"
)

// New builds a probe that pings client.
func New(client *redis.Client) smon.Probe {
	return smon.FromError(func(ctx context.Context) error {
		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis: ping: %w", err)
		}
		return nil
	})
}
