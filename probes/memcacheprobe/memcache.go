// Package memcacheprobe provides a smon.Probe that pings a memcache
// server.
package memcacheprobe

import (
	"context"
	"fmt"

	"github.com/bradfitz/gomemcache/memcache"

	"github.com/kopchik/smon"
)

// New builds a probe that pings the memcache server at addr.
func New(addr string) smon.Probe {
	client := memcache.New(addr)
	return smon.FromError(func(_ context.Context) error {
		if err := client.Ping(); err != nil {
			return fmt.Errorf("memcache: ping %s: %w", addr, err)
		}
		return nil
	})
}
