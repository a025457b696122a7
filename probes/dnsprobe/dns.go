// Package dnsprobe provides a smon.Probe that fails when a host name does
// not resolve.
package dnsprobe

import (
	"context"
	"fmt"
	"net"

	"github.com/kopchik/smon"
)

// New builds a probe that resolves host and fails if resolution errors or
// yields no addresses.
func New(host string) smon.Probe {
	resolver := new(net.Resolver)
	return smon.FromError(func(ctx context.Context) error {
		addrs, err := resolver.LookupHost(ctx, host)
		if err != nil {
			return fmt.Errorf("dns: lookup %s: %w", host, err)
		}
		if len(addrs) == 0 {
			return fmt.Errorf("dns: %s resolved to no addresses", host)
		}
		return nil
	})
}
