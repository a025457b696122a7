// Package tcpdial provides a smon.Probe that succeeds if a TCP connection
// to an address can be established, grounded on the dial-based liveness
// probes in the pack's tcplb and doublezero example sources.
package tcpdial

import (
	"context"
	"fmt"
	"net"

	"github.com/kopchik/smon"
)

// New builds a probe that dials addr (host:port) using the context
// deadline the owning Check applies.
func New(addr string) smon.Probe {
	var dialer net.Dialer
	return smon.FromError(func(ctx context.Context) error {
		conn, err := dialer.DialContext(ctx, "tcp", addr)
		if err != nil {
			return fmt.Errorf("tcpdial: %s: %w", addr, err)
		}
		return conn.Close()
	})
}
