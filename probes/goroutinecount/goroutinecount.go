// Package goroutinecount provides a smon.Probe over runtime.NumGoroutine.
package goroutinecount

import (
	"context"
	"fmt"
	"runtime"

	"github.com/kopchik/smon"
)

// New builds a probe that fails once the process's live goroutine count
// exceeds threshold.
func New(threshold int) smon.Probe {
	return smon.FromError(func(_ context.Context) error {
		count := runtime.NumGoroutine()
		if count > threshold {
			return fmt.Errorf("goroutinecount: %d goroutines exceeds threshold %d", count, threshold)
		}
		return nil
	})
}
