// Package diskspace provides a smon.Probe that fails once a filesystem's
// used space exceeds a configured threshold.
package diskspace

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"github.com/kopchik/smon"
)

// New builds a probe that inspects directory's filesystem and fails once
// used space exceeds thresholdBytes.
func New(directory string, thresholdBytes uint64) smon.Probe {
	return smon.FromError(func(_ context.Context) error {
		var stat unix.Statfs_t
		if err := unix.Statfs(directory, &stat); err != nil {
			return fmt.Errorf("diskspace: statfs %s: %w", directory, err)
		}

		blockSize := uint64(stat.Bsize)
		total := stat.Blocks * blockSize
		available := stat.Bavail * blockSize
		used := total - available

		if used > thresholdBytes {
			return fmt.Errorf("diskspace: %s is using %d bytes, over the %d byte threshold", directory, used, thresholdBytes)
		}
		return nil
	})
}

// NewWorkingDirectory is New rooted at the process's current working
// directory.
func NewWorkingDirectory(thresholdBytes uint64) (smon.Probe, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("diskspace: getwd: %w", err)
	}
	return New(wd, thresholdBytes), nil
}
