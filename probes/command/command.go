// Package command provides a smon.Probe that runs an external command and
// treats a non-zero exit status as a failing outcome. Command splitting
// uses mattn/go-shellwords rather than handing the line to /bin/sh, so a
// check definition never gets shell metacharacter expansion it didn't ask
// for.
package command

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"

	"github.com/mattn/go-shellwords"

	"github.com/kopchik/smon"
)

// New builds a probe that runs commandLine and fails if it exits non-zero
// or cannot be started. The process's combined stdout+stderr is used as
// the outcome text either way, normalized through smon.NormalizeText so a
// failing command that produced no output still reports the "no output"
// placeholder rather than a fabricated error string.
func New(commandLine string) (smon.Probe, error) {
	args, err := shellwords.Parse(commandLine)
	if err != nil {
		return nil, fmt.Errorf("command: parsing %q: %w", commandLine, err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("command: empty command line")
	}

	return smon.ProbeFunc(func(ctx context.Context) smon.Outcome {
		cmd := exec.CommandContext(ctx, args[0], args[1:]...)
		var out bytes.Buffer
		cmd.Stdout = &out
		cmd.Stderr = &out

		status := smon.StatusOK
		if err := cmd.Run(); err != nil {
			status = smon.StatusErr
		}
		return smon.Outcome{Status: status, Text: smon.NormalizeText(out.String())}
	}), nil
}
