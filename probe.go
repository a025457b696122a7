package smon

import "context"

// Status expresses the outcome of a single probe invocation.
type Status bool

const (
	// StatusOK means the probe completed successfully.
	StatusOK Status = true
	// StatusErr means the probe failed or returned a non-zero result.
	StatusErr Status = false
)

// String renders the status the way it is shown in logs and the HTTP API.
func (s Status) String() string {
	if s == StatusOK {
		return "ok"
	}
	return "err"
}

// noOutputPlaceholder is substituted for empty probe output, so that
// "nothing happened" and "nothing was captured" are never confused with
// the zero value of Outcome.
const noOutputPlaceholder = "<no output>"

// Outcome is the result of a single probe run.
type Outcome struct {
	Status Status
	Text   string
}

// NormalizeText replaces an empty string with the placeholder used
// throughout the history and HTTP API, so "nothing happened" and "nothing
// was captured" are never confused with an Outcome's zero value. Probe
// implementations that build an Outcome's Text directly, rather than
// going through FromError, should route it through NormalizeText too.
func NormalizeText(text string) string {
	if text == "" {
		return noOutputPlaceholder
	}
	return text
}

// Probe is the pluggable unit of work a Check wraps. Implementations must
// not block past ctx's deadline; the Check that owns them enforces a
// per-check timeout using ctx cancellation, not by killing goroutines.
type Probe interface {
	Invoke(ctx context.Context) Outcome
}

// ProbeFunc adapts a plain function to the Probe interface.
type ProbeFunc func(ctx context.Context) Outcome

// Invoke implements Probe.
func (f ProbeFunc) Invoke(ctx context.Context) Outcome {
	return f(ctx)
}

// FromError adapts the common "func(ctx) error" shape (used throughout the
// probes/ subpackages) into a Probe: a nil error is StatusOK, any non-nil
// error is StatusErr with the error's message as the outcome text.
func FromError(check func(ctx context.Context) error) Probe {
	return ProbeFunc(func(ctx context.Context) Outcome {
		if err := check(ctx); err != nil {
			return Outcome{Status: StatusErr, Text: NormalizeText(err.Error())}
		}
		return Outcome{Status: StatusOK, Text: NormalizeText("")}
	})
}
