package recognize

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"time"
)

// Cascade chains a primary recognizer with an optional fallback. The
// fallback runs only when the primary errors or exceeds the per-call
// timeout; a successful primary result is never second-guessed.
type Cascade struct {
	primary  Recognizer
	fallback Recognizer
	timeout  time.Duration
}

// NewCascade wires primary and fallback into one recognizer. fallback may be
// nil, and a timeout of zero disables the per-call deadline.
func NewCascade(primary, fallback Recognizer, timeout time.Duration) *Cascade {
	return &Cascade{
		primary:  primary,
		fallback: fallback,
		timeout:  timeout,
	}
}

// Name lists the chained engines.
func (c *Cascade) Name() string {
	if c.fallback == nil {
		return c.primary.Name()
	}
	return c.primary.Name() + "+" + c.fallback.Name()
}

// Generative reports whether any engine in the chain may synthesize output.
// Text from the cascade could have come from either engine, so the
// repetition filter applies if either one is generative.
func (c *Cascade) Generative() bool {
	if IsGenerative(c.primary) {
		return true
	}
	return c.fallback != nil && IsGenerative(c.fallback)
}

// Recognize tries the primary engine, then the fallback.
func (c *Cascade) Recognize(ctx context.Context, region image.Image) (string, error) {
	text, err := c.attempt(ctx, c.primary, region)
	if err == nil {
		return text, nil
	}
	if c.fallback == nil {
		return "", err
	}

	slog.Warn("primary recognizer failed, trying fallback",
		"primary", c.primary.Name(),
		"fallback", c.fallback.Name(),
		"error", err)

	text, fallbackErr := c.attempt(ctx, c.fallback, region)
	if fallbackErr != nil {
		return "", fmt.Errorf("all recognizers failed: %w", errors.Join(err, fallbackErr))
	}
	return text, nil
}

// attempt runs one engine under the per-call timeout. The engine call runs
// in its own goroutine so a stalled native engine cannot wedge a page
// worker; on timeout the goroutine is abandoned and its result discarded.
func (c *Cascade) attempt(ctx context.Context, r Recognizer, region image.Image) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	type result struct {
		text string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		text, err := r.Recognize(ctx, region)
		done <- result{text: text, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", r.Name(), ctx.Err())
	case res := <-done:
		if res.err != nil {
			return "", fmt.Errorf("%s: %w", r.Name(), res.err)
		}
		return res.text, nil
	}
}
