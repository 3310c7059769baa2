// Package backoff paces retries of receipt, explorer and connection polls.
package backoff

import (
	"context"
	"fmt"
	"math"
	"time"
)

// Strategy returns the wait that follows n completed waits.
type Strategy func(n int, start time.Duration) time.Duration

func exponential(n int, start time.Duration) time.Duration {
	d := float64(start) * math.Pow(2, float64(n))
	if d >= math.MaxInt64 {
		return math.MaxInt64
	}
	return time.Duration(d)
}

func linear(n int, start time.Duration) time.Duration {
	return time.Duration(n) * start
}

// Backoff is not safe for concurrent use.
type Backoff struct {
	NextDuration time.Duration

	strategy Strategy
	start    time.Duration
	limit    time.Duration
	attempts int
}

// New caps every wait at limit, zero leaves it uncapped.
func New(strategy Strategy, start, limit time.Duration) *Backoff {
	b := &Backoff{strategy: strategy, start: start, limit: limit}
	b.Reset()
	return b
}

func NewExponential(start, limit time.Duration) *Backoff {
	return New(exponential, start, limit)
}

func NewLinear(start, limit time.Duration) *Backoff {
	return New(linear, start, limit)
}

func (b *Backoff) Reset() {
	b.attempts = 0
	b.NextDuration = b.next()
}

// Attempts is the number of completed waits since the last Reset.
func (b *Backoff) Attempts() int {
	return b.attempts
}

func (b *Backoff) next() time.Duration {
	d := b.strategy(b.attempts, b.start)
	if b.limit > 0 && d > b.limit {
		d = b.limit
	}
	return d
}

// Backoff sleeps for NextDuration. It returns ctx's error, without counting
// the attempt, when ctx is done first.
func (b *Backoff) Backoff(ctx context.Context) error {
	t := time.NewTimer(b.NextDuration)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
	}
	b.attempts++
	b.NextDuration = b.next()
	return nil
}

// Poll calls fn until it reports done or fails, waiting between calls. When
// ctx ends first the error wraps ctx's error and counts the calls made.
func (b *Backoff) Poll(ctx context.Context, fn func() (done bool, err error)) error {
	for {
		done, err := fn()
		if err != nil || done {
			return err
		}
		if err := b.Backoff(ctx); err != nil {
			return fmt.Errorf("gave up after %d calls: %w", b.attempts+1, err)
		}
	}
}
