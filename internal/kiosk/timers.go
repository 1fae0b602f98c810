package kiosk

import (
	"context"
	"time"
)

// Ticker is the part of time.Ticker the countdown needs.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type timeTicker struct {
	t *time.Ticker
}

func NewTicker(d time.Duration) Ticker {
	return timeTicker{t: time.NewTicker(d)}
}

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()               { t.t.Stop() }

// Countdown emits from-1 down to 0, one value per tick, then closes. The
// ticker is stopped when the countdown ends or ctx is cancelled.
func Countdown(ctx context.Context, from int, ticker Ticker) <-chan int {
	out := make(chan int)

	go func() {
		defer close(out)
		defer ticker.Stop()

		for remaining := from - 1; remaining >= 0; remaining-- {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C():
			}

			select {
			case <-ctx.Done():
				return
			case out <- remaining:
			}
		}
	}()

	return out
}
