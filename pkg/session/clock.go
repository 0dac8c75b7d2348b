package session

import (
	"time"
)

// Clock creates the tickers which drive the answer countdown.
type Clock interface {
	Now() time.Time
	NewTicker(d time.Duration) Ticker
}

type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// SystemClock is the Clock of the real world.
var SystemClock Clock = systemClock{}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

func (systemClock) NewTicker(d time.Duration) Ticker {
	return systemTicker{time.NewTicker(d)}
}

type systemTicker struct {
	delegate *time.Ticker
}

func (this systemTicker) C() <-chan time.Time {
	return this.delegate.C
}

func (this systemTicker) Stop() {
	this.delegate.Stop()
}
