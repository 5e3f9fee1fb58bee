package types

import (
	"errors"
	"fmt"
	"time"
)

var ErrNegativeDelta = errors.New("clock cannot move backwards")

// Epoch anchors simulated time to wall time for trace timestamps.
var Epoch = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// Clock is the simulated time source shared by both devices of a trial.
// Only the driver advances it.
type Clock struct {
	now time.Duration
}

func NewClock() *Clock {
	return &Clock{}
}

func (c *Clock) Advance(delta time.Duration) error {
	if delta < 0 {
		return fmt.Errorf("%w: %v", ErrNegativeDelta, delta)
	}
	c.now += delta
	return nil
}

func (c *Clock) Now() time.Duration {
	return c.now
}

// Time returns the current simulated time as an absolute timestamp.
func (c *Clock) Time() time.Time {
	return Epoch.Add(c.now)
}
