package health

import (
	"context"
	"fmt"
	"time"
)

// Pinger is satisfied by pkg/timelinestore.Store: a reachability probe
// distinct from the read-only capability.Timeline surface the builders
// consume, since capability.Timeline's Contains/IsBeforeStart never
// surface an underlying database error.
type Pinger interface {
	Ping() error
}

// TimelineChecker probes that the timeline store's database is open and
// its buckets are intact.
type TimelineChecker struct {
	Timeline Pinger
	Timeout  time.Duration
}

// NewTimelineChecker creates a checker for the given timeline store.
func NewTimelineChecker(tl Pinger) *TimelineChecker {
	return &TimelineChecker{Timeline: tl, Timeout: 5 * time.Second}
}

// Check performs the timeline reachability check
func (c *TimelineChecker) Check(ctx context.Context) Result {
	start := time.Now()

	checkCtx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- c.Timeline.Ping() }()

	select {
	case err := <-done:
		if err != nil {
			return Result{
				Healthy:   false,
				Message:   fmt.Sprintf("ping failed: %v", err),
				CheckedAt: start,
				Duration:  time.Since(start),
			}
		}
		return Result{
			Healthy:   true,
			Message:   "timeline store reachable",
			CheckedAt: start,
			Duration:  time.Since(start),
		}
	case <-checkCtx.Done():
		return Result{
			Healthy:   false,
			Message:   fmt.Sprintf("ping timed out: %v", checkCtx.Err()),
			CheckedAt: start,
			Duration:  time.Since(start),
		}
	}
}

// Name identifies this checker's dependency
func (c *TimelineChecker) Name() string {
	return "timeline_store"
}

// WithTimeout sets the ping timeout
func (c *TimelineChecker) WithTimeout(timeout time.Duration) *TimelineChecker {
	c.Timeout = timeout
	return c
}
