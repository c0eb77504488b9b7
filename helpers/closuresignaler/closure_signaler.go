// Package closuresignaler provides an idempotent "closed" flag with
// a channel to wait on.
package closuresignaler

import (
	"context"
	"sync"

	"github.com/xaionaro-go/avanim/logger"
)

type ClosureSignaler struct {
	closeOnce sync.Once
	c         chan struct{}
}

func New() *ClosureSignaler {
	return &ClosureSignaler{
		c: make(chan struct{}),
	}
}

func (c *ClosureSignaler) CloseChan() <-chan struct{} {
	return c.c
}

// Close marks the signaler closed; it returns true only for the call
// that actually closed it.
func (c *ClosureSignaler) Close(ctx context.Context) bool {
	logger.Tracef(ctx, "Close")
	var closedNow bool
	c.closeOnce.Do(func() {
		close(c.c)
		closedNow = true
	})
	logger.Tracef(ctx, "/Close: %t", closedNow)
	return closedNow
}

func (c *ClosureSignaler) IsClosed() bool {
	select {
	case <-c.c:
		return true
	default:
		return false
	}
}
