package contxt

import (
	"context"
	"os"
	"time"
)

// NewContext returns a context bounded by the given timeout. Tests opt out
// via CONTEXT_TEST to avoid flaking on slow runners.
func NewContext(timeout time.Duration) context.Context {
	if os.Getenv("CONTEXT_TEST") != "" {
		return context.Background()
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	go func() {
		<-ctx.Done()
		cancel()
	}()
	return ctx
}
