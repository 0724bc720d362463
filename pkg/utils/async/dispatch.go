package async

import (
	"context"

	"github.com/m-mizutani/goerr/v2"

	"github.com/Caleb5Mathew/slack-search-proxy/pkg/utils/errutil"
	"github.com/Caleb5Mathew/slack-search-proxy/pkg/utils/logging"
)

// Dispatcher runs a handler decoupled from the calling request. The primary
// response path never waits for, and never fails because of, dispatched work.
type Dispatcher func(ctx context.Context, handler func(ctx context.Context) error)

// Dispatch executes a handler in a new goroutine with a fresh background
// context. The request context is not propagated, so cancellation of the
// inbound request does not abort the handler; only the logger is carried
// over. Errors and panics are reported, never returned.
func Dispatch(ctx context.Context, handler func(ctx context.Context) error) {
	bgCtx := logging.With(context.Background(), logging.From(ctx))

	go func() {
		defer func() {
			if r := recover(); r != nil {
				_ = errutil.Handle(bgCtx, goerr.New("panic in dispatched handler", goerr.V("panic", r)), "background task panicked")
			}
		}()

		if err := handler(bgCtx); err != nil {
			_ = errutil.Handle(bgCtx, err, "background task failed")
		}
	}()
}
