package pipeline

import (
	"context"
	"io"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/and161185/discord-cache/internal/event"
	"github.com/and161185/discord-cache/internal/gateway"
)

// Replay decodes newline-delimited gateway frames from r and dispatches them to a.
// Decoding and applying run concurrently; the first error of either stops both.
func Replay(ctx context.Context, r io.Reader, a Applier, log *zap.Logger, opts Options) (Stats, error) {
	if log == nil {
		log = zap.NewNop()
	}
	d := NewDispatcher(a, log, opts)

	g, gctx := errgroup.WithContext(ctx)
	events := make(chan event.Event, d.opts.Buffer)
	g.Go(func() error {
		defer close(events)
		n, err := gateway.Stream(gctx, r, events, log)
		log.Debug("input read", zap.Int("events", n))
		return err
	})
	g.Go(func() error { return d.Run(gctx, events) })

	err := g.Wait()
	return d.Stats(), err
}
