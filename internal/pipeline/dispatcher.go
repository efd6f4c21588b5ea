package pipeline

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/disgoorg/snowflake/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/and161185/discord-cache/internal/event"
)

// DefaultBuffer is the per-partition queue length used when Options.Buffer is unset.
const DefaultBuffer = 64

// Options tune a Dispatcher.
type Options struct {
	// Buffer is the queue length of each partition.
	Buffer int
	// ContinueOnError logs failed events and keeps going instead of stopping Run.
	ContinueOnError bool
}

// Stats counts processed events.
type Stats struct {
	Applied    int64
	Failed     int64
	Partitions int64
}

// Dispatcher routes events to one worker per partition. Events of a partition are
// applied one at a time in arrival order; partitions proceed in parallel.
type Dispatcher struct {
	a    Applier
	log  *zap.Logger
	opts Options

	applied    atomic.Int64
	failed     atomic.Int64
	partitions atomic.Int64
}

// NewDispatcher constructs a Dispatcher for a.
func NewDispatcher(a Applier, log *zap.Logger, opts Options) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Buffer <= 0 {
		opts.Buffer = DefaultBuffer
	}
	return &Dispatcher{a: a, log: log, opts: opts}
}

// Run consumes in until it is closed and every queued event has been applied. It
// returns the first apply error unless ContinueOnError is set, or ctx's error when
// cancelled first.
func (d *Dispatcher) Run(ctx context.Context, in <-chan event.Event) error {
	g, gctx := errgroup.WithContext(ctx)
	queues := make(map[snowflake.ID]chan event.Event)
	closeAll := func() {
		for _, q := range queues {
			close(q)
		}
	}

route:
	for {
		select {
		case <-gctx.Done():
			break route
		case e, ok := <-in:
			if !ok {
				break route
			}
			p := e.Partition()
			q, ok := queues[p]
			if !ok {
				q = make(chan event.Event, d.opts.Buffer)
				queues[p] = q
				d.partitions.Add(1)
				g.Go(func() error { return d.work(gctx, p, q) })
			}
			select {
			case q <- e:
			case <-gctx.Done():
				break route
			}
		}
	}
	closeAll()

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func (d *Dispatcher) work(ctx context.Context, p snowflake.ID, q <-chan event.Event) error {
	for e := range q {
		if ctx.Err() != nil {
			return nil
		}
		if err := d.a.Apply(ctx, e); err != nil {
			d.failed.Add(1)
			if !d.opts.ContinueOnError {
				return fmt.Errorf("partition %d: %w", p, err)
			}
			d.log.Warn("event skipped",
				zap.String("type", string(e.Type)),
				zap.Uint64("partition", uint64(p)),
				zap.Error(err),
			)
			continue
		}
		d.applied.Add(1)
	}
	return nil
}

// Stats returns the counters so far.
func (d *Dispatcher) Stats() Stats {
	return Stats{Applied: d.applied.Load(), Failed: d.failed.Load(), Partitions: d.partitions.Load()}
}
