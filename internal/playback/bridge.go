package playback

import (
	"context"
	"errors"
	"time"

	"github.com/jscyril/playlist_manager/api"
	"github.com/rs/zerolog"
)

// DefaultPollInterval is how often the bridge checks for finished tracks
const DefaultPollInterval = 100 * time.Millisecond

// DeliverFunc hands a track end to whoever owns the controller
type DeliverFunc func(ctx context.Context, ev api.TrackFinished) error

// Bridge relays end-of-track notifications from the engine. Each generation is
// delivered at most once.
type Bridge struct {
	source   <-chan api.TrackFinished
	deliver  DeliverFunc
	interval time.Duration
	logger   zerolog.Logger

	delivered bool
	lastGen   uint64
}

// NewBridge creates a bridge polling source every interval
func NewBridge(source <-chan api.TrackFinished, interval time.Duration, deliver DeliverFunc, logger zerolog.Logger) *Bridge {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Bridge{
		source:   source,
		deliver:  deliver,
		interval: interval,
		logger:   logger.With().Str("component", "bridge").Logger(),
	}
}

// Run polls until ctx is done
func (b *Bridge) Run(ctx context.Context) error {
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := b.Poll(ctx); err != nil {
				return err
			}
		}
	}
}

// Poll drains pending notifications without blocking. It only fails when ctx
// is done.
func (b *Bridge) Poll(ctx context.Context) error {
	for {
		select {
		case ev, ok := <-b.source:
			if !ok {
				return nil
			}
			if err := b.dispatch(ctx, ev); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

func (b *Bridge) dispatch(ctx context.Context, ev api.TrackFinished) error {
	if b.delivered && ev.Generation <= b.lastGen {
		b.logger.Debug().Uint64("generation", ev.Generation).Msg("Dropping duplicate track end")
		return nil
	}
	b.delivered = true
	b.lastGen = ev.Generation

	err := b.deliver(ctx, ev)
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		b.logger.Warn().Err(err).Str("path", ev.Path).Msg("Track end handling failed")
	}
	return nil
}
