package playback

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jscyril/playlist_manager/api"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu  sync.Mutex
	got []api.TrackFinished
	err error
}

func (r *recorder) deliver(_ context.Context, ev api.TrackFinished) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, ev)
	return r.err
}

func (r *recorder) events() []api.TrackFinished {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]api.TrackFinished(nil), r.got...)
}

func TestBridge_PollDeliversOncePerGeneration(t *testing.T) {
	src := make(chan api.TrackFinished, 8)
	rec := &recorder{}
	b := NewBridge(src, time.Millisecond, rec.deliver, zerolog.Nop())

	src <- api.TrackFinished{Path: "a", Generation: 2}
	src <- api.TrackFinished{Path: "a", Generation: 2}
	src <- api.TrackFinished{Path: "old", Generation: 1}
	src <- api.TrackFinished{Path: "b", Generation: 4}

	require.NoError(t, b.Poll(context.Background()))
	assert.Equal(t, []api.TrackFinished{
		{Path: "a", Generation: 2},
		{Path: "b", Generation: 4},
	}, rec.events())

	// Nothing pending returns immediately
	require.NoError(t, b.Poll(context.Background()))
	assert.Len(t, rec.events(), 2)
}

func TestBridge_DeliveryErrorIsNotFatal(t *testing.T) {
	src := make(chan api.TrackFinished, 2)
	rec := &recorder{err: errors.New("boom")}
	b := NewBridge(src, time.Millisecond, rec.deliver, zerolog.Nop())

	src <- api.TrackFinished{Generation: 1}
	src <- api.TrackFinished{Generation: 2}

	require.NoError(t, b.Poll(context.Background()))
	assert.Len(t, rec.events(), 2)
}

func TestBridge_RunUntilCancelled(t *testing.T) {
	src := make(chan api.TrackFinished, 1)
	rec := &recorder{}
	b := NewBridge(src, time.Millisecond, rec.deliver, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- b.Run(ctx) }()

	src <- api.TrackFinished{Path: "x", Generation: 7}
	assert.Eventually(t, func() bool { return len(rec.events()) == 1 }, time.Second, time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("bridge did not stop")
	}
}

func TestBridge_DefaultInterval(t *testing.T) {
	b := NewBridge(nil, 0, nil, zerolog.Nop())
	assert.Equal(t, DefaultPollInterval, b.interval)
}
