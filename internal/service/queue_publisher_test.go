package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hospitality-booking/internal/booking"
	"github.com/iliyamo/hospitality-booking/internal/model"
	q "github.com/iliyamo/hospitality-booking/internal/queue"
)

type kinds struct {
	mu  sync.Mutex
	got []string
}

func (k *kinds) IntentDispatched(kind string, auto bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if auto {
		kind += "/auto"
	}
	k.got = append(k.got, kind)
}

func TestIntentTakenPublishesEvent(t *testing.T) {
	rec := &kinds{}
	p := NewIntentPublisher("", rec, nil)
	p.now = func() time.Time { return time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC) }

	var mu sync.Mutex
	var bodies [][]byte
	p.send = func(_ context.Context, body []byte) error {
		mu.Lock()
		defer mu.Unlock()
		bodies = append(bodies, body)
		return nil
	}

	in := booking.Intent{Kind: booking.KindExternal, UnitID: "10", URL: "https://engine/x", Auto: true}
	ctx, cancel := context.WithCancel(context.Background())
	p.IntentTaken(ctx, "s-1", in, model.NewSearchCriteria())
	cancel()
	require.NoError(t, p.Close())

	require.Len(t, bodies, 1)
	var ev q.BookingIntentEvent
	require.NoError(t, json.Unmarshal(bodies[0], &ev))
	assert.Equal(t, "s-1", ev.SessionID)
	assert.Equal(t, "https://engine/x", ev.Target)
	assert.Equal(t, "2025-03-01T00:00:00Z", ev.TakenAt)
	assert.Equal(t, []string{"external/auto"}, rec.got)
}

func TestPublishFailureIsSwallowed(t *testing.T) {
	p := NewIntentPublisher("", nil, nil)
	done := make(chan struct{})
	p.send = func(ctx context.Context, _ []byte) error {
		defer close(done)
		assert.NoError(t, ctx.Err(), "request cancellation does not reach the publish")
		return errors.New("broker down")
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p.IntentTaken(ctx, "s", booking.Intent{Kind: booking.KindInternal, UnitID: "1"}, model.NewSearchCriteria())
	<-done
	assert.NoError(t, p.Close())
}

func TestWithoutBrokerOnlyCounts(t *testing.T) {
	rec := &kinds{}
	p := NewIntentPublisher("", rec, nil)
	p.IntentTaken(context.Background(), "s", booking.Intent{Kind: booking.KindInternal, UnitID: "1"}, model.NewSearchCriteria())
	assert.Equal(t, []string{"internal"}, rec.got)
	assert.NoError(t, p.Close())
}
