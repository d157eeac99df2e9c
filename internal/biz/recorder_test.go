package biz

import (
	"context"
	"fmt"
	"testing"
	"time"

	"trimlink/internal/conf"
	"trimlink/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const iphoneUA = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X)"

func newTestRecorder(clicks *memClickRepo, geo domain.GeoLocator, c *conf.Analytics) *ClickRecorder {
	if c == nil {
		c = &conf.Analytics{}
	}
	devices := stubClassifier{iphoneUA: domain.DeviceMobile}
	return NewClickRecorder(clicks, devices, geo, c, testLogger())
}

func TestClickRecorder_RecordsEnrichedEvent(t *testing.T) {
	clicks := &memClickRepo{}
	geo := stubLocator{loc: domain.Location{City: "Hanoi", Country: "Vietnam"}}
	r := newTestRecorder(clicks, geo, nil)
	fixed := time.Date(2024, 3, 4, 5, 6, 7, 0, time.UTC)
	r.now = func() time.Time { return fixed }

	r.Record(context.Background(), "link-1", domain.RequestContext{UserAgent: iphoneUA, ClientIP: "203.0.113.7"})
	r.Wait()

	events := clicks.all()
	require.Len(t, events, 1)
	assert.Equal(t, domain.ClickEvent{
		LinkID:     "link-1",
		Timestamp:  fixed,
		DeviceType: domain.DeviceMobile,
		City:       "Hanoi",
		Country:    "Vietnam",
	}, events[0])
}

func TestClickRecorder_GeoFailureLeavesLocationEmpty(t *testing.T) {
	clicks := &memClickRepo{}
	r := newTestRecorder(clicks, stubLocator{err: domain.ErrLocationUnavailable}, nil)

	r.Record(context.Background(), "link-1", domain.RequestContext{UserAgent: "curl/8"})
	r.Wait()

	events := clicks.all()
	require.Len(t, events, 1)
	assert.Equal(t, domain.DeviceDesktop, events[0].DeviceType)
	assert.Empty(t, events[0].City)
	assert.Empty(t, events[0].Country)
}

func TestClickRecorder_GeoTimeoutDoesNotBlockCaller(t *testing.T) {
	clicks := &memClickRepo{}
	r := newTestRecorder(clicks, hangingLocator{}, &conf.Analytics{GeoTimeout: conf.Duration(200 * time.Millisecond)})

	start := time.Now()
	r.Record(context.Background(), "link-1", domain.RequestContext{ClientIP: "198.51.100.1"})
	assert.Less(t, time.Since(start), 100*time.Millisecond)

	r.Wait()
	events := clicks.all()
	require.Len(t, events, 1)
	assert.Empty(t, events[0].City)
}

func TestClickRecorder_SurvivesCancelledRequest(t *testing.T) {
	clicks := &memClickRepo{block: make(chan struct{})}
	r := newTestRecorder(clicks, stubLocator{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	r.Record(ctx, "link-1", domain.RequestContext{})
	cancel()
	close(clicks.block)
	r.Wait()

	assert.Len(t, clicks.all(), 1)
}

func TestClickRecorder_SwallowsFailures(t *testing.T) {
	tests := []struct {
		name    string
		clicks  *memClickRepo
		devices domain.DeviceClassifier
	}{
		{name: "store error", clicks: &memClickRepo{appendErr: errStore}},
		{name: "deleted link", clicks: &memClickRepo{appendErr: fmt.Errorf("click: %w", domain.ErrNotFound)}},
		{name: "panic", clicks: &memClickRepo{}, devices: panicClassifier{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRecorder(tt.clicks, stubLocator{}, nil)
			if tt.devices != nil {
				r.devices = tt.devices
			}

			assert.NotPanics(t, func() {
				r.Record(context.Background(), "link-1", domain.RequestContext{})
				r.Wait()
			})
			assert.Empty(t, tt.clicks.all())
		})
	}
}

func TestClickRecorder_DropsWhenSaturated(t *testing.T) {
	clicks := &memClickRepo{block: make(chan struct{})}
	r := newTestRecorder(clicks, stubLocator{}, &conf.Analytics{MaxInFlight: 2})

	for i := 0; i < 5; i++ {
		r.Record(context.Background(), fmt.Sprintf("link-%d", i), domain.RequestContext{})
	}
	close(clicks.block)
	r.Wait()

	assert.Len(t, clicks.all(), 2)
}

func TestClickRecorder_WriteTimeout(t *testing.T) {
	clicks := &memClickRepo{block: make(chan struct{})}
	defer close(clicks.block)
	r := newTestRecorder(clicks, stubLocator{}, &conf.Analytics{WriteTimeout: conf.Duration(20 * time.Millisecond)})

	r.Record(context.Background(), "link-1", domain.RequestContext{})

	done := make(chan struct{})
	go func() {
		r.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("recording did not give up after the write timeout")
	}
	assert.Empty(t, clicks.all())
}

func TestClickRecorder_Close(t *testing.T) {
	clicks := &memClickRepo{block: make(chan struct{})}
	r := newTestRecorder(clicks, stubLocator{}, nil)

	r.Record(context.Background(), "link-1", domain.RequestContext{})

	// In-flight work outlives a short shutdown deadline.
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, r.Close(ctx), context.DeadlineExceeded)

	close(clicks.block)
	require.NoError(t, r.Close(context.Background()))
	assert.Len(t, clicks.all(), 1)

	// Closed recorders drop new clicks.
	r.Record(context.Background(), "link-2", domain.RequestContext{})
	r.Wait()
	assert.Len(t, clicks.all(), 1)
}
