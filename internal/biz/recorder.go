package biz

import (
	"context"
	"errors"
	"sync"
	"time"

	"trimlink/internal/conf"
	"trimlink/internal/domain"

	"github.com/go-kratos/kratos/v2/log"
	"golang.org/x/sync/semaphore"
)

// ClickRecorder records visits in the background. Record never blocks the
// caller on I/O and never reports failure.
type ClickRecorder struct {
	clicks  domain.ClickRepository
	devices domain.DeviceClassifier
	geo     domain.GeoLocator

	geoTimeout   time.Duration
	writeTimeout time.Duration
	inFlight     *semaphore.Weighted
	now          func() time.Time

	mu     sync.RWMutex // guards closed against wg.Add after Close
	closed bool
	wg     sync.WaitGroup

	log *log.Helper
}

// NewClickRecorder creates a new ClickRecorder.
func NewClickRecorder(clicks domain.ClickRepository, devices domain.DeviceClassifier, geo domain.GeoLocator, c *conf.Analytics, logger log.Logger) *ClickRecorder {
	geoTimeout := c.GeoTimeout.AsDuration()
	if geoTimeout <= 0 {
		geoTimeout = conf.DefaultGeoTimeout
	}
	writeTimeout := c.WriteTimeout.AsDuration()
	if writeTimeout <= 0 {
		writeTimeout = conf.DefaultWriteTimeout
	}
	maxInFlight := c.MaxInFlight
	if maxInFlight <= 0 {
		maxInFlight = conf.DefaultMaxInFlight
	}
	return &ClickRecorder{
		clicks:       clicks,
		devices:      devices,
		geo:          geo,
		geoTimeout:   geoTimeout,
		writeTimeout: writeTimeout,
		inFlight:     semaphore.NewWeighted(maxInFlight),
		now:          time.Now,
		log:          log.NewHelper(logger),
	}
}

// Record schedules one click for linkID. The request context may be cancelled
// as soon as Record returns.
func (r *ClickRecorder) Record(ctx context.Context, linkID string, req domain.RequestContext) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		r.log.WithContext(ctx).Warnf("click for link %s dropped: recorder closed", linkID)
		return
	}
	if !r.inFlight.TryAcquire(1) {
		r.log.WithContext(ctx).Warnf("click for link %s dropped: too many recordings in flight", linkID)
		return
	}

	visitedAt := r.now().UTC()
	ctx = context.WithoutCancel(ctx)

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer r.inFlight.Release(1)
		defer func() {
			if p := recover(); p != nil {
				r.log.WithContext(ctx).Errorf("click recording for link %s panicked: %v", linkID, p)
			}
		}()

		r.record(ctx, linkID, visitedAt, req)
	}()
}

func (r *ClickRecorder) record(ctx context.Context, linkID string, visitedAt time.Time, req domain.RequestContext) {
	loc := r.locate(ctx, req.ClientIP)
	event := domain.ClickEvent{
		LinkID:     linkID,
		Timestamp:  visitedAt,
		DeviceType: r.devices.Classify(req.UserAgent),
		City:       loc.City,
		Country:    loc.Country,
	}

	writeCtx, cancel := context.WithTimeout(ctx, r.writeTimeout)
	defer cancel()

	if err := r.clicks.Append(writeCtx, event); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			r.log.WithContext(ctx).Infof("click for deleted link %s dropped", linkID)
			return
		}
		r.log.WithContext(ctx).Errorf("failed to record click for link %s: %v", linkID, err)
	}
}

// locate returns an empty location on any failure.
func (r *ClickRecorder) locate(ctx context.Context, ip string) domain.Location {
	geoCtx, cancel := context.WithTimeout(ctx, r.geoTimeout)
	defer cancel()

	loc, err := r.geo.Lookup(geoCtx, ip)
	if err != nil {
		r.log.WithContext(ctx).Debugf("geolocation for %q unavailable: %v", ip, err)
		return domain.Location{}
	}
	return loc
}

// Wait blocks until every scheduled recording has finished.
func (r *ClickRecorder) Wait() {
	r.wg.Wait()
}

// Close stops accepting clicks and waits for in-flight recordings until ctx
// is done.
func (r *ClickRecorder) Close(ctx context.Context) error {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
