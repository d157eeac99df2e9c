package biz

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"

	"trimlink/internal/conf"
	"trimlink/internal/domain"

	"github.com/go-kratos/kratos/v2/log"
)

// memLinkRepo is an in-memory LinkRepository that enforces the single
// identifier namespace the way the database does.
type memLinkRepo struct {
	mu          sync.Mutex
	links       map[string]*domain.ShortLink
	identifiers map[string]string

	// existsBlind makes Exists always report false so inserts hit the
	// uniqueness check.
	existsBlind bool
	createErr   error
	existsCalls atomic.Int32
}

func newMemLinkRepo() *memLinkRepo {
	return &memLinkRepo{
		links:       make(map[string]*domain.ShortLink),
		identifiers: make(map[string]string),
	}
}

func (r *memLinkRepo) Create(_ context.Context, link *domain.ShortLink) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.createErr != nil {
		return r.createErr
	}
	keys := []string{link.ShortCode()}
	if link.HasCustomAlias() {
		keys = []string{link.CustomAlias(), link.ShortCode()}
	}
	for _, key := range keys {
		if _, taken := r.identifiers[key]; taken {
			return &domain.DuplicateKeyError{Key: key}
		}
	}
	for _, key := range keys {
		r.identifiers[key] = link.ID()
	}
	r.links[link.ID()] = link
	return nil
}

func (r *memLinkRepo) FindByID(_ context.Context, id string) (*domain.ShortLink, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	link, ok := r.links[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return link, nil
}

func (r *memLinkRepo) FindByIdentifier(_ context.Context, identifier string) (*domain.ShortLink, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.identifiers[identifier]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return r.links[id], nil
}

func (r *memLinkRepo) Exists(_ context.Context, candidate string) (bool, error) {
	r.existsCalls.Add(1)
	if r.existsBlind {
		return false, nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.identifiers[candidate]
	return ok, nil
}

func (r *memLinkRepo) ListByOwner(_ context.Context, ownerID string) ([]*domain.ShortLink, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	links := make([]*domain.ShortLink, 0)
	for _, link := range r.links {
		if link.OwnerID() == ownerID {
			links = append(links, link)
		}
	}
	sort.Slice(links, func(i, j int) bool {
		return links[i].CreatedAt().After(links[j].CreatedAt())
	})
	return links, nil
}

func (r *memLinkRepo) Delete(_ context.Context, link *domain.ShortLink) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, identifier := range link.Identifiers() {
		delete(r.identifiers, identifier)
	}
	delete(r.links, link.ID())
	return nil
}

func (r *memLinkRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.links)
}

// memClickRepo stores events in memory.
type memClickRepo struct {
	mu        sync.Mutex
	events    []domain.ClickEvent
	appendErr error
	// block, when set, holds Append until closed or ctx is done.
	block     chan struct{}
	listCalls atomic.Int32
}

func (r *memClickRepo) Append(ctx context.Context, event domain.ClickEvent) error {
	if r.block != nil {
		select {
		case <-r.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if r.appendErr != nil {
		return r.appendErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *memClickRepo) ListByLink(_ context.Context, linkID string) ([]domain.ClickEvent, error) {
	r.listCalls.Add(1)
	r.mu.Lock()
	defer r.mu.Unlock()
	events := make([]domain.ClickEvent, 0)
	for _, e := range r.events {
		if e.LinkID == linkID {
			events = append(events, e)
		}
	}
	return events, nil
}

func (r *memClickRepo) ListByLinks(_ context.Context, linkIDs []string) ([]domain.ClickEvent, error) {
	r.listCalls.Add(1)
	want := make(map[string]bool, len(linkIDs))
	for _, id := range linkIDs {
		want[id] = true
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	events := make([]domain.ClickEvent, 0)
	for _, e := range r.events {
		if want[e.LinkID] {
			events = append(events, e)
		}
	}
	return events, nil
}

func (r *memClickRepo) all() []domain.ClickEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.ClickEvent(nil), r.events...)
}

// memAssetStore records uploads and removals.
type memAssetStore struct {
	mu      sync.Mutex
	keys    []string
	deleted []string
	err     error
}

func (s *memAssetStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, key)
	return nil
}

func (s *memAssetStore) removed() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.deleted...)
}

func (s *memAssetStore) Put(_ context.Context, key, _ string, _ []byte) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys = append(s.keys, key)
	return "https://assets.example.com/" + key, nil
}

// stubClassifier classifies by exact user agent.
type stubClassifier map[string]domain.DeviceType

func (c stubClassifier) Classify(ua string) domain.DeviceType {
	if d, ok := c[ua]; ok {
		return d
	}
	return domain.DefaultDeviceType
}

type panicClassifier struct{}

func (panicClassifier) Classify(string) domain.DeviceType {
	panic("classifier exploded")
}

// stubLocator returns a fixed location or error.
type stubLocator struct {
	loc domain.Location
	err error
}

func (l stubLocator) Lookup(context.Context, string) (domain.Location, error) {
	return l.loc, l.err
}

// hangingLocator blocks until its context is done.
type hangingLocator struct{}

func (hangingLocator) Lookup(ctx context.Context, _ string) (domain.Location, error) {
	<-ctx.Done()
	return domain.Location{}, ctx.Err()
}

var errStore = errors.New("store unavailable")

func testLinkConf() *conf.Link {
	return &conf.Link{CodeLength: 4, MaxAttempts: 5}
}

func testLogger() log.Logger {
	return log.DefaultLogger
}
