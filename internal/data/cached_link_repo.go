package data

import (
	"context"

	"trimlink/internal/domain"
)

// Compile-time interface check
var _ domain.LinkRepository = (*CachedLinkRepository)(nil)

// CachedLinkRepository wraps the link repository with a read-through cache
// on the redirect path.
type CachedLinkRepository struct {
	repo  *LinkRepo
	cache LinkCache
}

// NewCachedLinkRepository creates a new cached repository wrapper.
func NewCachedLinkRepository(repo *LinkRepo, cache LinkCache) domain.LinkRepository {
	return &CachedLinkRepository{
		repo:  repo,
		cache: cache,
	}
}

// Create persists a link and warms the cache.
func (r *CachedLinkRepository) Create(ctx context.Context, link *domain.ShortLink) error {
	if err := r.repo.Create(ctx, link); err != nil {
		return err
	}

	_ = r.cache.Set(ctx, link)
	return nil
}

// FindByIdentifier checks the cache first.
func (r *CachedLinkRepository) FindByIdentifier(ctx context.Context, identifier string) (*domain.ShortLink, error) {
	if cached, err := r.cache.Get(ctx, identifier); err == nil && cached != nil {
		return cached, nil
	}

	link, err := r.repo.FindByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}

	_ = r.cache.Set(ctx, link)

	// A delete that committed between the read and the fill has already run
	// its invalidation, so the entry just written would outlive the row.
	if _, err := r.repo.FindByID(ctx, link.ID()); err != nil {
		_ = r.cache.Invalidate(ctx, link.Identifiers()...)
		return nil, err
	}
	return link, nil
}

// Delete removes the link and invalidates every identifier it answered to.
func (r *CachedLinkRepository) Delete(ctx context.Context, link *domain.ShortLink) error {
	if err := r.repo.Delete(ctx, link); err != nil {
		return err
	}

	_ = r.cache.Invalidate(ctx, link.Identifiers()...)
	return nil
}

// FindByID is not cached; it serves owner views, not redirects.
func (r *CachedLinkRepository) FindByID(ctx context.Context, id string) (*domain.ShortLink, error) {
	return r.repo.FindByID(ctx, id)
}

// Exists is not cached to ensure accurate existence checks.
func (r *CachedLinkRepository) Exists(ctx context.Context, candidate string) (bool, error) {
	return r.repo.Exists(ctx, candidate)
}

// ListByOwner is not cached.
func (r *CachedLinkRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.ShortLink, error) {
	return r.repo.ListByOwner(ctx, ownerID)
}
