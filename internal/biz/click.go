package biz

import (
	"context"

	"trimlink/internal/analytics"
	"trimlink/internal/domain"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/samber/lo"
)

// LinkStats is the analytics view of one link.
type LinkStats struct {
	Link    *domain.ShortLink
	Summary analytics.Summary
}

// LinkClicks pairs a link with its click total.
type LinkClicks struct {
	Link   *domain.ShortLink
	Clicks int
}

// Dashboard summarises every link of an owner.
type Dashboard struct {
	Links       []LinkClicks
	TotalClicks int
}

// ClickUsecase serves stored click events and their aggregates.
type ClickUsecase struct {
	links  domain.LinkRepository
	clicks domain.ClickRepository
	log    *log.Helper
}

// NewClickUsecase creates a new ClickUsecase.
func NewClickUsecase(links domain.LinkRepository, clicks domain.ClickRepository, logger log.Logger) *ClickUsecase {
	return &ClickUsecase{
		links:  links,
		clicks: clicks,
		log:    log.NewHelper(logger),
	}
}

// GetClicks returns the raw events of one link, oldest first.
func (uc *ClickUsecase) GetClicks(ctx context.Context, linkID string) ([]domain.ClickEvent, error) {
	return uc.clicks.ListByLink(ctx, linkID)
}

// GetClicksForLinks returns the events of every listed link. An empty id set
// never reaches the store.
func (uc *ClickUsecase) GetClicksForLinks(ctx context.Context, linkIDs []string) ([]domain.ClickEvent, error) {
	if len(linkIDs) == 0 {
		return []domain.ClickEvent{}, nil
	}
	return uc.clicks.ListByLinks(ctx, linkIDs)
}

// LinkStats summarises the clicks of a link the owner holds.
func (uc *ClickUsecase) LinkStats(ctx context.Context, id, ownerID string) (*LinkStats, error) {
	link, err := uc.links.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !link.OwnedBy(ownerID) {
		return nil, domain.ErrNotFound
	}

	events, err := uc.clicks.ListByLink(ctx, link.ID())
	if err != nil {
		return nil, err
	}
	return &LinkStats{Link: link, Summary: analytics.Summarize(events)}, nil
}

// Dashboard lists the owner's links with per-link and overall click totals.
func (uc *ClickUsecase) Dashboard(ctx context.Context, ownerID string) (*Dashboard, error) {
	links, err := uc.links.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	events, err := uc.GetClicksForLinks(ctx, lo.Map(links, func(l *domain.ShortLink, _ int) string {
		return l.ID()
	}))
	if err != nil {
		return nil, err
	}

	perLink := lo.CountValuesBy(events, func(e domain.ClickEvent) string {
		return e.LinkID
	})

	return &Dashboard{
		Links: lo.Map(links, func(l *domain.ShortLink, _ int) LinkClicks {
			return LinkClicks{Link: l, Clicks: perLink[l.ID()]}
		}),
		TotalClicks: analytics.TotalClicks(events),
	}, nil
}
