package domain

import (
	"context"
)

// LinkRepository defines persistence for short links.
// This interface is defined in the domain layer and implemented in the data layer.
type LinkRepository interface {
	// Create inserts the link atomically with its identifiers. A collision on
	// either identifier yields a *DuplicateKeyError naming it.
	Create(ctx context.Context, link *ShortLink) error

	// FindByID returns ErrNotFound if absent.
	FindByID(ctx context.Context, id string) (*ShortLink, error)

	// FindByIdentifier matches the short code or the custom alias.
	// Returns ErrNotFound if absent.
	FindByIdentifier(ctx context.Context, identifier string) (*ShortLink, error)

	// Exists reports whether any link uses candidate as short code or alias.
	Exists(ctx context.Context, candidate string) (bool, error)

	// ListByOwner returns the owner's links, newest first.
	ListByOwner(ctx context.Context, ownerID string) ([]*ShortLink, error)

	// Delete removes the link together with its identifiers and clicks.
	Delete(ctx context.Context, link *ShortLink) error
}

// ClickRepository defines persistence for click events.
type ClickRepository interface {
	// Append stores one event. Returns ErrNotFound when the link is gone.
	Append(ctx context.Context, event ClickEvent) error

	ListByLink(ctx context.Context, linkID string) ([]ClickEvent, error)

	ListByLinks(ctx context.Context, linkIDs []string) ([]ClickEvent, error)
}

// AssetStore persists binary assets and returns a public reference.
type AssetStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// GeoLocator resolves the approximate origin of a client address.
// Implementations must honour ctx deadlines.
type GeoLocator interface {
	Lookup(ctx context.Context, ip string) (Location, error)
}

// DeviceClassifier maps a user agent to a device class. It never fails.
type DeviceClassifier interface {
	Classify(userAgent string) DeviceType
}
