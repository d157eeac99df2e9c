package domain

import (
	"time"

	"github.com/google/uuid"
)

// ShortLink is the aggregate root for one shortening mapping.
// It is immutable once created; the only lifecycle transition is deletion.
type ShortLink struct {
	id          string
	ownerID     string
	title       string
	originalURL OriginalURL
	shortCode   string
	customAlias string
	qrAssetRef  string
	createdAt   time.Time
}

// NewLinkID returns a fresh, time-ordered link identifier.
func NewLinkID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// NewShortLink creates a link that has not been persisted yet.
func NewShortLink(id, ownerID, title string, originalURL OriginalURL, shortCode, customAlias, qrAssetRef string) *ShortLink {
	return &ShortLink{
		id:          id,
		ownerID:     ownerID,
		title:       title,
		originalURL: originalURL,
		shortCode:   shortCode,
		customAlias: customAlias,
		qrAssetRef:  qrAssetRef,
		createdAt:   time.Now().UTC(),
	}
}

// ReconstructShortLink reconstructs a link from persistence.
func ReconstructShortLink(
	id string,
	ownerID string,
	title string,
	originalURL OriginalURL,
	shortCode string,
	customAlias string,
	qrAssetRef string,
	createdAt time.Time,
) *ShortLink {
	return &ShortLink{
		id:          id,
		ownerID:     ownerID,
		title:       title,
		originalURL: originalURL,
		shortCode:   shortCode,
		customAlias: customAlias,
		qrAssetRef:  qrAssetRef,
		createdAt:   createdAt,
	}
}

func (l *ShortLink) ID() string               { return l.id }
func (l *ShortLink) OwnerID() string          { return l.ownerID }
func (l *ShortLink) Title() string            { return l.title }
func (l *ShortLink) OriginalURL() OriginalURL { return l.originalURL }
func (l *ShortLink) ShortCode() string        { return l.shortCode }
func (l *ShortLink) CustomAlias() string      { return l.customAlias }
func (l *ShortLink) QRAssetRef() string       { return l.qrAssetRef }
func (l *ShortLink) CreatedAt() time.Time     { return l.createdAt }

// HasCustomAlias returns true if the owner picked the identifier.
func (l *ShortLink) HasCustomAlias() bool {
	return l.customAlias != ""
}

// Identifier returns the resolvable identifier: the custom alias if set,
// otherwise the short code.
func (l *ShortLink) Identifier() string {
	if l.HasCustomAlias() {
		return l.customAlias
	}
	return l.shortCode
}

// Identifiers returns every identifier the link answers to.
func (l *ShortLink) Identifiers() []string {
	if l.HasCustomAlias() {
		return []string{l.shortCode, l.customAlias}
	}
	return []string{l.shortCode}
}

// OwnedBy reports whether ownerID owns the link.
func (l *ShortLink) OwnedBy(ownerID string) bool {
	return ownerID != "" && l.ownerID == ownerID
}
