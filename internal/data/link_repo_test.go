package data

import (
	"context"
	"errors"
	"testing"
	"time"

	"trimlink/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkRepo_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewLinkRepo(newTestData(t), testLogger())

	// Arrange
	originalURL, err := domain.NewOriginalURL("https://example.com/docs")
	require.NoError(t, err)
	link := domain.NewShortLink(domain.NewLinkID(), "owner-1", "Docs", originalURL, "aB3x", "docs", "https://cdn.example.com/qr-1.png")

	// Act
	require.NoError(t, repo.Create(ctx, link))

	// Assert
	byID, err := repo.FindByID(ctx, link.ID())
	require.NoError(t, err)
	assert.Equal(t, link.ID(), byID.ID())
	assert.Equal(t, "owner-1", byID.OwnerID())
	assert.Equal(t, "Docs", byID.Title())
	assert.Equal(t, "https://example.com/docs", byID.OriginalURL().String())
	assert.Equal(t, "aB3x", byID.ShortCode())
	assert.Equal(t, "docs", byID.CustomAlias())
	assert.Equal(t, "https://cdn.example.com/qr-1.png", byID.QRAssetRef())
	assert.WithinDuration(t, link.CreatedAt(), byID.CreatedAt(), time.Second)

	for _, identifier := range []string{"aB3x", "docs"} {
		found, err := repo.FindByIdentifier(ctx, identifier)
		require.NoError(t, err, identifier)
		assert.Equal(t, link.ID(), found.ID())
	}
}

func TestLinkRepo_WithoutAliasStoresEmptyOptionals(t *testing.T) {
	ctx := context.Background()
	repo := NewLinkRepo(newTestData(t), testLogger())
	link := newTestLink(t, "owner-1", "Zz90", "")

	require.NoError(t, repo.Create(ctx, link))

	found, err := repo.FindByIdentifier(ctx, "Zz90")
	require.NoError(t, err)
	assert.False(t, found.HasCustomAlias())
	assert.Empty(t, found.QRAssetRef())
}

func TestLinkRepo_IdentifiersAreCaseSensitive(t *testing.T) {
	ctx := context.Background()
	repo := NewLinkRepo(newTestData(t), testLogger())
	require.NoError(t, repo.Create(ctx, newTestLink(t, "owner-1", "abcd", "")))

	_, err := repo.FindByIdentifier(ctx, "ABCD")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLinkRepo_FindNotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewLinkRepo(newTestData(t), testLogger())

	_, err := repo.FindByIdentifier(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = repo.FindByID(ctx, domain.NewLinkID())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLinkRepo_Exists(t *testing.T) {
	ctx := context.Background()
	repo := NewLinkRepo(newTestData(t), testLogger())
	require.NoError(t, repo.Create(ctx, newTestLink(t, "owner-1", "code", "alias")))

	tests := []struct {
		candidate string
		want      bool
	}{
		{candidate: "code", want: true},
		{candidate: "alias", want: true},
		{candidate: "other", want: false},
	}
	for _, tt := range tests {
		got, err := repo.Exists(ctx, tt.candidate)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.candidate)
	}
}

func TestLinkRepo_Create_DuplicateKeys(t *testing.T) {
	ctx := context.Background()
	data := newTestData(t)
	repo := NewLinkRepo(data, testLogger())
	require.NoError(t, repo.Create(ctx, newTestLink(t, "owner-1", "code", "alias")))

	tests := []struct {
		name    string
		code    string
		alias   string
		wantKey string
	}{
		{name: "code equals existing code", code: "code", wantKey: "code"},
		{name: "code equals existing alias", code: "alias", wantKey: "alias"},
		{name: "alias equals existing code", code: "fresh", alias: "code", wantKey: "code"},
		{name: "alias equals existing alias", code: "fresh", alias: "alias", wantKey: "alias"},
		{name: "both collide reports alias", code: "code", alias: "alias", wantKey: "alias"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.Create(ctx, newTestLink(t, "owner-2", tt.code, tt.alias))

			require.ErrorIs(t, err, domain.ErrDuplicateKey)
			var dup *domain.DuplicateKeyError
			require.True(t, errors.As(err, &dup))
			assert.Equal(t, tt.wantKey, dup.Key)
		})
	}

	// Failed inserts leave nothing behind.
	links, err := repo.ListByOwner(ctx, "owner-2")
	require.NoError(t, err)
	assert.Empty(t, links)
	exists, err := repo.Exists(ctx, "fresh")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLinkRepo_ListByOwner_NewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewLinkRepo(newTestData(t), testLogger())

	originalURL, err := domain.NewOriginalURL("https://example.com")
	require.NoError(t, err)
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i, code := range []string{"aaaa", "bbbb", "cccc"} {
		link := domain.ReconstructShortLink(domain.NewLinkID(), "owner-1", code, originalURL, code, "", "", base.Add(time.Duration(i)*time.Hour))
		require.NoError(t, repo.Create(ctx, link))
	}
	require.NoError(t, repo.Create(ctx, newTestLink(t, "owner-2", "dddd", "")))

	links, err := repo.ListByOwner(ctx, "owner-1")

	require.NoError(t, err)
	require.Len(t, links, 3)
	assert.Equal(t, "cccc", links[0].ShortCode())
	assert.Equal(t, "bbbb", links[1].ShortCode())
	assert.Equal(t, "aaaa", links[2].ShortCode())

	none, err := repo.ListByOwner(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestLinkRepo_Delete_CascadesIdentifiersAndClicks(t *testing.T) {
	ctx := context.Background()
	data := newTestData(t)
	repo := NewLinkRepo(data, testLogger())
	clicks := NewClickRepo(data, testLogger())

	link := newTestLink(t, "owner-1", "code", "alias")
	keep := newTestLink(t, "owner-1", "keep", "")
	require.NoError(t, repo.Create(ctx, link))
	require.NoError(t, repo.Create(ctx, keep))
	require.NoError(t, clicks.Append(ctx, domain.ClickEvent{LinkID: link.ID(), Timestamp: time.Now(), DeviceType: domain.DeviceMobile}))
	require.NoError(t, clicks.Append(ctx, domain.ClickEvent{LinkID: keep.ID(), Timestamp: time.Now(), DeviceType: domain.DeviceMobile}))

	require.NoError(t, repo.Delete(ctx, link))

	_, err := repo.FindByID(ctx, link.ID())
	assert.ErrorIs(t, err, domain.ErrNotFound)
	for _, identifier := range []string{"code", "alias"} {
		exists, err := repo.Exists(ctx, identifier)
		require.NoError(t, err)
		assert.False(t, exists, identifier)
	}
	gone, err := clicks.ListByLink(ctx, link.ID())
	require.NoError(t, err)
	assert.Empty(t, gone)

	kept, err := clicks.ListByLink(ctx, keep.ID())
	require.NoError(t, err)
	assert.Len(t, kept, 1)

	// Freed identifiers can be issued again.
	require.NoError(t, repo.Create(ctx, newTestLink(t, "owner-3", "alias", "")))
}
