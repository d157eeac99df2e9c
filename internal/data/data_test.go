package data

import (
	"context"
	"fmt"
	"testing"

	"trimlink/internal/domain"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// newTestData opens a private in-memory SQLite database with the schema
// applied.
func newTestData(t *testing.T) *Data {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_fk=1", uuid.NewString())
	drv, err := openDriver("sqlite3", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = drv.Close() })

	require.NoError(t, Migrate(context.Background(), drv))
	return &Data{db: drv}
}

func newTestLink(t *testing.T, ownerID, shortCode, customAlias string) *domain.ShortLink {
	t.Helper()

	originalURL, err := domain.NewOriginalURL("https://example.com/" + shortCode)
	require.NoError(t, err)
	return domain.NewShortLink(domain.NewLinkID(), ownerID, "title "+shortCode, originalURL, shortCode, customAlias, "")
}

func testLogger() log.Logger {
	return log.DefaultLogger
}
