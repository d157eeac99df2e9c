package data

import (
	"context"
	"fmt"
	"time"

	"trimlink/internal/domain"

	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/sqlgraph"
	"github.com/go-kratos/kratos/v2/log"
)

var linkColumns = []string{"id", "owner_id", "title", "original_url", "short_code", "custom_alias", "qr_asset_ref", "created_at"}

var _ domain.LinkRepository = (*LinkRepo)(nil)

// LinkRepo implements domain.LinkRepository over the links and
// link_identifiers tables.
type LinkRepo struct {
	data *Data
	log  *log.Helper
}

// NewLinkRepo creates the uncached link repository.
func NewLinkRepo(data *Data, logger log.Logger) *LinkRepo {
	return &LinkRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

func (r *LinkRepo) builder() *entsql.DialectBuilder {
	return entsql.Dialect(r.data.dialect())
}

// Create inserts the link row and one identifier row per identifier in a
// single transaction. The alias row goes first so a collision on both keys
// is reported as the alias.
func (r *LinkRepo) Create(ctx context.Context, link *domain.ShortLink) (err error) {
	tx, err := r.data.db.Tx(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				r.log.WithContext(ctx).Errorf("rollback failed: %v", rbErr)
			}
		}
	}()

	b := r.builder()
	query, args := b.Insert(linksTableName).
		Columns(linkColumns...).
		Values(
			link.ID(),
			link.OwnerID(),
			link.Title(),
			link.OriginalURL().String(),
			link.ShortCode(),
			nullable(link.CustomAlias()),
			nullable(link.QRAssetRef()),
			link.CreatedAt(),
		).
		Query()
	if err = tx.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("insert link: %w", err)
	}

	keys := []string{link.ShortCode()}
	if link.HasCustomAlias() {
		keys = []string{link.CustomAlias(), link.ShortCode()}
	}
	for _, key := range keys {
		query, args := b.Insert(identifiersTableName).
			Columns("identifier", "link_id").
			Values(key, link.ID()).
			Query()
		if err = tx.Exec(ctx, query, args, nil); err != nil {
			if sqlgraph.IsUniqueConstraintError(err) {
				return &domain.DuplicateKeyError{Key: key}
			}
			return fmt.Errorf("insert identifier %q: %w", key, err)
		}
	}

	return tx.Commit()
}

// FindByID retrieves a link by id.
func (r *LinkRepo) FindByID(ctx context.Context, id string) (*domain.ShortLink, error) {
	query, args := r.builder().
		Select(linkColumns...).
		From(entsql.Table(linksTableName)).
		Where(entsql.EQ("id", id)).
		Limit(1).
		Query()
	return r.queryOne(ctx, query, args)
}

// FindByIdentifier retrieves a link whose short code or custom alias equals
// identifier.
func (r *LinkRepo) FindByIdentifier(ctx context.Context, identifier string) (*domain.ShortLink, error) {
	query, args := r.builder().
		Select(linkColumns...).
		From(entsql.Table(linksTableName)).
		Where(entsql.Or(
			entsql.EQ("short_code", identifier),
			entsql.EQ("custom_alias", identifier),
		)).
		Limit(1).
		Query()
	return r.queryOne(ctx, query, args)
}

// Exists checks the identifier namespace.
func (r *LinkRepo) Exists(ctx context.Context, candidate string) (bool, error) {
	query, args := r.builder().
		Select(entsql.Count("*")).
		From(entsql.Table(identifiersTableName)).
		Where(entsql.EQ("identifier", candidate)).
		Query()

	rows := &entsql.Rows{}
	if err := r.data.db.Query(ctx, query, args, rows); err != nil {
		return false, err
	}
	defer rows.Close()

	n, err := entsql.ScanInt(rows)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListByOwner returns the owner's links, newest first.
func (r *LinkRepo) ListByOwner(ctx context.Context, ownerID string) ([]*domain.ShortLink, error) {
	query, args := r.builder().
		Select(linkColumns...).
		From(entsql.Table(linksTableName)).
		Where(entsql.EQ("owner_id", ownerID)).
		OrderBy(entsql.Desc("created_at"), entsql.Desc("id")).
		Query()
	return r.queryAll(ctx, query, args)
}

// Delete removes identifiers, clicks and the link row in one transaction.
func (r *LinkRepo) Delete(ctx context.Context, link *domain.ShortLink) (err error) {
	tx, err := r.data.db.Tx(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				r.log.WithContext(ctx).Errorf("rollback failed: %v", rbErr)
			}
		}
	}()

	b := r.builder()
	steps := []*entsql.DeleteBuilder{
		b.Delete(identifiersTableName).Where(entsql.EQ("link_id", link.ID())),
		b.Delete(clicksTableName).Where(entsql.EQ("link_id", link.ID())),
		b.Delete(linksTableName).Where(entsql.EQ("id", link.ID())),
	}
	for _, step := range steps {
		query, args := step.Query()
		if err = tx.Exec(ctx, query, args, nil); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *LinkRepo) queryOne(ctx context.Context, query string, args []any) (*domain.ShortLink, error) {
	links, err := r.queryAll(ctx, query, args)
	if err != nil {
		return nil, err
	}
	if len(links) == 0 {
		return nil, domain.ErrNotFound
	}
	return links[0], nil
}

func (r *LinkRepo) queryAll(ctx context.Context, query string, args []any) ([]*domain.ShortLink, error) {
	rows := &entsql.Rows{}
	if err := r.data.db.Query(ctx, query, args, rows); err != nil {
		return nil, err
	}
	defer rows.Close()

	links := make([]*domain.ShortLink, 0)
	for rows.Next() {
		var (
			id, ownerID, title, originalURL, shortCode string
			customAlias, qrAssetRef                    entsql.NullString
			createdAt                                  time.Time
		)
		if err := rows.Scan(&id, &ownerID, &title, &originalURL, &shortCode, &customAlias, &qrAssetRef, &createdAt); err != nil {
			return nil, err
		}
		link, err := r.toDomain(id, ownerID, title, originalURL, shortCode, customAlias.String, qrAssetRef.String, createdAt)
		if err != nil {
			return nil, err
		}
		links = append(links, link)
	}
	return links, rows.Err()
}

func (r *LinkRepo) toDomain(id, ownerID, title, rawURL, shortCode, customAlias, qrAssetRef string, createdAt time.Time) (*domain.ShortLink, error) {
	originalURL, err := domain.NewOriginalURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("stored link %s: %w", id, err)
	}
	return domain.ReconstructShortLink(
		id,
		ownerID,
		title,
		originalURL,
		shortCode,
		customAlias,
		qrAssetRef,
		createdAt.UTC(),
	), nil
}

// nullable maps the empty string to SQL NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
