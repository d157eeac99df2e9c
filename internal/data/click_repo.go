package data

import (
	"context"
	"fmt"
	"time"

	"trimlink/internal/domain"

	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/sqlgraph"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

var _ domain.ClickRepository = (*clickRepo)(nil)

var clickColumns = []string{"link_id", "clicked_at", "device_type", "city", "country"}

type clickRepo struct {
	data *Data
	log  *log.Helper
}

// NewClickRepo creates the click event repository.
func NewClickRepo(data *Data, logger log.Logger) domain.ClickRepository {
	return &clickRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

// Append stores one click. A click for a link that no longer exists is
// reported as domain.ErrNotFound.
func (r *clickRepo) Append(ctx context.Context, event domain.ClickEvent) error {
	id, err := uuid.NewV7()
	if err != nil {
		return err
	}

	query, args := entsql.Dialect(r.data.dialect()).
		Insert(clicksTableName).
		Columns(append([]string{"id"}, clickColumns...)...).
		Values(
			id.String(),
			event.LinkID,
			event.Timestamp.UTC(),
			string(domain.ParseDeviceType(string(event.DeviceType))),
			nullable(event.City),
			nullable(event.Country),
		).
		Query()

	if err := r.data.db.Exec(ctx, query, args, nil); err != nil {
		if sqlgraph.IsForeignKeyConstraintError(err) {
			return fmt.Errorf("click for link %s: %w", event.LinkID, domain.ErrNotFound)
		}
		return err
	}
	return nil
}

// ListByLink returns the link's clicks in the order they happened.
func (r *clickRepo) ListByLink(ctx context.Context, linkID string) ([]domain.ClickEvent, error) {
	return r.list(ctx, entsql.EQ("link_id", linkID))
}

// ListByLinks returns clicks for every id in linkIDs, oldest first.
func (r *clickRepo) ListByLinks(ctx context.Context, linkIDs []string) ([]domain.ClickEvent, error) {
	if len(linkIDs) == 0 {
		return []domain.ClickEvent{}, nil
	}
	return r.list(ctx, entsql.In("link_id", lo.ToAnySlice(lo.Uniq(linkIDs))...))
}

func (r *clickRepo) list(ctx context.Context, where *entsql.Predicate) ([]domain.ClickEvent, error) {
	query, args := entsql.Dialect(r.data.dialect()).
		Select(clickColumns...).
		From(entsql.Table(clicksTableName)).
		Where(where).
		OrderBy("clicked_at", "id").
		Query()

	rows := &entsql.Rows{}
	if err := r.data.db.Query(ctx, query, args, rows); err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]domain.ClickEvent, 0)
	for rows.Next() {
		var (
			linkID, deviceType string
			clickedAt          time.Time
			city, country      entsql.NullString
		)
		if err := rows.Scan(&linkID, &clickedAt, &deviceType, &city, &country); err != nil {
			return nil, err
		}
		events = append(events, domain.ClickEvent{
			LinkID:     linkID,
			Timestamp:  clickedAt.UTC(),
			DeviceType: domain.ParseDeviceType(deviceType),
			City:       city.String,
			Country:    country.String,
		})
	}
	return events, rows.Err()
}
