package data

import (
	"context"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

const (
	linksTableName       = "links"
	identifiersTableName = "link_identifiers"
	clicksTableName      = "clicks"
)

var (
	// LinksColumns holds the columns for the "links" table.
	LinksColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString, Size: 36},
		{Name: "owner_id", Type: field.TypeString},
		{Name: "title", Type: field.TypeString, Size: 255},
		{Name: "original_url", Type: field.TypeString, Size: 2048},
		{Name: "short_code", Type: field.TypeString, Size: 64},
		{Name: "custom_alias", Type: field.TypeString, Size: 64, Nullable: true},
		{Name: "qr_asset_ref", Type: field.TypeString, Size: 2048, Nullable: true},
		{Name: "created_at", Type: field.TypeTime},
	}
	// LinksTable holds the schema information for the "links" table.
	LinksTable = &schema.Table{
		Name:       linksTableName,
		Columns:    LinksColumns,
		PrimaryKey: []*schema.Column{LinksColumns[0]},
		Indexes: []*schema.Index{
			{Name: "link_owner_id_created_at", Columns: []*schema.Column{LinksColumns[1], LinksColumns[7]}},
			{Name: "link_short_code", Columns: []*schema.Column{LinksColumns[4]}},
			{Name: "link_custom_alias", Columns: []*schema.Column{LinksColumns[5]}},
		},
	}
	// IdentifiersColumns holds the columns for the "link_identifiers" table.
	// Short codes and custom aliases share this one namespace.
	IdentifiersColumns = []*schema.Column{
		{Name: "identifier", Type: field.TypeString, Size: 64},
		{Name: "link_id", Type: field.TypeString, Size: 36},
	}
	// IdentifiersTable holds the schema information for the "link_identifiers" table.
	IdentifiersTable = &schema.Table{
		Name:       identifiersTableName,
		Columns:    IdentifiersColumns,
		PrimaryKey: []*schema.Column{IdentifiersColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "link_identifiers_links_identifiers",
				Columns:    []*schema.Column{IdentifiersColumns[1]},
				RefColumns: []*schema.Column{LinksColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{Name: "link_identifier_link_id", Columns: []*schema.Column{IdentifiersColumns[1]}},
		},
	}
	// ClicksColumns holds the columns for the "clicks" table.
	ClicksColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString, Size: 36},
		{Name: "link_id", Type: field.TypeString, Size: 36},
		{Name: "clicked_at", Type: field.TypeTime},
		{Name: "device_type", Type: field.TypeString, Size: 16},
		{Name: "city", Type: field.TypeString, Nullable: true},
		{Name: "country", Type: field.TypeString, Nullable: true},
	}
	// ClicksTable holds the schema information for the "clicks" table.
	ClicksTable = &schema.Table{
		Name:       clicksTableName,
		Columns:    ClicksColumns,
		PrimaryKey: []*schema.Column{ClicksColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "clicks_links_clicks",
				Columns:    []*schema.Column{ClicksColumns[1]},
				RefColumns: []*schema.Column{LinksColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{Name: "click_link_id_clicked_at", Columns: []*schema.Column{ClicksColumns[1], ClicksColumns[2]}},
		},
	}
	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		LinksTable,
		IdentifiersTable,
		ClicksTable,
	}
)

func init() {
	IdentifiersTable.ForeignKeys[0].RefTable = LinksTable
	ClicksTable.ForeignKeys[0].RefTable = LinksTable
}

// Migrate creates or upgrades every table.
func Migrate(ctx context.Context, drv dialect.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return err
	}
	return m.Create(ctx, Tables...)
}
