package store

import (
	"context"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

var (
	// kvColumns holds the columns of the "kv" table.
	kvColumns = []*schema.Column{
		{Name: "key", Type: field.TypeString},
		{Name: "value", Type: field.TypeBytes},
		{Name: "updated_at", Type: field.TypeInt64},
	}
	// kvTable holds opaque values addressed by a string key.
	kvTable = &schema.Table{
		Name:       "kv",
		Columns:    kvColumns,
		PrimaryKey: []*schema.Column{kvColumns[0]},
	}

	// llmCallsColumns holds the columns of the "llm_calls" table.
	llmCallsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "timestamp", Type: field.TypeInt64},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		{Name: "latency_ms", Type: field.TypeInt64},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "request_body", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "response_body", Type: field.TypeString, Size: 2147483647, Default: ""},
	}
	// llmCallsTable is the append-only log of provider round-trips.
	llmCallsTable = &schema.Table{
		Name:       "llm_calls",
		Columns:    llmCallsColumns,
		PrimaryKey: []*schema.Column{llmCallsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "llmcall_purpose", Columns: []*schema.Column{llmCallsColumns[4]}},
			{Name: "llmcall_timestamp", Columns: []*schema.Column{llmCallsColumns[1]}},
		},
	}

	tables = []*schema.Table{kvTable, llmCallsTable}
)

// migrate creates or upgrades the tables above.
func migrate(ctx context.Context, drv dialect.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return err
	}
	return m.Create(ctx, tables...)
}
