package db

import (
	"context"
	_ "embed"
	"fmt"
)

//go:embed schema.sql
var schemaSQL string

// Schema returns the DDL for the salesbook tables.
func Schema() string {
	return schemaSQL
}

// ApplySchema creates missing tables, constraints and indexes. Statements are idempotent.
func ApplySchema(ctx context.Context, conn DBTX) error {
	if _, err := conn.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("platform/db: apply schema: %w", err)
	}
	return nil
}
