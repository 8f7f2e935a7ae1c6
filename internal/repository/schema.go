package repository

import (
	"context"
	_ "embed"
	"fmt"
	"regexp"
	"strconv"
)

//go:embed schema.sql
var schemaSQL string

var vectorColumn = regexp.MustCompile(`vector\(\d+\)`)

// Schema returns the DDL for the hotel tables with the embedding column
// sized to dimensions
func Schema(dimensions int) string {
	if dimensions <= 0 {
		return schemaSQL
	}
	return vectorColumn.ReplaceAllString(schemaSQL, "vector("+strconv.Itoa(dimensions)+")")
}

// EnsureSchema creates any missing tables and indexes
func (r *PostgresRepository) EnsureSchema(ctx context.Context, dimensions int) error {
	if _, err := r.db.ExecContext(ctx, Schema(dimensions)); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
