// Package domain holds the analytics mirror ports
package domain

import (
	"context"

	dimdom "starforge/internal/services/dimensions/domain"
	factdom "starforge/internal/services/facts/domain"
)

// Tables are the mirrored tables in publish order
var Tables = []string{"dim_date", "dim_country", "dim_category", "dim_customer", "dim_product", "fact_sales"}

// PublisherPort copies one finished refresh into the mirror
type PublisherPort interface {
	Publish(ctx context.Context, snap dimdom.Snapshot, facts []factdom.FactRecord) error
}

// Writer is the columnar store the mirror writes to
type Writer interface {
	// Ensure creates any missing mirror tables
	Ensure(ctx context.Context) error

	// Truncate empties table
	Truncate(ctx context.Context, table string) error

	// Insert appends rows in table column order
	Insert(ctx context.Context, table string, rows [][]any) error
}
