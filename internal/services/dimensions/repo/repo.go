// Package repo provides postgres access for the dimension tables
package repo

import (
	"context"

	"starforge/internal/core/datekey"
	"starforge/internal/core/money"
	"starforge/internal/modkit/repokit"
	"starforge/internal/platform/store"
	"starforge/internal/services/dimensions/domain"
)

type (
	// PG is a Postgres binder for domain.StorageRepo
	PG      struct{}
	queries struct{ q repokit.Queryer }
)

// NewPG returns a Postgres binder for domain.StorageRepo
func NewPG() repokit.Binder[domain.StorageRepo] { return PG{} }

// Bind implements repokit.Binder
func (PG) Bind(q repokit.Queryer) domain.StorageRepo { return &queries{q: q} }

var (
	dateCols = store.Cols(
		"date_key", "full_date", "year", "quarter", "month", "month_name",
		"day", "weekday", "weekday_name", "is_weekend", "iso_week",
	)
	customerCols = store.Cols(
		"customer_key", "customer_id", "country", "country_key", "first_seen",
		"effective_from", "effective_to", "is_current",
	)
	productCols = []store.Column{
		{Name: "product_key"}, {Name: "stock_code"}, {Name: "description"},
		{Name: "unit_price", Cast: "numeric"}, {Name: "category_key"}, {Name: "first_seen"},
		{Name: "effective_from"}, {Name: "effective_to"}, {Name: "is_current"},
	}
)

func (r *queries) truncate(ctx context.Context, table string) error {
	_, err := r.q.Exec(ctx, "TRUNCATE "+table)
	return err
}

// ReplaceDates implements domain.StorageRepo
func (r *queries) ReplaceDates(ctx context.Context, days []datekey.Day, chunk int) (int, error) {
	if err := r.truncate(ctx, "dim_date"); err != nil {
		return 0, err
	}
	rows := make([][]any, len(days))
	for i, d := range days {
		rows[i] = []any{
			d.Key, d.Date, d.Year, d.Quarter, d.Month, d.MonthName,
			d.Day, d.Weekday, d.WeekdayName, d.IsWeekend, d.ISOWeek,
		}
	}
	n, err := store.InsertRows(ctx, r.q, "dim_date", dateCols, rows, chunk)
	return int(n), err
}

// ReplaceCountries implements domain.StorageRepo
func (r *queries) ReplaceCountries(ctx context.Context, refs []domain.Ref) (int, error) {
	return r.replaceRefs(ctx, "dim_country", "country_key", "country_name", refs)
}

// ReplaceCategories implements domain.StorageRepo
func (r *queries) ReplaceCategories(ctx context.Context, refs []domain.Ref) (int, error) {
	return r.replaceRefs(ctx, "dim_category", "category_key", "category_name", refs)
}

func (r *queries) replaceRefs(ctx context.Context, table, keyCol, nameCol string, refs []domain.Ref) (int, error) {
	if err := r.truncate(ctx, table); err != nil {
		return 0, err
	}
	rows := make([][]any, len(refs))
	for i, ref := range refs {
		rows[i] = []any{ref.Key, ref.Name}
	}
	n, err := store.InsertRows(ctx, r.q, table, store.Cols(keyCol, nameCol), rows, 0)
	return int(n), err
}

// ReplaceCustomers implements domain.StorageRepo, every version of every chain is written
func (r *queries) ReplaceCustomers(ctx context.Context, chains []domain.CustomerChain, chunk int) (int, error) {
	if err := r.truncate(ctx, "dim_customer"); err != nil {
		return 0, err
	}
	var rows [][]any
	for _, c := range chains {
		for _, v := range c.Versions() {
			rows = append(rows, []any{
				v.Key, v.BusinessKey, v.Attrs.Country, v.Attrs.CountryKey, v.Attrs.FirstSeen,
				v.From, v.To, v.IsCurrent(),
			})
		}
	}
	n, err := store.InsertRows(ctx, r.q, "dim_customer", customerCols, rows, chunk)
	return int(n), err
}

// ReplaceProducts implements domain.StorageRepo, every version of every chain is written
func (r *queries) ReplaceProducts(ctx context.Context, chains []domain.ProductChain, chunk int) (int, error) {
	if err := r.truncate(ctx, "dim_product"); err != nil {
		return 0, err
	}
	var rows [][]any
	for _, c := range chains {
		for _, v := range c.Versions() {
			price := v.Attrs.UnitPrice
			rows = append(rows, []any{
				v.Key, v.BusinessKey, v.Attrs.Description,
				money.SQLArg(&price), v.Attrs.CategoryKey, v.Attrs.FirstSeen,
				v.From, v.To, v.IsCurrent(),
			})
		}
	}
	n, err := store.InsertRows(ctx, r.q, "dim_product", productCols, rows, chunk)
	return int(n), err
}
