//go:build integration_pg
// +build integration_pg

package module

import (
	"context"
	"fmt"
	"testing"
	"time"

	"starforge/internal/adapters/ingest/csvfile"
	"starforge/internal/modkit"
	"starforge/internal/platform/config"
	"starforge/internal/platform/store"
	"starforge/internal/platform/store/schema"
	"starforge/internal/platform/testkit"
	qualitydom "starforge/internal/services/api/quality/domain"
	qualityrepo "starforge/internal/services/api/quality/repo"
	qualitysvc "starforge/internal/services/api/quality/service"
	"starforge/internal/services/refresh/domain"
	refreshrepo "starforge/internal/services/refresh/repo"

	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const retailCSV = "Invoice,StockCode,Description,Quantity,InvoiceDate,Price,Customer ID,Country\n" +
	"489434,85048,GLASS BALL,12,2009-12-01 07:45:00,6.95,13085,United Kingdom\n" +
	"489435,85048,GLASS BALL,6,2010-01-05 09:00:00,7.25,13085,United Kingdom\n" +
	"489436,22350,CAT BOWL,0,2009-12-01 07:46:00,2.55,13086,France\n" +
	"C489449,22087,PAPER BUNTING,-12,2009-12-01 10:33:00,2.95,16321,Australia\n" +
	"489437,22350,CAT BOWL,3,2009-12-02 08:00:00,2.55,,\n"

func startPostgres(t *testing.T) string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	t.Cleanup(cancel)

	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "postgres",
				"POSTGRES_DB":       "warehouse",
			},
			WaitingFor: wait.ForAll(
				wait.ForListeningPort("5432/tcp"),
				wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
			).WithDeadline(2 * time.Minute),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, err := c.Host(ctx)
	require.NoError(t, err)
	port, err := c.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)
	return fmt.Sprintf("postgres://postgres:postgres@%s:%s/warehouse?sslmode=disable", host, port.Port())
}

func TestRefresh_Postgres_Integration(t *testing.T) {
	dsn := startPostgres(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	st, err := store.Open(ctx, store.Config{PG: store.PGConfig{Enabled: true, URL: dsn, MaxConns: 4}})
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close(context.Background()) })
	require.NoError(t, schema.Apply(ctx, st.PG))
	require.NoError(t, schema.Apply(ctx, st.PG), "ddl is repeatable")

	path := testkit.WriteTemp(t, "retail.csv", []byte(retailCSV))

	opts, err := FromConfig(config.New().Prefix("IT_"))
	require.NoError(t, err)
	m := New(modkit.Deps{PG: st.PG}, csvfile.New(path), opts)

	first, err := m.Typed().Runner.Run(ctx)
	require.NoError(t, err)
	require.Equal(t, domain.StateDone, first.State)
	require.Equal(t, 5, first.Counts.Staged)
	require.Equal(t, 3, first.Counts.Valid)
	require.Equal(t, 3, first.Counts.Facts)
	require.Equal(t, 1, first.Counts.Customers)

	second, err := m.Typed().Runner.Run(ctx)
	require.NoError(t, err)
	require.Equal(t, first.Counts, second.Counts, "a rerun lands the same warehouse")

	var (
		facts, versions int
		price           string
	)
	require.NoError(t, st.PG.QueryRow(ctx, `SELECT count(*) FROM fact_sales`).Scan(&facts))
	require.NoError(t, st.PG.QueryRow(ctx,
		`SELECT count(*), max(unit_price)::text FROM dim_product WHERE stock_code = '85048'`).Scan(&versions, &price))
	require.Equal(t, 3, facts)
	require.Equal(t, 1, versions, "the dimension is replaced on rerun")
	require.Equal(t, "7.10", price, "mean of valid prices")

	q := qualitysvc.New(st.PG, qualityrepo.NewPG(), refreshrepo.NewPG())
	sum, err := q.Summary(ctx)
	require.NoError(t, err)
	require.NotNil(t, sum.Run)
	require.Equal(t, second.ID, sum.Run.ID)
	require.Equal(t, 5, sum.Staged)
	require.Equal(t, 2, sum.Invalid)

	runs, err := q.Runs(ctx, qualitydom.ListInput{Limit: 10})
	require.NoError(t, err)
	require.Len(t, runs, 2)
}

func TestRefresh_Postgres_MagnitudeBounds(t *testing.T) {
	dsn := startPostgres(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	st, err := store.Open(ctx, store.Config{PG: store.PGConfig{Enabled: true, URL: dsn, MaxConns: 4}})
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close(context.Background()) })
	require.NoError(t, schema.Apply(ctx, st.PG))

	const csv = "Invoice,StockCode,Description,Quantity,InvoiceDate,Price,Customer ID,Country\n" +
		"500001,85048,GLASS BALL,1000000,2010-01-05 09:00:00,1000000,13085,United Kingdom\n" +
		"500002,85048,GLASS BALL,1,2010-01-05 09:00:00,1.123456,13085,United Kingdom\n" +
		"500003,85048,GLASS BALL,1,2010-01-05 09:00:00,1e15,13085,United Kingdom\n" +
		"500004,85048,GLASS BALL,1e10000000,2010-01-05 09:00:00,2.00,13085,United Kingdom\n"
	path := testkit.WriteTemp(t, "bounds.csv", []byte(csv))

	opts, err := FromConfig(config.New().Prefix("IT_"))
	require.NoError(t, err)
	m := New(modkit.Deps{PG: st.PG}, csvfile.New(path), opts)

	run, err := m.Typed().Runner.Run(ctx)
	require.NoError(t, err)
	require.Equal(t, domain.StateDone, run.State)
	require.Equal(t, 4, run.Counts.Staged)
	require.Equal(t, 2, run.Counts.Valid)
	require.Equal(t, 2, run.Counts.Facts)

	var total, price string
	require.NoError(t, st.PG.QueryRow(ctx,
		`SELECT line_total::text FROM fact_sales WHERE invoice_no = '500001'`).Scan(&total))
	require.Equal(t, "1000000000000.00", total)
	require.NoError(t, st.PG.QueryRow(ctx,
		`SELECT unit_price::text FROM staged_records WHERE invoice_no = '500002'`).Scan(&price))
	require.Equal(t, "1.123456", price, "staged prices keep their landed scale")
}
