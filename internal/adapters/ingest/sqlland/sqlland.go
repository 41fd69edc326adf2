// Package sqlland reads landed retail rows from a SQL landing table
//
// Any database/sql driver works, the mysql, sqlite3 and pgx drivers are registered
// here so a landing DSN can be opened without further wiring. Every column is read
// as text, casting is left to staging
package sqlland

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"regexp"
	"strings"

	"starforge/internal/adapters/ingest/landing"
	perr "starforge/internal/platform/errors"

	_ "github.com/go-sql-driver/mysql" // mysql driver
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	_ "github.com/mattn/go-sqlite3"    // sqlite3 driver
)

// Config points at a landing table
type Config struct {
	Driver string // mysql, sqlite3 or pgx
	DSN    string
	Table  string
	// OrderBy is the column giving landing order, empty uses the driver row id when there is one
	OrderBy string
	// Columns overrides the physical column names, keyed by landing column
	Columns map[string]string
}

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// Source reads a landing table through database/sql
type Source struct {
	cfg  Config
	open func(driver, dsn string) (*sql.DB, error) // seam
}

// New validates cfg and returns a Source
func New(cfg Config) (*Source, error) {
	switch cfg.Driver {
	case "mysql", "sqlite3", "pgx":
	default:
		return nil, perr.InvalidArgf("sqlland: unsupported driver %q", cfg.Driver)
	}
	if !identRe.MatchString(cfg.Table) {
		return nil, perr.InvalidArgf("sqlland: invalid table name %q", cfg.Table)
	}
	if cfg.OrderBy != "" && !identRe.MatchString(cfg.OrderBy) {
		return nil, perr.InvalidArgf("sqlland: invalid order column %q", cfg.OrderBy)
	}
	for k, v := range cfg.Columns {
		if !identRe.MatchString(v) {
			return nil, perr.InvalidArgf("sqlland: invalid column %q for %s", v, k)
		}
	}
	return &Source{cfg: cfg, open: sql.Open}, nil
}

// Name implements landing.Source
func (s *Source) Name() string { return s.cfg.Table }

// Query returns the select statement used to read the landing table
func (s *Source) Query() string {
	cols := make([]string, 0, len(landing.Columns))
	for _, c := range landing.Columns {
		cols = append(cols, s.castText(s.physical(c)))
	}
	q := fmt.Sprintf("SELECT %s FROM %s", strings.Join(cols, ", "), s.cfg.Table)
	if ob := s.orderBy(); ob != "" {
		q += " ORDER BY " + ob
	}
	return q
}

func (s *Source) physical(col string) string {
	if v, ok := s.cfg.Columns[col]; ok && v != "" {
		return s.quote(v)
	}
	return s.quote(col)
}

func (s *Source) quote(ident string) string {
	if s.cfg.Driver == "mysql" {
		return "`" + ident + "`"
	}
	return `"` + ident + `"`
}

func (s *Source) castText(expr string) string {
	switch s.cfg.Driver {
	case "mysql":
		return "CAST(" + expr + " AS CHAR)"
	case "pgx":
		return expr + "::text"
	}
	return "CAST(" + expr + " AS TEXT)"
}

func (s *Source) orderBy() string {
	if s.cfg.OrderBy != "" {
		return s.quote(s.cfg.OrderBy)
	}
	if s.cfg.Driver == "sqlite3" {
		return "rowid"
	}
	return ""
}

// Open implements landing.Source
func (s *Source) Open(ctx context.Context) (landing.Reader, error) {
	db, err := s.open(s.cfg.Driver, s.cfg.DSN)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "sqlland: open %s", s.cfg.Driver)
	}
	rows, err := db.QueryContext(ctx, s.Query())
	if err != nil {
		_ = db.Close()
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "sqlland: query %s", s.cfg.Table)
	}
	return &reader{db: db, rows: rows, name: s.cfg.Table}, nil
}

type reader struct {
	db   *sql.DB
	rows *sql.Rows
	name string
	pos  int64
}

func (r *reader) Next() (landing.Record, error) {
	if !r.rows.Next() {
		if err := r.rows.Err(); err != nil {
			return landing.Record{}, perr.Wrapf(err, perr.ErrorCodeUnavailable, "sqlland: read %s", r.name)
		}
		return landing.Record{}, io.EOF
	}
	vals := make([]sql.NullString, len(landing.Columns))
	dest := make([]any, len(vals))
	for i := range vals {
		dest[i] = &vals[i]
	}
	if err := r.rows.Scan(dest...); err != nil {
		return landing.Record{}, perr.Wrapf(err, perr.ErrorCodeValidation, "sqlland: scan %s row %d", r.name, r.pos+1)
	}
	r.pos++
	rec := landing.Record{Source: r.name, Position: r.pos}
	for i, c := range landing.Columns {
		if vals[i].Valid {
			rec.Set(c, landing.Cell(vals[i].String))
		} else {
			rec.Set(c, landing.Cell(""))
		}
	}
	return rec, nil
}

func (r *reader) Close() error {
	var first error
	if r.rows != nil {
		first = r.rows.Close()
		r.rows = nil
	}
	if r.db != nil {
		if err := r.db.Close(); err != nil && first == nil {
			first = err
		}
		r.db = nil
	}
	return first
}
