// Package csvfile streams landed retail rows from CSV files
//
// Plain, gzip (.gz) and snappy framed (.sz) files are supported, the codec is
// picked from the file extension. The first row must be a header naming every
// landed column, extra columns are ignored
package csvfile

import (
	"bufio"
	"compress/gzip"
	"context"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"starforge/internal/adapters/ingest/landing"
	perr "starforge/internal/platform/errors"
	"starforge/internal/platform/logger"

	"github.com/golang/snappy"
)

// Source opens a landed CSV file
type Source struct {
	Path string
}

// New returns a Source over path
func New(path string) *Source { return &Source{Path: path} }

// Name implements landing.Source
func (s *Source) Name() string { return filepath.Base(s.Path) }

// Open implements landing.Source
func (s *Source) Open(_ context.Context) (landing.Reader, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, perr.Wrapf(err, perr.ErrorCodeNotFound, "csvfile: open %s", s.Path)
		}
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "csvfile: open %s", s.Path)
	}
	rd, err := NewReader(f, s.Name(), codecFor(s.Path))
	if err != nil {
		return nil, err
	}
	return rd, nil
}

// Codec names the compression wrapping a CSV stream
type Codec uint8

const (
	// Plain is uncompressed text
	Plain Codec = iota
	// Gzip is a gzip member stream
	Gzip
	// Snappy is the snappy framing format
	Snappy
)

func codecFor(path string) Codec {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz", ".gzip":
		return Gzip
	case ".sz", ".snappy":
		return Snappy
	}
	return Plain
}

// Reader streams landing records out of a CSV stream
type Reader struct {
	src     io.ReadCloser
	gz      *gzip.Reader
	cr      *csv.Reader
	name    string
	index   map[string]int // canonical column -> csv position
	line    int64
	rows    int64
	sampled bool
	err     error
}

// NewReader reads the header of r and validates it
// r is closed by Close, or right away when the header is unusable
func NewReader(r io.ReadCloser, name string, codec Codec) (*Reader, error) {
	rd := &Reader{src: r, name: name}

	var body io.Reader = r
	switch codec {
	case Gzip:
		gz, err := gzip.NewReader(r)
		if err != nil {
			_ = r.Close()
			return nil, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "csvfile: %s is not gzip", name)
		}
		rd.gz = gz
		body = gz
	case Snappy:
		body = snappy.NewReader(r)
	}

	cr := csv.NewReader(bufio.NewReaderSize(body, 256*1024))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true
	rd.cr = cr

	header, err := cr.Read()
	if err != nil {
		_ = rd.Close()
		if errors.Is(err, io.EOF) {
			return nil, perr.Newf(perr.ErrorCodeValidation, "csvfile: %s has no header row", name)
		}
		return nil, perr.Wrapf(err, perr.ErrorCodeValidation, "csvfile: %s header", name)
	}
	rd.line = 1

	idx := make(map[string]int, len(landing.Columns))
	for i, h := range header {
		if col, ok := landing.MatchColumn(h); ok {
			if _, dup := idx[col]; !dup {
				idx[col] = i
			}
		}
	}
	var missing []string
	for _, c := range landing.Columns {
		if _, ok := idx[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		_ = rd.Close()
		return nil, perr.Newf(perr.ErrorCodeValidation, "csvfile: %s missing columns %s", name, strings.Join(missing, ", "))
	}
	rd.index = idx
	return rd, nil
}

// Next returns the next record or io.EOF
func (rd *Reader) Next() (landing.Record, error) {
	if rd.err != nil {
		return landing.Record{}, rd.err
	}
	for {
		row, err := rd.cr.Read()
		if errors.Is(err, io.EOF) {
			rd.err = io.EOF
			return landing.Record{}, io.EOF
		}
		rd.line++
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				rd.err = perr.Wrapf(err, perr.ErrorCodeValidation, "csvfile: %s record %d", rd.name, rd.line)
			} else {
				rd.err = perr.Wrapf(err, perr.ErrorCodeUnavailable, "csvfile: read %s", rd.name)
			}
			return landing.Record{}, rd.err
		}
		if blankRow(row) {
			continue
		}

		rec := landing.Record{Source: rd.name, Position: rd.line - 1}
		for col, i := range rd.index {
			if i < len(row) {
				rec.Set(col, landing.Cell(row[i]))
			} else {
				rec.Set(col, landing.Cell(""))
			}
		}
		rd.rows++

		if !rd.sampled {
			rd.sampled = true
			logger.Named("csvfile").Debug().
				Str("source", rd.name).
				Int("columns", len(row)).
				Str("sample_invoice", rec.Invoice.String()).
				Msg("csvfile: first data row")
		}
		return rec, nil
	}
}

// Close closes the codec and the underlying file
func (rd *Reader) Close() error {
	var first error
	if rd.gz != nil {
		if err := rd.gz.Close(); err != nil {
			first = err
		}
		rd.gz = nil
	}
	if rd.src != nil {
		if err := rd.src.Close(); err != nil && first == nil {
			first = err
		}
		rd.src = nil
	}
	return first
}

// Rows returns the number of data rows returned so far
func (rd *Reader) Rows() int64 { return rd.rows }

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
