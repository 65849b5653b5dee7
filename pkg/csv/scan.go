// Package csv implements BlazeDB's only leaf operator: a sequential scan
// over a header-less (or, for completeness, headered) CSV file.
package csv

import (
	"bufio"
	"os"
	"strings"

	"blazedb/pkg/blazeerr"
	"blazedb/pkg/iterator"
	"blazedb/pkg/logging"
	"blazedb/pkg/schema"
	"blazedb/pkg/tuple"
)

const component = "csv.scan"

// Scan streams tuples from a single CSV file in storage order. Unlike every
// other operator it has no child: it owns a file handle directly and is the
// only operator that performs real I/O.
//
// In header mode, the first line is consumed as the column names (qualified
// by tableName) instead of emitted as a tuple. BlazeDB's catalog always
// supplies column names out of band (schema.txt), so in practice every scan
// built by the planner runs with header mode off; header mode is kept
// because the scan contract names it explicitly.
type Scan struct {
	base      *iterator.Base
	tableName string
	path      string
	header    bool
	sch       *schema.Schema

	f       *os.File
	scanner *bufio.Scanner
}

// New creates a Scan over the CSV file at path. If header is true, columns
// is ignored and the schema is derived from the file's first line qualified
// by tableName; otherwise columns must already be qualified (e.g.
// "Table.Column") and is used as-is.
func New(tableName, path string, header bool, columns []string) (*Scan, error) {
	if path == "" {
		return nil, blazeerr.New(blazeerr.InvariantViolation, "scan path cannot be empty")
	}

	s := &Scan{tableName: tableName, path: path, header: header}
	if !header {
		s.sch = schema.New(columns)
	}

	s.base = iterator.NewBase(s.readNext)
	return s, nil
}

// Open opens the underlying file and, in header mode, consumes the header
// line to build the schema.
func (s *Scan) Open() error {
	if err := s.openFile(); err != nil {
		return err
	}

	if s.header {
		if !s.scanner.Scan() {
			if err := s.scanner.Err(); err != nil {
				return blazeerr.Wrap(err, blazeerr.IoError, "Open", component)
			}
			return blazeerr.Newf(blazeerr.IoError, "missing header line in %q", s.path)
		}
		cols := splitRecord(s.scanner.Text())
		for i, c := range cols {
			cols[i] = s.tableName + "." + c
		}
		s.sch = schema.New(cols)
	}

	s.base.MarkOpened()
	return nil
}

func (s *Scan) openFile() error {
	f, err := os.Open(s.path)
	if err != nil {
		return blazeerr.Wrap(err, blazeerr.IoError, "Open", component)
	}
	s.f = f
	s.scanner = bufio.NewScanner(f)
	return nil
}

// readNext produces the next data tuple, or (nil, nil) at end-of-file.
func (s *Scan) readNext() (*tuple.Tuple, error) {
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			logging.WithComponent(component).Error("scan read failed", "path", s.path, "error", err)
			return nil, blazeerr.Wrap(err, blazeerr.IoError, "Next", component)
		}
		return nil, nil
	}
	return tuple.New(splitRecord(s.scanner.Text())), nil
}

// splitRecord splits a CSV line on commas and trims surrounding whitespace
// from each field.
func splitRecord(line string) []string {
	parts := strings.Split(line, ",")
	fields := make([]string, len(parts))
	for i, p := range parts {
		fields[i] = strings.TrimSpace(p)
	}
	return fields
}

// HasNext reports whether Next would produce a tuple.
func (s *Scan) HasNext() (bool, error) { return s.base.HasNext() }

// Next produces the next tuple.
func (s *Scan) Next() (*tuple.Tuple, error) { return s.base.Next() }

// Rewind closes and re-opens the file from the start, re-reading (and
// discarding) the header line in header mode.
func (s *Scan) Rewind() error {
	if err := s.closeFile(); err != nil {
		return err
	}
	if err := s.openFile(); err != nil {
		return err
	}
	if s.header {
		if !s.scanner.Scan() {
			if err := s.scanner.Err(); err != nil {
				return blazeerr.Wrap(err, blazeerr.IoError, "Rewind", component)
			}
		}
	}
	return s.base.Rewind()
}

// Close releases the file handle.
func (s *Scan) Close() error {
	if err := s.closeFile(); err != nil {
		return err
	}
	return s.base.Close()
}

func (s *Scan) closeFile() error {
	if s.f == nil {
		return nil
	}
	err := s.f.Close()
	s.f = nil
	s.scanner = nil
	if err != nil {
		return blazeerr.Wrap(err, blazeerr.IoError, "Close", component)
	}
	return nil
}

// Schema returns the schema mapping this scan produces.
func (s *Scan) Schema() *schema.Schema { return s.sch }
