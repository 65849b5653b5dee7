// Package catalog resolves table names to CSV file paths and qualified
// schemas. It replaces the "catalog resolves table name to CSV path and
// schema" external collaborator with a concrete, non-singleton value: an
// explicit *Catalog threaded through the planner, never package-level
// mutable state.
package catalog

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"blazedb/pkg/blazeerr"
	"blazedb/pkg/logging"
)

const component = "catalog"

// TableInfo is one resolved table: its CSV path and its ordered, qualified
// column list (Table.Column).
type TableInfo struct {
	Name    string
	Path    string
	Columns []string // qualified, e.g. "R.A"
}

// Catalog maps table names to their TableInfo. Every BlazeDB table is
// treated as a header-less CSV, qualified externally by schema.txt.
type Catalog struct {
	databaseDir string
	tables      map[string]TableInfo
}

// Load reads <databaseDir>/schema.txt and builds a Catalog. Each non-empty
// line is "TableName col1 col2 ... colN" (whitespace-separated); the CSV
// file for TableName is assumed to live at <databaseDir>/TableName.csv.
func Load(databaseDir string) (*Catalog, error) {
	schemaPath := filepath.Join(databaseDir, "schema.txt")

	f, err := os.Open(schemaPath)
	if err != nil {
		return nil, blazeerr.Wrap(err, blazeerr.IoError, "Load", component)
	}
	defer f.Close()

	tables := make(map[string]TableInfo)

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, blazeerr.Newf(blazeerr.ParseError, "malformed schema line %q: expected \"TableName col1 ... colN\"", line)
		}

		name := fields[0]
		cols := make([]string, len(fields)-1)
		for i, c := range fields[1:] {
			cols[i] = name + "." + c
		}

		tables[name] = TableInfo{
			Name:    name,
			Path:    filepath.Join(databaseDir, name+".csv"),
			Columns: cols,
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, blazeerr.Wrap(err, blazeerr.IoError, "Load", component)
	}

	logging.WithComponent(component).Debug("catalog loaded", "tables", len(tables), "dir", databaseDir)

	return &Catalog{databaseDir: databaseDir, tables: tables}, nil
}

// Resolve looks up a table by name, returning SchemaMiss if absent.
func (c *Catalog) Resolve(tableName string) (TableInfo, error) {
	info, ok := c.tables[tableName]
	if !ok {
		return TableInfo{}, blazeerr.Newf(blazeerr.SchemaMiss, "table %q not found in catalog", tableName)
	}
	return info, nil
}

// DatabaseDir returns the directory this catalog was loaded from.
func (c *Catalog) DatabaseDir() string {
	return c.databaseDir
}
