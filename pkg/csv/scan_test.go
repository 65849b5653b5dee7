package csv

import (
	"os"
	"path/filepath"
	"testing"
)

// ============================================================================
// HELPERS
// ============================================================================

func writeCSV(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writeCSV: %v", err)
	}
	return path
}

func drain(t *testing.T, s *Scan) []string {
	t.Helper()
	var got []string
	for {
		has, err := s.HasNext()
		if err != nil {
			t.Fatalf("HasNext: %v", err)
		}
		if !has {
			break
		}
		tup, err := s.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		got = append(got, tup.String())
	}
	return got
}

// ============================================================================
// HEADER-LESS MODE (the mode used by the catalog)
// ============================================================================

func TestScan_HeaderlessUsesExternalColumns(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "R.csv", "1, a\n2, b\n")

	s, err := New("R", path, false, []string{"R.A", "R.B"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	if got := s.Schema().Columns(); len(got) != 2 || got[0] != "R.A" || got[1] != "R.B" {
		t.Fatalf("unexpected schema: %v", got)
	}

	rows := drain(t, s)
	want := []string{"1, a", "2, b"}
	if len(rows) != len(want) {
		t.Fatalf("got %v, want %v", rows, want)
	}
	for i := range want {
		if rows[i] != want[i] {
			t.Errorf("row %d: got %q, want %q", i, rows[i], want[i])
		}
	}
}

func TestScan_TrimsWhitespacePerField(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "R.csv", "  1 ,  a  \n")

	s, err := New("R", path, false, []string{"R.A", "R.B"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	tup, err := s.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if got, _ := tup.Field(0); got != "1" {
		t.Errorf("field 0 = %q, want %q", got, "1")
	}
	if got, _ := tup.Field(1); got != "a" {
		t.Errorf("field 1 = %q, want %q", got, "a")
	}
}

// ============================================================================
// HEADER MODE
// ============================================================================

func TestScan_HeaderModeDerivesQualifiedSchema(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "R.csv", "A,B\n1,2\n")

	s, err := New("R", path, true, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	got := s.Schema().Columns()
	if len(got) != 2 || got[0] != "R.A" || got[1] != "R.B" {
		t.Fatalf("unexpected schema: %v", got)
	}

	rows := drain(t, s)
	if len(rows) != 1 || rows[0] != "1, 2" {
		t.Fatalf("unexpected rows: %v", rows)
	}
}

// ============================================================================
// RESET / ERROR HANDLING
// ============================================================================

func TestScan_RewindRestartsFromBeginning(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "R.csv", "1\n2\n")

	s, err := New("R", path, false, []string{"R.A"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	first := drain(t, s)
	if err := s.Rewind(); err != nil {
		t.Fatalf("Rewind: %v", err)
	}
	second := drain(t, s)

	if len(first) != len(second) {
		t.Fatalf("rewind produced different row count: %v vs %v", first, second)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("row %d differs after rewind: %q vs %q", i, first[i], second[i])
		}
	}
}

func TestScan_OpenMissingFileReturnsIoError(t *testing.T) {
	s, err := New("R", "/nonexistent/path/R.csv", false, []string{"R.A"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.Open(); err == nil {
		t.Fatal("expected Open to fail for a missing file")
	}
}
