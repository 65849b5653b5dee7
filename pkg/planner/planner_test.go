package planner

import (
	"os"
	"path/filepath"
	"testing"

	"blazedb/pkg/catalog"
	"blazedb/pkg/parser"
)

// ============================================================================
// HELPERS
// ============================================================================

func setupDatabase(t *testing.T, files map[string]string, schemaLines string) *catalog.Catalog {
	t.Helper()
	dir := t.TempDir()

	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "schema.txt"), []byte(schemaLines), 0o644); err != nil {
		t.Fatalf("writing schema.txt: %v", err)
	}

	cat, err := catalog.Load(dir)
	if err != nil {
		t.Fatalf("catalog.Load: %v", err)
	}
	return cat
}

func drainPlan(t *testing.T, p *Plan) []string {
	t.Helper()
	if err := p.Root.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer p.Root.Close()

	var rows []string
	for {
		has, err := p.Root.HasNext()
		if err != nil {
			t.Fatalf("HasNext: %v", err)
		}
		if !has {
			break
		}
		row, err := p.Root.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		rows = append(rows, row.String())
	}
	return rows
}

// ============================================================================
// SCAN + SELECT
// ============================================================================

func TestBuild_SimpleSelectWithWhere(t *testing.T) {
	cat := setupDatabase(t,
		map[string]string{"R.csv": "1, a\n2, b\n3, c\n"},
		"R A B\n",
	)

	stmt, err := parser.Parse("SELECT R.A FROM R WHERE R.A > 1")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	plan, err := Build(stmt, cat)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	got := drainPlan(t, plan)
	want := []string{"2", "3"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("row %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestBuild_SelectStar(t *testing.T) {
	cat := setupDatabase(t,
		map[string]string{"R.csv": "1, a\n"},
		"R A B\n",
	)

	stmt, err := parser.Parse("SELECT * FROM R")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	plan, err := Build(stmt, cat)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	got := drainPlan(t, plan)
	if len(got) != 1 || got[0] != "1, a" {
		t.Fatalf("got %v", got)
	}
}

// ============================================================================
// JOIN
// ============================================================================

func TestBuild_JoinWithEquiPredicate(t *testing.T) {
	cat := setupDatabase(t,
		map[string]string{
			"R.csv": "1\n2\n",
			"S.csv": "1, x\n2, y\n3, z\n",
		},
		"R A\nS A V\n",
	)

	stmt, err := parser.Parse("SELECT R.A, S.V FROM R JOIN S ON R.A = S.A")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	plan, err := Build(stmt, cat)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	got := drainPlan(t, plan)
	want := []string{"1, x", "2, y"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("row %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestBuild_ThreeTableWherePredicateIsRejected(t *testing.T) {
	cat := setupDatabase(t,
		map[string]string{
			"R.csv": "1\n",
			"S.csv": "1\n",
			"T.csv": "1\n",
		},
		"R A\nS A\nT A\n",
	)

	stmt, err := parser.Parse("SELECT R.A FROM R JOIN S ON R.A = S.A JOIN T ON S.A = T.A WHERE R.A + S.A = T.A")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if _, err := Build(stmt, cat); err == nil {
		t.Fatal("expected a planner error for a predicate spanning three tables")
	}
}

// ============================================================================
// DISTINCT / AGGREGATION / ORDER BY
// ============================================================================

func TestBuild_Distinct(t *testing.T) {
	cat := setupDatabase(t,
		map[string]string{"R.csv": "1\n1\n2\n"},
		"R A\n",
	)

	stmt, err := parser.Parse("SELECT DISTINCT R.A FROM R")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	plan, err := Build(stmt, cat)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	got := drainPlan(t, plan)
	want := []string{"1", "2"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestBuild_UngroupedSum(t *testing.T) {
	cat := setupDatabase(t,
		map[string]string{"R.csv": "1\n2\n3\n"},
		"R A\n",
	)

	stmt, err := parser.Parse("SELECT SUM(R.A) FROM R")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	plan, err := Build(stmt, cat)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	got := drainPlan(t, plan)
	if len(got) != 1 || got[0] != "6" {
		t.Fatalf("got %v, want [6]", got)
	}
}

func TestBuild_OrderByDescending(t *testing.T) {
	cat := setupDatabase(t,
		map[string]string{"R.csv": "1\n3\n2\n"},
		"R A\n",
	)

	stmt, err := parser.Parse("SELECT R.A FROM R ORDER BY R.A DESC")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	plan, err := Build(stmt, cat)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	got := drainPlan(t, plan)
	want := []string{"3", "2", "1"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("row %d: got %q, want %q", i, got[i], want[i])
		}
	}
}
