package ops

import (
	"testing"

	"blazedb/pkg/expr"
	"blazedb/pkg/schema"
)

// ============================================================================
// SORT TESTS
// ============================================================================

func TestSort_SingleKeyAscending(t *testing.T) {
	sch := schema.New([]string{"R.A"})
	child := newMockOperator(sch, [][]string{{"3"}, {"1"}, {"2"}})

	s, err := NewSort(child, []SortKey{{Expr: expr.NewColumn("R.A")}}, sch)
	if err != nil {
		t.Fatalf("NewSort: %v", err)
	}
	if err := s.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	var got []string
	for {
		has, err := s.HasNext()
		if err != nil {
			t.Fatalf("HasNext: %v", err)
		}
		if !has {
			break
		}
		row, err := s.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		got = append(got, row.String())
	}

	want := []string{"1", "2", "3"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("row %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSort_TiesBrokenByLaterKey(t *testing.T) {
	sch := schema.New([]string{"R.A", "R.B"})
	child := newMockOperator(sch, [][]string{
		{"1", "2"},
		{"1", "1"},
		{"0", "9"},
	})

	keys := []SortKey{
		{Expr: expr.NewColumn("R.A")},
		{Expr: expr.NewColumn("R.B"), Desc: true},
	}
	s, err := NewSort(child, keys, sch)
	if err != nil {
		t.Fatalf("NewSort: %v", err)
	}
	if err := s.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	var got []string
	for {
		has, _ := s.HasNext()
		if !has {
			break
		}
		row, _ := s.Next()
		got = append(got, row.String())
	}

	want := []string{"0, 9", "1, 2", "1, 1"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("row %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSort_RewindReMaterializesFromChild(t *testing.T) {
	sch := schema.New([]string{"R.A"})
	child := newMockOperator(sch, [][]string{{"2"}, {"1"}})

	s, err := NewSort(child, []SortKey{{Expr: expr.NewColumn("R.A")}}, sch)
	if err != nil {
		t.Fatalf("NewSort: %v", err)
	}
	if err := s.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	first, _ := s.Next()
	if got := first.String(); got != "1" {
		t.Fatalf("got %q, want %q", got, "1")
	}

	if err := s.Rewind(); err != nil {
		t.Fatalf("Rewind: %v", err)
	}

	again, err := s.Next()
	if err != nil {
		t.Fatalf("Next after rewind: %v", err)
	}
	if got := again.String(); got != "1" {
		t.Fatalf("got %q, want %q", got, "1")
	}
}
