package testutil

import "testing"

func TestEqualLineSets_IgnoresOrder(t *testing.T) {
	got := "b, 2\na, 1\n"
	want := "a, 1\nb, 2\n"

	ok, msg := EqualLineSets(got, want)
	if !ok {
		t.Fatalf("expected equal line sets, got diff: %s", msg)
	}
}

func TestEqualLineSets_TrimsWhitespace(t *testing.T) {
	ok, _ := EqualLineSets("  a, 1  \n", "a, 1\n")
	if !ok {
		t.Fatal("expected trimmed lines to compare equal")
	}
}

func TestEqualLineSets_DetectsCountMismatch(t *testing.T) {
	ok, msg := EqualLineSets("a, 1\na, 1\n", "a, 1\n")
	if ok {
		t.Fatal("expected mismatch: duplicate line on one side only")
	}
	if msg == "" {
		t.Fatal("expected a diagnostic message on mismatch")
	}
}

func TestEqualLineSets_DetectsContentMismatch(t *testing.T) {
	ok, _ := EqualLineSets("a, 1\n", "a, 2\n")
	if ok {
		t.Fatal("expected mismatch: different line content")
	}
}

func TestEqualLineSets_IgnoresBlankLines(t *testing.T) {
	ok, _ := EqualLineSets("a, 1\n\n", "a, 1\n")
	if !ok {
		t.Fatal("expected blank lines to be ignored")
	}
}
