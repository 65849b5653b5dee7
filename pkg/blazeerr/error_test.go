package blazeerr

import (
	"errors"
	"testing"
)

// ============================================================================
// CONSTRUCTION
// ============================================================================

func TestNew_SetsKindAndMessage(t *testing.T) {
	err := New(SchemaMiss, "column not found")
	if err.Kind != SchemaMiss {
		t.Errorf("Kind = %v, want %v", err.Kind, SchemaMiss)
	}
	if err.Message != "column not found" {
		t.Errorf("Message = %q, want %q", err.Message, "column not found")
	}
}

func TestNewf_FormatsMessage(t *testing.T) {
	err := Newf(ParseError, "unexpected token %q at %d", "FROM", 12)
	want := `unexpected token "FROM" at 12`
	if err.Message != want {
		t.Errorf("Message = %q, want %q", err.Message, want)
	}
}

// ============================================================================
// WRAP
// ============================================================================

func TestWrap_NilReturnsNil(t *testing.T) {
	if Wrap(nil, IoError, "Open", "catalog") != nil {
		t.Fatal("Wrap(nil, ...) should return nil")
	}
}

func TestWrap_PlainErrorBecomesBlazeerr(t *testing.T) {
	cause := errors.New("file not found")
	err := Wrap(cause, IoError, "Open", "catalog")

	if err.Kind != IoError {
		t.Errorf("Kind = %v, want %v", err.Kind, IoError)
	}
	if err.Operation != "Open" || err.Component != "catalog" {
		t.Errorf("Operation/Component = %q/%q, want Open/catalog", err.Operation, err.Component)
	}
	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to find the wrapped cause")
	}
}

func TestWrap_ExistingBlazeerrKeepsItsOwnKind(t *testing.T) {
	inner := New(SchemaMiss, "missing column")
	wrapped := Wrap(inner, IoError, "Scan", "csv")

	if wrapped.Kind != SchemaMiss {
		t.Errorf("Kind = %v, want %v (Wrap must not override an existing *Error's kind)", wrapped.Kind, SchemaMiss)
	}
	if wrapped.Operation != "Scan" || wrapped.Component != "csv" {
		t.Errorf("Wrap should fill in unset Operation/Component, got %q/%q", wrapped.Operation, wrapped.Component)
	}
}

// ============================================================================
// ERROR STRING / IS
// ============================================================================

func TestError_StringIncludesContext(t *testing.T) {
	err := &Error{Kind: TypeMismatch, Message: "bad operand", Operation: "Eval", Component: "expr"}
	got := err.Error()
	want := "[TypeMismatch] bad operand (operation: Eval, component: expr)"
	if got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestIs_MatchesKind(t *testing.T) {
	err := New(Unsupported, "OR is not supported")
	if !Is(err, Unsupported) {
		t.Error("expected Is to report true for a matching kind")
	}
	if Is(err, ParseError) {
		t.Error("expected Is to report false for a non-matching kind")
	}
}

func TestIs_FalseForNonBlazeerr(t *testing.T) {
	if Is(errors.New("plain error"), IoError) {
		t.Error("expected Is to report false for a non-*Error")
	}
}
