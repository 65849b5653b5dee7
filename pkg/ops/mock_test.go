package ops

import (
	"blazedb/pkg/blazeerr"
	"blazedb/pkg/schema"
	"blazedb/pkg/tuple"
)

// mockOperator feeds a fixed slice of tuples to the operator under test,
// mirroring the teacher's mockChildIterator.
type mockOperator struct {
	rows     [][]string
	sch      *schema.Schema
	index    int
	isOpen   bool
	hasError bool
}

func newMockOperator(sch *schema.Schema, rows [][]string) *mockOperator {
	return &mockOperator{sch: sch, rows: rows, index: -1}
}

func (m *mockOperator) Open() error {
	if m.hasError {
		return blazeerr.New(blazeerr.IoError, "mock open error")
	}
	m.isOpen = true
	m.index = -1
	return nil
}

func (m *mockOperator) Close() error {
	m.isOpen = false
	return nil
}

func (m *mockOperator) HasNext() (bool, error) {
	if !m.isOpen {
		return false, blazeerr.New(blazeerr.InvariantViolation, "mock operator not open")
	}
	return m.index+1 < len(m.rows), nil
}

func (m *mockOperator) Next() (*tuple.Tuple, error) {
	if !m.isOpen {
		return nil, blazeerr.New(blazeerr.InvariantViolation, "mock operator not open")
	}
	m.index++
	if m.index >= len(m.rows) {
		return nil, blazeerr.New(blazeerr.InvariantViolation, "no more tuples")
	}
	return tuple.New(m.rows[m.index]), nil
}

func (m *mockOperator) Rewind() error {
	if !m.isOpen {
		return blazeerr.New(blazeerr.InvariantViolation, "mock operator not open")
	}
	m.index = -1
	return nil
}

func (m *mockOperator) Schema() *schema.Schema { return m.sch }
