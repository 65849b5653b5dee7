package ops

import (
	"blazedb/pkg/blazeerr"
	"blazedb/pkg/iterator"
	"blazedb/pkg/schema"
	"blazedb/pkg/tuple"
)

// Project narrows its child's tuples to a requested, ordered column list,
// renumbering the output schema from 0. When the requested columns are
// exactly the child's full width, the child tuple is forwarded unmodified.
type Project struct {
	*iterator.Unary
	columns  []string // requested, duplicates removed, order preserved
	childSch *schema.Schema
	outSch   *schema.Schema
	indices  []int // childSch index for each output column, or -1 if missing
	fastPath bool
}

// NewProject creates a Project over child, keeping columns (already
// deduplicated by the caller) looked up against childSch.
func NewProject(child iterator.Operator, columns []string, childSch *schema.Schema) (*Project, error) {
	if childSch == nil {
		return nil, blazeerr.New(blazeerr.InvariantViolation, "project requires a non-nil child schema")
	}

	p := &Project{
		columns:  columns,
		childSch: childSch,
		outSch:   schema.New(columns),
		indices:  make([]int, len(columns)),
		fastPath: len(columns) == childSch.Len(),
	}

	for i, c := range columns {
		if idx, ok := childSch.Index(c); ok {
			p.indices[i] = idx
			if p.fastPath && idx != i {
				p.fastPath = false
			}
		} else {
			p.indices[i] = -1
			p.fastPath = false
		}
	}

	u, err := iterator.NewUnary(child, p.readNext)
	if err != nil {
		return nil, err
	}
	p.Unary = u
	return p, nil
}

func (p *Project) readNext() (*tuple.Tuple, error) {
	t, err := p.FetchChild()
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, nil
	}

	if p.fastPath {
		return t, nil
	}

	fields := make([]string, len(p.indices))
	for i, idx := range p.indices {
		if idx < 0 {
			fields[i] = ""
			continue
		}
		v, err := t.Field(idx)
		if err != nil {
			return nil, err
		}
		fields[i] = v
	}
	return tuple.New(fields), nil
}

// Schema returns the re-numbered output schema.
func (p *Project) Schema() *schema.Schema { return p.outSch }
