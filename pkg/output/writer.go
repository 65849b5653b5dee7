// Package output drives the root operator to exhaustion and serializes its
// tuples to a writer in BlazeDB's output format.
package output

import (
	"bufio"
	"context"
	"io"

	"blazedb/pkg/blazeerr"
	"blazedb/pkg/iterator"
	"blazedb/pkg/logging"
)

const component = "output"

// Write pulls from root until exhausted, writing one line per tuple: fields
// joined by ", ", followed by a newline. ctx is checked between tuples only
// — no operator currently checks it mid-row, so this is forward-looking
// plumbing for a future cancellable driver, not a behavioral requirement
// today.
func Write(ctx context.Context, root iterator.Operator, w io.Writer) error {
	bw := bufio.NewWriter(w)
	rows := 0

	for {
		select {
		case <-ctx.Done():
			return blazeerr.Wrap(ctx.Err(), blazeerr.IoError, "Write", component)
		default:
		}

		has, err := root.HasNext()
		if err != nil {
			return err
		}
		if !has {
			break
		}

		t, err := root.Next()
		if err != nil {
			return err
		}

		if _, err := bw.WriteString(t.String()); err != nil {
			return blazeerr.Wrap(err, blazeerr.IoError, "Write", component)
		}
		if err := bw.WriteByte('\n'); err != nil {
			return blazeerr.Wrap(err, blazeerr.IoError, "Write", component)
		}
		rows++
	}

	if err := bw.Flush(); err != nil {
		return blazeerr.Wrap(err, blazeerr.IoError, "Write", component)
	}

	logging.WithComponent(component).Debug("query output written", "rows", rows)
	return nil
}
