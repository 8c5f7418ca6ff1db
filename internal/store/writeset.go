package store

import (
	"context"
	"fmt"
)

// PartialWriteError reports a write set that failed after at least one write
// had already been applied. The document store offers no cross-document
// transaction, so callers use Applied to decide how to reconcile, typically
// by flagging the budget for recalculation.
type PartialWriteError struct {
	Applied []string
	Failed  string
	Err     error
}

func (e *PartialWriteError) Error() string {
	return fmt.Sprintf("write %q failed after %d of %d writes applied: %v",
		e.Failed, len(e.Applied), len(e.Applied)+1, e.Err)
}

func (e *PartialWriteError) Unwrap() error {
	return e.Err
}

// WriteSet stages related document writes and applies them sequentially.
// A failure on the first write leaves the store untouched and returns the
// write's own error; a failure after that runs the reconcile hook and
// returns a PartialWriteError so the partial application is never silent.
type WriteSet struct {
	names     []string
	writes    []func(ctx context.Context) error
	reconcile func(ctx context.Context, applied []string)
}

// Stage appends a named write to the set. The name identifies the target
// document in errors and logs.
func (ws *WriteSet) Stage(name string, write func(ctx context.Context) error) {
	ws.names = append(ws.names, name)
	ws.writes = append(ws.writes, write)
}

// OnPartial registers a hook invoked when Apply fails part-way through,
// receiving the names of the writes that did land.
func (ws *WriteSet) OnPartial(reconcile func(ctx context.Context, applied []string)) {
	ws.reconcile = reconcile
}

// Apply runs the staged writes in order.
func (ws *WriteSet) Apply(ctx context.Context) error {
	for i, write := range ws.writes {
		err := write(ctx)
		if err == nil {
			continue
		}
		if i == 0 {
			return err
		}

		applied := ws.names[:i]
		if ws.reconcile != nil {
			ws.reconcile(ctx, applied)
		}
		return &PartialWriteError{Applied: applied, Failed: ws.names[i], Err: err}
	}
	return nil
}
