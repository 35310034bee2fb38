package flexdoc

import (
	"errors"
	"fmt"

	"github.com/lvillar/flexdoc/schema"
)

// Sentinel errors for common render failure conditions.
var (
	ErrInvalidPayload = errors.New("flexdoc: invalid payload")
	ErrNoSink         = errors.New("flexdoc: no draw sink provided")
)

// NodeError identifies a semantic problem at a specific node path in the
// input document. It is produced by payload validation.
type NodeError = schema.NodeError

// RenderError reports a failure of a specific render stage. It wraps the
// underlying error and names the stage for context.
type RenderError struct {
	Op  string // stage name, e.g. "decode", "layout", "paginate"
	Err error
}

func (e *RenderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("flexdoc.%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("flexdoc.%s: unknown error", e.Op)
}

func (e *RenderError) Unwrap() error { return e.Err }

func renderErr(op string, err error) *RenderError {
	return &RenderError{Op: op, Err: err}
}
