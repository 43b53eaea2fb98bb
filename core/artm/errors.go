package artm

import "errors"

// ErrInternal marks invariant violations that abort the current
// batch/model and terminate the worker.  ErrArgumentOutOfRange marks
// bad caller input, such as an unknown model name in a one-shot query.
var (
	ErrInternal           = errors.New("internal error")
	ErrArgumentOutOfRange = errors.New("argument out of range")
)
