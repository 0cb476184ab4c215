// Package persistence holds the result type of best-effort storage operations.
//
// Settings and history writes must never block a download, so their stores
// report failures through Result instead of returning errors. A Result with a
// nil Err means the operation completed; a non-nil Err means a failure was
// observed and ignored.
package persistence

import "fmt"

// Result is the outcome of a best-effort operation on Path
type Result struct {
	Op   string
	Path string
	Err  error
}

// OK returns a Result for a completed operation
func OK(op, path string) Result {
	return Result{Op: op, Path: path}
}

// Ignored returns a Result recording a failure that was swallowed
func Ignored(op, path string, err error) Result {
	return Result{Op: op, Path: path, Err: err}
}

// Failed reports whether a failure was observed
func (r Result) Failed() bool {
	return r.Err != nil
}

func (r Result) String() string {
	if r.Err != nil {
		return fmt.Sprintf("%s %s: ignored failure: %v", r.Op, r.Path, r.Err)
	}
	return fmt.Sprintf("%s %s: ok", r.Op, r.Path)
}
