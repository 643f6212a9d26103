// Package search implements the evidence retrieval backends. Both backends
// share one contract so the orchestrator can try them in priority order.
package search

import (
	"context"

	"github.com/rickdevqrz/veredicto/internal/model"
)

// Result is the uniform outcome of one retrieval attempt.
// A disabled backend reports Attempted=false; that is a normal outcome,
// not an error.
type Result struct {
	Items     []model.Source
	Attempted bool
	OK        bool
	Provider  string
}

// Backend retrieves candidate evidence for a set of search seeds
type Backend interface {
	Name() string
	Enabled() bool
	Retrieve(ctx context.Context, seeds []string) Result
}
