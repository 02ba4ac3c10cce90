package evaluator

import (
	"fmt"

	"github.com/thomasrohde/fp/pkg/diagnostics"
)

// DefaultMaxDepth bounds nested user-defined calls when Budget.MaxDepth
// is zero. It keeps runaway recursion well below the Go stack limit.
const DefaultMaxDepth = 100000

// Budget holds the resource limits for one top-level application.
type Budget struct {
	// MaxSteps bounds the number of nodes executed. Nil means unlimited.
	MaxSteps *int64
	// MaxDepth bounds nested user-defined calls. Zero means DefaultMaxDepth.
	MaxDepth int
}

// BudgetTracker tracks resource consumption during an application.
type BudgetTracker struct {
	Steps int64
}

func (ev *Evaluator) step() {
	ev.tracker.Steps++
	if limit := ev.opts.Budget.MaxSteps; limit != nil && ev.tracker.Steps > *limit {
		panic(&diagnostics.FatalError{
			Code:    diagnostics.EBudget,
			Message: fmt.Sprintf("step budget exceeded (max %d)", *limit),
		})
	}
}

func (ev *Evaluator) enter() {
	limit := ev.opts.Budget.MaxDepth
	if limit <= 0 {
		limit = DefaultMaxDepth
	}
	if ev.depth >= limit {
		panic(&diagnostics.FatalError{
			Code:    diagnostics.EBudget,
			Message: fmt.Sprintf("call depth exceeded (max %d)", limit),
		})
	}
	ev.depth++
}
