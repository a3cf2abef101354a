// Package evaluators provides the built-in domain evaluators consumed by the
// recommendation strategy. Each evaluator covers one concern and is a pure
// function of the analysis context.
package evaluators

import "github.com/mvirta/fitpipe/internal/pipeline"

// All returns the evaluators in their canonical fan-out order. The order is
// fixed because it determines tie-break order for equally ranked
// recommendations.
func All() []pipeline.Evaluator {
	return []pipeline.Evaluator{
		Energy{},
		Soreness{},
		Focus{},
		Duration{},
		Equipment{},
		CrossComponent{},
	}
}
