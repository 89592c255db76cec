/*
 * Copyright 2025 CloudWeGo Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package graphopt rewrites a tensor computation graph into a semantically
// equivalent but cheaper one: mutually inverse transposes are cancelled,
// duplicate transposes merged, transposes relocated across transparent
// operators, and no-op passthrough nodes removed.
package graphopt

import (
	"github.com/cloudwego/graphopt/internal/opts"
	"github.com/cloudwego/graphopt/internal/passes"
	"github.com/cloudwego/graphopt/ir"
)

// Optimize rewrites the graph in place and returns it. The graph is
// validated before any pass runs; a malformed graph is rejected untouched.
//
// When the pass pipeline hits the iteration ceiling before reaching a
// fixpoint, the best graph obtained so far is returned together with a
// ConvergenceError: the result is still valid and semantically equivalent,
// just possibly not minimal.
func Optimize(g *ir.Graph, options ...Option) (*ir.Graph, error) {
	o := opts.GetDefaultOptions()
	for _, fn := range options {
		fn(&o)
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}

	iters, converged, err := passes.Run(g, o)
	if err != nil {
		return nil, err
	}
	if err := g.Sort(); err != nil {
		return nil, err
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}

	if !converged {
		return g, ConvergenceError{Iterations: iters}
	}
	return g, nil
}

// CountOps returns the number of surviving instances per operator type,
// including the nodes of nested body graphs. Callers verifying a pass use
// this to check a rewrite removed exactly the expected number of nodes.
func CountOps(g *ir.Graph) map[string]int {
	return g.CountOps()
}
