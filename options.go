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

package graphopt

import (
	"fmt"

	"github.com/cloudwego/graphopt/internal/opts"
)

// Option is the property setter function for opts.Options.
type Option func(*opts.Options)

// WithMaxIterations sets the ceiling on full pipeline repetitions before
// Optimize gives up on reaching a fixpoint.
//
// The ceiling is a structural safety bound against runaway rewriting, not a
// wall-clock timeout. The default value of this option is "8", overridable
// through the GRAPHOPT_MAX_ITERATIONS environment variable.
func WithMaxIterations(n int) Option {
	if n < 1 {
		panic(fmt.Sprintf("graphopt: invalid iteration ceiling: %d", n))
	}
	return func(o *opts.Options) { o.MaxIterations = n }
}

// Registered pass names, for use with WithPasses.
const (
	PassTranspose = "transpose"
	PassIdentity  = "identity"
)

// WithPasses restricts the pipeline to the named passes, keeping the
// registered order. The default runs every registered pass.
func WithPasses(names ...string) Option {
	return func(o *opts.Options) { o.Passes = names }
}
