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

// Package passes implements the graph rewrite passes and the fixpoint
// pipeline driving them.
package passes

import (
	"github.com/cloudwego/graphopt/ir"
)

// Pass is a single rewrite pass. Apply reports whether it changed the
// graph; re-applying a pass to its own output must be a no-op, which keeps
// the fixpoint iteration in Run well-defined.
type Pass interface {
	Name() string
	Apply(g *ir.Graph) (bool, error)
}
