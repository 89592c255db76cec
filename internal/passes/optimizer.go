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

package passes

import (
	"github.com/cloudwego/graphopt/internal/opts"
	"github.com/cloudwego/graphopt/ir"
)

type _PassDescriptor struct {
	pass Pass
	desc string
}

var _passes = [...]_PassDescriptor{
	{desc: "Transpose Elimination", pass: new(TransposeElim)},
	{desc: "Identity Elimination", pass: new(IdentityElim)},
}

// Run applies the registered passes in order, repeating the full sequence
// while the last round produced any change. It returns the number of rounds
// used and whether a fixpoint was reached before the iteration ceiling.
func Run(g *ir.Graph, o opts.Options) (int, bool, error) {
	for i := 1; i <= o.MaxIterations; i++ {
		changed := false
		for _, d := range _passes {
			if !o.PassEnabled(d.pass.Name()) {
				continue
			}
			c, err := d.pass.Apply(g)
			if err != nil {
				return i, false, err
			}
			changed = changed || c
		}
		if !changed {
			return i, true, nil
		}
	}
	return o.MaxIterations, false, nil
}
