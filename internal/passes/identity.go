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
	"github.com/cloudwego/graphopt/ir"
)

// IdentityElim removes no-op passthrough nodes without breaking the
// output-preservation invariant: every declared graph output keeps a
// producer after every rewrite.
type IdentityElim struct{}

func (IdentityElim) Name() string {
	return "identity"
}

func (self IdentityElim) Apply(g *ir.Graph) (bool, error) {
	changed := false

	/* recurse into control-flow bodies: an identity that only carries a
	 * loop value through unchanged lives in the body graph and must be
	 * judged against the body's own inputs and outputs */
	for _, n := range g.Nodes {
		for _, body := range n.Bodies() {
			c, err := self.Apply(body)
			if err != nil {
				return changed, err
			}
			changed = changed || c
		}
	}

	for {
		if self.removeOne(g) {
			changed = true
			continue
		}
		break
	}
	return changed, nil
}

func (IdentityElim) removeOne(g *ir.Graph) bool {
	for _, n := range g.Nodes {
		if n.Op != ir.OpIdentity || len(n.Inputs) != 1 || len(n.Outputs) != 1 {
			continue
		}
		in, out := n.Inputs[0], n.Outputs[0]
		if in == out {
			continue
		}

		if !g.IsOutput(out) {
			/* pure passthrough: consumers read the input directly */
			g.ReplaceConsumers(out, in)
			g.RemoveIfUnreferenced(n)
			return true
		}

		if g.IsBody() {
			/* body-graph outputs bind positionally; the entry is
			 * retargeted at the identity's input, which may itself
			 * be a body input (passthrough) */
			g.ReplaceConsumers(out, in)
			g.RemoveNode(n)
			_ = g.RebindOutput(out, in)
			return true
		}

		/* the identity produces a declared root output: it goes only if
		 * the upstream node can take over producing that name. A graph
		 * input cannot (the root contract forbids exposing an input
		 * directly as an output), and a value that is already another
		 * declared output cannot be aliased onto this one. */
		if g.IsInput(in) || g.IsOutput(in) {
			continue
		}
		p := g.Producer(in)
		if p == nil {
			continue
		}
		g.RemoveNode(n)
		_ = g.RenameOutput(p, in, out)
		return true
	}
	return false
}
