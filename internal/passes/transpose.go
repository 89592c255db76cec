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
	"fmt"

	"github.com/cloudwego/graphopt/internal/ops"
	"github.com/cloudwego/graphopt/ir"
)

// TransposeElim cancels mutually inverse transpose pairs, merges duplicate
// transposes, and relocates transposes across transparent operators so that
// separated pairs can meet and cancel.
type TransposeElim struct{}

func (TransposeElim) Name() string {
	return "transpose"
}

func (self TransposeElim) Apply(g *ir.Graph) (bool, error) {
	changed := false

	/* body graphs first, so host-level rewrites see their final shape */
	for _, n := range g.Nodes {
		for _, body := range n.Bodies() {
			c, err := self.Apply(body)
			if err != nil {
				return changed, err
			}
			changed = changed || c
		}
	}

	/* local fixpoint: each round performs at most one rewrite and
	 * rescans, so no phase ever works from stale producer/consumer
	 * state */
	for {
		if self.mergeOne(g) || self.cancelOne(g) || self.pushOne(g) {
			changed = true
			continue
		}
		break
	}
	return changed, nil
}

func transposeOf(n *ir.Node) (ir.Perm, bool) {
	if n.Op != ir.OpTranspose || len(n.Inputs) != 1 || len(n.Outputs) != 1 {
		return nil, false
	}
	return n.Perm()
}

// mergeOne collapses two transposes sharing the same input value and the
// same permutation into one.
func (TransposeElim) mergeOne(g *ir.Graph) bool {
	type dupkey struct {
		in   string
		perm string
	}
	seen := make(map[dupkey]*ir.Node)

	for _, n := range g.Nodes {
		p, ok := transposeOf(n)
		if !ok {
			continue
		}
		k := dupkey{in: n.Inputs[0], perm: fmt.Sprint(p)}
		first := seen[k]
		if first == nil {
			seen[k] = n
			continue
		}

		/* keep whichever copy is bound to a graph output; when both
		 * are, neither may disappear */
		keep, victim := first, n
		if g.IsOutput(victim.Outputs[0]) {
			keep, victim = n, first
		}
		if g.IsOutput(victim.Outputs[0]) {
			continue
		}

		g.ReplaceConsumers(victim.Outputs[0], keep.Outputs[0])
		g.RemoveIfUnreferenced(victim)
		return true
	}
	return false
}

// cancelOne removes a transpose pair whose permutations compose to the
// identity, or fuses a non-inverse adjacent pair into a single transpose
// with the composed permutation.
func (TransposeElim) cancelOne(g *ir.Graph) bool {
	for _, t1 := range g.Nodes {
		p1, ok := transposeOf(t1)
		if !ok {
			continue
		}
		t2 := g.SoleConsumer(t1.Outputs[0])
		if t2 == nil {
			continue
		}
		p2, ok := transposeOf(t2)
		if !ok || len(p1) != len(p2) {
			continue
		}

		src, dst := t1.Inputs[0], t2.Outputs[0]
		r := p1.Compose(p2)

		if !r.IsIdentity() {
			/* fuse into one transpose with the composed permutation */
			t2.Inputs[0] = src
			t2.Attrs["perm"] = ir.PermAttr(r)
			g.RemoveIfUnreferenced(t1)
			return true
		}

		if !g.IsOutput(dst) {
			g.ReplaceConsumers(dst, src)
			g.RemoveNode(t2)
			g.RemoveIfUnreferenced(t1)
			return true
		}

		if g.IsBody() {
			/* body-graph outputs bind positionally, so the output
			 * entry itself can be retargeted at the pair's source */
			g.RemoveNode(t2)
			g.RemoveIfUnreferenced(t1)
			g.ReplaceConsumers(dst, src)
			_ = g.RebindOutput(dst, src)
			return true
		}

		/* dst is a declared root output: the pair may go only if the
		 * node feeding it can take over producing that exact name */
		if g.IsInput(src) || g.IsOutput(src) {
			continue
		}
		p := g.Producer(src)
		if p == nil {
			continue
		}
		g.RemoveNode(t2)
		g.RemoveIfUnreferenced(t1)
		_ = g.RenameOutput(p, src, dst)
		return true
	}
	return false
}

// pushOne relocates a transpose to the far side of its sole transparent
// consumer.
func (self TransposeElim) pushOne(g *ir.Graph) bool {
	for _, t := range g.Nodes {
		p, ok := transposeOf(t)
		if !ok {
			continue
		}
		c := g.SoleConsumer(t.Outputs[0])
		if c == nil {
			continue
		}
		switch ops.Lookup(c.Op) {
		case ops.UnaryTransparent:
			if len(c.Inputs) == 1 && len(c.Outputs) == 1 {
				self.pushUnary(g, t, c)
				return true
			}
		case ops.BroadcastTransparent:
			if len(c.Outputs) == 1 && self.pushBroadcast(g, t, c, p) {
				return true
			}
		case ops.ShapeRewrite:
			if len(c.Inputs) == 1 && len(c.Outputs) == 1 {
				self.pushShape(g, t, c, p)
				return true
			}
		}
	}
	return false
}

// pushUnary swaps a transpose with an elementwise unary operator: the
// operator reads the transpose's input and the transpose re-produces the
// operator's old output name, so downstream consumers are untouched.
func (TransposeElim) pushUnary(g *ir.Graph, t *ir.Node, c *ir.Node) {
	x, z := t.Inputs[0], c.Outputs[0]
	m := g.UniqueName(c.Name)
	c.Inputs[0] = x
	c.Outputs[0] = m
	t.Inputs[0] = m
	t.Outputs[0] = z
}

// pushBroadcast relocates a transpose below an n-ary elementwise operator.
// Every sibling input must carry an equal-permutation transpose or be a
// permutable constant; otherwise the rewrite is skipped. No rewrite ever
// introduces a transpose on a bare non-constant operand.
func (TransposeElim) pushBroadcast(g *ir.Graph, t *ir.Node, c *ir.Node, p ir.Perm) bool {
	type action struct {
		idx   int
		trans *ir.Node   // sibling transpose to bypass
		konst *ir.Node   // constant producer
		value *ir.Tensor // permuted constant value, nil to keep as is
	}
	plan := make([]action, 0, len(c.Inputs))
	inv := p.Inverse()

	/* plan first: the graph is only mutated once every operand is known
	 * to be rewritable */
	for i, in := range c.Inputs {
		prod := g.Producer(in)
		if prod == nil {
			return false // graph input or outer-scope binding
		}
		if q, ok := transposeOf(prod); ok && q.Equal(p) {
			plan = append(plan, action{idx: i, trans: prod})
			continue
		}
		if prod.Op != ir.OpConstant {
			return false
		}
		val := prod.Value()
		if val == nil {
			return false
		}
		if val.Numel() == 1 {
			plan = append(plan, action{idx: i, konst: prod})
			continue
		}
		if val.Rank() != len(p) {
			return false // partially broadcast constant, leave alone
		}
		pv, err := val.Permute(inv)
		if err != nil {
			return false
		}
		plan = append(plan, action{idx: i, konst: prod, value: pv})
	}

	removed := make(map[*ir.Node]bool)
	for _, a := range plan {
		switch {
		case a.trans != nil:
			c.Inputs[a.idx] = a.trans.Inputs[0]
			removed[a.trans] = true
		case a.value != nil:
			in := c.Inputs[a.idx]
			if g.SoleConsumer(in) == c {
				/* constants are rewritten at optimization time
				 * instead of gaining a runtime transpose */
				a.konst.Attrs["value"] = ir.TensorAttr(a.value)
			} else {
				nk := ir.NewConstant(g.UniqueName(a.konst.Name), g.UniqueName(in), a.value)
				g.Append(nk)
				c.Inputs[a.idx] = nk.Outputs[0]
			}
		}
	}

	/* re-emit the transpose on the far side, keeping the operator's old
	 * output name on the transpose so consumers stay wired */
	z := c.Outputs[0]
	m := g.UniqueName(c.Name)
	c.Outputs[0] = m
	g.Append(ir.NewTranspose(g.UniqueName(t.Name), m, z, p))
	for tr := range removed {
		g.RemoveIfUnreferenced(tr)
	}
	return true
}

// pushShape eliminates a transpose feeding a Shape operator: the output of
// Shape(Transpose(x)) is just a permutation of the dimension vector of x,
// recovered with a Gather over a constant index list.
func (TransposeElim) pushShape(g *ir.Graph, t *ir.Node, c *ir.Node, p ir.Perm) {
	z := c.Outputs[0]
	m := g.UniqueName(c.Name)
	c.Inputs[0] = t.Inputs[0]
	c.Outputs[0] = m

	perm := g.UniqueName(c.Name + "_perm")
	g.Append(ir.NewConstant(g.UniqueName(c.Name+"_perm"), perm, ir.NewInt64Tensor([]int{len(p)}, p.Ints())))
	g.Append(ir.NewNode(ir.OpGather, g.UniqueName(c.Name+"_gather"), []string{m, perm}, []string{z}, map[string]ir.Attr{
		"axis": ir.IntAttr(0),
	}))
	g.RemoveIfUnreferenced(t)
}
