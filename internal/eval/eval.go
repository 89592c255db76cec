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

// Package eval is a reference interpreter for the graph IR. It exists to
// verify that an optimized graph computes the same outputs as the original;
// the optimizer itself never executes anything.
package eval

import (
	"fmt"

	"github.com/cloudwego/graphopt/ir"
)

// scope is one level of value bindings. Body graphs resolve names through
// their parent scopes, which models outer-scope references of control-flow
// bodies as explicit lookups.
type scope struct {
	parent *scope
	vals   map[string]*ir.Tensor
}

func (s *scope) lookup(name string) (*ir.Tensor, bool) {
	for c := s; c != nil; c = c.parent {
		if t, ok := c.vals[name]; ok {
			return t, true
		}
	}
	return nil, false
}

func (s *scope) bind(name string, t *ir.Tensor) {
	s.vals[name] = t
}

// Run executes the graph with the given input bindings and returns the
// output tensors in declared output order.
func Run(g *ir.Graph, feeds map[string]*ir.Tensor) ([]*ir.Tensor, error) {
	return run(g, feeds, nil)
}

func run(g *ir.Graph, feeds map[string]*ir.Tensor, parent *scope) ([]*ir.Tensor, error) {
	sc := &scope{parent: parent, vals: make(map[string]*ir.Tensor)}
	for _, v := range g.Inputs {
		t, ok := feeds[v.Name]
		if !ok {
			return nil, fmt.Errorf("eval: missing feed for graph input %q", v.Name)
		}
		sc.bind(v.Name, t)
	}

	order, err := g.TopoOrder()
	if err != nil {
		return nil, err
	}
	for _, n := range order {
		args := make([]*ir.Tensor, len(n.Inputs))
		for i, in := range n.Inputs {
			if in == "" {
				continue
			}
			t, ok := sc.lookup(in)
			if !ok {
				return nil, fmt.Errorf("eval: node %q reads unbound value %q", n.Name, in)
			}
			args[i] = t
		}
		outs, err := apply(n, args, sc)
		if err != nil {
			return nil, err
		}
		if len(outs) != len(n.Outputs) {
			return nil, fmt.Errorf("eval: node %q produced %d values, declared %d", n.Name, len(outs), len(n.Outputs))
		}
		for i, out := range n.Outputs {
			sc.bind(out, outs[i])
		}
	}

	r := make([]*ir.Tensor, len(g.Outputs))
	for i, v := range g.Outputs {
		t, ok := sc.lookup(v.Name)
		if !ok {
			return nil, fmt.Errorf("eval: graph output %q has no binding", v.Name)
		}
		r[i] = t
	}
	return r, nil
}

// RunNamed is Run keyed by output name, for callers comparing graphs whose
// output order is not significant.
func RunNamed(g *ir.Graph, feeds map[string]*ir.Tensor) (map[string]*ir.Tensor, error) {
	outs, err := Run(g, feeds)
	if err != nil {
		return nil, err
	}
	m := make(map[string]*ir.Tensor, len(outs))
	for i, v := range g.Outputs {
		m[v.Name] = outs[i]
	}
	return m, nil
}
