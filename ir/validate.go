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

package ir

import (
	"fmt"
)

// MalformedGraphError occurs when a graph violates a structural invariant,
// such as a dangling value reference or two producers for one value.
type MalformedGraphError struct {
	Graph  string
	Value  string
	Reason string
}

func (e MalformedGraphError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("MalformedGraphError(%s): value %q: %s", e.Graph, e.Value, e.Reason)
	}
	return fmt.Sprintf("MalformedGraphError(%s): %s", e.Graph, e.Reason)
}

// Validate checks the structural invariants of the graph and every body
// graph it owns: single producer per value, no dangling references, every
// declared output resolvable, and an acyclic node list.
func (g *Graph) Validate() error {
	return g.validate(nil)
}

func (g *Graph) validate(outer map[string]bool) error {
	defined := make(map[string]bool)

	/* graph inputs define values; a name may not be both an
	 * input and a node output */
	for _, v := range g.Inputs {
		if v.Name == "" {
			return MalformedGraphError{Graph: g.Name, Reason: "unnamed graph input"}
		}
		if defined[v.Name] {
			return MalformedGraphError{Graph: g.Name, Value: v.Name, Reason: "duplicate graph input"}
		}
		defined[v.Name] = true
	}
	for _, n := range g.Nodes {
		for _, out := range n.Outputs {
			if out == "" {
				return MalformedGraphError{Graph: g.Name, Reason: fmt.Sprintf("node %q has an unnamed output", n.Name)}
			}
			if defined[out] {
				return MalformedGraphError{Graph: g.Name, Value: out, Reason: "multiple producers"}
			}
			defined[out] = true
		}
	}

	/* every node input resolves in this graph or an ancestor scope */
	for _, n := range g.Nodes {
		for _, in := range n.Inputs {
			if in == "" {
				continue // optional input
			}
			if !defined[in] && !outer[in] {
				return MalformedGraphError{Graph: g.Name, Value: in, Reason: fmt.Sprintf("node %q reads an undefined value", n.Name)}
			}
		}
	}

	/* every declared output resolves to a node output or an input passthrough */
	for _, v := range g.Outputs {
		if !defined[v.Name] && !outer[v.Name] {
			return MalformedGraphError{Graph: g.Name, Value: v.Name, Reason: "graph output has no producer"}
		}
	}

	if _, err := g.TopoOrder(); err != nil {
		return err
	}

	/* body graphs resolve names against the enclosing scopes */
	scope := make(map[string]bool, len(outer)+len(defined))
	for k := range outer {
		scope[k] = true
	}
	for k := range defined {
		scope[k] = true
	}
	for _, n := range g.Nodes {
		for _, body := range n.Bodies() {
			if err := body.validate(scope); err != nil {
				return err
			}
		}
	}
	return nil
}
