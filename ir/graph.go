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

// ValueInfo declares the name, element type and shape of a graph input or
// output. A shape entry of -1 means the dimension is unknown; a nil shape
// means the rank is unknown.
type ValueInfo struct {
	Name  string
	Type  DataType
	Shape []int
}

// Graph is an ordered collection of nodes with named inputs and outputs.
//
// A graph owned by a host node (a control-flow body) binds its outputs
// positionally: the output names are local and may be rebound by the
// optimizer. The root graph's output names are part of the caller contract
// and are never rebound.
type Graph struct {
	Name    string
	Nodes   []*Node
	Inputs  []ValueInfo
	Outputs []ValueInfo

	host    *Node
	nameseq int
}

// NewGraph builds a graph from a node list and declared inputs/outputs.
func NewGraph(name string, nodes []*Node, inputs []ValueInfo, outputs []ValueInfo) *Graph {
	return &Graph{
		Name:    name,
		Nodes:   nodes,
		Inputs:  inputs,
		Outputs: outputs,
	}
}

// Host returns the node owning this graph as a body, or nil for the root.
func (g *Graph) Host() *Node {
	return g.host
}

// IsBody reports whether g is a body graph owned by a host node.
func (g *Graph) IsBody() bool {
	return g.host != nil
}

// IsInput reports whether the named value is a declared graph input.
func (g *Graph) IsInput(value string) bool {
	for _, v := range g.Inputs {
		if v.Name == value {
			return true
		}
	}
	return false
}

// IsOutput reports whether the named value is a declared graph output.
func (g *Graph) IsOutput(value string) bool {
	for _, v := range g.Outputs {
		if v.Name == value {
			return true
		}
	}
	return false
}

// Producer returns the node producing the named value, or nil when the value
// is a graph input or is not defined in this graph.
func (g *Graph) Producer(value string) *Node {
	for _, n := range g.Nodes {
		if n.Produces(value) {
			return n
		}
	}
	return nil
}

// Consumers returns the nodes reading the named value, in node-list order.
// A node appears once even if it reads the value through several inputs.
func (g *Graph) Consumers(value string) []*Node {
	var r []*Node
	for _, n := range g.Nodes {
		if n.Reads(value) {
			r = append(r, n)
		}
	}
	return r
}

// SoleConsumer returns the single node reading the named value, or nil when
// there are zero or two-plus consumers or the value is a graph output.
func (g *Graph) SoleConsumer(value string) *Node {
	if g.IsOutput(value) {
		return nil
	}
	c := g.Consumers(value)
	if len(c) == 1 {
		return c[0]
	}
	return nil
}

// ConsumerMap builds a map from value name to all nodes consuming it.
func (g *Graph) ConsumerMap() map[string][]*Node {
	m := make(map[string][]*Node)
	for _, n := range g.Nodes {
		seen := make(map[string]bool, len(n.Inputs))
		for _, in := range n.Inputs {
			if in == "" || seen[in] {
				continue
			}
			seen[in] = true
			m[in] = append(m[in], n)
		}
	}
	return m
}

// ReplaceConsumers rewires every node input reading old to read new, and
// returns the number of rewired edges. Graph-output bindings are not
// touched; body graphs rebind those through RebindOutput.
func (g *Graph) ReplaceConsumers(old string, new string) int {
	c := 0
	for _, n := range g.Nodes {
		for i, in := range n.Inputs {
			if in == old {
				n.Inputs[i] = new
				c++
			}
		}
	}
	return c
}

// RebindOutput retargets a positional output binding of a body graph from
// old to new. It fails on the root graph, whose output names are fixed.
func (g *Graph) RebindOutput(old string, new string) error {
	if !g.IsBody() {
		return fmt.Errorf("ir: cannot rebind output %q of root graph %q", old, g.Name)
	}
	for i := range g.Outputs {
		if g.Outputs[i].Name == old {
			g.Outputs[i].Name = new
			return nil
		}
	}
	return fmt.Errorf("ir: no output %q in graph %q", old, g.Name)
}

// RenameOutput renames one output value of a node, rewiring every consumer
// of the old name to the new one. The declared graph outputs are left as is:
// the caller uses this to make a node produce a declared output name
// directly.
func (g *Graph) RenameOutput(n *Node, old string, new string) error {
	hit := false
	for i, out := range n.Outputs {
		if out == old {
			n.Outputs[i] = new
			hit = true
		}
	}
	if !hit {
		return fmt.Errorf("ir: node %q has no output %q", n.Name, old)
	}
	g.ReplaceConsumers(old, new)
	return nil
}

// RemoveIfUnreferenced drops the node when none of its outputs is consumed
// by another node or bound to a graph output. It is a no-op, not an error,
// when the node is still observably needed.
func (g *Graph) RemoveIfUnreferenced(n *Node) bool {
	for _, out := range n.Outputs {
		if g.IsOutput(out) || len(g.Consumers(out)) > 0 {
			return false
		}
	}
	g.RemoveNode(n)
	return true
}

// RemoveNode unconditionally drops the node from the node list.
func (g *Graph) RemoveNode(n *Node) {
	nodes := g.Nodes[:0]
	for _, x := range g.Nodes {
		if x != n {
			nodes = append(nodes, x)
		}
	}
	g.Nodes = nodes
}

// Append adds a node to the node list. The list is re-sorted topologically
// once the optimizer finishes, so insertion position does not matter.
func (g *Graph) Append(n *Node) {
	g.Nodes = append(g.Nodes, n)
}

// UniqueName derives a fresh value/node name from base, avoiding every name
// currently used in the graph.
func (g *Graph) UniqueName(base string) string {
	used := make(map[string]bool)
	for _, v := range g.Inputs {
		used[v.Name] = true
	}
	for _, v := range g.Outputs {
		used[v.Name] = true
	}
	for _, n := range g.Nodes {
		used[n.Name] = true
		for _, out := range n.Outputs {
			used[out] = true
		}
	}
	for {
		g.nameseq++
		name := fmt.Sprintf("%s__%d", base, g.nameseq)
		if !used[name] {
			return name
		}
	}
}
