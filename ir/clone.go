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

// Clone returns a deep copy of the graph, including literal tensors and
// owned body graphs. The optimizer rewrites graphs in place; callers that
// need the original afterwards (for equivalence checking, for instance)
// optimize a clone.
func (g *Graph) Clone() *Graph {
	r := &Graph{
		Name:    g.Name,
		Nodes:   make([]*Node, 0, len(g.Nodes)),
		Inputs:  append([]ValueInfo(nil), g.Inputs...),
		Outputs: append([]ValueInfo(nil), g.Outputs...),
		nameseq: g.nameseq,
	}
	for _, n := range g.Nodes {
		r.Nodes = append(r.Nodes, n.clone())
	}
	return r
}

func (n *Node) clone() *Node {
	var attrs map[string]Attr
	if n.Attrs != nil {
		attrs = make(map[string]Attr, len(n.Attrs))
		for k, a := range n.Attrs {
			switch a.Kind {
			case AttrInts:
				a.Ints = append([]int64(nil), a.Ints...)
			case AttrTensor:
				if a.T != nil {
					a.T = a.T.Clone()
				}
			case AttrGraph:
				if a.G != nil {
					a.G = a.G.Clone()
				}
			}
			attrs[k] = a
		}
	}
	return NewNode(n.Op, n.Name, n.Inputs, n.Outputs, attrs)
}
