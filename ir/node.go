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

// Well-known operator type tags consulted by the optimizer itself. The full
// catalogue is open: any other tag is carried through untouched.
const (
	OpTranspose = "Transpose"
	OpIdentity  = "Identity"
	OpConstant  = "Constant"
	OpShape     = "Shape"
	OpGather    = "Gather"
	OpLoop      = "Loop"
)

// Node is one operator instance: a type tag, ordered input and output value
// names, and a set of named attributes.
type Node struct {
	Name    string
	Op      string
	Inputs  []string
	Outputs []string
	Attrs   map[string]Attr
}

// NewNode builds a node. Body graphs passed as graph attributes are bound to
// the node as their host.
func NewNode(op string, name string, inputs []string, outputs []string, attrs map[string]Attr) *Node {
	n := &Node{
		Name:    name,
		Op:      op,
		Inputs:  append([]string(nil), inputs...),
		Outputs: append([]string(nil), outputs...),
		Attrs:   attrs,
	}
	for _, a := range attrs {
		if a.Kind == AttrGraph && a.G != nil {
			a.G.host = n
		}
	}
	return n
}

// NewConstant builds a Constant node producing the given literal tensor.
func NewConstant(name string, output string, value *Tensor) *Node {
	return NewNode(OpConstant, name, nil, []string{output}, map[string]Attr{
		"value": TensorAttr(value),
	})
}

// NewTranspose builds a Transpose node with the given permutation.
func NewTranspose(name string, input string, output string, perm Perm) *Node {
	return NewNode(OpTranspose, name, []string{input}, []string{output}, map[string]Attr{
		"perm": PermAttr(perm),
	})
}

// Perm returns the "perm" attribute of a Transpose node, or false when the
// node carries no valid permutation.
func (n *Node) Perm() (Perm, bool) {
	a, ok := n.Attrs["perm"]
	if !ok || a.Kind != AttrInts {
		return nil, false
	}
	p := PermFromInts(a.Ints)
	if !p.Valid() {
		return nil, false
	}
	return p, true
}

// Value returns the "value" attribute of a Constant node, or nil.
func (n *Node) Value() *Tensor {
	if a, ok := n.Attrs["value"]; ok && a.Kind == AttrTensor {
		return a.T
	}
	return nil
}

// Bodies returns every body graph owned by n, in no particular order.
func (n *Node) Bodies() []*Graph {
	var r []*Graph
	for _, a := range n.Attrs {
		if a.Kind == AttrGraph && a.G != nil {
			r = append(r, a.G)
		}
	}
	return r
}

// Reads reports whether n consumes the named value.
func (n *Node) Reads(value string) bool {
	for _, in := range n.Inputs {
		if in == value {
			return true
		}
	}
	return false
}

// Produces reports whether n produces the named value.
func (n *Node) Produces(value string) bool {
	for _, out := range n.Outputs {
		if out == value {
			return true
		}
	}
	return false
}
