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

// Package ops maps operator types to the capabilities consulted by the
// rewrite passes. The catalogue is closed: anything not listed is opaque,
// which biases the optimizer towards correctness over opportunity.
package ops

// Capability describes how a transpose may be relocated across an operator.
type Capability uint8

const (
	// Opaque operators block transpose relocation entirely.
	Opaque Capability = iota

	// UnaryTransparent operators act identically on every element
	// regardless of axis order, so a transpose commutes with them.
	UnaryTransparent

	// BroadcastTransparent operators combine same-shape or broadcastable
	// tensors elementwise; a transpose relocates across them when every
	// sibling input carries an equivalent transpose or is a permutable
	// constant.
	BroadcastTransparent

	// ShapeRewrite operators compute a function of the input's shape
	// rather than its values; a leading transpose becomes a permutation
	// of the resulting dimension vector.
	ShapeRewrite
)

func (c Capability) String() string {
	switch c {
	case UnaryTransparent:
		return "unary-transparent"
	case BroadcastTransparent:
		return "broadcast-transparent"
	case ShapeRewrite:
		return "shape-rewrite"
	default:
		return "opaque"
	}
}

var _table = map[string]Capability{
	"Identity":  UnaryTransparent,
	"Relu":      UnaryTransparent,
	"LeakyRelu": UnaryTransparent,
	"Sigmoid":   UnaryTransparent,
	"Tanh":      UnaryTransparent,
	"Exp":       UnaryTransparent,
	"Neg":       UnaryTransparent,
	"Abs":       UnaryTransparent,
	"Sqrt":      UnaryTransparent,
	"Ceil":      UnaryTransparent,
	"Floor":     UnaryTransparent,

	"Add": BroadcastTransparent,
	"Sub": BroadcastTransparent,
	"Mul": BroadcastTransparent,
	"Div": BroadcastTransparent,
	"Max": BroadcastTransparent,
	"Min": BroadcastTransparent,
	"Sum": BroadcastTransparent,

	"Shape": ShapeRewrite,
}

// Lookup returns the capability of the operator type. Unknown operator
// types are opaque.
func Lookup(op string) Capability {
	return _table[op]
}
