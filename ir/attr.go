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

// AttrKind discriminates the variants of Attr.
type AttrKind uint8

const (
	AttrInvalid AttrKind = iota
	AttrInt
	AttrFloat
	AttrInts
	AttrTensor
	AttrGraph
)

// Attr is a node attribute: a scalar, an int list, a literal tensor, or an
// owned body graph for control-flow operators.
type Attr struct {
	Kind AttrKind
	I    int64
	F    float64
	Ints []int64
	T    *Tensor
	G    *Graph
}

func IntAttr(v int64) Attr      { return Attr{Kind: AttrInt, I: v} }
func FloatAttr(v float64) Attr  { return Attr{Kind: AttrFloat, F: v} }
func IntsAttr(v ...int64) Attr  { return Attr{Kind: AttrInts, Ints: v} }
func TensorAttr(t *Tensor) Attr { return Attr{Kind: AttrTensor, T: t} }
func GraphAttr(g *Graph) Attr   { return Attr{Kind: AttrGraph, G: g} }

// PermAttr builds the "perm" attribute of a Transpose node.
func PermAttr(p Perm) Attr {
	return Attr{Kind: AttrInts, Ints: p.Ints()}
}
