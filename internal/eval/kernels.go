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

package eval

import (
	"fmt"
	"math"

	"github.com/cloudwego/graphopt/ir"
	"gonum.org/v1/gonum/floats"
)

func apply(n *ir.Node, args []*ir.Tensor, sc *scope) ([]*ir.Tensor, error) {
	switch n.Op {
	case ir.OpConstant:
		v := n.Value()
		if v == nil {
			return nil, fmt.Errorf("eval: constant %q has no value", n.Name)
		}
		return []*ir.Tensor{v}, nil

	case ir.OpIdentity:
		return []*ir.Tensor{args[0]}, nil

	case ir.OpTranspose:
		p, ok := n.Perm()
		if !ok {
			return nil, fmt.Errorf("eval: transpose %q has no valid perm", n.Name)
		}
		t, err := args[0].Permute(p)
		if err != nil {
			return nil, err
		}
		return []*ir.Tensor{t}, nil

	case "Relu":
		return unary(args[0], func(x float64) float64 { return math.Max(x, 0) })
	case "LeakyRelu":
		alpha := 0.01
		if a, ok := n.Attrs["alpha"]; ok && a.Kind == ir.AttrFloat {
			alpha = a.F
		}
		return unary(args[0], func(x float64) float64 {
			if x < 0 {
				return alpha * x
			}
			return x
		})
	case "Sigmoid":
		return unary(args[0], func(x float64) float64 { return 1 / (1 + math.Exp(-x)) })
	case "Tanh":
		return unary(args[0], math.Tanh)
	case "Exp":
		return unary(args[0], math.Exp)
	case "Neg":
		return unary(args[0], func(x float64) float64 { return -x })
	case "Abs":
		return unary(args[0], math.Abs)
	case "Sqrt":
		return unary(args[0], math.Sqrt)
	case "Ceil":
		return unary(args[0], math.Ceil)
	case "Floor":
		return unary(args[0], math.Floor)

	case "Add", "Sum":
		return nary(n, args, 1, func(x, y float64) float64 { return x + y })
	case "Sub":
		return nary(n, args, 2, func(x, y float64) float64 { return x - y })
	case "Mul":
		return nary(n, args, 2, func(x, y float64) float64 { return x * y })
	case "Div":
		return nary(n, args, 2, func(x, y float64) float64 { return x / y })
	case "Max":
		return nary(n, args, 1, math.Max)
	case "Min":
		return nary(n, args, 1, math.Min)

	case ir.OpShape:
		dims := make([]int64, args[0].Rank())
		for i, d := range args[0].Dims {
			dims[i] = int64(d)
		}
		return []*ir.Tensor{ir.NewInt64Tensor([]int{len(dims)}, dims)}, nil

	case ir.OpGather:
		return gather(n, args[0], args[1])

	case ir.OpLoop:
		return runLoop(n, args, sc)

	default:
		return nil, fmt.Errorf("eval: unsupported operator %q (node %q)", n.Op, n.Name)
	}
}

func unary(t *ir.Tensor, f func(float64) float64) ([]*ir.Tensor, error) {
	if t.Kind != ir.Float {
		return nil, fmt.Errorf("eval: unary operator needs a float tensor, got %s", t.Kind)
	}
	r := t.Clone()
	for i, x := range r.Floats {
		r.Floats[i] = f(x)
	}
	return []*ir.Tensor{r}, nil
}

func nary(n *ir.Node, args []*ir.Tensor, minArity int, f func(float64, float64) float64) ([]*ir.Tensor, error) {
	if len(args) < minArity {
		return nil, fmt.Errorf("eval: %s %q needs at least %d inputs", n.Op, n.Name, minArity)
	}
	for _, a := range args {
		if a.Kind != ir.Float {
			return nil, fmt.Errorf("eval: %s %q needs float inputs, got %s", n.Op, n.Name, a.Kind)
		}
	}

	acc := args[0]
	for _, b := range args[1:] {
		if fast := sameShapeFast(n.Op, acc, b); fast != nil {
			acc = fast
			continue
		}
		r, err := broadcastBinary(f, acc, b)
		if err != nil {
			return nil, err
		}
		acc = r
	}
	if len(args) == 1 {
		acc = acc.Clone()
	}
	return []*ir.Tensor{acc}, nil
}

// sameShapeFast handles the common no-broadcast case with gonum vectorized
// kernels; it returns nil when shapes differ or the op has no gonum form.
func sameShapeFast(op string, a *ir.Tensor, b *ir.Tensor) *ir.Tensor {
	if len(a.Dims) != len(b.Dims) {
		return nil
	}
	for i := range a.Dims {
		if a.Dims[i] != b.Dims[i] {
			return nil
		}
	}
	r := a.Clone()
	switch op {
	case "Add", "Sum":
		floats.Add(r.Floats, b.Floats)
	case "Sub":
		floats.Sub(r.Floats, b.Floats)
	case "Mul":
		floats.Mul(r.Floats, b.Floats)
	case "Div":
		floats.Div(r.Floats, b.Floats)
	default:
		return nil
	}
	return r
}

// gather implements Gather along axis 0 with scalar or 1-D indices, which
// covers the dimension-vector permutations emitted by the transpose pass.
func gather(n *ir.Node, data *ir.Tensor, indices *ir.Tensor) ([]*ir.Tensor, error) {
	if a, ok := n.Attrs["axis"]; ok && a.Kind == ir.AttrInt && a.I != 0 {
		return nil, fmt.Errorf("eval: gather %q: only axis 0 is supported", n.Name)
	}
	if indices.Kind != ir.Int64 || indices.Rank() > 1 {
		return nil, fmt.Errorf("eval: gather %q: indices must be scalar or 1-D int64", n.Name)
	}
	if data.Rank() == 0 {
		return nil, fmt.Errorf("eval: gather %q: data must have rank >= 1", n.Name)
	}

	rows := data.Dims[0]
	rowsz := data.Numel() / rows
	var dims []int
	if indices.Rank() == 1 {
		dims = append([]int{len(indices.Ints)}, data.Dims[1:]...)
	} else {
		dims = append([]int(nil), data.Dims[1:]...)
	}

	out := &ir.Tensor{Kind: data.Kind, Dims: dims}
	switch data.Kind {
	case ir.Float:
		out.Floats = make([]float64, len(indices.Ints)*rowsz)
	case ir.Int64:
		out.Ints = make([]int64, len(indices.Ints)*rowsz)
	case ir.Bool:
		out.Bools = make([]bool, len(indices.Ints)*rowsz)
	}
	for i, ix := range indices.Ints {
		if ix < 0 {
			ix += int64(rows)
		}
		if ix < 0 || ix >= int64(rows) {
			return nil, fmt.Errorf("eval: gather %q: index %d out of range [0, %d)", n.Name, ix, rows)
		}
		lo, hi := int(ix)*rowsz, (int(ix)+1)*rowsz
		switch data.Kind {
		case ir.Float:
			copy(out.Floats[i*rowsz:], data.Floats[lo:hi])
		case ir.Int64:
			copy(out.Ints[i*rowsz:], data.Ints[lo:hi])
		case ir.Bool:
			copy(out.Bools[i*rowsz:], data.Bools[lo:hi])
		}
	}
	return []*ir.Tensor{out}, nil
}

// runLoop implements trip-count/condition loop semantics: body inputs are
// (iteration, condition, carried...), body outputs are (condition,
// carried...). Scan outputs are not supported.
func runLoop(n *ir.Node, args []*ir.Tensor, sc *scope) ([]*ir.Tensor, error) {
	a, ok := n.Attrs["body"]
	if !ok || a.Kind != ir.AttrGraph || a.G == nil {
		return nil, fmt.Errorf("eval: loop %q has no body graph", n.Name)
	}
	body := a.G

	if len(args) < 2 {
		return nil, fmt.Errorf("eval: loop %q needs trip count and condition inputs", n.Name)
	}
	carried := args[2:]
	k := len(carried)
	if len(n.Outputs) != k {
		return nil, fmt.Errorf("eval: loop %q: scan outputs are not supported", n.Name)
	}
	if len(body.Inputs) != k+2 || len(body.Outputs) != k+1 {
		return nil, fmt.Errorf("eval: loop %q: body must take %d inputs and yield %d outputs", n.Name, k+2, k+1)
	}

	trip, err := scalarInt(args[0])
	if err != nil {
		return nil, fmt.Errorf("eval: loop %q: %w", n.Name, err)
	}
	cond, err := scalarBool(args[1])
	if err != nil {
		return nil, fmt.Errorf("eval: loop %q: %w", n.Name, err)
	}

	for i := int64(0); i < trip && cond; i++ {
		feeds := map[string]*ir.Tensor{
			body.Inputs[0].Name: ir.Int64Scalar(i),
			body.Inputs[1].Name: ir.BoolScalar(cond),
		}
		for j, c := range carried {
			feeds[body.Inputs[2+j].Name] = c
		}
		outs, err := run(body, feeds, sc)
		if err != nil {
			return nil, err
		}
		if cond, err = scalarBool(outs[0]); err != nil {
			return nil, fmt.Errorf("eval: loop %q: %w", n.Name, err)
		}
		carried = outs[1:]
	}
	return carried, nil
}

func scalarInt(t *ir.Tensor) (int64, error) {
	if t.Kind != ir.Int64 || t.Numel() != 1 {
		return 0, fmt.Errorf("expected a single-element int64 tensor")
	}
	return t.Ints[0], nil
}

func scalarBool(t *ir.Tensor) (bool, error) {
	if t.Kind != ir.Bool || t.Numel() != 1 {
		return false, fmt.Errorf("expected a single-element bool tensor")
	}
	return t.Bools[0], nil
}
