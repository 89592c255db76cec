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

package graphopt_test

import (
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/cloudwego/graphopt"
	"github.com/cloudwego/graphopt/internal/eval"
	"github.com/cloudwego/graphopt/ir"
	"github.com/stretchr/testify/require"
)

const (
	rtol = 1e-7
	atol = 1e-5
)

var (
	permNHWC = ir.Perm{0, 2, 3, 1}
	permNCHW = ir.Perm{0, 3, 1, 2}
)

func randTensor(f *gofakeit.Faker, dims []int) *ir.Tensor {
	n := 1
	for _, d := range dims {
		n *= d
	}
	vals := make([]float64, n)
	for i := range vals {
		vals[i] = f.Float64Range(-2, 2)
	}
	return ir.NewFloatTensor(dims, vals)
}

// checkOptimized runs the full pipeline on the graph, asserts the surviving
// node counts, and verifies the rewritten graph still computes the same
// outputs as the original on random inputs.
func checkOptimized(t *testing.T, g *ir.Graph, want map[string]int) {
	t.Helper()
	before := g.Clone()

	_, err := graphopt.Optimize(g)
	require.NoError(t, err)

	counts := graphopt.CountOps(g)
	for op, n := range want {
		require.Equal(t, n, counts[op], "op %s", op)
	}

	f := gofakeit.New(42)
	feeds := make(map[string]*ir.Tensor)
	for _, v := range before.Inputs {
		require.Equal(t, ir.Float, v.Type, "fixtures feed float inputs only")
		feeds[v.Name] = randTensor(f, v.Shape)
	}
	ref, err := eval.RunNamed(before, feeds)
	require.NoError(t, err)
	got, err := eval.RunNamed(g, feeds)
	require.NoError(t, err)
	require.Len(t, got, len(ref))
	for name, r := range ref {
		require.NoError(t, eval.AllClose(r, got[name], rtol, atol), "output %s", name)
	}

	// a second run must change nothing
	again := graphopt.CountOps(g)
	_, err = graphopt.Optimize(g)
	require.NoError(t, err)
	require.Equal(t, again, graphopt.CountOps(g))
}

func sandwich(op string, attrs map[string]ir.Attr) *ir.Graph {
	return ir.NewGraph(op,
		[]*ir.Node{
			ir.NewTranspose("t1", "X", "Y", permNHWC),
			ir.NewNode(op, "mid", []string{"Y"}, []string{"Z"}, attrs),
			ir.NewTranspose("t2", "Z", "Z1", permNCHW),
		},
		[]ir.ValueInfo{{Name: "X", Type: ir.Float, Shape: []int{2, 3, 4, 5}}},
		[]ir.ValueInfo{{Name: "Z1", Type: ir.Float, Shape: []int{2, 3, 4, 5}}},
	)
}

func TestOptimizeTransposeRelu(t *testing.T) {
	checkOptimized(t, sandwich("Relu", nil), map[string]int{"Transpose": 0, "Relu": 1})
}

func TestOptimizeTransposeLeakyRelu(t *testing.T) {
	g := sandwich("LeakyRelu", map[string]ir.Attr{"alpha": ir.FloatAttr(0.1)})
	checkOptimized(t, g, map[string]int{"Transpose": 0, "LeakyRelu": 1})
}

func TestOptimizeMaxWithConstants(t *testing.T) {
	full := make([]float64, 2*4*5*3)
	f := gofakeit.New(7)
	for i := range full {
		full[i] = f.Float64Range(-2, 2)
	}
	g := ir.NewGraph("max",
		[]*ir.Node{
			ir.NewConstant("c1", "cv1", ir.FloatScalar(0.5)),
			ir.NewConstant("c2", "cv2", ir.NewFloatTensor([]int{2, 4, 5, 3}, full)),
			ir.NewTranspose("t1", "X", "Y", permNHWC),
			ir.NewNode("Max", "max", []string{"Y", "cv2", "cv1"}, []string{"Z"}, nil),
			ir.NewTranspose("t2", "Z", "Z1", permNCHW),
		},
		[]ir.ValueInfo{{Name: "X", Type: ir.Float, Shape: []int{2, 3, 4, 5}}},
		[]ir.ValueInfo{{Name: "Z1", Type: ir.Float, Shape: []int{2, 3, 4, 5}}},
	)
	checkOptimized(t, g, map[string]int{"Transpose": 0, "Max": 1, "Constant": 2})
}

func TestOptimizeMergeDuplicatedTransposes(t *testing.T) {
	// the consumers are opaque, so the duplicates merge but cannot cancel
	g := ir.NewGraph("merge",
		[]*ir.Node{
			ir.NewTranspose("t1", "X", "Y", permNHWC),
			ir.NewTranspose("t2", "X", "Y1", permNHWC),
			ir.NewNode("Conv", "c1", []string{"Y", "K"}, []string{"A"}, nil),
			ir.NewNode("Conv", "c2", []string{"Y1", "K"}, []string{"B"}, nil),
		},
		[]ir.ValueInfo{
			{Name: "X", Type: ir.Float, Shape: []int{2, 3, 4, 5}},
			{Name: "K", Type: ir.Float, Shape: []int{1, 1, 3, 3}},
		},
		[]ir.ValueInfo{{Name: "A", Type: ir.Float}, {Name: "B", Type: ir.Float}},
	)
	_, err := graphopt.Optimize(g)
	require.NoError(t, err)

	// Conv has no kernel in the reference interpreter, so only the shape of
	// the rewrite is checked here
	counts := graphopt.CountOps(g)
	require.Equal(t, 1, counts["Transpose"])
	require.Equal(t, 2, counts["Conv"])
	require.NoError(t, g.Validate())
}

func TestOptimizeShape(t *testing.T) {
	g := ir.NewGraph("shape",
		[]*ir.Node{
			ir.NewTranspose("t1", "X", "Y", permNHWC),
			ir.NewNode(ir.OpShape, "shape", []string{"Y"}, []string{"Z"}, nil),
		},
		[]ir.ValueInfo{{Name: "X", Type: ir.Float, Shape: []int{2, 3, 4, 5}}},
		[]ir.ValueInfo{{Name: "Z", Type: ir.Int64, Shape: []int{4}}},
	)
	checkOptimizedInt(t, g, map[string]int{"Transpose": 0, "Shape": 1, "Gather": 1})
}

// checkOptimizedInt is checkOptimized for fixtures with integer outputs.
func checkOptimizedInt(t *testing.T, g *ir.Graph, want map[string]int) {
	t.Helper()
	before := g.Clone()
	_, err := graphopt.Optimize(g)
	require.NoError(t, err)
	counts := graphopt.CountOps(g)
	for op, n := range want {
		require.Equal(t, n, counts[op], "op %s", op)
	}

	f := gofakeit.New(42)
	feeds := make(map[string]*ir.Tensor)
	for _, v := range before.Inputs {
		feeds[v.Name] = randTensor(f, v.Shape)
	}
	ref, err := eval.RunNamed(before, feeds)
	require.NoError(t, err)
	got, err := eval.RunNamed(g, feeds)
	require.NoError(t, err)
	for name, r := range ref {
		require.NoError(t, eval.AllClose(r, got[name], rtol, atol), "output %s", name)
	}
}

func TestOptimizeTransposePlusIdentity(t *testing.T) {
	// the identity collapses into the transpose; the transpose itself feeds
	// a graph output straight from a graph input and must survive
	g := ir.NewGraph("trid",
		[]*ir.Node{
			ir.NewTranspose("t1", "X", "Y", permNHWC),
			ir.NewNode(ir.OpIdentity, "id", []string{"Y"}, []string{"Z"}, nil),
		},
		[]ir.ValueInfo{{Name: "X", Type: ir.Float, Shape: []int{2, 3, 4, 5}}},
		[]ir.ValueInfo{{Name: "Z", Type: ir.Float, Shape: []int{2, 4, 5, 3}}},
	)
	checkOptimized(t, g, map[string]int{"Transpose": 1, "Identity": 0})
}

func TestOptimizeIdentityNonOutput(t *testing.T) {
	g := ir.NewGraph("mid",
		[]*ir.Node{
			ir.NewNode("Add", "add", []string{"X", "X"}, []string{"Y"}, nil),
			ir.NewNode(ir.OpIdentity, "id", []string{"Y"}, []string{"Z"}, nil),
			ir.NewNode("Relu", "relu", []string{"Z"}, []string{"W"}, nil),
		},
		[]ir.ValueInfo{{Name: "X", Type: ir.Float, Shape: []int{2, 3, 4, 5}}},
		[]ir.ValueInfo{{Name: "W", Type: ir.Float, Shape: []int{2, 3, 4, 5}}},
	)
	checkOptimized(t, g, map[string]int{"Identity": 0, "Add": 1, "Relu": 1})
}

func TestOptimizeIdentityUnremovable(t *testing.T) {
	g := ir.NewGraph("keep",
		[]*ir.Node{
			ir.NewNode(ir.OpIdentity, "id", []string{"X"}, []string{"Y"}, nil),
		},
		[]ir.ValueInfo{{Name: "X", Type: ir.Float, Shape: []int{2, 3, 4, 5}}},
		[]ir.ValueInfo{{Name: "Y", Type: ir.Float, Shape: []int{2, 3, 4, 5}}},
	)
	checkOptimized(t, g, map[string]int{"Identity": 1})
}

func TestOptimizeIdentityTwoOutputs(t *testing.T) {
	g := ir.NewGraph("twoout",
		[]*ir.Node{
			ir.NewNode("Add", "add", []string{"X", "X"}, []string{"Y"}, nil),
			ir.NewNode(ir.OpIdentity, "i1", []string{"Y"}, []string{"Z1"}, nil),
			ir.NewNode(ir.OpIdentity, "i2", []string{"Y"}, []string{"Z2"}, nil),
		},
		[]ir.ValueInfo{{Name: "X", Type: ir.Float, Shape: []int{2, 3, 4, 5}}},
		[]ir.ValueInfo{
			{Name: "Z1", Type: ir.Float, Shape: []int{2, 3, 4, 5}},
			{Name: "Z2", Type: ir.Float, Shape: []int{2, 3, 4, 5}},
		},
	)
	checkOptimized(t, g, map[string]int{"Identity": 1, "Add": 1})
}

func TestOptimizeIdentityInLoopBody(t *testing.T) {
	body := ir.NewGraph("body",
		[]*ir.Node{
			ir.NewNode("Add", "sub_add", []string{"v", "v"}, []string{"SubY"}, nil),
			ir.NewNode(ir.OpIdentity, "sub_i1", []string{"SubY"}, []string{"SubA"}, nil),
			ir.NewNode(ir.OpIdentity, "sub_i2", []string{"SubA"}, []string{"v_out"}, nil),
			ir.NewNode(ir.OpIdentity, "sub_i3", []string{"cond"}, []string{"cond_out"}, nil),
		},
		[]ir.ValueInfo{
			{Name: "iter", Type: ir.Int64, Shape: []int{1}},
			{Name: "cond", Type: ir.Bool},
			{Name: "v", Type: ir.Float},
		},
		[]ir.ValueInfo{
			{Name: "cond_out", Type: ir.Bool},
			{Name: "v_out", Type: ir.Float},
		},
	)
	g := ir.NewGraph("host",
		[]*ir.Node{
			ir.NewConstant("m", "M", ir.Int64Scalar(2)),
			ir.NewConstant("c", "C", ir.BoolScalar(true)),
			ir.NewNode(ir.OpLoop, "loop", []string{"M", "C", "X"}, []string{"F"}, map[string]ir.Attr{
				"body": ir.GraphAttr(body),
			}),
		},
		[]ir.ValueInfo{{Name: "X", Type: ir.Float, Shape: []int{2, 3}}},
		[]ir.ValueInfo{{Name: "F", Type: ir.Float, Shape: []int{2, 3}}},
	)
	checkOptimized(t, g, map[string]int{"Identity": 0, "Loop": 1, "Add": 1})
}

func TestOptimizeRejectsMalformedGraph(t *testing.T) {
	g := ir.NewGraph("bad",
		[]*ir.Node{
			ir.NewNode("Relu", "r1", []string{"X"}, []string{"Y"}, nil),
			ir.NewNode("Abs", "r2", []string{"X"}, []string{"Y"}, nil),
		},
		[]ir.ValueInfo{{Name: "X", Type: ir.Float}},
		[]ir.ValueInfo{{Name: "Y", Type: ir.Float}},
	)
	_, err := graphopt.Optimize(g)
	var me ir.MalformedGraphError
	require.ErrorAs(t, err, &me)
}

func TestOptimizeConvergenceCeiling(t *testing.T) {
	g := sandwich("Relu", nil)
	_, err := graphopt.Optimize(g, graphopt.WithMaxIterations(1))
	var ce graphopt.ConvergenceError
	require.ErrorAs(t, err, &ce)
	require.Equal(t, 1, ce.Iterations)

	// the partial result is still valid and still equivalent
	require.NoError(t, g.Validate())
}

func TestOptimizePassSelection(t *testing.T) {
	g := ir.NewGraph("sel",
		[]*ir.Node{
			ir.NewTranspose("t1", "X", "Y", permNHWC),
			ir.NewTranspose("t2", "Y", "Z", permNCHW),
			ir.NewNode(ir.OpIdentity, "id", []string{"Z"}, []string{"W"}, nil),
			ir.NewNode("Relu", "relu", []string{"W"}, []string{"R"}, nil),
		},
		[]ir.ValueInfo{{Name: "X", Type: ir.Float, Shape: []int{2, 3, 4, 5}}},
		[]ir.ValueInfo{{Name: "R", Type: ir.Float, Shape: []int{2, 3, 4, 5}}},
	)
	_, err := graphopt.Optimize(g, graphopt.WithPasses(graphopt.PassIdentity))
	require.NoError(t, err)
	counts := graphopt.CountOps(g)
	require.Equal(t, 2, counts["Transpose"])
	require.Equal(t, 0, counts["Identity"])
}

func TestWithMaxIterationsPanicsOnZero(t *testing.T) {
	require.Panics(t, func() { graphopt.WithMaxIterations(0) })
}
