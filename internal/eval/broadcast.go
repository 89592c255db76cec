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

	"github.com/cloudwego/graphopt/ir"
)

// broadcastDims merges two shapes under multidirectional broadcast rules:
// shapes align at the trailing axis, and each axis pair must be equal or
// contain a 1.
func broadcastDims(a []int, b []int) ([]int, error) {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	out := make([]int, n)
	for i := 0; i < n; i++ {
		da, db := 1, 1
		if i >= n-len(a) {
			da = a[i-(n-len(a))]
		}
		if i >= n-len(b) {
			db = b[i-(n-len(b))]
		}
		switch {
		case da == db:
			out[i] = da
		case da == 1:
			out[i] = db
		case db == 1:
			out[i] = da
		default:
			return nil, fmt.Errorf("eval: shapes %v and %v do not broadcast", a, b)
		}
	}
	return out, nil
}

// broadcastStrides returns per-output-axis strides into a tensor of the
// given dims, with 0 for broadcast (size-1 or missing) axes.
func broadcastStrides(dims []int, out []int) []int {
	full := make([]int, len(out))
	acc := 1
	off := len(out) - len(dims)
	for i := len(dims) - 1; i >= 0; i-- {
		if dims[i] != 1 {
			full[off+i] = acc
		}
		acc *= dims[i]
	}
	return full
}

// broadcastBinary applies f elementwise over two float tensors under
// broadcast rules.
func broadcastBinary(f func(x float64, y float64) float64, a *ir.Tensor, b *ir.Tensor) (*ir.Tensor, error) {
	dims, err := broadcastDims(a.Dims, b.Dims)
	if err != nil {
		return nil, err
	}
	out := &ir.Tensor{Kind: ir.Float, Dims: dims}
	out.Floats = make([]float64, out.Numel())

	sa := broadcastStrides(a.Dims, dims)
	sb := broadcastStrides(b.Dims, dims)
	idx := make([]int, len(dims))
	for i := range out.Floats {
		ia, ib := 0, 0
		for k, x := range idx {
			ia += x * sa[k]
			ib += x * sb[k]
		}
		out.Floats[i] = f(a.Floats[ia], b.Floats[ib])
		for k := len(idx) - 1; k >= 0; k-- {
			idx[k]++
			if idx[k] < dims[k] {
				break
			}
			idx[k] = 0
		}
	}
	return out, nil
}
