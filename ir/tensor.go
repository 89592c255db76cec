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

// DataType is the element type of a tensor value.
type DataType uint8

const (
	Invalid DataType = iota
	Float
	Int64
	Bool
)

func (t DataType) String() string {
	switch t {
	case Float:
		return "float"
	case Int64:
		return "int64"
	case Bool:
		return "bool"
	default:
		return "invalid"
	}
}

// Tensor is a dense literal tensor. Exactly one of the backing slices is
// populated, according to Kind, and its length equals Numel().
type Tensor struct {
	Kind   DataType
	Dims   []int
	Floats []float64
	Ints   []int64
	Bools  []bool
}

// NewFloatTensor builds a float tensor from dims and row-major data.
func NewFloatTensor(dims []int, data []float64) *Tensor {
	return &Tensor{Kind: Float, Dims: dims, Floats: data}
}

// NewInt64Tensor builds an int64 tensor from dims and row-major data.
func NewInt64Tensor(dims []int, data []int64) *Tensor {
	return &Tensor{Kind: Int64, Dims: dims, Ints: data}
}

// NewBoolTensor builds a bool tensor from dims and row-major data.
func NewBoolTensor(dims []int, data []bool) *Tensor {
	return &Tensor{Kind: Bool, Dims: dims, Bools: data}
}

// FloatScalar builds a rank-0 float tensor.
func FloatScalar(v float64) *Tensor {
	return &Tensor{Kind: Float, Floats: []float64{v}}
}

// Int64Scalar builds a rank-0 int64 tensor.
func Int64Scalar(v int64) *Tensor {
	return &Tensor{Kind: Int64, Ints: []int64{v}}
}

// BoolScalar builds a rank-0 bool tensor.
func BoolScalar(v bool) *Tensor {
	return &Tensor{Kind: Bool, Bools: []bool{v}}
}

// Rank returns the number of axes.
func (t *Tensor) Rank() int {
	return len(t.Dims)
}

// Numel returns the number of elements.
func (t *Tensor) Numel() int {
	n := 1
	for _, d := range t.Dims {
		n *= d
	}
	return n
}

// Strides returns the row-major strides of t.
func (t *Tensor) Strides() []int {
	s := make([]int, len(t.Dims))
	acc := 1
	for i := len(t.Dims) - 1; i >= 0; i-- {
		s[i] = acc
		acc *= t.Dims[i]
	}
	return s
}

// Clone returns a deep copy of t.
func (t *Tensor) Clone() *Tensor {
	r := &Tensor{Kind: t.Kind, Dims: append([]int(nil), t.Dims...)}
	switch t.Kind {
	case Float:
		r.Floats = append([]float64(nil), t.Floats...)
	case Int64:
		r.Ints = append([]int64(nil), t.Ints...)
	case Bool:
		r.Bools = append([]bool(nil), t.Bools...)
	}
	return r
}

// Permute returns the transpose of t by the permutation p, so that
// out.Dims[i] == t.Dims[p[i]].
func (t *Tensor) Permute(p Perm) (*Tensor, error) {
	if len(p) != len(t.Dims) {
		return nil, fmt.Errorf("ir: permutation rank %d does not match tensor rank %d", len(p), len(t.Dims))
	}
	if !p.Valid() {
		return nil, fmt.Errorf("ir: invalid permutation %v", p)
	}
	r := &Tensor{Kind: t.Kind, Dims: p.Apply(t.Dims)}
	switch t.Kind {
	case Float:
		r.Floats = make([]float64, len(t.Floats))
	case Int64:
		r.Ints = make([]int64, len(t.Ints))
	case Bool:
		r.Bools = make([]bool, len(t.Bools))
	}

	/* map every output index back to the source element */
	n := t.Numel()
	src := t.Strides()
	dst := r.Strides()
	idx := make([]int, len(r.Dims))
	for i := 0; i < n; i++ {
		di, si := 0, 0
		for k, x := range idx {
			di += x * dst[k]
			si += x * src[p[k]]
		}
		switch t.Kind {
		case Float:
			r.Floats[di] = t.Floats[si]
		case Int64:
			r.Ints[di] = t.Ints[si]
		case Bool:
			r.Bools[di] = t.Bools[si]
		}
		for k := len(idx) - 1; k >= 0; k-- {
			idx[k]++
			if idx[k] < r.Dims[k] {
				break
			}
			idx[k] = 0
		}
	}
	return r, nil
}
