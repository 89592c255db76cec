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
	"testing"

	"github.com/bytedance/gopkg/lang/fastrand"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"
)

func TestPermBasics(t *testing.T) {
	require.True(t, IdentityPerm(4).IsIdentity())
	require.True(t, Perm{0, 1, 2}.IsIdentity())
	require.False(t, Perm{0, 2, 1}.IsIdentity())

	require.True(t, Perm{0, 2, 3, 1}.Valid())
	require.False(t, Perm{0, 2, 3, 3}.Valid())
	require.False(t, Perm{0, 2, 4, 1}.Valid())

	require.Equal(t, Perm{0, 3, 1, 2}, Perm{0, 2, 3, 1}.Inverse())
	require.Equal(t, []int{2, 4, 5, 3}, Perm{0, 2, 3, 1}.Apply([]int{2, 3, 4, 5}))
}

func TestPermCompose(t *testing.T) {
	// transposing by p then by its inverse is a no-op
	p := Perm{0, 2, 3, 1}
	require.True(t, p.Compose(p.Inverse()).IsIdentity())
	require.True(t, p.Inverse().Compose(p).IsIdentity())

	// shape algebra: q.Apply(p.Apply(dims)) == p.Compose(q).Apply(dims)
	q := Perm{3, 1, 0, 2}
	dims := []int{2, 3, 4, 5}
	require.Equal(t, q.Apply(p.Apply(dims)), p.Compose(q).Apply(dims))
}

func genPerm() gopter.Gen {
	return gen.IntRange(1, 6).Map(func(n int) Perm {
		return Perm(fastrand.Perm(n))
	})
}

func TestPermProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("generated perms are valid bijections", prop.ForAll(
		func(p Perm) bool { return p.Valid() },
		genPerm(),
	))
	properties.Property("inverse composes to identity", prop.ForAll(
		func(p Perm) bool {
			return p.Compose(p.Inverse()).IsIdentity() && p.Inverse().Compose(p).IsIdentity()
		},
		genPerm(),
	))
	properties.Property("double inverse is the original", prop.ForAll(
		func(p Perm) bool { return p.Inverse().Inverse().Equal(p) },
		genPerm(),
	))
	properties.Property("apply then inverse-apply restores dims", prop.ForAll(
		func(p Perm) bool {
			dims := make([]int, len(p))
			for i := range dims {
				dims[i] = 1 + fastrand.Intn(7)
			}
			back := p.Inverse().Apply(p.Apply(dims))
			for i := range dims {
				if back[i] != dims[i] {
					return false
				}
			}
			return true
		},
		genPerm(),
	))

	properties.TestingRun(t)
}

func TestTensorPermute(t *testing.T) {
	x := NewFloatTensor([]int{2, 3}, []float64{
		1, 2, 3,
		4, 5, 6,
	})
	y, err := x.Permute(Perm{1, 0})
	require.NoError(t, err)
	require.Equal(t, []int{3, 2}, y.Dims)
	require.Equal(t, []float64{1, 4, 2, 5, 3, 6}, y.Floats)

	// inverse permutation restores the original layout
	back, err := y.Permute(Perm{1, 0})
	require.NoError(t, err)
	require.Equal(t, x.Dims, back.Dims)
	require.Equal(t, x.Floats, back.Floats)

	_, err = x.Permute(Perm{0, 1, 2})
	require.Error(t, err)
}

func TestTensorPermuteCompose(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("permute twice equals permute by composition", prop.ForAll(
		func(p Perm) bool {
			q := Perm(fastrand.Perm(len(p)))
			dims := make([]int, len(p))
			n := 1
			for i := range dims {
				dims[i] = 1 + fastrand.Intn(4)
				n *= dims[i]
			}
			data := make([]float64, n)
			for i := range data {
				data[i] = fastrand.Float64()
			}
			x := NewFloatTensor(dims, data)

			a, err := x.Permute(p)
			if err != nil {
				return false
			}
			if a, err = a.Permute(q); err != nil {
				return false
			}
			b, err := x.Permute(p.Compose(q))
			if err != nil {
				return false
			}
			if len(a.Floats) != len(b.Floats) {
				return false
			}
			for i := range a.Floats {
				if a.Floats[i] != b.Floats[i] {
					return false
				}
			}
			return true
		},
		genPerm(),
	))

	properties.TestingRun(t)
}
