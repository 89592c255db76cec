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

// Perm is an axis permutation: a bijection on [0, rank).
// A Transpose node with permutation p satisfies out.Dims[i] == in.Dims[p[i]].
type Perm []int

// IdentityPerm returns the identity permutation of the given rank.
func IdentityPerm(rank int) Perm {
	p := make(Perm, rank)
	for i := range p {
		p[i] = i
	}
	return p
}

// PermFromInts converts an int64 attribute list into a Perm.
func PermFromInts(v []int64) Perm {
	p := make(Perm, len(v))
	for i, x := range v {
		p[i] = int(x)
	}
	return p
}

// Valid reports whether p is a bijection on [0, len(p)).
func (p Perm) Valid() bool {
	seen := make([]bool, len(p))
	for _, x := range p {
		if x < 0 || x >= len(p) || seen[x] {
			return false
		}
		seen[x] = true
	}
	return true
}

// IsIdentity reports whether p is [0, 1, ..., rank-1].
func (p Perm) IsIdentity() bool {
	for i, x := range p {
		if x != i {
			return false
		}
	}
	return true
}

// Equal reports whether p and q are the same permutation.
func (p Perm) Equal(q Perm) bool {
	if len(p) != len(q) {
		return false
	}
	for i, x := range p {
		if x != q[i] {
			return false
		}
	}
	return true
}

// Compose returns the permutation of transposing by p first, then by q.
// It satisfies r[i] == p[q[i]], so that t_q(t_p(x)) == t_r(x).
func (p Perm) Compose(q Perm) Perm {
	if len(p) != len(q) {
		return nil
	}
	r := make(Perm, len(p))
	for i := range r {
		r[i] = p[q[i]]
	}
	return r
}

// Inverse returns the permutation q such that p.Compose(q) is the identity.
func (p Perm) Inverse() Perm {
	q := make(Perm, len(p))
	for i, x := range p {
		q[x] = i
	}
	return q
}

// Apply permutes a dimension vector: out[i] = dims[p[i]].
func (p Perm) Apply(dims []int) []int {
	if len(p) != len(dims) {
		return nil
	}
	out := make([]int, len(dims))
	for i, x := range p {
		out[i] = dims[x]
	}
	return out
}

// Ints converts p into an int64 list for use as an attribute or tensor value.
func (p Perm) Ints() []int64 {
	v := make([]int64, len(p))
	for i, x := range p {
		v[i] = int64(x)
	}
	return v
}
