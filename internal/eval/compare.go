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
	"gonum.org/v1/gonum/floats/scalar"
)

// AllClose checks that two tensors have the same element type and shape and
// equal values, with float elements compared within the given relative and
// absolute tolerances.
func AllClose(a *ir.Tensor, b *ir.Tensor, rtol float64, atol float64) error {
	if a.Kind != b.Kind {
		return fmt.Errorf("eval: element type mismatch: %s != %s", a.Kind, b.Kind)
	}
	if len(a.Dims) != len(b.Dims) {
		return fmt.Errorf("eval: shape mismatch: %v != %v", a.Dims, b.Dims)
	}
	for i := range a.Dims {
		if a.Dims[i] != b.Dims[i] {
			return fmt.Errorf("eval: shape mismatch: %v != %v", a.Dims, b.Dims)
		}
	}

	switch a.Kind {
	case ir.Float:
		for i := range a.Floats {
			if !scalar.EqualWithinAbsOrRel(a.Floats[i], b.Floats[i], atol, rtol) {
				return fmt.Errorf("eval: element %d differs: %v != %v", i, a.Floats[i], b.Floats[i])
			}
		}
	case ir.Int64:
		for i := range a.Ints {
			if a.Ints[i] != b.Ints[i] {
				return fmt.Errorf("eval: element %d differs: %d != %d", i, a.Ints[i], b.Ints[i])
			}
		}
	case ir.Bool:
		for i := range a.Bools {
			if a.Bools[i] != b.Bools[i] {
				return fmt.Errorf("eval: element %d differs: %v != %v", i, a.Bools[i], b.Bools[i])
			}
		}
	}
	return nil
}
