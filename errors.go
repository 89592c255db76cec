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

package graphopt

import (
	"fmt"
)

// ConvergenceError occurs when the pass pipeline hits its iteration ceiling
// without reaching a fixpoint. It is a warning, not a failure: Optimize
// still returns the best graph obtained so far.
type ConvergenceError struct {
	Iterations int
}

func (e ConvergenceError) Error() string {
	return fmt.Sprintf("ConvergenceError: no fixpoint after %d iterations", e.Iterations)
}
