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

// CountOps returns the number of surviving instances per operator type,
// including the nodes of every owned body graph. Absent operator types map
// to zero.
func (g *Graph) CountOps() map[string]int {
	c := make(map[string]int)
	g.countOps(c)
	return c
}

func (g *Graph) countOps(c map[string]int) {
	for _, n := range g.Nodes {
		c[n.Op]++
		for _, body := range n.Bodies() {
			body.countOps(c)
		}
	}
}
