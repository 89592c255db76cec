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
	"github.com/oleiade/lane"
)

// TopoOrder returns the nodes in a topological order: every node appears
// after the producers of all its inputs. Ties are broken by node-list order,
// so the result is deterministic. A cycle yields a MalformedGraphError.
func (g *Graph) TopoOrder() ([]*Node, error) {
	prod := make(map[string]*Node)
	for _, n := range g.Nodes {
		for _, out := range n.Outputs {
			prod[out] = n
		}
	}

	/* count intra-graph edges; inputs resolved outside the
	 * graph (graph inputs, outer scope) contribute none */
	deg := make(map[*Node]int, len(g.Nodes))
	succ := make(map[*Node][]*Node, len(g.Nodes))
	for _, n := range g.Nodes {
		deg[n] = 0
	}
	for _, n := range g.Nodes {
		seen := make(map[*Node]bool)
		for _, in := range n.Inputs {
			if p := prod[in]; p != nil && p != n && !seen[p] {
				seen[p] = true
				succ[p] = append(succ[p], n)
				deg[n]++
			}
		}
	}

	q := lane.NewQueue()
	for _, n := range g.Nodes {
		if deg[n] == 0 {
			q.Enqueue(n)
		}
	}

	order := make([]*Node, 0, len(g.Nodes))
	for !q.Empty() {
		n := q.Dequeue().(*Node)
		order = append(order, n)
		for _, s := range succ[n] {
			if deg[s]--; deg[s] == 0 {
				q.Enqueue(s)
			}
		}
	}

	if len(order) != len(g.Nodes) {
		return nil, MalformedGraphError{Graph: g.Name, Reason: "node list contains a cycle"}
	}
	return order, nil
}

// Sort reorders the node list topologically in place.
func (g *Graph) Sort() error {
	order, err := g.TopoOrder()
	if err != nil {
		return err
	}
	g.Nodes = order
	for _, n := range g.Nodes {
		for _, body := range n.Bodies() {
			if err := body.Sort(); err != nil {
				return err
			}
		}
	}
	return nil
}
