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

// Package debug renders graphs in a human-readable form for diagnosing
// optimizer rewrites.
package debug

import (
	"fmt"
	"strings"

	"github.com/cloudwego/graphopt/ir"
	"github.com/davecgh/go-spew/spew"
)

var dumper = spew.ConfigState{
	Indent:                  "  ",
	SortKeys:                true,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
}

// DumpGraph renders the graph, one node per line, recursing into body
// graphs with indentation.
func DumpGraph(g *ir.Graph) string {
	var b strings.Builder
	dumpGraph(&b, g, 0)
	return b.String()
}

func dumpGraph(b *strings.Builder, g *ir.Graph, depth int) {
	pad := strings.Repeat("  ", depth)
	fmt.Fprintf(b, "%sgraph %q\n", pad, g.Name)
	for _, v := range g.Inputs {
		fmt.Fprintf(b, "%s  in  %s %s%v\n", pad, v.Name, v.Type, v.Shape)
	}
	for _, n := range g.Nodes {
		fmt.Fprintf(b, "%s  %-12s %s(%s) -> (%s)\n",
			pad, n.Op, n.Name, strings.Join(n.Inputs, ", "), strings.Join(n.Outputs, ", "))
		for _, body := range n.Bodies() {
			dumpGraph(b, body, depth+2)
		}
	}
	for _, v := range g.Outputs {
		fmt.Fprintf(b, "%s  out %s %s%v\n", pad, v.Name, v.Type, v.Shape)
	}
}

// DumpAttrs renders a node's attribute map, including tensor payloads.
func DumpAttrs(n *ir.Node) string {
	return dumper.Sdump(n.Attrs)
}
