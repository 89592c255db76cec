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

	"github.com/stretchr/testify/require"
)

func TestValidateOK(t *testing.T) {
	require.NoError(t, diamond().Validate())
}

func TestValidateMultipleProducers(t *testing.T) {
	g := NewGraph("dup",
		[]*Node{
			NewNode("Relu", "r1", []string{"X"}, []string{"Y"}, nil),
			NewNode("Abs", "r2", []string{"X"}, []string{"Y"}, nil),
		},
		[]ValueInfo{{Name: "X", Type: Float}},
		[]ValueInfo{{Name: "Y", Type: Float}},
	)
	err := g.Validate()
	var me MalformedGraphError
	require.ErrorAs(t, err, &me)
	require.Equal(t, "Y", me.Value)
}

func TestValidateDanglingInput(t *testing.T) {
	g := NewGraph("dangling",
		[]*Node{NewNode("Relu", "r", []string{"ghost"}, []string{"Y"}, nil)},
		[]ValueInfo{{Name: "X", Type: Float}},
		[]ValueInfo{{Name: "Y", Type: Float}},
	)
	var me MalformedGraphError
	require.ErrorAs(t, g.Validate(), &me)
	require.Equal(t, "ghost", me.Value)
}

func TestValidateOutputWithoutProducer(t *testing.T) {
	g := NewGraph("noout",
		[]*Node{NewNode("Relu", "r", []string{"X"}, []string{"Y"}, nil)},
		[]ValueInfo{{Name: "X", Type: Float}},
		[]ValueInfo{{Name: "Z", Type: Float}},
	)
	var me MalformedGraphError
	require.ErrorAs(t, g.Validate(), &me)
	require.Equal(t, "Z", me.Value)
}

func TestValidateOutputPassthrough(t *testing.T) {
	// an input exposed directly as an output is structurally legal
	g := NewGraph("pass",
		nil,
		[]ValueInfo{{Name: "X", Type: Float}},
		[]ValueInfo{{Name: "X", Type: Float}},
	)
	require.NoError(t, g.Validate())
}

func TestValidateBodyOuterScope(t *testing.T) {
	body := NewGraph("body",
		[]*Node{NewNode("Add", "a", []string{"v", "Outer"}, []string{"w"}, nil)},
		[]ValueInfo{{Name: "i", Type: Int64}, {Name: "c", Type: Bool}, {Name: "v", Type: Float}},
		[]ValueInfo{{Name: "c", Type: Bool}, {Name: "w", Type: Float}},
	)
	g := NewGraph("host",
		[]*Node{
			NewNode("Relu", "r", []string{"X"}, []string{"Outer"}, nil),
			NewNode(OpLoop, "loop", []string{"M", "C", "Outer"}, []string{"F"}, map[string]Attr{
				"body": GraphAttr(body),
			}),
		},
		[]ValueInfo{{Name: "X", Type: Float}, {Name: "M", Type: Int64}, {Name: "C", Type: Bool}},
		[]ValueInfo{{Name: "F", Type: Float}},
	)
	require.NoError(t, g.Validate())

	// the same body detached from the host scope no longer resolves
	require.Error(t, body.Validate())
}

func TestCountOpsRecursesIntoBodies(t *testing.T) {
	body := NewGraph("body",
		[]*Node{
			NewNode("Identity", "i1", []string{"v"}, []string{"a"}, nil),
			NewNode("Identity", "i2", []string{"a"}, []string{"w"}, nil),
		},
		[]ValueInfo{{Name: "i", Type: Int64}, {Name: "c", Type: Bool}, {Name: "v", Type: Float}},
		[]ValueInfo{{Name: "c", Type: Bool}, {Name: "w", Type: Float}},
	)
	g := NewGraph("host",
		[]*Node{
			NewNode("Identity", "top", []string{"X"}, []string{"Y"}, nil),
			NewNode(OpLoop, "loop", []string{"M", "C", "Y"}, []string{"F"}, map[string]Attr{
				"body": GraphAttr(body),
			}),
		},
		[]ValueInfo{{Name: "X", Type: Float}, {Name: "M", Type: Int64}, {Name: "C", Type: Bool}},
		[]ValueInfo{{Name: "F", Type: Float}},
	)
	c := g.CountOps()
	require.Equal(t, 3, c["Identity"])
	require.Equal(t, 1, c["Loop"])
	require.Equal(t, 0, c["Transpose"])
}
