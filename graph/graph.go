// Copyright 2026 Loom ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package graph provides the public API for building the computation
// graphs Loom lowers and compiles.
//
// Example:
//
//	g := graph.New()
//	in := g.AddInput(graph.Desc{Type: tensor.Float32, Shape: tensor.Shape{4, 8}, Format: graph.FormatPlain})
//	id, err := g.AddNode(graph.NodeSpec{
//		Kind:    graph.KindSoftmax,
//		Version: graph.SoftmaxV13,
//		Name:    "probs",
//		Attrs:   graph.Attributes{graph.AttrAxis: int64(1)},
//		Inputs:  []graph.ValueID{in},
//		OutDescs: []graph.Desc{{Type: tensor.Float32, Shape: tensor.Shape{4, 8}, Format: graph.FormatPlain}},
//	})
package graph

import (
	"github.com/loom-ml/loom/internal/graph"
	"github.com/loom-ml/loom/internal/memory"
	"github.com/loom-ml/loom/internal/ops"
)

// Graph is a directed acyclic graph of operation nodes.
type Graph = graph.Graph

// Node is one operation in the graph.
type Node = graph.Node

// NodeSpec describes a node to be added or substituted.
type NodeSpec = graph.NodeSpec

// NodeID is a stable handle to a node.
type NodeID = graph.NodeID

// ValueID is a stable handle to a value edge.
type ValueID = graph.ValueID

// InvalidNode marks a value produced by no node.
const InvalidNode = graph.InvalidNode

// New creates an empty graph.
func New() *Graph { return graph.New() }

// Desc is the semantic layout description of one tensor argument.
type Desc = memory.Desc

// Format tags a physical memory layout.
type Format = memory.Format

// Physical format constants.
const (
	FormatAny          Format = memory.FormatAny
	FormatPlain        Format = memory.FormatPlain
	FormatChannelsLast Format = memory.FormatChannelsLast
	FormatBlocked16    Format = memory.FormatBlocked16
)

// Kind identifies an operation's semantic behavior.
type Kind = ops.Kind

// Operation kinds.
const (
	KindTopK    Kind = ops.KindTopK
	KindMatMul  Kind = ops.KindMatMul
	KindSoftmax Kind = ops.KindSoftmax
	KindReorder Kind = ops.KindReorder
)

// Operation versions.
const (
	TopKV3     = ops.TopKV3
	TopKV11    = ops.TopKV11
	SoftmaxV1  = ops.SoftmaxV1
	SoftmaxV13 = ops.SoftmaxV13
	MatMulV1   = ops.MatMulV1
	ReorderV1  = ops.ReorderV1
)

// Attributes is the attribute bag attached to a node.
type Attributes = ops.Attributes

// Attribute names.
const (
	AttrAxis      = ops.AttrAxis
	AttrK         = ops.AttrK
	AttrMode      = ops.AttrMode
	AttrSort      = ops.AttrSort
	AttrIndexType = ops.AttrIndexType
	AttrStable    = ops.AttrStable
	AttrTransA    = ops.AttrTransA
	AttrTransB    = ops.AttrTransB
)
