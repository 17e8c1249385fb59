// Copyright 2026 Loom ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public tensor type definitions used across
// the Loom execution-preparation API: runtime data types and shapes,
// including shapes that are still symbolic at compile time.
package tensor

import (
	"github.com/loom-ml/loom/internal/tensor"
)

// DataType represents the underlying data type of a tensor.
type DataType = tensor.DataType

// Data type constants.
const (
	Float32 DataType = tensor.Float32
	Float64 DataType = tensor.Float64
	Int32   DataType = tensor.Int32
	Int64   DataType = tensor.Int64
	Uint8   DataType = tensor.Uint8
)

// Shape represents the dimensions of a tensor.
// Example: Shape{2, 3, 4} represents a 3D tensor with dimensions 2×3×4.
// A dimension may be DynamicDim while the graph is being compiled.
type Shape = tensor.Shape

// DynamicDim marks a dimension whose extent is not yet known.
const DynamicDim = tensor.DynamicDim

// Raw is the low-level buffer tensor backing realized memory arguments.
type Raw = tensor.Raw

// NewRaw creates a zero-initialized Raw tensor with a static shape.
func NewRaw(shape Shape, dtype DataType) (*Raw, error) {
	return tensor.NewRaw(shape, dtype)
}
