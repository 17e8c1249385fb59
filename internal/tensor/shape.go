package tensor

import "fmt"

// DynamicDim marks a dimension whose extent is not yet known at compile time.
// Shapes containing DynamicDim are symbolic; they become static once the
// runtime provides concrete memory arguments.
const DynamicDim = -1

// Shape represents the dimensions of a tensor.
// A dimension may be DynamicDim while the graph is still being compiled.
type Shape []int

// Rank returns the number of dimensions.
func (s Shape) Rank() int {
	return len(s)
}

// IsStatic reports whether every dimension has a concrete extent.
func (s Shape) IsStatic() bool {
	for _, dim := range s {
		if dim == DynamicDim {
			return false
		}
	}
	return true
}

// NumElements returns the total number of elements in the tensor.
// The shape must be static.
func (s Shape) NumElements() int {
	if len(s) == 0 {
		return 1 // Scalar has 1 element
	}
	n := 1
	for _, dim := range s {
		if dim == DynamicDim {
			panic("NumElements on symbolic shape")
		}
		n *= dim
	}
	return n
}

// Validate checks that every dimension is positive or DynamicDim.
func (s Shape) Validate() error {
	for i, dim := range s {
		if dim <= 0 && dim != DynamicDim {
			return fmt.Errorf("invalid dimension at index %d: %d (must be > 0 or dynamic)", i, dim)
		}
	}
	return nil
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Compatible reports whether a static shape could realize this shape:
// equal rank and every static dimension matching. A dynamic dimension
// accepts any extent.
func (s Shape) Compatible(concrete Shape) bool {
	if len(s) != len(concrete) {
		return false
	}
	for i := range s {
		if s[i] != DynamicDim && s[i] != concrete[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// ComputeStrides calculates row-major strides for the shape.
// Strides define memory layout: stride[i] = product of all dimensions after i.
// The shape must be static.
func (s Shape) ComputeStrides() []int {
	strides := make([]int, len(s))
	if len(s) == 0 {
		return strides
	}

	strides[len(s)-1] = 1
	for i := len(s) - 2; i >= 0; i-- {
		strides[i] = strides[i+1] * s[i+1]
	}
	return strides
}

// String returns a compact textual form, e.g. "[2 ? 768]" for symbolic dims.
func (s Shape) String() string {
	out := "["
	for i, dim := range s {
		if i > 0 {
			out += " "
		}
		if dim == DynamicDim {
			out += "?"
		} else {
			out += fmt.Sprint(dim)
		}
	}
	return out + "]"
}
