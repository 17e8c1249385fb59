package tensor

import (
	"fmt"
	"unsafe"
)

// Raw is the low-level tensor representation: a flat byte buffer plus
// shape and runtime type information. Raw tensors always own their buffer
// and use a row-major contiguous layout; physical format reinterpretation
// (blocking, permutation) is the memory package's concern.
type Raw struct {
	data  []byte
	shape Shape
	dtype DataType
}

// NewRaw creates a new Raw tensor with the given shape and type.
// Memory is allocated and zero-initialized. The shape must be static.
func NewRaw(shape Shape, dtype DataType) (*Raw, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	if !shape.IsStatic() {
		return nil, fmt.Errorf("cannot allocate symbolic shape %s", shape)
	}

	return &Raw{
		data:  make([]byte, shape.NumElements()*dtype.Size()),
		shape: shape.Clone(),
		dtype: dtype,
	}, nil
}

// Shape returns the tensor's shape.
func (r *Raw) Shape() Shape { return r.shape }

// DType returns the tensor's data type.
func (r *Raw) DType() DataType { return r.dtype }

// Bytes returns the underlying byte buffer.
func (r *Raw) Bytes() []byte { return r.data }

// NumElements returns the element count.
func (r *Raw) NumElements() int { return r.shape.NumElements() }

// AsFloat32 returns the buffer viewed as []float32.
// Panics if the dtype is not Float32.
func (r *Raw) AsFloat32() []float32 {
	if r.dtype != Float32 {
		panic(fmt.Sprintf("AsFloat32 on %s tensor", r.dtype))
	}
	return unsafe.Slice((*float32)(unsafe.Pointer(unsafe.SliceData(r.data))), len(r.data)/4)
}

// AsFloat64 returns the buffer viewed as []float64.
// Panics if the dtype is not Float64.
func (r *Raw) AsFloat64() []float64 {
	if r.dtype != Float64 {
		panic(fmt.Sprintf("AsFloat64 on %s tensor", r.dtype))
	}
	return unsafe.Slice((*float64)(unsafe.Pointer(unsafe.SliceData(r.data))), len(r.data)/8)
}

// AsInt32 returns the buffer viewed as []int32.
// Panics if the dtype is not Int32.
func (r *Raw) AsInt32() []int32 {
	if r.dtype != Int32 {
		panic(fmt.Sprintf("AsInt32 on %s tensor", r.dtype))
	}
	return unsafe.Slice((*int32)(unsafe.Pointer(unsafe.SliceData(r.data))), len(r.data)/4)
}

// AsInt64 returns the buffer viewed as []int64.
// Panics if the dtype is not Int64.
func (r *Raw) AsInt64() []int64 {
	if r.dtype != Int64 {
		panic(fmt.Sprintf("AsInt64 on %s tensor", r.dtype))
	}
	return unsafe.Slice((*int64)(unsafe.Pointer(unsafe.SliceData(r.data))), len(r.data)/8)
}

// Clone returns a deep copy of the tensor.
func (r *Raw) Clone() *Raw {
	data := make([]byte, len(r.data))
	copy(data, r.data)
	return &Raw{data: data, shape: r.shape.Clone(), dtype: r.dtype}
}
