package cpu

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/loom-ml/loom/internal/memory"
	"github.com/loom-ml/loom/internal/ops"
	"github.com/loom-ml/loom/internal/tensor"
)

func topkArgs(t *testing.T, shape, outShape tensor.Shape, indexType tensor.DataType) memory.Args {
	t.Helper()
	return memory.Args{
		memory.ArgSrc:  alloc(t, memory.Desc{Type: tensor.Float32, Shape: shape, Format: memory.FormatPlain}),
		memory.ArgDst:  alloc(t, memory.Desc{Type: tensor.Float32, Shape: outShape, Format: memory.FormatPlain}),
		memory.ArgDst2: alloc(t, memory.Desc{Type: indexType, Shape: outShape, Format: memory.FormatPlain}),
	}
}

func TestTopKMaxSortedByValue(t *testing.T) {
	args := topkArgs(t, tensor.Shape{1, 5}, tensor.Shape{1, 2}, tensor.Int32)
	copy(args[memory.ArgSrc].Data.AsFloat32(), []float32{3, 9, 1, 7, 5})

	attrs := ops.TopKAttrs{Axis: 1, K: 2, Mode: ops.TopKMax, Sort: ops.TopKSortValues, IndexType: tensor.Int32}
	require.NoError(t, topkKernel(attrs, args))

	require.Equal(t, []float32{9, 7}, args[memory.ArgDst].Data.AsFloat32())
	require.Equal(t, []int32{1, 3}, args[memory.ArgDst2].Data.AsInt32())
}

func TestTopKMin(t *testing.T) {
	args := topkArgs(t, tensor.Shape{1, 5}, tensor.Shape{1, 2}, tensor.Int32)
	copy(args[memory.ArgSrc].Data.AsFloat32(), []float32{3, 9, 1, 7, 5})

	attrs := ops.TopKAttrs{Axis: 1, K: 2, Mode: ops.TopKMin, Sort: ops.TopKSortValues, IndexType: tensor.Int32}
	require.NoError(t, topkKernel(attrs, args))

	require.Equal(t, []float32{1, 3}, args[memory.ArgDst].Data.AsFloat32())
	require.Equal(t, []int32{2, 0}, args[memory.ArgDst2].Data.AsInt32())
}

func TestTopKSortByIndices(t *testing.T) {
	args := topkArgs(t, tensor.Shape{1, 5}, tensor.Shape{1, 3}, tensor.Int64)
	copy(args[memory.ArgSrc].Data.AsFloat32(), []float32{3, 9, 1, 7, 5})

	attrs := ops.TopKAttrs{Axis: 1, K: 3, Mode: ops.TopKMax, Sort: ops.TopKSortIndices, IndexType: tensor.Int64}
	require.NoError(t, topkKernel(attrs, args))

	// Top-3 values are 9, 7, 5 at indices 1, 3, 4; index order keeps them ascending.
	require.Equal(t, []int64{1, 3, 4}, args[memory.ArgDst2].Data.AsInt64())
	require.Equal(t, []float32{9, 7, 5}, args[memory.ArgDst].Data.AsFloat32())
}

func TestTopKTiesKeepLowerIndex(t *testing.T) {
	args := topkArgs(t, tensor.Shape{1, 4}, tensor.Shape{1, 2}, tensor.Int32)
	copy(args[memory.ArgSrc].Data.AsFloat32(), []float32{5, 8, 8, 8})

	attrs := ops.TopKAttrs{Axis: 1, K: 2, Mode: ops.TopKMax, Sort: ops.TopKSortValues, IndexType: tensor.Int32}
	require.NoError(t, topkKernel(attrs, args))

	require.Equal(t, []int32{1, 2}, args[memory.ArgDst2].Data.AsInt32())
}

func TestTopKNegativeAxis(t *testing.T) {
	args := topkArgs(t, tensor.Shape{2, 3}, tensor.Shape{2, 1}, tensor.Int32)
	copy(args[memory.ArgSrc].Data.AsFloat32(), []float32{1, 5, 2, 9, 0, 4})

	attrs := ops.TopKAttrs{Axis: -1, K: 1, Mode: ops.TopKMax, Sort: ops.TopKSortValues, IndexType: tensor.Int32}
	require.NoError(t, topkKernel(attrs, args))

	require.Equal(t, []float32{5, 9}, args[memory.ArgDst].Data.AsFloat32())
	require.Equal(t, []int32{1, 0}, args[memory.ArgDst2].Data.AsInt32())
}

func TestTopKInnerAxis(t *testing.T) {
	// Axis 0 of a [3 2] tensor: inner stride 2.
	args := topkArgs(t, tensor.Shape{3, 2}, tensor.Shape{2, 2}, tensor.Int32)
	copy(args[memory.ArgSrc].Data.AsFloat32(), []float32{
		1, 6,
		5, 2,
		3, 4,
	})

	attrs := ops.TopKAttrs{Axis: 0, K: 2, Mode: ops.TopKMax, Sort: ops.TopKSortValues, IndexType: tensor.Int32}
	require.NoError(t, topkKernel(attrs, args))

	require.Equal(t, []float32{5, 6, 3, 4}, args[memory.ArgDst].Data.AsFloat32())
	require.Equal(t, []int32{1, 0, 2, 2}, args[memory.ArgDst2].Data.AsInt32())
}

func TestTopKRejectsBadK(t *testing.T) {
	args := topkArgs(t, tensor.Shape{1, 3}, tensor.Shape{1, 3}, tensor.Int32)
	attrs := ops.TopKAttrs{Axis: 1, K: 4, Mode: ops.TopKMax, Sort: ops.TopKSortValues, IndexType: tensor.Int32}
	require.Error(t, topkKernel(attrs, args))

	attrs.K = 0
	require.Error(t, topkKernel(attrs, args))
}
