package cpu

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/loom-ml/loom/internal/memory"
	"github.com/loom-ml/loom/internal/ops"
	"github.com/loom-ml/loom/internal/parallel"
	"github.com/loom-ml/loom/internal/tensor"
)

func matmulArgs(t *testing.T, weiFormat memory.Format) memory.Args {
	t.Helper()
	src := alloc(t, memory.Desc{Type: tensor.Float32, Shape: tensor.Shape{2, 3}, Format: memory.FormatPlain})
	wei := alloc(t, memory.Desc{Type: tensor.Float32, Shape: tensor.Shape{3, 2}, Format: weiFormat})
	dst := alloc(t, memory.Desc{Type: tensor.Float32, Shape: tensor.Shape{2, 2}, Format: memory.FormatPlain})

	// src = [[1 2 3], [4 5 6]]
	copy(src.Data.AsFloat32(), []float32{1, 2, 3, 4, 5, 6})
	return memory.Args{memory.ArgSrc: src, memory.ArgWei: wei, memory.ArgDst: dst}
}

func TestMatMulRef(t *testing.T) {
	args := matmulArgs(t, memory.FormatPlain)
	// wei = [[1 0], [0 1], [1 1]]
	copy(args[memory.ArgWei].Data.AsFloat32(), []float32{1, 0, 0, 1, 1, 1})

	require.NoError(t, matmulKernel(ops.MatMulAttrs{}, args, parallel.Config{}, false))
	require.Equal(t, []float32{4, 5, 10, 11}, args[memory.ArgDst].Data.AsFloat32())
}

func TestMatMulBias(t *testing.T) {
	args := matmulArgs(t, memory.FormatPlain)
	copy(args[memory.ArgWei].Data.AsFloat32(), []float32{1, 0, 0, 1, 1, 1})
	bia := alloc(t, memory.Desc{Type: tensor.Float32, Shape: tensor.Shape{2}, Format: memory.FormatPlain})
	copy(bia.Data.AsFloat32(), []float32{100, 200})
	args[memory.ArgBia] = bia

	require.NoError(t, matmulKernel(ops.MatMulAttrs{WithBias: true}, args, parallel.Config{}, false))
	require.Equal(t, []float32{104, 205, 110, 211}, args[memory.ArgDst].Data.AsFloat32(),
		"bias must be added to every row")
}

func TestMatMulBiasShapeMismatch(t *testing.T) {
	args := matmulArgs(t, memory.FormatPlain)
	bia := alloc(t, memory.Desc{Type: tensor.Float32, Shape: tensor.Shape{3}, Format: memory.FormatPlain})
	args[memory.ArgBia] = bia

	require.Error(t, matmulKernel(ops.MatMulAttrs{WithBias: true}, args, parallel.Config{}, false))
}

func TestMatMulTransposeB(t *testing.T) {
	square := func() memory.Args {
		return memory.Args{
			memory.ArgSrc: alloc(t, memory.Desc{Type: tensor.Float32, Shape: tensor.Shape{2, 2}, Format: memory.FormatPlain}),
			memory.ArgWei: alloc(t, memory.Desc{Type: tensor.Float32, Shape: tensor.Shape{2, 2}, Format: memory.FormatPlain}),
			memory.ArgDst: alloc(t, memory.Desc{Type: tensor.Float32, Shape: tensor.Shape{2, 2}, Format: memory.FormatPlain}),
		}
	}

	// Non-symmetric weights, so transposing must change the result.
	plain := square()
	copy(plain[memory.ArgSrc].Data.AsFloat32(), []float32{1, 2, 3, 4})
	copy(plain[memory.ArgWei].Data.AsFloat32(), []float32{1, 2, 3, 4})
	require.NoError(t, matmulKernel(ops.MatMulAttrs{}, plain, parallel.Config{}, false))
	require.Equal(t, []float32{7, 10, 15, 22}, plain[memory.ArgDst].Data.AsFloat32())

	transposed := square()
	copy(transposed[memory.ArgSrc].Data.AsFloat32(), []float32{1, 2, 3, 4})
	copy(transposed[memory.ArgWei].Data.AsFloat32(), []float32{1, 2, 3, 4})
	require.NoError(t, matmulKernel(ops.MatMulAttrs{TransposeB: true}, transposed, parallel.Config{}, false))
	require.Equal(t, []float32{5, 11, 11, 25}, transposed[memory.ArgDst].Data.AsFloat32(),
		"transpose_b must read the weight matrix column-major")
}

func TestMatMulTransposeA(t *testing.T) {
	// src stored [3 2], consumed as its [2 3] transpose.
	src := alloc(t, memory.Desc{Type: tensor.Float32, Shape: tensor.Shape{3, 2}, Format: memory.FormatPlain})
	wei := alloc(t, memory.Desc{Type: tensor.Float32, Shape: tensor.Shape{3, 2}, Format: memory.FormatPlain})
	dst := alloc(t, memory.Desc{Type: tensor.Float32, Shape: tensor.Shape{2, 2}, Format: memory.FormatPlain})
	copy(src.Data.AsFloat32(), []float32{1, 4, 2, 5, 3, 6})
	copy(wei.Data.AsFloat32(), []float32{1, 0, 0, 1, 1, 1})

	args := memory.Args{memory.ArgSrc: src, memory.ArgWei: wei, memory.ArgDst: dst}
	require.NoError(t, matmulKernel(ops.MatMulAttrs{TransposeA: true}, args, parallel.Config{}, false))
	require.Equal(t, []float32{4, 5, 10, 11}, dst.Data.AsFloat32())
}

func TestMatMulBlockedMatchesRef(t *testing.T) {
	plainArgs := matmulArgs(t, memory.FormatPlain)
	weiData := []float32{0.5, -1, 2, 0, 1, 3}
	copy(plainArgs[memory.ArgWei].Data.AsFloat32(), weiData)
	require.NoError(t, matmulKernel(ops.MatMulAttrs{}, plainArgs, parallel.Config{}, false))

	blockedArgs := matmulArgs(t, memory.FormatBlocked16)
	// Reorder the plain weights into the blocked buffer.
	plainWei := alloc(t, memory.Desc{Type: tensor.Float32, Shape: tensor.Shape{3, 2}, Format: memory.FormatPlain})
	copy(plainWei.Data.AsFloat32(), weiData)
	require.NoError(t, reorderKernel(memory.Args{memory.ArgSrc: plainWei, memory.ArgDst: blockedArgs[memory.ArgWei]}))

	require.NoError(t, matmulKernel(ops.MatMulAttrs{}, blockedArgs, parallel.Config{}, true))
	require.Equal(t,
		plainArgs[memory.ArgDst].Data.AsFloat32(),
		blockedArgs[memory.ArgDst].Data.AsFloat32(),
		"blocked kernel must agree with the reference")
}

func TestMatMulBlockedTransposeBMatchesRef(t *testing.T) {
	weiData := []float32{1, 2, 3, 4, 5, 6} // stored [2 3], consumed as [3 2]
	weiShape := tensor.Shape{2, 3}
	attrs := ops.MatMulAttrs{TransposeB: true}

	ref := matmulArgs(t, memory.FormatPlain)
	refWei := alloc(t, memory.Desc{Type: tensor.Float32, Shape: weiShape, Format: memory.FormatPlain})
	copy(refWei.Data.AsFloat32(), weiData)
	ref[memory.ArgWei] = refWei
	require.NoError(t, matmulKernel(attrs, ref, parallel.Config{}, false))

	blocked := matmulArgs(t, memory.FormatPlain)
	blockedWei := alloc(t, memory.Desc{Type: tensor.Float32, Shape: weiShape, Format: memory.FormatBlocked16})
	require.NoError(t, reorderKernel(memory.Args{memory.ArgSrc: refWei, memory.ArgDst: blockedWei}))
	blocked[memory.ArgWei] = blockedWei
	require.NoError(t, matmulKernel(attrs, blocked, parallel.Config{}, true))

	require.Equal(t,
		ref[memory.ArgDst].Data.AsFloat32(),
		blocked[memory.ArgDst].Data.AsFloat32())
}

func TestMatMulShapeMismatch(t *testing.T) {
	src := alloc(t, memory.Desc{Type: tensor.Float32, Shape: tensor.Shape{2, 3}, Format: memory.FormatPlain})
	wei := alloc(t, memory.Desc{Type: tensor.Float32, Shape: tensor.Shape{4, 2}, Format: memory.FormatPlain})
	dst := alloc(t, memory.Desc{Type: tensor.Float32, Shape: tensor.Shape{2, 2}, Format: memory.FormatPlain})
	err := matmulKernel(ops.MatMulAttrs{}, memory.Args{memory.ArgSrc: src, memory.ArgWei: wei, memory.ArgDst: dst}, parallel.Config{}, false)
	require.Error(t, err)
}
