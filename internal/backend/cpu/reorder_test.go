package cpu

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/loom-ml/loom/internal/memory"
	"github.com/loom-ml/loom/internal/tensor"
)

func alloc(t *testing.T, desc memory.Desc) *memory.Memory {
	t.Helper()
	mem, err := memory.New(desc)
	require.NoError(t, err)
	return mem
}

func TestReorderBlocked16RoundTrip(t *testing.T) {
	plain := memory.Desc{Type: tensor.Float32, Shape: tensor.Shape{20, 3}, Format: memory.FormatPlain}
	blocked := plain.WithFormat(memory.FormatBlocked16)

	src := alloc(t, plain)
	mid := alloc(t, blocked)
	dst := alloc(t, plain)

	for i := range src.Data.AsFloat32() {
		src.Data.AsFloat32()[i] = float32(i)
	}

	require.NoError(t, reorderKernel(memory.Args{memory.ArgSrc: src, memory.ArgDst: mid}))
	require.NoError(t, reorderKernel(memory.Args{memory.ArgSrc: mid, memory.ArgDst: dst}))

	require.Equal(t, src.Data.AsFloat32(), dst.Data.AsFloat32())
}

func TestReorderBlocked16Layout(t *testing.T) {
	plain := memory.Desc{Type: tensor.Float32, Shape: tensor.Shape{17, 2}, Format: memory.FormatPlain}
	src := alloc(t, plain)
	dst := alloc(t, plain.WithFormat(memory.FormatBlocked16))

	in := src.Data.AsFloat32()
	in[16*2+1] = 42 // element (16, 1) lives in the second block

	require.NoError(t, reorderKernel(memory.Args{memory.ArgSrc: src, memory.ArgDst: dst}))

	out := dst.Data.AsFloat32()
	require.Equal(t, float32(42), out[blocked16Index(16, 1, 2)])
}

func TestReorderChannelsLastRoundTrip(t *testing.T) {
	plain := memory.Desc{Type: tensor.Float32, Shape: tensor.Shape{2, 3, 4, 5}, Format: memory.FormatPlain}
	nhwc := plain.WithFormat(memory.FormatChannelsLast)

	src := alloc(t, plain)
	mid := alloc(t, nhwc)
	dst := alloc(t, plain)

	for i := range src.Data.AsFloat32() {
		src.Data.AsFloat32()[i] = float32(i) * 0.5
	}

	require.NoError(t, reorderKernel(memory.Args{memory.ArgSrc: src, memory.ArgDst: mid}))
	require.NoError(t, reorderKernel(memory.Args{memory.ArgSrc: mid, memory.ArgDst: dst}))
	require.Equal(t, src.Data.AsFloat32(), dst.Data.AsFloat32())
}

func TestReorderIdenticalFormatsCopies(t *testing.T) {
	plain := memory.Desc{Type: tensor.Float32, Shape: tensor.Shape{4}, Format: memory.FormatPlain}
	src := alloc(t, plain)
	dst := alloc(t, plain)
	src.Data.AsFloat32()[3] = 7

	require.NoError(t, reorderKernel(memory.Args{memory.ArgSrc: src, memory.ArgDst: dst}))
	require.Equal(t, float32(7), dst.Data.AsFloat32()[3])
}

func TestReorderRejectsShapeMismatch(t *testing.T) {
	src := alloc(t, memory.Desc{Type: tensor.Float32, Shape: tensor.Shape{4}, Format: memory.FormatPlain})
	dst := alloc(t, memory.Desc{Type: tensor.Float32, Shape: tensor.Shape{5}, Format: memory.FormatPlain})
	require.Error(t, reorderKernel(memory.Args{memory.ArgSrc: src, memory.ArgDst: dst}))
}
