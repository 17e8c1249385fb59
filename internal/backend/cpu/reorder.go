package cpu

import (
	"fmt"

	"github.com/loom-ml/loom/internal/executor"
	"github.com/loom-ml/loom/internal/memory"
	"github.com/loom-ml/loom/internal/ops"
	"github.com/loom-ml/loom/internal/tensor"
)

// registerReorder installs the layout-conversion implementation list.
// The reference reorder is layout-universal and shape-agnostic, so it is
// the terminal step of every fallback pipeline.
func registerReorder(r *executor.Registry[ops.ReorderAttrs]) {
	r.Register(executor.Implementation[ops.ReorderAttrs]{
		Name:          "ref_reorder",
		ShapeAgnostic: true,
		Supports: func(cfg executor.Config[ops.ReorderAttrs], filter memory.LayoutFilter) bool {
			src, srcOK := cfg.Descs[memory.ArgSrc]
			dst, dstOK := cfg.Descs[memory.ArgDst]
			if !srcOK || !dstOK {
				return false
			}
			if src.Type != dst.Type {
				return false
			}
			return filter.AcceptsInput(src.Format) && filter.AcceptsOutput(dst.Format)
		},
		Create: func(_ ops.ReorderAttrs, _ memory.Args, _ *executor.Context) (executor.Executor, error) {
			return &kernelExecutor{name: "ref_reorder", run: reorderKernel}, nil
		},
	})
}

// reorderKernel rewrites src into dst's physical format. Identical formats
// reduce to a buffer copy.
func reorderKernel(args memory.Args) error {
	src, ok := args[memory.ArgSrc]
	if !ok {
		return fmt.Errorf("reorder: missing src")
	}
	dst, ok := args[memory.ArgDst]
	if !ok {
		return fmt.Errorf("reorder: missing dst")
	}
	if src.Desc.Type != dst.Desc.Type {
		return fmt.Errorf("reorder: dtype mismatch %s vs %s", src.Desc.Type, dst.Desc.Type)
	}
	if !src.Desc.Shape.Equal(dst.Desc.Shape) {
		return fmt.Errorf("reorder: shape mismatch %s vs %s", src.Desc.Shape, dst.Desc.Shape)
	}

	if src.Desc.Format == dst.Desc.Format {
		copy(dst.Data.Bytes(), src.Data.Bytes())
		return nil
	}

	if src.Desc.Type != tensor.Float32 {
		return fmt.Errorf("reorder: format conversion only supported for float32, got %s", src.Desc.Type)
	}

	switch {
	case src.Desc.Format == memory.FormatPlain && dst.Desc.Format == memory.FormatBlocked16:
		return plainToBlocked16(src, dst)
	case src.Desc.Format == memory.FormatBlocked16 && dst.Desc.Format == memory.FormatPlain:
		return blocked16ToPlain(src, dst)
	case src.Desc.Format == memory.FormatPlain && dst.Desc.Format == memory.FormatChannelsLast:
		return plainToChannelsLast(src, dst)
	case src.Desc.Format == memory.FormatChannelsLast && dst.Desc.Format == memory.FormatPlain:
		return channelsLastToPlain(src, dst)
	default:
		return fmt.Errorf("reorder: unsupported conversion %s -> %s", src.Desc.Format, dst.Desc.Format)
	}
}

// Blocked16 stores a [R, C] matrix as [ceil(R/16), C, 16] blocks: element
// (r, c) lives at ((r/16)*C + c)*16 + r%16. Rows beyond R stay zero.
func blocked16Index(r, c, cols int) int {
	return ((r/16)*cols+c)*16 + r%16
}

func plainToBlocked16(src, dst *memory.Memory) error {
	shape := src.Desc.Shape
	if shape.Rank() != 2 {
		return fmt.Errorf("reorder: blocked16 requires rank 2, got %s", shape)
	}
	rows, cols := shape[0], shape[1]
	in, out := src.Data.AsFloat32(), dst.Data.AsFloat32()
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			out[blocked16Index(r, c, cols)] = in[r*cols+c]
		}
	}
	return nil
}

func blocked16ToPlain(src, dst *memory.Memory) error {
	shape := src.Desc.Shape
	if shape.Rank() != 2 {
		return fmt.Errorf("reorder: blocked16 requires rank 2, got %s", shape)
	}
	rows, cols := shape[0], shape[1]
	in, out := src.Data.AsFloat32(), dst.Data.AsFloat32()
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			out[r*cols+c] = in[blocked16Index(r, c, cols)]
		}
	}
	return nil
}

// ChannelsLast stores a [N, C, H, W] tensor as [N, H, W, C].
func plainToChannelsLast(src, dst *memory.Memory) error {
	shape := src.Desc.Shape
	if shape.Rank() != 4 {
		return fmt.Errorf("reorder: channels_last requires rank 4, got %s", shape)
	}
	n, c, h, w := shape[0], shape[1], shape[2], shape[3]
	in, out := src.Data.AsFloat32(), dst.Data.AsFloat32()
	for ni := 0; ni < n; ni++ {
		for ci := 0; ci < c; ci++ {
			for hi := 0; hi < h; hi++ {
				for wi := 0; wi < w; wi++ {
					out[((ni*h+hi)*w+wi)*c+ci] = in[((ni*c+ci)*h+hi)*w+wi]
				}
			}
		}
	}
	return nil
}

func channelsLastToPlain(src, dst *memory.Memory) error {
	shape := src.Desc.Shape
	if shape.Rank() != 4 {
		return fmt.Errorf("reorder: channels_last requires rank 4, got %s", shape)
	}
	n, c, h, w := shape[0], shape[1], shape[2], shape[3]
	in, out := src.Data.AsFloat32(), dst.Data.AsFloat32()
	for ni := 0; ni < n; ni++ {
		for ci := 0; ci < c; ci++ {
			for hi := 0; hi < h; hi++ {
				for wi := 0; wi < w; wi++ {
					out[((ni*c+ci)*h+hi)*w+wi] = in[((ni*h+hi)*w+wi)*c+ci]
				}
			}
		}
	}
	return nil
}
