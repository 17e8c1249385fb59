package cpu

import (
	"fmt"

	"github.com/loom-ml/loom/internal/executor"
	"github.com/loom-ml/loom/internal/memory"
	"github.com/loom-ml/loom/internal/ops"
	"github.com/loom-ml/loom/internal/parallel"
	"github.com/loom-ml/loom/internal/tensor"
)

// registerMatMul installs the MatMul implementation list. The blocked
// kernel is registered first: it is preferred whenever it supports the
// configuration, and it pulls weights into the blocked16 layout via
// fallback when they arrive plain. The reference kernel is shape-agnostic
// and ends the candidate walk.
func registerMatMul(r *executor.Registry[ops.MatMulAttrs]) {
	r.Register(executor.Implementation[ops.MatMulAttrs]{
		Name: "blocked_matmul",
		Supports: func(cfg executor.Config[ops.MatMulAttrs], filter memory.LayoutFilter) bool {
			if !matmulShapesOK(cfg.Descs, cfg.Attrs) {
				return false
			}
			// Blocked weights pay off only on wide outputs; with a
			// symbolic width the answer is deferred to invocation time.
			wei := cfg.Descs[memory.ArgWei]
			if wei.Shape.IsStatic() && matmulWidth(wei.Shape, cfg.Attrs) < 16 {
				return false
			}
			return filter.AcceptsInput(memory.FormatBlocked16) || filter.Empty()
		},
		RequiresFallback: func(cfg executor.Config[ops.MatMulAttrs]) *executor.Config[ops.MatMulAttrs] {
			want := plainDescs(cfg.Descs)
			want[memory.ArgWei] = cfg.Descs[memory.ArgWei].WithFormat(memory.FormatBlocked16)
			if descsEqual(cfg.Descs, want) {
				return nil
			}
			return &executor.Config[ops.MatMulAttrs]{Descs: want, Attrs: cfg.Attrs}
		},
		Create: func(attrs ops.MatMulAttrs, _ memory.Args, ctx *executor.Context) (executor.Executor, error) {
			cfg := ctx.Parallel
			return &kernelExecutor{name: "blocked_matmul", run: func(args memory.Args) error {
				return matmulKernel(attrs, args, cfg, true)
			}}, nil
		},
	})

	r.Register(executor.Implementation[ops.MatMulAttrs]{
		Name:          "ref_matmul",
		ShapeAgnostic: true,
		Supports: func(cfg executor.Config[ops.MatMulAttrs], filter memory.LayoutFilter) bool {
			return matmulShapesOK(cfg.Descs, cfg.Attrs) && filter.AcceptsInput(memory.FormatPlain)
		},
		RequiresFallback: func(cfg executor.Config[ops.MatMulAttrs]) *executor.Config[ops.MatMulAttrs] {
			want := plainDescs(cfg.Descs)
			if descsEqual(cfg.Descs, want) {
				return nil
			}
			return &executor.Config[ops.MatMulAttrs]{Descs: want, Attrs: cfg.Attrs}
		},
		Create: func(attrs ops.MatMulAttrs, _ memory.Args, ctx *executor.Context) (executor.Executor, error) {
			cfg := ctx.Parallel
			return &kernelExecutor{name: "ref_matmul", run: func(args memory.Args) error {
				return matmulKernel(attrs, args, cfg, false)
			}}, nil
		},
	})
}

func matmulShapesOK(descs memory.DescArgs, attrs ops.MatMulAttrs) bool {
	src, srcOK := descs[memory.ArgSrc]
	wei, weiOK := descs[memory.ArgWei]
	dst, dstOK := descs[memory.ArgDst]
	if !srcOK || !weiOK || !dstOK {
		return false
	}
	if src.Type != tensor.Float32 || wei.Type != tensor.Float32 || dst.Type != tensor.Float32 {
		return false
	}
	if src.Shape.Rank() != 2 || wei.Shape.Rank() != 2 || dst.Shape.Rank() != 2 {
		return false
	}
	if attrs.WithBias {
		bia, ok := descs[memory.ArgBia]
		if !ok || bia.Type != tensor.Float32 {
			return false
		}
	}
	return true
}

// matmulWidth is the output column count n, honoring the weight transpose.
func matmulWidth(wei tensor.Shape, attrs ops.MatMulAttrs) int {
	if attrs.TransposeB {
		return wei[0]
	}
	return wei[1]
}

// matmulKernel computes dst = op(src) @ op(wei) + bia for 2D float32
// tensors, where op transposes its operand when the matching attribute is
// set and bia broadcasts over rows when bound. With blockedWei the weight
// buffer is read in blocked16 layout over its stored orientation.
func matmulKernel(attrs ops.MatMulAttrs, args memory.Args, cfg parallel.Config, blockedWei bool) error {
	src, wei, dst := args[memory.ArgSrc], args[memory.ArgWei], args[memory.ArgDst]
	if src == nil || wei == nil || dst == nil {
		return fmt.Errorf("matmul: missing argument")
	}

	m, k := src.Desc.Shape[0], src.Desc.Shape[1]
	if attrs.TransposeA {
		m, k = k, m
	}
	kAlt, n := wei.Desc.Shape[0], wei.Desc.Shape[1]
	if attrs.TransposeB {
		kAlt, n = n, kAlt
	}
	if k != kAlt {
		return fmt.Errorf("matmul: shape mismatch %s @ %s", src.Desc.Shape, wei.Desc.Shape)
	}
	if dst.Desc.Shape[0] != m || dst.Desc.Shape[1] != n {
		return fmt.Errorf("matmul: dst shape %s, want [%d %d]", dst.Desc.Shape, m, n)
	}

	var bias []float32
	if bia := args[memory.ArgBia]; bia != nil {
		if bia.Desc.Shape.NumElements() != n {
			return fmt.Errorf("matmul: bias %s does not broadcast over %d columns", bia.Desc.Shape, n)
		}
		bias = bia.Data.AsFloat32()
	}

	a, b, c := src.Data.AsFloat32(), wei.Data.AsFloat32(), dst.Data.AsFloat32()
	weiCols := wei.Desc.Shape[1]

	parallel.For(m, func(i int) {
		for j := 0; j < n; j++ {
			var sum float32
			for l := 0; l < k; l++ {
				av := a[i*k+l]
				if attrs.TransposeA {
					av = a[l*m+i]
				}
				r, col := l, j
				if attrs.TransposeB {
					r, col = j, l
				}
				if blockedWei {
					sum += av * b[blocked16Index(r, col, weiCols)]
				} else {
					sum += av * b[r*weiCols+col]
				}
			}
			if bias != nil {
				sum += bias[j]
			}
			c[i*n+j] = sum
		}
	}, cfg)
	return nil
}
