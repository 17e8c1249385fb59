package cpu

import (
	"fmt"
	"math"

	"github.com/loom-ml/loom/internal/executor"
	"github.com/loom-ml/loom/internal/memory"
	"github.com/loom-ml/loom/internal/ops"
	"github.com/loom-ml/loom/internal/tensor"
)

// registerSoftmax installs the Softmax implementation list.
func registerSoftmax(r *executor.Registry[ops.SoftmaxAttrs]) {
	r.Register(executor.Implementation[ops.SoftmaxAttrs]{
		Name:          "ref_softmax",
		ShapeAgnostic: true,
		Supports: func(cfg executor.Config[ops.SoftmaxAttrs], filter memory.LayoutFilter) bool {
			src, ok := cfg.Descs[memory.ArgSrc]
			if !ok || src.Type != tensor.Float32 {
				return false
			}
			return filter.AcceptsInput(memory.FormatPlain)
		},
		RequiresFallback: func(cfg executor.Config[ops.SoftmaxAttrs]) *executor.Config[ops.SoftmaxAttrs] {
			want := plainDescs(cfg.Descs)
			if descsEqual(cfg.Descs, want) {
				return nil
			}
			return &executor.Config[ops.SoftmaxAttrs]{Descs: want, Attrs: cfg.Attrs}
		},
		Create: func(attrs ops.SoftmaxAttrs, _ memory.Args, _ *executor.Context) (executor.Executor, error) {
			return &kernelExecutor{name: "ref_softmax", run: func(args memory.Args) error {
				return softmaxKernel(attrs, args)
			}}, nil
		},
	})
}

// softmaxKernel normalizes along the axis with the usual max-subtraction
// for numerical stability.
func softmaxKernel(attrs ops.SoftmaxAttrs, args memory.Args) error {
	src, dst := args[memory.ArgSrc], args[memory.ArgDst]
	if src == nil || dst == nil {
		return fmt.Errorf("softmax: missing argument")
	}

	shape := src.Desc.Shape
	axis := attrs.Axis
	if axis < 0 {
		axis += shape.Rank()
	}
	if axis < 0 || axis >= shape.Rank() {
		return fmt.Errorf("softmax: axis %d out of range for %s", attrs.Axis, shape)
	}

	outer, inner := 1, 1
	for i := 0; i < axis; i++ {
		outer *= shape[i]
	}
	for i := axis + 1; i < shape.Rank(); i++ {
		inner *= shape[i]
	}
	axisDim := shape[axis]

	in, out := src.Data.AsFloat32(), dst.Data.AsFloat32()

	for o := 0; o < outer; o++ {
		for i := 0; i < inner; i++ {
			maxVal := float32(math.Inf(-1))
			for a := 0; a < axisDim; a++ {
				if v := in[(o*axisDim+a)*inner+i]; v > maxVal {
					maxVal = v
				}
			}
			var sum float32
			for a := 0; a < axisDim; a++ {
				e := float32(math.Exp(float64(in[(o*axisDim+a)*inner+i] - maxVal)))
				out[(o*axisDim+a)*inner+i] = e
				sum += e
			}
			for a := 0; a < axisDim; a++ {
				out[(o*axisDim+a)*inner+i] /= sum
			}
		}
	}
	return nil
}
