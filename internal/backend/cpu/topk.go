package cpu

import (
	"fmt"
	"sort"

	"github.com/loom-ml/loom/internal/executor"
	"github.com/loom-ml/loom/internal/memory"
	"github.com/loom-ml/loom/internal/ops"
	"github.com/loom-ml/loom/internal/tensor"
)

// registerTopK installs the TopK implementation list: one reference kernel
// that consumes plain layouts and requests a fallback for anything else.
func registerTopK(r *executor.Registry[ops.TopKAttrs]) {
	r.Register(executor.Implementation[ops.TopKAttrs]{
		Name:          "ref_topk",
		ShapeAgnostic: true,
		Supports: func(cfg executor.Config[ops.TopKAttrs], filter memory.LayoutFilter) bool {
			src, ok := cfg.Descs[memory.ArgSrc]
			if !ok || src.Type != tensor.Float32 {
				return false
			}
			if cfg.Attrs.IndexType != tensor.Int32 && cfg.Attrs.IndexType != tensor.Int64 {
				return false
			}
			return filter.AcceptsInput(memory.FormatPlain)
		},
		RequiresFallback: func(cfg executor.Config[ops.TopKAttrs]) *executor.Config[ops.TopKAttrs] {
			want := plainDescs(cfg.Descs)
			if descsEqual(cfg.Descs, want) {
				return nil
			}
			return &executor.Config[ops.TopKAttrs]{Descs: want, Attrs: cfg.Attrs}
		},
		Create: func(attrs ops.TopKAttrs, _ memory.Args, _ *executor.Context) (executor.Executor, error) {
			return &kernelExecutor{name: "ref_topk", run: func(args memory.Args) error {
				return topkKernel(attrs, args)
			}}, nil
		},
	})
}

// topkKernel selects the k largest (or smallest) elements along the axis.
// Ties keep the lower index first, which matches the stable-sort contract
// of the higher op versions for free.
func topkKernel(attrs ops.TopKAttrs, args memory.Args) error {
	src, values, indices := args[memory.ArgSrc], args[memory.ArgDst], args[memory.ArgDst2]
	if src == nil || values == nil || indices == nil {
		return fmt.Errorf("topk: missing argument")
	}

	shape := src.Desc.Shape
	axis := attrs.Axis
	if axis < 0 {
		axis += shape.Rank()
	}
	if axis < 0 || axis >= shape.Rank() {
		return fmt.Errorf("topk: axis %d out of range for %s", attrs.Axis, shape)
	}
	axisDim := shape[axis]
	k := attrs.K
	if k <= 0 || k > axisDim {
		return fmt.Errorf("topk: k=%d out of range for axis extent %d", k, axisDim)
	}

	outer, inner := 1, 1
	for i := 0; i < axis; i++ {
		outer *= shape[i]
	}
	for i := axis + 1; i < shape.Rank(); i++ {
		inner *= shape[i]
	}

	in := src.Data.AsFloat32()
	outV := values.Data.AsFloat32()

	type pair struct {
		value float32
		index int
	}

	for o := 0; o < outer; o++ {
		for i := 0; i < inner; i++ {
			slice := make([]pair, axisDim)
			for a := 0; a < axisDim; a++ {
				slice[a] = pair{value: in[(o*axisDim+a)*inner+i], index: a}
			}
			sort.SliceStable(slice, func(x, y int) bool {
				if attrs.Mode == ops.TopKMin {
					return slice[x].value < slice[y].value
				}
				return slice[x].value > slice[y].value
			})
			top := slice[:k]
			if attrs.Sort == ops.TopKSortIndices {
				sort.Slice(top, func(x, y int) bool { return top[x].index < top[y].index })
			}
			for a, p := range top {
				pos := (o*k+a)*inner + i
				outV[pos] = p.value
				if attrs.IndexType == tensor.Int32 {
					indices.Data.AsInt32()[pos] = int32(p.index)
				} else {
					indices.Data.AsInt64()[pos] = int64(p.index)
				}
			}
		}
	}
	return nil
}
