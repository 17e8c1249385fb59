package ops

import "github.com/loom-ml/loom/internal/tensor"

// TopKMode selects which extreme TopK returns.
type TopKMode int

// TopK modes.
const (
	TopKMax TopKMode = iota
	TopKMin
)

// TopKSort orders TopK's output.
type TopKSort int

// TopK sort orders.
const (
	TopKSortValues TopKSort = iota
	TopKSortIndices
	TopKSortNone
)

// TopKAttrs is the attribute configuration for TopK nodes as consumed by
// the implementation registry.
type TopKAttrs struct {
	Axis      int
	K         int
	Mode      TopKMode
	Sort      TopKSort
	IndexType tensor.DataType
}

// MatMulAttrs is the attribute configuration for MatMul nodes.
type MatMulAttrs struct {
	TransposeA bool
	TransposeB bool
	WithBias   bool
}

// SoftmaxAttrs is the attribute configuration for Softmax nodes.
type SoftmaxAttrs struct {
	Axis int
}

// ReorderAttrs is the attribute configuration for layout-conversion nodes.
// The source and destination layouts live entirely in the memory
// descriptors, so the attrs carry nothing.
type ReorderAttrs struct{}

// Node attribute names shared by graph construction and rewrite passes.
const (
	AttrAxis      = "axis"
	AttrK         = "k"
	AttrMode      = "mode"
	AttrSort      = "sort"
	AttrIndexType = "index_type"
	AttrStable    = "stable"
	AttrTransA    = "transpose_a"
	AttrTransB    = "transpose_b"
)
