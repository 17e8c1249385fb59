package rewrite

import (
	"github.com/loom-ml/loom/internal/graph"
	"github.com/loom-ml/loom/internal/ops"
	"github.com/loom-ml/loom/internal/tensor"
)

// NewTopKDowngrade lowers TopK v11 nodes to TopK v3.
// The downgrade happens only if the stable sort is NOT required: v3 has no
// stability contract, so lowering a stable TopK would change semantics.
func NewTopKDowngrade(veto Veto) *Lowering {
	return NewLowering(LoweringSpec{
		Name:        "ConvertTopK11ToTopK3",
		Kind:        ops.KindTopK,
		FromVersion: ops.TopKV11,
		ToVersion:   ops.TopKV3,
		Gate: func(n *graph.Node) bool {
			return !n.Attrs.GetBool(ops.AttrStable, false)
		},
		Rebuild: func(n *graph.Node) (ops.Attributes, error) {
			// v3 keeps everything except the stability flag.
			return ops.Attributes{
				ops.AttrAxis:      n.Attrs.GetInt(ops.AttrAxis, -1),
				ops.AttrK:         n.Attrs.GetInt(ops.AttrK, 1),
				ops.AttrMode:      n.Attrs.GetInt(ops.AttrMode, int64(ops.TopKMax)),
				ops.AttrSort:      n.Attrs.GetInt(ops.AttrSort, int64(ops.TopKSortValues)),
				ops.AttrIndexType: n.Attrs.GetInt(ops.AttrIndexType, int64(tensor.Int64)),
			}, nil
		},
	}, veto)
}
