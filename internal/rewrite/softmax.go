package rewrite

import (
	"github.com/loom-ml/loom/internal/graph"
	"github.com/loom-ml/loom/internal/ops"
)

// NewSoftmaxDowngrade lowers Softmax v13 nodes to Softmax v1.
// v1 normalizes over a non-negative axis, so the lowering is gated on the
// axis already being resolved to a non-negative value.
func NewSoftmaxDowngrade(veto Veto) *Lowering {
	return NewLowering(LoweringSpec{
		Name:        "ConvertSoftmax13ToSoftmax1",
		Kind:        ops.KindSoftmax,
		FromVersion: ops.SoftmaxV13,
		ToVersion:   ops.SoftmaxV1,
		Gate: func(n *graph.Node) bool {
			return n.Attrs.GetInt(ops.AttrAxis, -1) >= 0
		},
		Rebuild: func(n *graph.Node) (ops.Attributes, error) {
			return ops.Attributes{
				ops.AttrAxis: n.Attrs.GetInt(ops.AttrAxis, -1),
			}, nil
		},
	}, veto)
}
