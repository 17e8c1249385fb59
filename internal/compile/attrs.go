package compile

import (
	"fmt"

	"github.com/loom-ml/loom/internal/graph"
	"github.com/loom-ml/loom/internal/memory"
	"github.com/loom-ml/loom/internal/ops"
	"github.com/loom-ml/loom/internal/tensor"
)

// topKAttrsFrom builds the typed TopK configuration from a node's
// attribute bag.
func topKAttrsFrom(n *graph.Node) ops.TopKAttrs {
	return ops.TopKAttrs{
		Axis:      int(n.Attrs.GetInt(ops.AttrAxis, -1)),
		K:         int(n.Attrs.GetInt(ops.AttrK, 1)),
		Mode:      ops.TopKMode(n.Attrs.GetInt(ops.AttrMode, int64(ops.TopKMax))),
		Sort:      ops.TopKSort(n.Attrs.GetInt(ops.AttrSort, int64(ops.TopKSortValues))),
		IndexType: tensor.DataType(n.Attrs.GetInt(ops.AttrIndexType, int64(tensor.Int64))),
	}
}

// matMulAttrsFrom builds the typed MatMul configuration.
func matMulAttrsFrom(n *graph.Node) ops.MatMulAttrs {
	return ops.MatMulAttrs{
		TransposeA: n.Attrs.GetBool(ops.AttrTransA, false),
		TransposeB: n.Attrs.GetBool(ops.AttrTransB, false),
		WithBias:   len(n.Inputs()) > 2,
	}
}

// softmaxAttrsFrom builds the typed Softmax configuration.
func softmaxAttrsFrom(n *graph.Node) ops.SoftmaxAttrs {
	return ops.SoftmaxAttrs{
		Axis: int(n.Attrs.GetInt(ops.AttrAxis, -1)),
	}
}

// argBinding maps a node's value handles onto argument roles, per kind.
func argBinding(n *graph.Node) (map[memory.ArgID]graph.ValueID, error) {
	inputs, outputs := n.Inputs(), n.Outputs()
	binding := make(map[memory.ArgID]graph.ValueID)

	switch n.Kind {
	case ops.KindTopK:
		if len(inputs) < 1 || len(outputs) < 2 {
			return nil, fmt.Errorf("TopK %q: want 1 input and 2 outputs, got %d/%d", n.Name, len(inputs), len(outputs))
		}
		binding[memory.ArgSrc] = inputs[0]
		binding[memory.ArgDst] = outputs[0]
		binding[memory.ArgDst2] = outputs[1]
	case ops.KindMatMul:
		if len(inputs) < 2 || len(outputs) < 1 {
			return nil, fmt.Errorf("MatMul %q: want 2 inputs and 1 output, got %d/%d", n.Name, len(inputs), len(outputs))
		}
		binding[memory.ArgSrc] = inputs[0]
		binding[memory.ArgWei] = inputs[1]
		if len(inputs) > 2 {
			binding[memory.ArgBia] = inputs[2]
		}
		binding[memory.ArgDst] = outputs[0]
	case ops.KindSoftmax, ops.KindReorder:
		if len(inputs) < 1 || len(outputs) < 1 {
			return nil, fmt.Errorf("%s %q: want 1 input and 1 output, got %d/%d", n.Kind, n.Name, len(inputs), len(outputs))
		}
		binding[memory.ArgSrc] = inputs[0]
		binding[memory.ArgDst] = outputs[0]
	default:
		return nil, fmt.Errorf("unsupported kind %s", n.Kind)
	}
	return binding, nil
}
