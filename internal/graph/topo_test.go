package graph

import (
	"testing"

	"github.com/loom-ml/loom/internal/memory"
	"github.com/loom-ml/loom/internal/ops"
)

func TestTopoOrderChain(t *testing.T) {
	g, sm, tk := buildChain(t)

	order, err := g.TopoOrder()
	if err != nil {
		t.Fatalf("TopoOrder: %v", err)
	}
	if len(order) != 2 {
		t.Fatalf("order length = %d, want 2", len(order))
	}
	if order[0] != sm || order[1] != tk {
		t.Errorf("order = %v, want [%d %d]", order, sm, tk)
	}
}

func TestTopoOrderDiamond(t *testing.T) {
	g := New()
	in := g.AddInput(f32(2, 2))

	mk := func(name string, inputs []ValueID) NodeID {
		id, err := g.AddNode(NodeSpec{
			Kind:     ops.KindSoftmax,
			Version:  ops.SoftmaxV1,
			Name:     name,
			Attrs:    ops.Attributes{ops.AttrAxis: int64(1)},
			Inputs:   inputs,
			OutDescs: []memory.Desc{f32(2, 2)},
		})
		if err != nil {
			t.Fatalf("AddNode %s: %v", name, err)
		}
		return id
	}

	top := mk("top", []ValueID{in})
	left := mk("left", []ValueID{g.Node(top).Outputs()[0]})
	right := mk("right", []ValueID{g.Node(top).Outputs()[0]})
	mm, err := g.AddNode(NodeSpec{
		Kind:     ops.KindMatMul,
		Version:  ops.MatMulV1,
		Name:     "join",
		Inputs:   []ValueID{g.Node(left).Outputs()[0], g.Node(right).Outputs()[0]},
		OutDescs: []memory.Desc{f32(2, 2)},
	})
	if err != nil {
		t.Fatalf("AddNode join: %v", err)
	}

	order, err := g.TopoOrder()
	if err != nil {
		t.Fatalf("TopoOrder: %v", err)
	}
	pos := map[NodeID]int{}
	for i, id := range order {
		pos[id] = i
	}
	if pos[top] > pos[left] || pos[top] > pos[right] || pos[left] > pos[mm] || pos[right] > pos[mm] {
		t.Errorf("order %v violates dependencies", order)
	}
}

func TestTopoOrderDeterministic(t *testing.T) {
	g, _, _ := buildChain(t)
	first, err := g.TopoOrder()
	if err != nil {
		t.Fatalf("TopoOrder: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := g.TopoOrder()
		if err != nil {
			t.Fatalf("TopoOrder: %v", err)
		}
		for j := range first {
			if first[j] != again[j] {
				t.Fatalf("run %d: order %v differs from %v", i, again, first)
			}
		}
	}
}
