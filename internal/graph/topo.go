package graph

import (
	"errors"
	"fmt"
)

// ErrCycle is reported when the graph is not acyclic.
var ErrCycle = errors.New("graph contains a cycle")

// TopoOrder returns the live node handles in a deterministic topological
// order: among ready nodes, lower handles come first. Returns ErrCycle if
// the acyclic invariant is broken.
func (g *Graph) TopoOrder() ([]NodeID, error) {
	// Count unresolved producer dependencies per node.
	indeg := make(map[NodeID]int)
	for _, id := range g.NodeIDs() {
		node := g.nodes[id]
		seen := make(map[NodeID]bool)
		for _, in := range node.inputs {
			p := g.values[in].producer
			if p != InvalidNode && g.nodes[p] != nil && !seen[p] {
				seen[p] = true
				indeg[id]++
			}
		}
	}

	var order []NodeID
	ready := make([]NodeID, 0)
	for _, id := range g.NodeIDs() {
		if indeg[id] == 0 {
			ready = append(ready, id)
		}
	}

	for len(ready) > 0 {
		// Pop the smallest handle for determinism.
		minIdx := 0
		for i, id := range ready {
			if id < ready[minIdx] {
				minIdx = i
			}
		}
		id := ready[minIdx]
		ready = append(ready[:minIdx], ready[minIdx+1:]...)
		order = append(order, id)

		released := make(map[NodeID]bool)
		for _, out := range g.nodes[id].outputs {
			for _, consumer := range g.Consumers(out) {
				if released[consumer] {
					continue
				}
				released[consumer] = true
				indeg[consumer]--
				if indeg[consumer] == 0 {
					ready = append(ready, consumer)
				}
			}
		}
	}

	if len(order) != g.NumNodes() {
		return nil, fmt.Errorf("%w: %d of %d nodes ordered", ErrCycle, len(order), g.NumNodes())
	}
	return order, nil
}
