// Package graph implements the computation graph the engine lowers and
// compiles: an arena of operation nodes addressed by stable handles,
// connected by value edges. Nodes are replaced, never mutated in place;
// replacement transfers the removed node's output values to its successor
// so every consumer is rewired in one step.
package graph

import (
	"errors"
	"fmt"

	"github.com/loom-ml/loom/internal/memory"
	"github.com/loom-ml/loom/internal/ops"
)

// Errors reported by graph mutation.
var (
	ErrNodeRemoved    = errors.New("node has been removed")
	ErrUnknownValue   = errors.New("unknown value handle")
	ErrOutputMismatch = errors.New("replacement output count differs from original")
	ErrWouldCycle     = errors.New("replacement would introduce a cycle")
)

// NodeID is a stable handle into the graph's node arena.
type NodeID int

// ValueID is a stable handle into the graph's value arena.
type ValueID int

// InvalidNode marks a value produced by no node (a graph input).
const InvalidNode NodeID = -1

// Value is one edge endpoint: a tensor flowing between nodes, carrying
// its compile-time layout description.
type Value struct {
	Desc     memory.Desc
	producer NodeID
	slot     int
}

// Producer returns the node producing this value, or InvalidNode for
// graph inputs.
func (v *Value) Producer() NodeID { return v.producer }

// Slot returns the output slot index within the producer.
func (v *Value) Slot() int { return v.slot }

// Node is one operation in the graph, identified by its (kind, version)
// behavior contract.
type Node struct {
	Kind       ops.Kind
	Version    int
	Name       string
	Attrs      ops.Attributes
	Provenance map[string]string

	inputs  []ValueID
	outputs []ValueID
}

// Inputs returns the node's ordered input value handles.
func (n *Node) Inputs() []ValueID {
	out := make([]ValueID, len(n.inputs))
	copy(out, n.inputs)
	return out
}

// Outputs returns the node's ordered output value handles.
func (n *Node) Outputs() []ValueID {
	out := make([]ValueID, len(n.outputs))
	copy(out, n.outputs)
	return out
}

// NodeSpec describes a node to be added or substituted.
type NodeSpec struct {
	Kind       ops.Kind
	Version    int
	Name       string
	Attrs      ops.Attributes
	Provenance map[string]string
	Inputs     []ValueID
	// OutDescs is used by AddNode to create fresh output values. Replace
	// transfers the original's outputs instead; when OutDescs is set
	// there, its length must match the original's output count.
	OutDescs []memory.Desc
}

// Graph is a directed acyclic graph of operation nodes. Acyclicity is an
// invariant: construction only references existing values, and Replace
// verifies it cannot close a cycle before committing.
type Graph struct {
	nodes  []*Node  // arena; nil entries are removed nodes
	values []*Value // arena; values are never removed
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{}
}

// AddInput creates a graph-input value with the given descriptor.
func (g *Graph) AddInput(desc memory.Desc) ValueID {
	id := ValueID(len(g.values))
	g.values = append(g.values, &Value{Desc: desc, producer: InvalidNode})
	return id
}

// AddNode appends a node, creating one output value per entry of
// spec.OutDescs. All inputs must reference existing values, which keeps
// the graph acyclic by construction.
func (g *Graph) AddNode(spec NodeSpec) (NodeID, error) {
	for _, in := range spec.Inputs {
		if int(in) < 0 || int(in) >= len(g.values) {
			return InvalidNode, fmt.Errorf("input %d: %w", in, ErrUnknownValue)
		}
	}

	id := NodeID(len(g.nodes))
	node := &Node{
		Kind:       spec.Kind,
		Version:    spec.Version,
		Name:       spec.Name,
		Attrs:      spec.Attrs,
		Provenance: spec.Provenance,
		inputs:     append([]ValueID(nil), spec.Inputs...),
	}
	for slot, desc := range spec.OutDescs {
		vid := ValueID(len(g.values))
		g.values = append(g.values, &Value{Desc: desc, producer: id, slot: slot})
		node.outputs = append(node.outputs, vid)
	}
	g.nodes = append(g.nodes, node)
	return id, nil
}

// Node returns the node for a handle, or nil if it was removed.
func (g *Graph) Node(id NodeID) *Node {
	if int(id) < 0 || int(id) >= len(g.nodes) {
		return nil
	}
	return g.nodes[id]
}

// Value returns the value for a handle, or nil for an unknown handle.
func (g *Graph) Value(id ValueID) *Value {
	if int(id) < 0 || int(id) >= len(g.values) {
		return nil
	}
	return g.values[id]
}

// NodeIDs returns the handles of all live nodes in insertion order.
func (g *Graph) NodeIDs() []NodeID {
	out := make([]NodeID, 0, len(g.nodes))
	for i, n := range g.nodes {
		if n != nil {
			out = append(out, NodeID(i))
		}
	}
	return out
}

// NumNodes returns the number of live nodes.
func (g *Graph) NumNodes() int {
	n := 0
	for _, node := range g.nodes {
		if node != nil {
			n++
		}
	}
	return n
}

// Consumers returns the live nodes reading the given value, in insertion
// order.
func (g *Graph) Consumers(v ValueID) []NodeID {
	var out []NodeID
	for i, n := range g.nodes {
		if n == nil {
			continue
		}
		for _, in := range n.inputs {
			if in == v {
				out = append(out, NodeID(i))
				break
			}
		}
	}
	return out
}

// Replace atomically substitutes a replacement node for an existing one.
// The replacement takes over the original's output values, so every edge
// that referenced the original's outputs now references the replacement's
// corresponding outputs; the original is then removed. The call either
// fully completes or leaves the graph untouched.
func (g *Graph) Replace(old NodeID, spec NodeSpec) (NodeID, error) {
	origin := g.Node(old)
	if origin == nil {
		return InvalidNode, fmt.Errorf("node %d: %w", old, ErrNodeRemoved)
	}
	if spec.OutDescs != nil && len(spec.OutDescs) != len(origin.outputs) {
		return InvalidNode, fmt.Errorf("node %d: %d outputs, replacement declares %d: %w",
			old, len(origin.outputs), len(spec.OutDescs), ErrOutputMismatch)
	}
	for _, in := range spec.Inputs {
		if g.Value(in) == nil {
			return InvalidNode, fmt.Errorf("input %d: %w", in, ErrUnknownValue)
		}
	}
	// A cycle can only close if a replacement input depends on one of the
	// original's own outputs. Checked up front so the mutation below is
	// all-or-nothing.
	for _, in := range spec.Inputs {
		if g.dependsOn(in, old) {
			return InvalidNode, fmt.Errorf("input %d depends on node %d: %w", in, old, ErrWouldCycle)
		}
	}

	id := NodeID(len(g.nodes))
	node := &Node{
		Kind:       spec.Kind,
		Version:    spec.Version,
		Name:       spec.Name,
		Attrs:      spec.Attrs,
		Provenance: spec.Provenance,
		inputs:     append([]ValueID(nil), spec.Inputs...),
		outputs:    append([]ValueID(nil), origin.outputs...),
	}
	g.nodes = append(g.nodes, node)
	for slot, vid := range node.outputs {
		g.values[vid].producer = id
		g.values[vid].slot = slot
	}
	g.nodes[old] = nil
	return id, nil
}

// dependsOn reports whether value v is transitively produced by node id.
func (g *Graph) dependsOn(v ValueID, id NodeID) bool {
	producer := g.values[v].producer
	if producer == InvalidNode {
		return false
	}
	if producer == id {
		return true
	}
	node := g.nodes[producer]
	if node == nil {
		return false
	}
	for _, in := range node.inputs {
		if g.dependsOn(in, id) {
			return true
		}
	}
	return false
}

// ValidateAcyclic verifies the acyclic invariant over the whole graph.
// It is cheap enough to run after every rewrite sweep in tests.
func (g *Graph) ValidateAcyclic() error {
	_, err := g.TopoOrder()
	return err
}
