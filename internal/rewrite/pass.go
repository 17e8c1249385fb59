// Package rewrite implements the lowering passes that normalize a graph
// before executor resolution: each pass pattern-matches one (kind, version)
// contract and substitutes a semantically equivalent lower-version node,
// preserving name and provenance. Passes never partially mutate the graph.
package rewrite

import (
	"fmt"

	"github.com/loom-ml/loom/internal/graph"
	"github.com/loom-ml/loom/internal/ops"
)

// Veto lets the enclosing compile session forbid a specific rewrite
// instance, e.g. because of a downstream constraint the pass cannot see.
// Returning true blocks the rewrite.
type Veto func(*graph.Node) bool

// Pass is one graph rewrite. Apply inspects a single node and reports
// whether it mutated the graph. A false return guarantees the graph is
// untouched.
type Pass interface {
	Name() string
	Apply(g *graph.Graph, id graph.NodeID) (bool, error)
}

// LoweringSpec declares a version-lowering pass: the (kind, version)
// pattern it matches, the target version, an optional gating condition and
// the attribute translation. Input bindings are always carried forward
// unchanged.
type LoweringSpec struct {
	Name        string
	Kind        ops.Kind
	FromVersion int
	ToVersion   int
	// Gate must return true for the lowering to proceed. A nil gate
	// always allows it.
	Gate func(*graph.Node) bool
	// Rebuild translates the matched node's attributes into the target
	// version's semantically equivalent subset.
	Rebuild func(*graph.Node) (ops.Attributes, error)
}

// Lowering is the generic version-lowering pass. All concrete passes in
// this package are instances of it.
type Lowering struct {
	spec LoweringSpec
	veto Veto
}

// NewLowering builds a lowering pass from its declaration and an
// externally supplied veto callback (may be nil).
func NewLowering(spec LoweringSpec, veto Veto) *Lowering {
	return &Lowering{spec: spec, veto: veto}
}

// Name returns the pass name used in diagnostics.
func (l *Lowering) Name() string { return l.spec.Name }

// Apply performs the lowering on one node. The replacement carries the
// original's inputs, name and provenance; every consumer of the original's
// outputs is rewired to the replacement before the original is removed.
// A lowered node no longer matches the pattern, so re-running the pass on
// its own output is a no-op.
func (l *Lowering) Apply(g *graph.Graph, id graph.NodeID) (bool, error) {
	node := g.Node(id)
	if node == nil || node.Kind != l.spec.Kind || node.Version != l.spec.FromVersion {
		return false, nil
	}
	if l.spec.Gate != nil && !l.spec.Gate(node) {
		return false, nil
	}
	if l.veto != nil && l.veto(node) {
		return false, nil
	}

	attrs, err := l.spec.Rebuild(node)
	if err != nil {
		return false, fmt.Errorf("%s: rebuild %q: %w", l.spec.Name, node.Name, err)
	}

	_, err = g.Replace(id, graph.NodeSpec{
		Kind:       l.spec.Kind,
		Version:    l.spec.ToVersion,
		Name:       node.Name,
		Attrs:      attrs,
		Provenance: cloneProvenance(node.Provenance),
		Inputs:     node.Inputs(),
	})
	if err != nil {
		return false, fmt.Errorf("%s: replace %q: %w", l.spec.Name, node.Name, err)
	}
	return true, nil
}

func cloneProvenance(prov map[string]string) map[string]string {
	if prov == nil {
		return nil
	}
	out := make(map[string]string, len(prov))
	for k, v := range prov {
		out[k] = v
	}
	return out
}
