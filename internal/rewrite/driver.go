package rewrite

import (
	"errors"
	"fmt"

	"github.com/loom-ml/loom/internal/graph"
)

// ErrSweepLimit is reported when passes keep mutating the graph after the
// bounded number of full sweeps, which indicates alternating rewrites.
var ErrSweepLimit = errors.New("rewrite sweep limit exceeded")

// DefaultMaxSweeps bounds driver iteration. Well-formed lowering passes
// converge in a single sweep; the bound only guards against pathological
// pass sets.
const DefaultMaxSweeps = 10

// Driver iterates registered passes over every node until a full sweep
// reports no change, or the sweep ceiling is hit.
//
// The driver mutates the shared graph and must therefore run with
// single-writer discipline; per-node parallelism belongs to resolution,
// not rewriting.
type Driver struct {
	passes    []Pass
	maxSweeps int
}

// NewDriver builds a driver over the given passes. maxSweeps <= 0 selects
// DefaultMaxSweeps.
func NewDriver(passes []Pass, maxSweeps int) *Driver {
	if maxSweeps <= 0 {
		maxSweeps = DefaultMaxSweeps
	}
	return &Driver{passes: passes, maxSweeps: maxSweeps}
}

// Run sweeps all passes over all nodes until quiescence and returns the
// number of sweeps that mutated the graph. ErrSweepLimit is returned if
// the graph is still changing when the ceiling is reached.
func (d *Driver) Run(g *graph.Graph) (int, error) {
	for sweep := 0; sweep < d.maxSweeps; sweep++ {
		changed := false
		for _, pass := range d.passes {
			for _, id := range g.NodeIDs() {
				ch, err := pass.Apply(g, id)
				if err != nil {
					return sweep, fmt.Errorf("pass %s: %w", pass.Name(), err)
				}
				changed = changed || ch
			}
		}
		if !changed {
			return sweep, nil
		}
	}
	return d.maxSweeps, fmt.Errorf("%w: still changing after %d sweeps", ErrSweepLimit, d.maxSweeps)
}
