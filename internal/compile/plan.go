package compile

import (
	"fmt"
	"sync"

	"github.com/loom-ml/loom/internal/executor"
	"github.com/loom-ml/loom/internal/graph"
	"github.com/loom-ml/loom/internal/memory"
)

// PlanEntry describes one resolved node for diagnostics.
type PlanEntry struct {
	Node     graph.NodeID
	Name     string
	Op       string
	Executor string
}

// Plan is a compiled execution plan: executors in topological order plus
// the value buffers they exchange. The plan owns its executors; they die
// with it.
type Plan struct {
	sessionID string
	order     []graph.NodeID
	executors map[graph.NodeID]executor.Executor
	bindings  map[graph.NodeID]map[memory.ArgID]graph.ValueID
	buffers   map[graph.ValueID]*memory.Memory
	entries   []PlanEntry

	mu sync.Mutex // guards executors during parallel resolution
}

// SessionID returns the id of the session that produced the plan.
func (p *Plan) SessionID() string { return p.sessionID }

// Entries returns one diagnostic entry per node, in execution order.
func (p *Plan) Entries() []PlanEntry { return p.entries }

// Buffer exposes the memory bound to a value, for feeding graph inputs
// and reading outputs.
func (p *Plan) Buffer(v graph.ValueID) *memory.Memory { return p.buffers[v] }

// Executor returns the executor bound to a node.
func (p *Plan) Executor(id graph.NodeID) executor.Executor { return p.executors[id] }

// Run executes every node in topological order.
func (p *Plan) Run() error {
	for _, id := range p.order {
		args := make(memory.Args, len(p.bindings[id]))
		for role, v := range p.bindings[id] {
			args[role] = p.buffers[v]
		}
		if err := p.executors[id].Execute(args); err != nil {
			return fmt.Errorf("plan %s: node %d: %w", p.sessionID, id, err)
		}
	}
	return nil
}
