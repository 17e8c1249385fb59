package compile

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/loom-ml/loom/internal/backend/cpu"
	"github.com/loom-ml/loom/internal/executor"
	"github.com/loom-ml/loom/internal/graph"
	"github.com/loom-ml/loom/internal/memory"
	"github.com/loom-ml/loom/internal/ops"
	"github.com/loom-ml/loom/internal/parallel"
	"github.com/loom-ml/loom/internal/rewrite"
)

// Session drives execution preparation for one graph: the rewrite driver
// normalizes op versions, then every node is resolved to an executor
// against the backend registries. Registries are shared read-only; each
// node gets its own factory, so resolution runs in parallel across nodes.
type Session struct {
	id         string
	registries *cpu.Registries
	context    *executor.Context
	veto       rewrite.Veto
	opts       Options
}

// NewSession creates a compile session over the given registries.
// The veto callback (may be nil) lets the caller forbid individual rewrite
// instances, e.g. because of a downstream constraint.
func NewSession(registries *cpu.Registries, veto rewrite.Veto, opts Options) *Session {
	return &Session{
		id:         uuid.NewString(),
		registries: registries,
		context: &executor.Context{
			Parallel: opts.parallelConfig(),
			Reorders: registries.Reorder,
		},
		veto: veto,
		opts: opts,
	}
}

// ID returns the session's unique identifier.
func (s *Session) ID() string { return s.id }

// Context returns the execution context handle shared by all executors
// this session produces.
func (s *Session) Context() *executor.Context { return s.context }

// Passes returns the lowering passes this session applies, wired to its
// veto callback.
func (s *Session) Passes() []rewrite.Pass {
	return []rewrite.Pass{
		rewrite.NewTopKDowngrade(s.veto),
		rewrite.NewSoftmaxDowngrade(s.veto),
	}
}

// Compile lowers the graph and resolves an executor for every node.
// All value shapes must be static by compile time; symbolic shapes are a
// configuration error here (deferred-shape execution still works at the
// executor level through Variable executors).
func (s *Session) Compile(g *graph.Graph) (*Plan, error) {
	driver := rewrite.NewDriver(s.Passes(), s.opts.MaxSweeps)
	if _, err := driver.Run(g); err != nil {
		return nil, fmt.Errorf("session %s: %w", s.id, err)
	}

	order, err := g.TopoOrder()
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", s.id, err)
	}

	plan := &Plan{
		sessionID: s.id,
		order:     order,
		executors: make(map[graph.NodeID]executor.Executor, len(order)),
		bindings:  make(map[graph.NodeID]map[memory.ArgID]graph.ValueID, len(order)),
		buffers:   make(map[graph.ValueID]*memory.Memory),
	}

	// Bind argument roles and allocate value buffers up front; the
	// parallel resolution below only reads shared state.
	for _, id := range order {
		node := g.Node(id)
		binding, err := argBinding(node)
		if err != nil {
			return nil, fmt.Errorf("session %s: %w", s.id, err)
		}
		plan.bindings[id] = binding
		for _, v := range binding {
			if plan.buffers[v] != nil {
				continue
			}
			mem, err := memory.New(g.Value(v).Desc)
			if err != nil {
				return nil, fmt.Errorf("session %s: node %q: %w", s.id, node.Name, err)
			}
			plan.buffers[v] = mem
		}
	}

	errs := make([]error, len(order))
	parallel.For(len(order), func(i int) {
		id := order[i]
		exec, err := s.resolve(g, id, plan.bindings[id], plan.buffers)
		if err != nil {
			errs[i] = fmt.Errorf("node %q: %w", g.Node(id).Name, err)
			return
		}
		plan.mu.Lock()
		plan.executors[id] = exec
		plan.mu.Unlock()
	}, s.context.Parallel)

	for _, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("session %s: %w", s.id, err)
		}
	}

	for _, id := range order {
		node := g.Node(id)
		plan.entries = append(plan.entries, PlanEntry{
			Node:     id,
			Name:     node.Name,
			Op:       fmt.Sprintf("%s v%d", node.Kind, node.Version),
			Executor: plan.executors[id].Name(),
		})
	}
	return plan, nil
}

// resolve binds one node to an executor through the registry filter and
// Make. A failed filter is fatal for the node's subtree and not retried.
func (s *Session) resolve(
	g *graph.Graph,
	id graph.NodeID,
	binding map[memory.ArgID]graph.ValueID,
	buffers map[graph.ValueID]*memory.Memory,
) (executor.Executor, error) {
	node := g.Node(id)

	descs := make(memory.DescArgs, len(binding))
	args := make(memory.Args, len(binding))
	for role, v := range binding {
		descs[role] = g.Value(v).Desc
		args[role] = buffers[v]
	}

	filter := memory.LayoutFilter{}
	priority := s.opts.ImplementationPriority

	switch node.Kind {
	case ops.KindTopK:
		if node.Version != ops.TopKV3 {
			return nil, fmt.Errorf("TopK v%d not executable; lowering left it behind", node.Version)
		}
		f, err := executor.NewFactory(topKAttrsFrom(node), s.context, s.registries.TopK, descs, filter, priority)
		if err != nil {
			return nil, err
		}
		return f.Make(args)
	case ops.KindMatMul:
		f, err := executor.NewFactory(matMulAttrsFrom(node), s.context, s.registries.MatMul, descs, filter, priority)
		if err != nil {
			return nil, err
		}
		return f.Make(args)
	case ops.KindSoftmax:
		if node.Version != ops.SoftmaxV1 {
			return nil, fmt.Errorf("Softmax v%d not executable; lowering left it behind", node.Version)
		}
		f, err := executor.NewFactory(softmaxAttrsFrom(node), s.context, s.registries.Softmax, descs, filter, priority)
		if err != nil {
			return nil, err
		}
		return f.Make(args)
	case ops.KindReorder:
		f, err := executor.NewFactory(ops.ReorderAttrs{}, s.context, s.registries.Reorder, descs, filter, priority)
		if err != nil {
			return nil, err
		}
		return f.Make(args)
	default:
		return nil, fmt.Errorf("unsupported kind %s", node.Kind)
	}
}
