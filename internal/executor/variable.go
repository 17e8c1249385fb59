package executor

import (
	"fmt"

	"github.com/loom-ml/loom/internal/memory"
)

// Variable is the runtime-deferred executor produced when more than one
// candidate survives filtering. It owns the realized memory arguments,
// the attribute instance, the context and the full candidate list, and
// commits to an implementation only at invocation time, when support
// predicates can be evaluated against fully concrete shapes. The choice
// mirrors the single-candidate logic of Factory.Make, per invocation.
type Variable[A any] struct {
	args       memory.Args
	attrs      A
	context    *Context
	candidates []*Implementation[A]
	// cache of directly bound executors per candidate index. Fallback
	// pipelines are rebuilt per invocation: their scratch layout depends
	// on the shapes the call arrives with.
	cache []Executor
}

func newVariable[A any](args memory.Args, attrs A, ctx *Context, candidates []*Implementation[A]) *Variable[A] {
	return &Variable[A]{
		args:       args,
		attrs:      attrs,
		context:    ctx,
		candidates: candidates,
		cache:      make([]Executor, len(candidates)),
	}
}

// Name identifies the executor in diagnostics.
func (v *Variable[A]) Name() string { return "variable" }

// CandidateNames returns the deferred candidate list in priority order.
func (v *Variable[A]) CandidateNames() []string {
	names := make([]string, len(v.candidates))
	for i, impl := range v.candidates {
		names[i] = impl.Name
	}
	return names
}

// Execute selects the highest-priority candidate still supporting the now
// concrete configuration and runs it, synthesizing a fallback pipeline if
// the candidate rejects the realized layout.
func (v *Variable[A]) Execute(args memory.Args) error {
	if args == nil {
		args = v.args
	}
	cfg := Config[A]{Descs: args.Descs(), Attrs: v.attrs}

	for i, impl := range v.candidates {
		if !impl.supports(cfg, memory.LayoutFilter{}) {
			continue
		}

		if fallback := impl.requiresFallback(cfg); fallback != nil {
			exec, err := newFallback(v.context, impl, v.attrs, cfg, *fallback, args)
			if err != nil {
				return err
			}
			return exec.Execute(args)
		}

		if v.cache[i] == nil {
			exec, err := impl.Create(v.attrs, args, v.context)
			if err != nil {
				return fmt.Errorf("%s: %w", impl.Name, err)
			}
			v.cache[i] = exec
		}
		return v.cache[i].Execute(args)
	}

	return fmt.Errorf("%w at invocation time", ErrNoSuitableImplementation)
}
