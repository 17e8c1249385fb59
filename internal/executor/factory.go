package executor

import (
	"fmt"

	"github.com/loom-ml/loom/internal/memory"
)

// Factory resolves one node's execution strategy against a registry. The
// candidate list is computed once at construction and never mutated; a
// successfully constructed Factory always holds at least one candidate.
// Factories are not shared across nodes, so per-node resolution needs no
// locking.
type Factory[A any] struct {
	attrs      A
	context    *Context
	candidates []*Implementation[A]
}

// NewFactory filters the registry down to the candidate implementations
// for the given attribute instance, initial memory descriptors, optional
// layout filter and optional implementation-name priority override.
// It fails with ErrNoSuitableImplementation if no candidate remains; that
// is a configuration-level precondition violation, not retried.
func NewFactory[A any](
	attrs A,
	ctx *Context,
	registry *Registry[A],
	descs memory.DescArgs,
	filter memory.LayoutFilter,
	priority string,
) (*Factory[A], error) {
	candidates := filterImplementations(registry, attrs, descs, filter, priority)
	if len(candidates) == 0 {
		if priority != "" {
			return nil, fmt.Errorf("%w: priority %q matched nothing", ErrNoSuitableImplementation, priority)
		}
		return nil, ErrNoSuitableImplementation
	}
	return &Factory[A]{attrs: attrs, context: ctx, candidates: candidates}, nil
}

// filterImplementations walks the registry in priority order and keeps
// every supporting entry. A shape-agnostic entry ends the walk: no entry
// with a lower priority can ever be chosen over it.
func filterImplementations[A any](
	registry *Registry[A],
	attrs A,
	descs memory.DescArgs,
	filter memory.LayoutFilter,
	priority string,
) []*Implementation[A] {
	cfg := Config[A]{Descs: descs, Attrs: attrs}

	var candidates []*Implementation[A]
	for _, impl := range registry.Implementations() {
		if priority != "" && impl.Name != priority {
			continue
		}
		if !impl.supports(cfg, filter) {
			continue
		}
		candidates = append(candidates, impl)
		if impl.ShapeAgnostic {
			return candidates
		}
	}
	return candidates
}

// Candidates returns the candidate implementation names in priority order.
func (f *Factory[A]) Candidates() []string {
	names := make([]string, len(f.candidates))
	for i, impl := range f.candidates {
		names[i] = impl.Name
	}
	return names
}

// ProperMemoryDescriptors returns, for each candidate, the descriptor set
// the candidate would want for the given descriptors: the candidate's
// fallback configuration when one is required, the original descriptors
// otherwise. The result is parallel in order and length to the candidate
// list. It is a pure query; callers use it to pre-select descriptors that
// avoid triggering a fallback in Make.
func (f *Factory[A]) ProperMemoryDescriptors(descs memory.DescArgs) []memory.DescArgs {
	cfg := Config[A]{Descs: descs, Attrs: f.attrs}

	out := make([]memory.DescArgs, 0, len(f.candidates))
	for _, impl := range f.candidates {
		if fallback := impl.requiresFallback(cfg); fallback != nil {
			out = append(out, fallback.Descs)
			continue
		}
		out = append(out, cfg.Descs)
	}
	return out
}

// Make builds the executor bound to concrete, now fully realized memory
// arguments. With a single candidate it binds directly, wrapping the
// implementation in a fallback pipeline if the realized layout still
// requires one; with two or more candidates it defers the choice to
// invocation time via a Variable executor. Make never returns a nil
// executor alongside a nil error.
func (f *Factory[A]) Make(args memory.Args) (Executor, error) {
	if len(f.candidates) == 1 {
		theOnly := f.candidates[0]
		cfg := Config[A]{Descs: args.Descs(), Attrs: f.attrs}

		// The fallback predicate may answer differently now that real
		// shapes are known.
		if fallback := theOnly.requiresFallback(cfg); fallback != nil {
			return newFallback(f.context, theOnly, f.attrs, cfg, *fallback, args)
		}
		return theOnly.Create(f.attrs, args, f.context)
	}

	return newVariable(args, f.attrs, f.context, f.candidates), nil
}
