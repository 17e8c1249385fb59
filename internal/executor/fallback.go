package executor

import (
	"fmt"
	"sort"

	"github.com/loom-ml/loom/internal/memory"
	"github.com/loom-ml/loom/internal/ops"
)

// fallbackStep is one layout conversion around the wrapped implementation:
// a reorder executor and the argument role it adapts.
type fallbackStep struct {
	role memory.ArgID
	exec Executor
}

// Fallback wraps an implementation whose required layout differs from the
// available one in a synthesized adapter sub-pipeline: input arguments are
// reordered into the implementation's layout before it runs, outputs are
// reordered back afterwards. The reorder steps are compiled through the
// same resolution machinery as any other node.
type Fallback struct {
	name    string
	inner   Executor
	scratch memory.Args
	pre     []fallbackStep
	post    []fallbackStep
}

// Name returns the diagnostic tag, carrying the wrapped implementation's
// name.
func (f *Fallback) Name() string { return f.name }

// Execute adapts the arguments, runs the wrapped implementation and
// propagates its outputs back into the caller's layout.
func (f *Fallback) Execute(args memory.Args) error {
	for _, step := range f.pre {
		err := step.exec.Execute(memory.Args{
			memory.ArgSrc: args[step.role],
			memory.ArgDst: f.scratch[step.role],
		})
		if err != nil {
			return fmt.Errorf("%s: adapt %s: %w", f.name, step.role, err)
		}
	}

	if err := f.inner.Execute(f.adapted(args)); err != nil {
		return fmt.Errorf("%s: %w", f.name, err)
	}

	for _, step := range f.post {
		err := step.exec.Execute(memory.Args{
			memory.ArgSrc: f.scratch[step.role],
			memory.ArgDst: args[step.role],
		})
		if err != nil {
			return fmt.Errorf("%s: restore %s: %w", f.name, step.role, err)
		}
	}
	return nil
}

// adapted overlays the scratch buffers onto the caller's arguments.
func (f *Fallback) adapted(args memory.Args) memory.Args {
	out := make(memory.Args, len(args))
	for role, mem := range args {
		out[role] = mem
	}
	for role, mem := range f.scratch {
		out[role] = mem
	}
	return out
}

// newFallback synthesizes the adapter pipeline for one implementation:
// scratch memory in the required layout for every mismatched argument,
// plus reorder executors compiled recursively through NewFactory against
// the context's reorder registry. The reference reorder implementation is
// layout-universal, so the recursion terminates after one level.
func newFallback[A any](
	ctx *Context,
	impl *Implementation[A],
	attrs A,
	cfg Config[A],
	fallbackCfg Config[A],
	args memory.Args,
) (Executor, error) {
	name := fmt.Sprintf("fallback(%s)", impl.Name)
	if ctx == nil || ctx.Reorders == nil {
		return nil, fmt.Errorf("%s: no reorder registry in context", name)
	}

	f := &Fallback{name: name, scratch: memory.Args{}}

	for _, role := range sortedRoles(fallbackCfg.Descs) {
		want := fallbackCfg.Descs[role]
		have, ok := cfg.Descs[role]
		if !ok {
			return nil, fmt.Errorf("%s: fallback names role %s but no argument is bound to it", name, role)
		}
		if want.Equal(have) {
			continue
		}
		if !want.IsStatic() {
			return nil, fmt.Errorf("%s: fallback descriptor %s for %s is still symbolic", name, want, role)
		}

		scratch, err := memory.New(want)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		f.scratch[role] = scratch

		output := role == memory.ArgDst || role == memory.ArgDst2
		src, dst := have, want
		srcMem, dstMem := args[role], scratch
		if output {
			src, dst = want, have
			srcMem, dstMem = scratch, args[role]
		}

		reorder, err := compileReorder(ctx, src, dst, srcMem, dstMem)
		if err != nil {
			return nil, fmt.Errorf("%s: reorder %s: %w", name, role, err)
		}
		if output {
			f.post = append(f.post, fallbackStep{role: role, exec: reorder})
		} else {
			f.pre = append(f.pre, fallbackStep{role: role, exec: reorder})
		}
	}

	inner, err := impl.Create(attrs, f.adapted(args), ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	f.inner = inner
	return f, nil
}

// compileReorder resolves one layout-conversion step through the regular
// factory machinery.
func compileReorder(ctx *Context, src, dst memory.Desc, srcMem, dstMem *memory.Memory) (Executor, error) {
	descs := memory.DescArgs{memory.ArgSrc: src, memory.ArgDst: dst}
	factory, err := NewFactory(ops.ReorderAttrs{}, ctx, ctx.Reorders, descs, memory.LayoutFilter{}, "")
	if err != nil {
		return nil, err
	}
	return factory.Make(memory.Args{memory.ArgSrc: srcMem, memory.ArgDst: dstMem})
}

func sortedRoles(descs memory.DescArgs) []memory.ArgID {
	roles := make([]memory.ArgID, 0, len(descs))
	for role := range descs {
		roles = append(roles, role)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i] < roles[j] })
	return roles
}
