package executor

import "github.com/loom-ml/loom/internal/memory"

// Implementation is an immutable descriptor of one backend implementation
// for a given attribute-configuration type. Implementations are registered
// once at session start and referenced, never copied, by resolvers.
type Implementation[A any] struct {
	// Name identifies the implementation in priority overrides and
	// diagnostics.
	Name string
	// ShapeAgnostic marks support that does not depend on concrete
	// tensor shapes. Once a shape-agnostic implementation is selected
	// during filtering, no lower-priority entry can ever be preferred.
	ShapeAgnostic bool
	// Supports reports whether the implementation can execute the given
	// configuration under the layout filter. A nil predicate accepts
	// everything.
	Supports func(cfg Config[A], filter memory.LayoutFilter) bool
	// RequiresFallback returns the configuration the implementation
	// actually needs, or nil when it can consume the given one directly.
	// A nil predicate never requests fallback.
	RequiresFallback func(cfg Config[A]) *Config[A]
	// Create builds the executor bound to realized memory arguments.
	Create func(attrs A, args memory.Args, ctx *Context) (Executor, error)
}

func (impl *Implementation[A]) supports(cfg Config[A], filter memory.LayoutFilter) bool {
	if impl.Supports == nil {
		return true
	}
	return impl.Supports(cfg, filter)
}

func (impl *Implementation[A]) requiresFallback(cfg Config[A]) *Config[A] {
	if impl.RequiresFallback == nil {
		return nil
	}
	return impl.RequiresFallback(cfg)
}

// Registry is the static, priority-ordered list of implementations for one
// attribute-configuration type. Registration order is priority: the first
// registered entry is preferred whenever several support a configuration.
// A registry is built once, before any resolution, and must be treated as
// read-only afterwards; that makes it safe to share across concurrently
// resolving nodes.
type Registry[A any] struct {
	impls []*Implementation[A]
}

// NewRegistry creates an empty registry.
func NewRegistry[A any]() *Registry[A] {
	return &Registry[A]{}
}

// Register appends an implementation at the lowest priority so far.
func (r *Registry[A]) Register(impl Implementation[A]) {
	r.impls = append(r.impls, &impl)
}

// Implementations returns the registered entries in priority order.
func (r *Registry[A]) Implementations() []*Implementation[A] {
	return r.impls
}

// Len returns the number of registered implementations.
func (r *Registry[A]) Len() int { return len(r.impls) }
