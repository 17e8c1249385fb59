// Package executor implements per-node executor resolution: filtering a
// priority-ordered registry of implementation descriptors against a
// concrete attribute configuration, and producing either a directly bound
// executor (with an inline layout-fallback pipeline when required) or a
// runtime-deferred variable executor.
package executor

import (
	"errors"

	"github.com/loom-ml/loom/internal/memory"
	"github.com/loom-ml/loom/internal/ops"
	"github.com/loom-ml/loom/internal/parallel"
)

// Errors reported by resolution.
var (
	// ErrNoSuitableImplementation is the fatal configuration error: the
	// filtering step produced an empty candidate list. It aborts
	// compilation of the affected node and is never retried.
	ErrNoSuitableImplementation = errors.New("no suitable implementation found")
)

// Executor is a bound execution strategy for one node. Execute runs the
// underlying kernel against realized memory arguments.
type Executor interface {
	Name() string
	Execute(args memory.Args) error
}

// Context is the read-only handle to shared runtime resources passed
// unchanged into every produced executor. The resources it points at are
// owned elsewhere; resolution never mutates it.
type Context struct {
	Parallel parallel.Config
	// Reorders is the registry fallback sub-pipelines are compiled
	// against. It must be populated before any executor resolution.
	Reorders *Registry[ops.ReorderAttrs]
}

// Config is a snapshot pairing memory descriptors with an attribute
// instance. It is the sole input to support and fallback predicates, which
// must be pure functions of it (plus the layout filter).
type Config[A any] struct {
	Descs memory.DescArgs
	Attrs A
}
