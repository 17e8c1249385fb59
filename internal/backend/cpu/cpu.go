// Package cpu provides the reference CPU implementation lists consumed by
// executor resolution, plus the kernels backing them. Registries are built
// once at session start and treated as read-only afterwards.
package cpu

import (
	"github.com/loom-ml/loom/internal/executor"
	"github.com/loom-ml/loom/internal/memory"
	"github.com/loom-ml/loom/internal/ops"
)

// Registries bundles one implementation registry per attribute
// configuration type. Entries within a registry are priority-ordered:
// first registered wins when several support a configuration.
type Registries struct {
	TopK    *executor.Registry[ops.TopKAttrs]
	MatMul  *executor.Registry[ops.MatMulAttrs]
	Softmax *executor.Registry[ops.SoftmaxAttrs]
	Reorder *executor.Registry[ops.ReorderAttrs]
}

// NewRegistries builds the full CPU registry set.
func NewRegistries() *Registries {
	r := &Registries{
		TopK:    executor.NewRegistry[ops.TopKAttrs](),
		MatMul:  executor.NewRegistry[ops.MatMulAttrs](),
		Softmax: executor.NewRegistry[ops.SoftmaxAttrs](),
		Reorder: executor.NewRegistry[ops.ReorderAttrs](),
	}
	registerReorder(r.Reorder)
	registerTopK(r.TopK)
	registerMatMul(r.MatMul)
	registerSoftmax(r.Softmax)
	return r
}

// kernelExecutor adapts a kernel closure to the Executor interface.
type kernelExecutor struct {
	name string
	run  func(args memory.Args) error
}

func (e *kernelExecutor) Name() string { return e.name }

func (e *kernelExecutor) Execute(args memory.Args) error { return e.run(args) }

// plainDescs returns a copy of the descriptors with every format forced to
// plain. Reference kernels understand nothing else.
func plainDescs(descs memory.DescArgs) memory.DescArgs {
	out := descs.Clone()
	for role, desc := range out {
		out[role] = desc.WithFormat(memory.FormatPlain)
	}
	return out
}

// descsEqual reports whether two descriptor sets are identical.
func descsEqual(a, b memory.DescArgs) bool {
	if len(a) != len(b) {
		return false
	}
	for role, desc := range a {
		other, ok := b[role]
		if !ok || !desc.Equal(other) {
			return false
		}
	}
	return true
}
