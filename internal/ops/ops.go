// Package ops defines the closed set of operation kinds the engine can
// lower and execute, together with the attribute bag carried by graph
// nodes and the typed attribute structs consumed by executor registries.
package ops

// Kind identifies the semantic behavior of an operation node.
// The set is closed: rewrites and resolution match on Kind values rather
// than downcasting node payloads.
type Kind int

// Supported operation kinds.
const (
	KindTopK Kind = iota
	KindMatMul
	KindSoftmax
	KindReorder
)

// String returns the operation name.
func (k Kind) String() string {
	switch k {
	case KindTopK:
		return "TopK"
	case KindMatMul:
		return "MatMul"
	case KindSoftmax:
		return "Softmax"
	case KindReorder:
		return "Reorder"
	default:
		return "Unknown"
	}
}

// Operation versions the engine knows about. A (Kind, version) pair is a
// node's full behavior contract; rewrite passes lower newer versions onto
// the ones the CPU backend executes.
const (
	TopKV3     = 3
	TopKV11    = 11
	SoftmaxV1  = 1
	SoftmaxV13 = 13
	MatMulV1   = 1
	ReorderV1  = 1
)
