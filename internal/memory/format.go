// Package memory describes the semantic and physical layout of tensor
// arguments exchanged between the graph, implementation registries and
// executors. It deliberately does not own an allocator; buffers are plain
// Raw tensors and anything smarter lives outside this core.
package memory

// Format tags the physical arrangement of a tensor's elements in memory.
type Format int

// Supported physical formats.
const (
	// FormatAny is a wildcard used in descriptors that have not been
	// pinned to a physical layout yet.
	FormatAny Format = iota
	// FormatPlain is the dense row-major layout every reference kernel
	// understands.
	FormatPlain
	// FormatChannelsLast stores the channel dimension innermost.
	FormatChannelsLast
	// FormatBlocked16 blocks the outer dimension in chunks of 16,
	// the layout vectorized kernels prefer for weights.
	FormatBlocked16
)

// String returns a human-readable format name.
func (f Format) String() string {
	switch f {
	case FormatAny:
		return "any"
	case FormatPlain:
		return "plain"
	case FormatChannelsLast:
		return "channels_last"
	case FormatBlocked16:
		return "blocked16"
	default:
		return "unknown"
	}
}

// Matches reports whether a concrete format satisfies this one.
// FormatAny accepts everything.
func (f Format) Matches(concrete Format) bool {
	return f == FormatAny || f == concrete
}
