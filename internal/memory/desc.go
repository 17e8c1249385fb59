package memory

import (
	"fmt"

	"github.com/loom-ml/loom/internal/tensor"
)

// ArgID names the role a tensor plays in an operation's signature.
type ArgID int

// Argument roles shared by all operation signatures.
const (
	ArgSrc ArgID = iota
	ArgWei
	ArgBia
	ArgDst
	ArgDst2 // secondary output (e.g. TopK indices)
)

// String returns a short role name used in diagnostics.
func (a ArgID) String() string {
	switch a {
	case ArgSrc:
		return "src"
	case ArgWei:
		return "wei"
	case ArgBia:
		return "bia"
	case ArgDst:
		return "dst"
	case ArgDst2:
		return "dst2"
	default:
		return fmt.Sprintf("arg%d", int(a))
	}
}

// Desc is a semantic layout description of one tensor argument: element
// type, shape (possibly still symbolic at compile time) and physical
// format tag.
type Desc struct {
	Type   tensor.DataType
	Shape  tensor.Shape
	Format Format
}

// IsStatic reports whether the descriptor's shape is fully concrete.
func (d Desc) IsStatic() bool { return d.Shape.IsStatic() }

// Equal reports full equality of type, shape and format.
func (d Desc) Equal(other Desc) bool {
	return d.Type == other.Type && d.Format == other.Format && d.Shape.Equal(other.Shape)
}

// WithFormat returns a copy of the descriptor with the format replaced.
func (d Desc) WithFormat(f Format) Desc {
	return Desc{Type: d.Type, Shape: d.Shape.Clone(), Format: f}
}

// String returns a compact textual form, e.g. "float32[2 ?]@plain".
func (d Desc) String() string {
	return fmt.Sprintf("%s%s@%s", d.Type, d.Shape, d.Format)
}

// DescArgs maps argument roles to their descriptors.
type DescArgs map[ArgID]Desc

// Clone returns a deep copy of the descriptor set.
func (da DescArgs) Clone() DescArgs {
	out := make(DescArgs, len(da))
	for id, d := range da {
		out[id] = Desc{Type: d.Type, Shape: d.Shape.Clone(), Format: d.Format}
	}
	return out
}

// Memory is a realized tensor argument: a descriptor plus the buffer that
// backs it. The buffer's logical shape is always the descriptor's shape;
// the format tag says how elements are arranged within it.
type Memory struct {
	Desc Desc
	Data *tensor.Raw
}

// New allocates a zero-filled Memory for a static descriptor.
func New(desc Desc) (*Memory, error) {
	raw, err := tensor.NewRaw(paddedShape(desc), desc.Type)
	if err != nil {
		return nil, fmt.Errorf("allocate %s: %w", desc, err)
	}
	return &Memory{Desc: desc, Data: raw}, nil
}

// paddedShape returns the physical allocation shape for a descriptor.
// Blocked formats round the outer dimension up to the block size.
func paddedShape(desc Desc) tensor.Shape {
	if desc.Format != FormatBlocked16 || len(desc.Shape) == 0 {
		return desc.Shape.Clone()
	}
	shape := desc.Shape.Clone()
	shape[0] = (shape[0] + 15) / 16 * 16
	return shape
}

// Args maps argument roles to realized memory.
type Args map[ArgID]*Memory

// Descs projects the realized arguments back to their descriptors.
func (a Args) Descs() DescArgs {
	out := make(DescArgs, len(a))
	for id, mem := range a {
		out[id] = mem.Desc
	}
	return out
}
