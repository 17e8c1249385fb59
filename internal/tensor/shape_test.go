package tensor

import "testing"

func TestShapeNumElements(t *testing.T) {
	tests := []struct {
		name  string
		shape Shape
		want  int
	}{
		{"scalar", Shape{}, 1},
		{"vector", Shape{5}, 5},
		{"matrix", Shape{3, 4}, 12},
		{"3d", Shape{2, 3, 4}, 24},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.shape.NumElements(); got != tt.want {
				t.Errorf("NumElements() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestShapeIsStatic(t *testing.T) {
	if !(Shape{2, 3}).IsStatic() {
		t.Error("expected static shape")
	}
	if (Shape{2, DynamicDim}).IsStatic() {
		t.Error("expected symbolic shape")
	}
}

func TestShapeCompatible(t *testing.T) {
	symbolic := Shape{2, DynamicDim}
	if !symbolic.Compatible(Shape{2, 7}) {
		t.Error("dynamic dim should accept any extent")
	}
	if symbolic.Compatible(Shape{3, 7}) {
		t.Error("static dim mismatch should be rejected")
	}
	if symbolic.Compatible(Shape{2, 7, 1}) {
		t.Error("rank mismatch should be rejected")
	}
}

func TestShapeValidate(t *testing.T) {
	if err := (Shape{2, DynamicDim, 3}).Validate(); err != nil {
		t.Errorf("symbolic shape should validate: %v", err)
	}
	if err := (Shape{2, 0}).Validate(); err == nil {
		t.Error("zero dimension should fail validation")
	}
}

func TestComputeStrides(t *testing.T) {
	strides := Shape{2, 3, 4}.ComputeStrides()
	want := []int{12, 4, 1}
	for i := range want {
		if strides[i] != want[i] {
			t.Errorf("stride[%d] = %d, want %d", i, strides[i], want[i])
		}
	}
}

func TestShapeString(t *testing.T) {
	if got := (Shape{2, DynamicDim, 768}).String(); got != "[2 ? 768]" {
		t.Errorf("String() = %q", got)
	}
}
