package memory

// LayoutFilter narrows the physical formats an implementation may assume
// for its inputs and outputs during support and fallback evaluation.
// An empty filter accepts everything.
type LayoutFilter struct {
	Input  []Format
	Output []Format
}

// Empty reports whether the filter imposes no constraint.
func (f LayoutFilter) Empty() bool {
	return len(f.Input) == 0 && len(f.Output) == 0
}

// AcceptsInput reports whether the filter allows the given input format.
func (f LayoutFilter) AcceptsInput(format Format) bool {
	return accepts(f.Input, format)
}

// AcceptsOutput reports whether the filter allows the given output format.
func (f LayoutFilter) AcceptsOutput(format Format) bool {
	return accepts(f.Output, format)
}

func accepts(allowed []Format, format Format) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, a := range allowed {
		if a.Matches(format) {
			return true
		}
	}
	return false
}
