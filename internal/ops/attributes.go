package ops

// Attributes is the attribute bag attached to a graph node. Values are
// restricted to the small set of types accessors expose; rewrites copy the
// semantically equivalent subset onto replacement nodes.
type Attributes map[string]any

// GetInt returns an integer attribute or the default value.
func (a Attributes) GetInt(name string, defaultVal int64) int64 {
	if v, ok := a[name].(int64); ok {
		return v
	}
	return defaultVal
}

// GetFloat returns a float attribute or the default value.
func (a Attributes) GetFloat(name string, defaultVal float64) float64 {
	if v, ok := a[name].(float64); ok {
		return v
	}
	return defaultVal
}

// GetString returns a string attribute or the default value.
func (a Attributes) GetString(name, defaultVal string) string {
	if v, ok := a[name].(string); ok {
		return v
	}
	return defaultVal
}

// GetBool returns a boolean attribute or the default value.
func (a Attributes) GetBool(name string, defaultVal bool) bool {
	if v, ok := a[name].(bool); ok {
		return v
	}
	return defaultVal
}

// Clone returns a shallow copy of the attribute bag.
func (a Attributes) Clone() Attributes {
	out := make(Attributes, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}
