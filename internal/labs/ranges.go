package labs

// Range is the normal interval for a test. A nil bound means that side is
// unconstrained, so a configured lower bound of zero is still checked.
type Range struct {
	Low  *float64 `json:"low,omitempty"`
	High *float64 `json:"high,omitempty"`
}

// Contains reports whether v lies inside the range (bounds inclusive).
func (r Range) Contains(v float64) bool {
	if r.Low != nil && v < *r.Low {
		return false
	}
	if r.High != nil && v > *r.High {
		return false
	}
	return true
}

// Table maps test names to reference ranges. It is built once and never
// mutated afterwards, so it is safe to share between requests.
type Table struct {
	ranges map[string]Range
}

// NewTable copies ranges into a new immutable Table.
func NewTable(ranges map[string]Range) *Table {
	t := &Table{ranges: make(map[string]Range, len(ranges))}
	for name, r := range ranges {
		t.ranges[name] = r
	}
	return t
}

// DefaultTable returns the built-in reference ranges.
func DefaultTable() *Table {
	return NewTable(map[string]Range{
		"Glucose":     {Low: ptr(70), High: ptr(110)},
		"Cholesterol": {Low: ptr(100), High: ptr(200)},
		"Hemoglobin":  {Low: ptr(12), High: ptr(16)},
	})
}

// Lookup returns the range configured for test, if any. Matching is exact.
func (t *Table) Lookup(test string) (Range, bool) {
	if t == nil {
		return Range{}, false
	}
	r, ok := t.ranges[test]
	return r, ok
}

// ptr is a helper to create pointers to float64 literals
func ptr(f float64) *float64 {
	return &f
}
