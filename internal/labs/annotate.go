package labs

// Classify returns the status of a single measurement against table.
// Tests without a configured range are always Normal. A value that cannot
// be read as a number is only Normal when no range applies.
func Classify(table *Table, m Measurement) Status {
	r, ok := table.Lookup(m.Test)
	if !ok {
		return StatusNormal
	}
	v, err := m.Float()
	if err != nil {
		return StatusAbnormal
	}
	if r.Contains(v) {
		return StatusNormal
	}
	return StatusAbnormal
}

// Annotate sets Status on every measurement in place and returns the slice.
// Any status supplied by the vendor is overwritten.
func Annotate(table *Table, measurements []Measurement) []Measurement {
	for i := range measurements {
		measurements[i].Status = Classify(table, measurements[i])
	}
	return measurements
}
