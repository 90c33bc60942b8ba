// Package labs turns the free-text response of the extraction vendor into
// annotated lab measurements and a patient-facing summary.
//
// The flow is: Extract (find and decode the embedded JSON) -> Annotate
// (classify each measurement against a reference Table) -> Summarize.
package labs

import (
	"encoding/json"
)

// Status is the derived classification of a measurement.
type Status string

const (
	StatusNormal   Status = "Normal"
	StatusAbnormal Status = "Abnormal"
)

// Measurement is a single lab value extracted from a report.
// Value keeps the number exactly as the vendor wrote it so the summary
// renders "50" as "50" and "5.50" as "5.50".
type Measurement struct {
	Test   string      `json:"test"`
	Value  json.Number `json:"value"`
	Unit   string      `json:"unit"`
	Status Status      `json:"status"`
}

// Float returns the numeric value of the measurement.
func (m Measurement) Float() (float64, error) {
	return m.Value.Float64()
}

// payload is the part of the vendor object this package reads. Other
// fields (patient, date, a vendor-side status) are ignored.
type payload struct {
	Labs []labItem `json:"labs"`
}

type labItem struct {
	Test  string      `json:"test"`
	Value json.Number `json:"value"`
	Unit  string      `json:"unit"`
}
