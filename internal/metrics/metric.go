// Package metrics keeps an in-memory record of extraction requests.
package metrics

import "time"

// Outcome values beyond the lab extraction kinds.
const (
	OutcomeVendorError    = "vendor_error"
	OutcomeTransportError = "transport_error"
)

// Metric is one processed upload.
type Metric struct {
	RequestID string `json:"request_id"`

	// Input
	Filename string `json:"filename,omitempty"`
	Bytes    int    `json:"bytes"`
	Pages    int    `json:"pages,omitempty"` // PDFs only

	// Result
	Outcome       string `json:"outcome"` // parsed, not_found, malformed, vendor_error, transport_error
	LabCount      int    `json:"lab_count"`
	AbnormalCount int    `json:"abnormal_count"`
	VendorStatus  int    `json:"vendor_status,omitempty"`

	// Timing
	VendorSeconds float64 `json:"vendor_seconds"`

	// Status
	Success   bool   `json:"success"`
	ErrorType string `json:"error_type,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
