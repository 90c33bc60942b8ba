package labs

import (
	"fmt"
	"strings"
)

// NoResultsMessage is the summary used when nothing was extracted.
const NoResultsMessage = "No lab results found in this file."

const summarySeparator = " | "

// Summarize renders the patient view for annotated measurements.
func Summarize(measurements []Measurement) string {
	if len(measurements) == 0 {
		return NoResultsMessage
	}

	parts := make([]string, 0, len(measurements))
	for _, m := range measurements {
		parts = append(parts, summaryLine(m))
	}
	return strings.Join(parts, summarySeparator)
}

func summaryLine(m Measurement) string {
	if m.Status == StatusAbnormal {
		return fmt.Sprintf("⚠️ %s %s%s abnormal", m.Test, m.Value, m.Unit)
	}
	return fmt.Sprintf("✅ %s normal (%s%s)", m.Test, m.Value, m.Unit)
}
