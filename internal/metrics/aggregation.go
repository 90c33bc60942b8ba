package metrics

import "sort"

// Summary aggregates the metrics currently held by a Recorder.
type Summary struct {
	Count         int            `json:"count"`
	TotalRecorded int            `json:"total_recorded"`
	SuccessCount  int            `json:"success_count"`
	ErrorCount    int            `json:"error_count"`
	ByOutcome     map[string]int `json:"by_outcome"`

	LabCount      int `json:"lab_count"`
	AbnormalCount int `json:"abnormal_count"`

	// Vendor latency percentiles (seconds)
	LatencyP50 float64 `json:"latency_p50"`
	LatencyP95 float64 `json:"latency_p95"`
	LatencyP99 float64 `json:"latency_p99"`
	LatencyAvg float64 `json:"latency_avg"`
	LatencyMin float64 `json:"latency_min"`
	LatencyMax float64 `json:"latency_max"`
}

// Summary computes statistics over the retained metrics.
func (r *Recorder) Summary() *Summary {
	return Summarize(r.List(0), r.Total())
}

// Summarize computes statistics over ms.
func Summarize(ms []Metric, total int) *Summary {
	s := &Summary{
		Count:         len(ms),
		TotalRecorded: total,
		ByOutcome:     make(map[string]int),
	}
	if len(ms) == 0 {
		return s
	}

	latencies := make([]float64, 0, len(ms))
	var sum float64
	for _, m := range ms {
		if m.Success {
			s.SuccessCount++
		} else {
			s.ErrorCount++
		}
		s.ByOutcome[m.Outcome]++
		s.LabCount += m.LabCount
		s.AbnormalCount += m.AbnormalCount

		latencies = append(latencies, m.VendorSeconds)
		sum += m.VendorSeconds
	}

	sort.Float64s(latencies)
	s.LatencyMin = latencies[0]
	s.LatencyMax = latencies[len(latencies)-1]
	s.LatencyAvg = sum / float64(len(latencies))
	s.LatencyP50 = percentile(latencies, 50)
	s.LatencyP95 = percentile(latencies, 95)
	s.LatencyP99 = percentile(latencies, 99)

	return s
}

// percentile calculates the p-th percentile from a sorted slice of values.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if len(sorted) == 1 {
		return sorted[0]
	}

	n := float64(len(sorted))
	idx := (p / 100.0) * (n - 1)

	// Interpolate between floor and ceil indices
	lower := int(idx)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := idx - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}
