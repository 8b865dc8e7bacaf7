package matching

// Score is the result of a single scoring derivation. Degraded marks values
// that fell back to a documented neutral default because input data was
// missing, as opposed to values that were actually computed. Callers combine
// Score values the same way either way; the flag exists for observability.
type Score struct {
	Value    float64 `json:"value"`
	Degraded bool    `json:"degraded,omitempty"`
	Reason   string  `json:"reason,omitempty"`
}

// Computed wraps a successfully derived value, clamped into [0,1].
func Computed(v float64) Score {
	return Score{Value: clamp01(v)}
}

// Neutral wraps a fallback value together with the reason the real
// derivation was impossible.
func Neutral(v float64, reason string) Score {
	return Score{Value: clamp01(v), Degraded: true, Reason: reason}
}

func clamp01(v float64) float64 {
	if v != v { // NaN guard
		return 0
	}
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
