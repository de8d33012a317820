package trace

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
)

// AttributeSummary aggregates one attribute over all recorded steps.
type AttributeSummary struct {
	Count int     `json:"count"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Mean  float64 `json:"mean"`
	Last  float64 `json:"last"`
}

// MarshalJSON writes non-finite statistics as the strings "NaN", "+Inf" and
// "-Inf", which plain JSON numbers cannot carry.
func (a AttributeSummary) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Count int        `json:"count"`
		Min   summaryNum `json:"min"`
		Max   summaryNum `json:"max"`
		Mean  summaryNum `json:"mean"`
		Last  summaryNum `json:"last"`
	}{a.Count, summaryNum(a.Min), summaryNum(a.Max), summaryNum(a.Mean), summaryNum(a.Last)})
}

type summaryNum float64

func (n summaryNum) MarshalJSON() ([]byte, error) {
	v := float64(n)
	switch {
	case math.IsNaN(v):
		return []byte(`"NaN"`), nil
	case math.IsInf(v, 1):
		return []byte(`"+Inf"`), nil
	case math.IsInf(v, -1):
		return []byte(`"-Inf"`), nil
	}
	return strconv.AppendFloat(nil, v, 'g', -1, 64), nil
}

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalSteps    int                         `json:"total_steps"`
	FailedSteps   int                         `json:"failed_steps"`
	Attributes    map[string]AttributeSummary `json:"attributes"`
	AttributeKeys []string                    `json:"-"` // sorted keys of Attributes
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		Attributes: make(map[string]AttributeSummary),
	}
	if st == nil {
		return summary
	}

	summary.TotalSteps = len(st.Steps)
	summary.FailedSteps = len(st.Failures)

	sums := make(map[string]float64)
	for _, rec := range st.Steps {
		for name, v := range rec.Values {
			a, ok := summary.Attributes[name]
			if !ok {
				a = AttributeSummary{Min: math.Inf(1), Max: math.Inf(-1)}
			}
			a.Count++
			a.Min = math.Min(a.Min, v)
			a.Max = math.Max(a.Max, v)
			a.Last = v
			sums[name] += v
			summary.Attributes[name] = a
		}
	}
	for name, a := range summary.Attributes {
		a.Mean = sums[name] / float64(a.Count)
		summary.Attributes[name] = a
		summary.AttributeKeys = append(summary.AttributeKeys, name)
	}
	sort.Strings(summary.AttributeKeys)

	return summary
}
