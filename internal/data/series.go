package data

import "time"

// Sample is one timestamped scalar from a resource profile.
type Sample struct {
	Timestamp time.Time
	Value     float64
}

// Series is an ordered resource profile at a fixed timestep. Series used
// together in one simulation must be the same length and co-indexed: sample
// i of wind, irradiance and load describe the same instant.
type Series []Sample

// Values returns the scalar column of the series.
func (s Series) Values() []float64 {
	out := make([]float64, len(s))
	for i, smp := range s {
		out[i] = smp.Value
	}
	return out
}

// Total sums the scalar column. For a load series at hourly resolution this
// is the total load energy in kWh.
func (s Series) Total() float64 {
	sum := 0.0
	for _, smp := range s {
		sum += smp.Value
	}
	return sum
}
