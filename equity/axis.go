package equity

import (
	"math"
	"sort"
)

const (
	targetLabels = 6
	padDivisor   = 14
	maxLabels    = 64
)

var niceLadder = []float64{1, 2, 2.5, 5, 10}

type LineKind string

const (
	LineTarget LineKind = "target"
	LineFloor  LineKind = "floor"
)

// ObjectiveLine is a horizontal reference drawn alongside the balance.
type ObjectiveLine struct {
	Kind  LineKind `json:"kind"`
	Label string   `json:"label"`
	Value float64  `json:"value"`
}

// Axis is a labelled value axis. Labels run top to bottom.
type Axis struct {
	Labels []float64 `json:"labels"`
	Min    float64   `json:"min"`
	Max    float64   `json:"max"`
	Step   float64   `json:"step"`
}

// ComputeAxis picks a nice step and a label set that covers every balance,
// the starting balance and all objective lines, with the starting balance
// always present as an exact label.
func ComputeAxis(series []Point, startingBalance float64, lines []ObjectiveLine) Axis {
	lo, hi := startingBalance, startingBalance
	extend := func(v float64) {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	for _, p := range series {
		extend(p.Balance)
	}
	for _, l := range lines {
		extend(l.Value)
	}

	dataLo := lo
	dataRange := hi - lo
	if dataRange <= 0 {
		dataRange = math.Abs(startingBalance) * 0.1
		if dataRange == 0 {
			dataRange = 1
		}
		lo, hi = startingBalance-dataRange/2, startingBalance+dataRange/2
	}

	pad := dataRange / padDivisor
	min, max := lo-pad, hi+pad
	clamped := false
	if min < 0 && dataLo >= 0 {
		min = 0
		clamped = true
	}

	step := NiceStep((max - min) / (targetLabels - 1))

	labels := []float64{startingBalance}
	bottom := startingBalance
	for k := 1; bottom > min && k < maxLabels; k++ {
		next := startingBalance - float64(k)*step
		if clamped && next < 0 {
			if bottom > 0 {
				bottom = 0
				labels = append(labels, 0)
			}
			break
		}
		bottom = next
		labels = append(labels, next)
	}
	top := startingBalance
	for k := 1; top < max && k < maxLabels; k++ {
		top = startingBalance + float64(k)*step
		labels = append(labels, top)
	}

	sort.Sort(sort.Reverse(sort.Float64Slice(labels)))
	return Axis{
		Labels: labels,
		Min:    labels[len(labels)-1],
		Max:    labels[0],
		Step:   step,
	}
}

// NiceStep rounds raw up to the nearest 1, 2, 2.5, 5 or 10 times a power of
// ten. Non-positive input yields 1.
func NiceStep(raw float64) float64 {
	if raw <= 0 || math.IsNaN(raw) || math.IsInf(raw, 0) {
		return 1
	}
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	lead := raw / mag
	for _, n := range niceLadder {
		// tolerate float noise such as 2.0000000000000004
		if n >= lead-1e-9 {
			return n * mag
		}
	}
	return 10 * mag
}
