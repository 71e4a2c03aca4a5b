package equity

// XY is a point in chart space.
type XY struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Segment struct {
	From XY `json:"from"`
	To   XY `json:"to"`
}

// Segments holds the polyline split into the parts drawn above and below a
// reference value.
type Segments struct {
	Above []Segment `json:"above"`
	Below []Segment `json:"below"`
}

// SeriesXY maps a balance series onto (index, balance) chart coordinates.
func SeriesXY(series []Point) []XY {
	out := make([]XY, len(series))
	for i, p := range series {
		out[i] = XY{X: float64(p.Index), Y: p.Balance}
	}
	return out
}

// SplitSegments walks consecutive point pairs and assigns each to the side
// of reference it lies on. A pair that crosses the reference is cut at the
// interpolated crossing so both halves meet exactly on the line. Pairs that
// only touch the reference from above, or sit on it, count as above.
func SplitSegments(points []XY, reference float64) Segments {
	var s Segments
	for i := 1; i < len(points); i++ {
		a, b := points[i-1], points[i]
		switch {
		case a.Y >= reference && b.Y >= reference:
			s.Above = append(s.Above, Segment{From: a, To: b})
		case a.Y <= reference && b.Y <= reference:
			s.Below = append(s.Below, Segment{From: a, To: b})
		default:
			t := (reference - a.Y) / (b.Y - a.Y)
			cross := XY{X: a.X + t*(b.X-a.X), Y: reference}
			first, second := Segment{From: a, To: cross}, Segment{From: cross, To: b}
			if a.Y > reference {
				s.Above = append(s.Above, first)
				s.Below = append(s.Below, second)
			} else {
				s.Below = append(s.Below, first)
				s.Above = append(s.Above, second)
			}
		}
	}
	return s
}
