package model

type Vec2i struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func AbsInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Chebyshev is the board distance used by proximity checks: diagonal steps
// count as one.
func Chebyshev(a, b Vec2i) int {
	dx := AbsInt(a.X - b.X)
	dy := AbsInt(a.Y - b.Y)
	if dx > dy {
		return dx
	}
	return dy
}
