package bvbs

import "math"

// Point is a 3D point with integer (millimetre) coordinates.
type Point struct {
	X, Y, Z int
}

// Vector is a displacement between two points.
type Vector struct {
	X, Y, Z int
}

// Move returns p displaced by v.
func (p Point) Move(v Vector) Point {
	return Point{p.X + v.X, p.Y + v.Y, p.Z + v.Z}
}

// To returns the vector from p to q.
func (p Point) To(q Point) Vector {
	return Vector{q.X - p.X, q.Y - p.Y, q.Z - p.Z}
}

// Distance is the Euclidean distance between p and q.
func (p Point) Distance(q Point) float64 {
	return p.To(q).Magnitude()
}

func (v Vector) Dot(w Vector) float64 {
	return float64(v.X)*float64(w.X) + float64(v.Y)*float64(w.Y) + float64(v.Z)*float64(w.Z)
}

func (v Vector) Magnitude() float64 {
	return math.Sqrt(v.Dot(v))
}

// AngleWith returns the angle between v and w in degrees. ok is false when
// either vector has zero length.
func (v Vector) AngleWith(w Vector) (deg float64, ok bool) {
	den := v.Magnitude() * w.Magnitude()
	if den == 0 {
		return 0, false
	}
	// Clamp against rounding noise on (anti)parallel vectors.
	cos := math.Max(-1, math.Min(1, v.Dot(w)/den))
	return math.Acos(cos) * 180 / math.Pi, true
}
