package world

import "math"

// Vec3 is a continuous position or velocity in block units.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Len() float64         { return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z) }
func (v Vec3) Dist(o Vec3) float64  { return v.Sub(o).Len() }
func (v Vec3) ToArray() [3]float64  { return [3]float64{v.X, v.Y, v.Z} }

func V3FromArray(a [3]float64) Vec3 { return Vec3{a[0], a[1], a[2]} }

// Floor returns the block cell containing v.
func (v Vec3) Floor() Vec3i {
	return Vec3i{int(math.Floor(v.X)), int(math.Floor(v.Y)), int(math.Floor(v.Z))}
}

// Vec3i is an integer block coordinate.
type Vec3i struct {
	X, Y, Z int
}

func (v Vec3i) ToArray() [3]int { return [3]int{v.X, v.Y, v.Z} }

func V3iFromArray(a [3]int) Vec3i { return Vec3i{a[0], a[1], a[2]} }

// Center is the continuous center of the block cell.
func (v Vec3i) Center() Vec3 {
	return Vec3{float64(v.X) + 0.5, float64(v.Y) + 0.5, float64(v.Z) + 0.5}
}
