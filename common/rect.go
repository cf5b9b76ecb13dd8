package common

// Rect is an axis-aligned rectangle in edge form.
type Rect struct {
	Left   float64 `yaml:"left"`
	Top    float64 `yaml:"top"`
	Right  float64 `yaml:"right"`
	Bottom float64 `yaml:"bottom"`
}

func (r Rect) Width() float64 {
	return r.Right - r.Left
}

func (r Rect) Height() float64 {
	return r.Bottom - r.Top
}

// Empty reports whether the rect has zero or negative area.
func (r Rect) Empty() bool {
	return r.Right <= r.Left || r.Bottom <= r.Top
}

// Inflate grows the rect by m on every side. Negative m shrinks it.
func (r Rect) Inflate(m float64) Rect {
	return Rect{Left: r.Left - m, Top: r.Top - m, Right: r.Right + m, Bottom: r.Bottom + m}
}

// Scale multiplies all four edges by s.
func (r Rect) Scale(s float64) Rect {
	return Rect{Left: r.Left * s, Top: r.Top * s, Right: r.Right * s, Bottom: r.Bottom * s}
}

// Contains reports whether p lies inside or on the rect.
func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.Left && p.X <= r.Right && p.Y >= r.Top && p.Y <= r.Bottom
}

// ClosestPoint returns the point inside or on r closest to p. If p is
// inside the rect the result is p itself.
func (r Rect) ClosestPoint(p Vec2) Vec2 {
	return Vec2{
		X: Clamp(p.X, r.Left, r.Right),
		Y: Clamp(p.Y, r.Top, r.Bottom),
	}
}
