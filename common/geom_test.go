package common

import (
	"math"
	"testing"
)

func TestClosestPointOnSegment(t *testing.T) {
	a := Vec2{X: 0, Y: 0}
	b := Vec2{X: 10, Y: 0}

	cases := []struct {
		name string
		p    Vec2
		want Vec2
	}{
		{"projects_onto_interior", Vec2{X: 4, Y: 7}, Vec2{X: 4, Y: 0}},
		{"clamps_before_start", Vec2{X: -3, Y: 2}, Vec2{X: 0, Y: 0}},
		{"clamps_past_end", Vec2{X: 15, Y: -1}, Vec2{X: 10, Y: 0}},
		{"on_segment", Vec2{X: 6, Y: 0}, Vec2{X: 6, Y: 0}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := ClosestPointOnSegment(c.p, a, b)
			if got != c.want {
				t.Fatalf("closest(%+v) = %+v, want %+v", c.p, got, c.want)
			}
		})
	}

	// A zero-length segment resolves to its single point.
	p := ClosestPointOnSegment(Vec2{X: 5, Y: 5}, Vec2{X: 2, Y: 2}, Vec2{X: 2, Y: 2})
	if p != (Vec2{X: 2, Y: 2}) {
		t.Fatalf("degenerate segment = %+v", p)
	}
}

func TestRectClosestPoint(t *testing.T) {
	r := Rect{Left: 10, Top: 20, Right: 30, Bottom: 40}

	cases := []struct {
		name string
		p    Vec2
		want Vec2
	}{
		{"inside_is_identity", Vec2{X: 15, Y: 25}, Vec2{X: 15, Y: 25}},
		{"left_of", Vec2{X: 0, Y: 30}, Vec2{X: 10, Y: 30}},
		{"corner", Vec2{X: 100, Y: 100}, Vec2{X: 30, Y: 40}},
		{"above", Vec2{X: 20, Y: 0}, Vec2{X: 20, Y: 20}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := r.ClosestPoint(c.p)
			if got != c.want {
				t.Fatalf("ClosestPoint(%+v) = %+v, want %+v", c.p, got, c.want)
			}
		})
	}
}

func TestRectInflateAndEmpty(t *testing.T) {
	r := Rect{Left: 10, Top: 10, Right: 20, Bottom: 20}
	grown := r.Inflate(2)
	if grown != (Rect{Left: 8, Top: 8, Right: 22, Bottom: 22}) {
		t.Fatalf("inflate = %+v", grown)
	}
	if !r.Inflate(-5).Empty() {
		t.Fatalf("over-shrunk rect should be empty")
	}
	if (Rect{Left: 5, Top: 5, Right: 5, Bottom: 10}).Empty() != true {
		t.Fatalf("zero-width rect should be empty")
	}
}

func TestNormalize(t *testing.T) {
	v := Vec2{X: 3, Y: 4}.Normalize()
	if math.Abs(v.Len()-1) > 1e-12 {
		t.Fatalf("unit length = %v", v.Len())
	}
	if got := (Vec2{}).Normalize(); got != (Vec2{}) {
		t.Fatalf("zero vector normalized to %+v", got)
	}
}

func TestClampAndLerp(t *testing.T) {
	if got := Clamp(5, 0, 3); got != 3 {
		t.Fatalf("Clamp(5,0,3) = %v", got)
	}
	if got := Clamp(-1, 0, 3); got != 0 {
		t.Fatalf("Clamp(-1,0,3) = %v", got)
	}
	if got := Lerp(10, 20, 0.25); got != 12.5 {
		t.Fatalf("Lerp(10,20,0.25) = %v", got)
	}
}
