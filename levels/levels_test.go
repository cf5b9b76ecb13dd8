package levels

import (
	"errors"
	"testing"
)

func TestParseRejectsBadLevels(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"missing_begin", "end: {x: 1, y: 2}\nwalls: []\n"},
		{"missing_end", "begin: {x: 1, y: 2}\n"},
		{"zero_area_wall", "begin: {x: 1, y: 2}\nend: {x: 3, y: 4}\nwalls:\n  - {left: 10, top: 10, right: 10, bottom: 40}\n"},
		{"inverted_wall", "begin: {x: 1, y: 2}\nend: {x: 3, y: 4}\nwalls:\n  - {left: 50, top: 10, right: 10, bottom: 40}\n"},
		{"not_yaml", "begin: [what"},
		{"non_numeric_coordinate", "begin: {x: twelve, y: 2}\nend: {x: 3, y: 4}\n"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			lvl, err := parse(1, c.name, []byte(c.data))
			if !errors.Is(err, ErrLevelInvalid) {
				t.Fatalf("expected ErrLevelInvalid, got %v", err)
			}
			if lvl != nil {
				t.Fatalf("expected no level on failure, got %+v", lvl)
			}
		})
	}
}

func TestParseAcceptsUnknownKeys(t *testing.T) {
	data := `
name: Extras
begin: {x: 10, y: 20}
end: {x: 700, y: 400}
decoration: fancy
walls:
  - {left: 0, top: 100, right: 300, bottom: 120}
holes:
  - {x: 400, y: 240}
`
	lvl, err := parse(3, "extras", []byte(data))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if lvl.Index != 3 || lvl.Name != "Extras" {
		t.Fatalf("unexpected identity: %+v", lvl)
	}
	if lvl.Begin.X != 10 || lvl.Begin.Y != 20 {
		t.Fatalf("unexpected begin: %+v", lvl.Begin)
	}
	if len(lvl.Walls) != 1 || len(lvl.Holes) != 1 {
		t.Fatalf("unexpected geometry counts: %d walls, %d holes", len(lvl.Walls), len(lvl.Holes))
	}
}

func TestLoadPlayOrder(t *testing.T) {
	if Count() < 2 {
		t.Fatalf("expected at least 2 embedded levels, got %d", Count())
	}

	for i := 1; i <= Count(); i++ {
		lvl, err := Load(i)
		if err != nil {
			t.Fatalf("level %d failed to load: %v", i, err)
		}
		if lvl.Index != i {
			t.Fatalf("level %d reports index %d", i, lvl.Index)
		}
	}
}

func TestLoadOutOfRange(t *testing.T) {
	for _, idx := range []int{0, -1, Count() + 1} {
		if _, err := Load(idx); !errors.Is(err, ErrLevelNotFound) {
			t.Fatalf("Load(%d): expected ErrLevelNotFound, got %v", idx, err)
		}
	}
}
