package levels

import (
	"embed"
	"errors"
	"fmt"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/labyrinth-go/labyrinth/common"
)

//go:embed *.yaml
var levelsFS embed.FS

// Design space reference canvas. All level coordinates are authored
// against this size and scaled uniformly at presentation time.
const (
	DesignWidth  = 800.0
	DesignHeight = 480.0
)

var (
	// ErrLevelNotFound is returned when the requested level index does not exist.
	ErrLevelNotFound = errors.New("levels: level not found")
	// ErrLevelInvalid is returned when a level file exists but cannot be
	// turned into a usable level.
	ErrLevelInvalid = errors.New("levels: level invalid")
)

// Level is the immutable geometry of one maze in design coordinates.
type Level struct {
	Index int
	Name  string
	Begin common.Vec2
	End   common.Vec2
	Walls []common.Rect
	Holes []common.Vec2
}

type levelSpec struct {
	Name  string        `yaml:"name"`
	Begin *common.Vec2  `yaml:"begin"`
	End   *common.Vec2  `yaml:"end"`
	Walls []common.Rect `yaml:"walls"`
	Holes []common.Vec2 `yaml:"holes"`
}

var (
	namesOnce sync.Once
	names     []string
)

// fileNames enumerates the embedded level files once, sorted
// lexicographically. That order is the play order 1..N.
func fileNames() []string {
	namesOnce.Do(func() {
		entries, err := levelsFS.ReadDir(".")
		if err != nil {
			return
		}
		for _, e := range entries {
			if !e.IsDir() {
				names = append(names, e.Name())
			}
		}
		sort.Strings(names)
	})
	return names
}

// Count returns how many levels are available.
func Count() int {
	return len(fileNames())
}

// Load parses the level with the given 1-based index. It returns
// ErrLevelNotFound for an index out of range and a wrapped
// ErrLevelInvalid for malformed level data. It never returns a
// partially populated level.
func Load(index int) (*Level, error) {
	fs := fileNames()
	if index < 1 || index > len(fs) {
		return nil, fmt.Errorf("%w: index %d of %d", ErrLevelNotFound, index, len(fs))
	}
	name := fs[index-1]

	data, err := levelsFS.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("%w: read %q: %v", ErrLevelInvalid, name, err)
	}
	return parse(index, name, data)
}

func parse(index int, name string, data []byte) (*Level, error) {
	var spec levelSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("%w: unmarshal %q: %v", ErrLevelInvalid, name, err)
	}

	if spec.Begin == nil {
		return nil, fmt.Errorf("%w: %q has no begin point", ErrLevelInvalid, name)
	}
	if spec.End == nil {
		return nil, fmt.Errorf("%w: %q has no end point", ErrLevelInvalid, name)
	}
	for i, w := range spec.Walls {
		if w.Empty() {
			return nil, fmt.Errorf("%w: %q wall %d has empty bounds {%g %g %g %g}",
				ErrLevelInvalid, name, i, w.Left, w.Top, w.Right, w.Bottom)
		}
	}

	lvl := &Level{
		Index: index,
		Name:  spec.Name,
		Begin: *spec.Begin,
		End:   *spec.End,
		Walls: append([]common.Rect(nil), spec.Walls...),
		Holes: append([]common.Vec2(nil), spec.Holes...),
	}
	return lvl, nil
}
