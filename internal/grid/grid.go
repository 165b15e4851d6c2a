package grid

import (
	"errors"
	"fmt"
	"iter"
	"math"
)

// ErrInvalidGrid marks grid specifications that cannot be enumerated. It is
// fatal: callers report it before any task runs.
var ErrInvalidGrid = errors.New("invalid grid")

// DefaultMaxTasks caps enumeration so a typo in the step size cannot queue a
// multi-million-request run.
const DefaultMaxTasks = 1_000_000

// coordEpsilon absorbs float drift when stepping across an axis, so a box
// whose max is an exact multiple of the step still includes its upper edge.
const coordEpsilon = 1e-9

// Point is one latitude/longitude pair on the step lattice, rounded to
// micro-degree precision.
type Point struct {
	Lat float64
	Lon float64
}

// Task is the unit of acquisition work: one point for one year. Tasks are
// immutable and exactly one exists per (year, point) pair.
type Task struct {
	Year  int
	Point Point
}

// Key returns the stable artifact stem for the task. Every on-disk path
// (permanent, temporary, error marker) derives from this value, which must
// not change across runs or resume breaks.
func (t Task) Key() string {
	return fmt.Sprintf("nsrdb_%d_%.4f_%.4f", t.Year, t.Point.Lat, t.Point.Lon)
}

// Spec describes the grid to enumerate.
type Spec struct {
	LatMin float64
	LatMax float64
	LonMin float64
	LonMax float64
	DLat   float64
	DLon   float64
	Years  []int

	// MaxTasks overrides DefaultMaxTasks when positive.
	MaxTasks int
}

// Validate checks the spec without enumerating it.
func (s Spec) Validate() error {
	if s.DLat <= 0 {
		return fmt.Errorf("%w: dlat must be positive, got %v", ErrInvalidGrid, s.DLat)
	}
	if s.DLon <= 0 {
		return fmt.Errorf("%w: dlon must be positive, got %v", ErrInvalidGrid, s.DLon)
	}
	if s.LatMin > s.LatMax {
		return fmt.Errorf("%w: lat_min %v exceeds lat_max %v", ErrInvalidGrid, s.LatMin, s.LatMax)
	}
	if s.LonMin > s.LonMax {
		return fmt.Errorf("%w: lon_min %v exceeds lon_max %v", ErrInvalidGrid, s.LonMin, s.LonMax)
	}
	if len(s.Years) == 0 {
		return fmt.Errorf("%w: at least one year is required", ErrInvalidGrid)
	}
	seen := make(map[int]struct{}, len(s.Years))
	for _, year := range s.Years {
		if _, dup := seen[year]; dup {
			return fmt.Errorf("%w: duplicate year %d", ErrInvalidGrid, year)
		}
		seen[year] = struct{}{}
	}
	ceiling := s.MaxTasks
	if ceiling <= 0 {
		ceiling = DefaultMaxTasks
	}
	if count := s.Count(); count > ceiling {
		return fmt.Errorf("%w: %d tasks exceeds ceiling of %d", ErrInvalidGrid, count, ceiling)
	}
	return nil
}

// Count returns the number of tasks enumeration will yield. A box degenerate
// to a single point on an axis still contributes one value on that axis.
func (s Spec) Count() int {
	return s.axisCount(s.LatMin, s.LatMax, s.DLat) * s.axisCount(s.LonMin, s.LonMax, s.DLon) * len(s.Years)
}

func (s Spec) axisCount(min, max, step float64) int {
	if step <= 0 || min > max {
		return 0
	}
	return int(math.Floor((max-min+coordEpsilon)/step)) + 1
}

// Tasks returns the enumeration sequence. The sequence is lazy, finite, and
// restartable: ranging over it twice yields identical tasks in identical
// order.
func (s Spec) Tasks() iter.Seq[Task] {
	return func(yield func(Task) bool) {
		for _, year := range s.Years {
			for lat := s.LatMin; lat <= s.LatMax+coordEpsilon; lat += s.DLat {
				for lon := s.LonMin; lon <= s.LonMax+coordEpsilon; lon += s.DLon {
					task := Task{Year: year, Point: Point{Lat: round6(lat), Lon: round6(lon)}}
					if !yield(task) {
						return
					}
				}
			}
		}
	}
}

func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
