package sim

import (
	"github.com/san-kum/sdmsim/internal/metrics"
	"github.com/san-kum/sdmsim/internal/superdrop"
	"github.com/san-kum/sdmsim/internal/thermo"
)

// Gridbox is one well-mixed volume: its thermodynamic state and the
// superdroplets inside it. A gridbox is only ever stepped by one goroutine
// at a time.
type Gridbox struct {
	Index int
	State thermo.State
	Drops []superdrop.Superdrop
}

// Observer receives the diagnostics of every gridbox at each observation
// tick, in gridbox order.
type Observer interface {
	Observe(tick uint64, diags []metrics.Diagnostics) error
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(tick uint64, diags []metrics.Diagnostics) error

func (f ObserverFunc) Observe(tick uint64, diags []metrics.Diagnostics) error {
	return f(tick, diags)
}

type Config struct {
	Tick        float64 // seconds per tick
	Tend        uint64  // last tick
	ObsInterval uint64  // ticks between observations, zero for none
	Workers     int     // team size per gridbox
	Parallel    int     // gridboxes stepped concurrently, zero for all
}

type Result struct {
	Ticks        uint64
	Steps        int
	Observations int
	Nulls        int // null superdroplets removed
	Diagnostics  []metrics.Diagnostics
	Metrics      map[string]float64
}
