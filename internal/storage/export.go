package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/sdmsim/internal/config"
	"github.com/san-kum/sdmsim/internal/metrics"
	"github.com/san-kum/sdmsim/internal/sim"
)

type ExportData struct {
	Name        string                `json:"name"`
	Seed        uint64                `json:"seed"`
	Tick        float64               `json:"tick"`
	Duration    float64               `json:"duration"`
	Ticks       uint64                `json:"ticks"`
	Steps       int                   `json:"steps"`
	Nulls       int                   `json:"nulls"`
	Metrics     map[string]float64    `json:"metrics"`
	Diagnostics []metrics.Diagnostics `json:"diagnostics"`
}

// ExportJSON writes result as a single indented JSON document.
func ExportJSON(w io.Writer, cfg *config.Config, result *sim.Result) error {
	data := ExportData{
		Name:        cfg.Name,
		Seed:        cfg.Seed,
		Tick:        cfg.Timesteps.Tick,
		Duration:    cfg.Timesteps.Duration,
		Ticks:       result.Ticks,
		Steps:       result.Steps,
		Nulls:       result.Nulls,
		Metrics:     result.Metrics,
		Diagnostics: result.Diagnostics,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
