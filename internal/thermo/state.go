package thermo

import (
	"fmt"
	"math"

	"github.com/san-kum/sdmsim/internal/sdm"
)

// State is the thermodynamic state of one gridbox over one sub-step.
type State struct {
	Volume float64 `yaml:"volume" json:"volume"` // [m^3]
	Press  float64 `yaml:"press" json:"press"`   // [Pa]
	Temp   float64 `yaml:"temp" json:"temp"`     // [K]
	Qvap   float64 `yaml:"qvap" json:"qvap"`     // [kg/kg]
	Qcond  float64 `yaml:"qcond" json:"qcond"`   // [kg/kg]
	Wvel   float64 `yaml:"wvel" json:"wvel"`     // [m s^-1]
	Uvel   float64 `yaml:"uvel" json:"uvel"`     // [m s^-1]
	Vvel   float64 `yaml:"vvel" json:"vvel"`     // [m s^-1]
}

// Validate reports ErrInvalidState if any field is non-physical.
func (s *State) Validate() error {
	for name, v := range map[string]float64{
		"volume": s.Volume, "press": s.Press, "temp": s.Temp,
		"qvap": s.Qvap, "qcond": s.Qcond,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s is %v: %w", name, v, sdm.ErrInvalidState)
		}
	}
	if s.Volume <= 0 || s.Press <= 0 || s.Temp <= 0 {
		return fmt.Errorf("volume, press and temp must be positive: %w", sdm.ErrInvalidState)
	}
	if s.Qvap < 0 || s.Qcond < 0 {
		return fmt.Errorf("mixing ratios must be non-negative: %w", sdm.ErrInvalidState)
	}
	return nil
}

// SaturationPressure returns the saturation vapour pressure over water at
// the state's temperature.
func (s *State) SaturationPressure() float64 {
	return SaturationPressure(s.Temp)
}

// Supersaturation returns the saturation ratio p_v/p_sat of the state.
func (s *State) Supersaturation() float64 {
	return SupersaturationRatio(s.Press, s.Qvap, SaturationPressure(s.Temp))
}
