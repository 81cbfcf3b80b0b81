package metrics

import "math"

// Metric accumulates a scalar over the observations of a run.
type Metric interface {
	Name() string
	Observe(d Diagnostics)
	Value() float64
	Reset()
}

// MassDrift is the largest relative change in droplet mass concentration
// from the first observation. Collisions alone conserve it.
type MassDrift struct {
	initial  float64
	maxDrift float64
	samples  int
}

func NewMassDrift() *MassDrift { return &MassDrift{} }

func (m *MassDrift) Name() string { return "mass_drift" }

func (m *MassDrift) Observe(d Diagnostics) {
	if m.samples == 0 {
		m.initial = d.MassConc
	}
	m.samples++
	if m.initial != 0 {
		drift := math.Abs(d.MassConc-m.initial) / math.Abs(m.initial)
		m.maxDrift = math.Max(m.maxDrift, drift)
	}
}

func (m *MassDrift) Value() float64 { return m.maxDrift }

func (m *MassDrift) Reset() { *m = MassDrift{} }

// NumConcRatio is the latest number concentration over the first.
type NumConcRatio struct {
	initial float64
	current float64
	samples int
}

func NewNumConcRatio() *NumConcRatio { return &NumConcRatio{} }

func (n *NumConcRatio) Name() string { return "numconc_ratio" }

func (n *NumConcRatio) Observe(d Diagnostics) {
	if n.samples == 0 {
		n.initial = d.NumConc
	}
	n.current = d.NumConc
	n.samples++
}

func (n *NumConcRatio) Value() float64 {
	if n.initial == 0 {
		return 0
	}
	return n.current / n.initial
}

func (n *NumConcRatio) Reset() { *n = NumConcRatio{} }

// MaxRadius is the largest droplet radius seen in any observation.
type MaxRadius struct {
	max float64
}

func NewMaxRadius() *MaxRadius { return &MaxRadius{} }

func (m *MaxRadius) Name() string { return "max_radius" }

func (m *MaxRadius) Observe(d Diagnostics) { m.max = math.Max(m.max, d.MaxRadius) }

func (m *MaxRadius) Value() float64 { return m.max }

func (m *MaxRadius) Reset() { m.max = 0 }
