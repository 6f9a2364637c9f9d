// propulsion/tank.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package propulsion

type FuelTankConfig struct {
	Name        string   `json:"name" msgpack:"name"`
	CapacityLbs float64  `json:"capacity_lbs" msgpack:"capacity_lbs"`
	QuantityLbs *float64 `json:"quantity_lbs,omitempty" msgpack:"quantity_lbs"` // defaults to full
}

type FuelTank struct {
	Name        string
	CapacityLbs float64
	QuantityLbs float64
}

func NewFuelTank(cfg FuelTankConfig) (*FuelTank, error) {
	t := &FuelTank{Name: cfg.Name, CapacityLbs: cfg.CapacityLbs, QuantityLbs: cfg.CapacityLbs}
	if cfg.QuantityLbs != nil {
		t.QuantityLbs = *cfg.QuantityLbs
	}
	if t.QuantityLbs < 0 || t.QuantityLbs > t.CapacityLbs {
		return nil, ErrInvalidCapacity
	}
	return t, nil
}

// fuelSupply tracks what is left in each tank over a single step, so that
// producers sharing a tank see each other's consumption. Tanks are only
// changed by commit.
type fuelSupply map[*FuelTank]float64

func (f fuelSupply) remaining(t *FuelTank) float64 {
	if t == nil {
		return 0
	}
	if q, ok := f[t]; ok {
		return q
	}
	return t.QuantityLbs
}

// draw takes up to lbs of fuel from t and returns the amount actually
// taken.
func (f fuelSupply) draw(t *FuelTank, lbs float64) float64 {
	if t == nil || lbs <= 0 {
		return 0
	}
	q := f.remaining(t)
	got := min(lbs, q)
	f[t] = q - got
	return got
}

func (f fuelSupply) commit() {
	for t, q := range f {
		t.QuantityLbs = q
	}
}
