// fcs/system.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package fcs

import (
	"strings"
	"time"

	"github.com/brunoga/deep"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// System is a flight control system: the control inputs, the modifiers
// that shape them, and the surfaces, values, and booleans driven by them.
// Elements are created at load time and are not added or removed
// afterward, so handles remain valid for the System's lifetime.
type System struct {
	Registry  *Registry
	Modifiers []Modifier
	Surfaces  []*ControlSurface
	Values    []*ControlValue
	Booleans  []*ControlBoolean

	LastUpdate   time.Duration
	TestingNoLag bool
	updated      bool

	// Substring lookups are made by name from the aero and propulsion
	// code, often every tick; their results are memoized.
	handleCache *expirable.LRU[string, SurfaceHandle]
}

const handleCacheSize = 64

func newSystem(reg *Registry) *System {
	return &System{
		Registry:    reg,
		handleCache: expirable.NewLRU[string, SurfaceHandle](handleCacheSize, nil, 0),
	}
}

func (s *System) modifierHandle(name string) ModifierHandle {
	for i := range s.Modifiers {
		if s.Modifiers[i].Name == name {
			return ModifierHandle(i + 1)
		}
	}
	return 0
}

// Update brings all outputs up to date for the given simulation time.
// Surfaces are updated first, then values, then booleans. auto selects
// the automatic angle mapping for surfaces. Repeated calls at the same
// time are ignored unless testing no-lag mode is enabled.
func (s *System) Update(now time.Duration, fc FlightCondition, auto bool) {
	if s.updated && now == s.LastUpdate && !s.TestingNoLag {
		return
	}

	for _, surf := range s.Surfaces {
		surf.Update(now, fc, auto, s.Registry, s.Modifiers)
	}
	for _, v := range s.Values {
		v.Update(fc, s.Registry, s.Modifiers)
	}
	for _, b := range s.Booleans {
		b.Update(fc, s.Registry, s.Modifiers)
	}

	s.LastUpdate = now
	s.updated = true
}

// Initialize sets the update time of the system and its actuators without
// moving anything.
func (s *System) Initialize(now time.Duration) {
	for _, surf := range s.Surfaces {
		if surf.Actuator != nil {
			surf.Actuator.Initialize(now, surf.Current)
		}
	}
	s.LastUpdate = now
}

// SetTestingNoLag makes all actuators follow their commands immediately.
func (s *System) SetTestingNoLag(noLag bool) {
	s.TestingNoLag = noLag
	for _, surf := range s.Surfaces {
		if surf.Actuator != nil {
			surf.Actuator.NoLag = noLag
		}
	}
}

///////////////////////////////////////////////////////////////////////////
// Control surfaces

func (s *System) surface(h SurfaceHandle) *ControlSurface {
	if h <= 0 || int(h) > len(s.Surfaces) {
		return nil
	}
	return s.Surfaces[h-1]
}

// ControlSurfaceHandle returns the handle of the named surface or 0 if
// there is no such surface.
func (s *System) ControlSurfaceHandle(name string) SurfaceHandle {
	for i, surf := range s.Surfaces {
		if surf.Name == name {
			return SurfaceHandle(i + 1)
		}
	}
	return 0
}

// ControlSurfaceHandleContaining returns the first surface whose name
// contains sub.
func (s *System) ControlSurfaceHandleContaining(sub string) SurfaceHandle {
	key := "1\x00" + sub
	if h, ok := s.handleCache.Get(key); ok {
		return h
	}

	var h SurfaceHandle
	for i, surf := range s.Surfaces {
		if strings.Contains(surf.Name, sub) {
			h = SurfaceHandle(i + 1)
			break
		}
	}
	s.handleCache.Add(key, h)
	return h
}

// ControlSurfaceHandleContainingTwo returns the first surface whose name
// contains both a and b, e.g. "Elevon" and "Right".
func (s *System) ControlSurfaceHandleContainingTwo(a, b string) SurfaceHandle {
	key := "2\x00" + a + "\x00" + b
	if h, ok := s.handleCache.Get(key); ok {
		return h
	}

	var h SurfaceHandle
	for i, surf := range s.Surfaces {
		if strings.Contains(surf.Name, a) && strings.Contains(surf.Name, b) {
			h = SurfaceHandle(i + 1)
			break
		}
	}
	s.handleCache.Add(key, h)
	return h
}

func (s *System) ControlSurfaceName(h SurfaceHandle) string {
	if surf := s.surface(h); surf != nil {
		return surf.Name
	}
	return ""
}

func (s *System) ControlSurfaceAngle(h SurfaceHandle) float64 {
	if surf := s.surface(h); surf != nil {
		return surf.Current
	}
	return 0
}

// SetControlSurfaceAngle sets the surface's angle, bypassing its streams
// and actuator rate limits. Initialization and testing only.
func (s *System) SetControlSurfaceAngle(h SurfaceHandle, angle float64) {
	if surf := s.surface(h); surf != nil {
		surf.SetAngle(angle)
	}
}

func (s *System) ControlSurfaceMinAngle(h SurfaceHandle) float64 {
	if surf := s.surface(h); surf != nil {
		return surf.Min
	}
	return 0
}

func (s *System) ControlSurfaceMaxAngle(h SurfaceHandle) float64 {
	if surf := s.surface(h); surf != nil {
		return surf.Max
	}
	return 0
}

func (s *System) ControlSurfaceNormalizedValue(h SurfaceHandle) float64 {
	if surf := s.surface(h); surf != nil {
		return surf.NormalizedValue()
	}
	return 0
}

// ActuatorAngle returns the current angle of the surface's actuator. For
// surfaces without an actuator the surface angle is returned.
func (s *System) ActuatorAngle(h SurfaceHandle) float64 {
	surf := s.surface(h)
	if surf == nil {
		return 0
	}
	if surf.Actuator != nil {
		return surf.Actuator.Current
	}
	return surf.Current
}

// SetAllControlSurfaceAngles sets every surface to the given angle,
// bypassing the actuators.
func (s *System) SetAllControlSurfaceAngles(angle float64) {
	for _, surf := range s.Surfaces {
		surf.SetAngle(angle)
	}
}

func (s *System) AllControlSurfaceNames() []string {
	n := make([]string, len(s.Surfaces))
	for i, surf := range s.Surfaces {
		n[i] = surf.Name
	}
	return n
}

func (s *System) AllControlSurfaceAngles() []float64 {
	a := make([]float64, len(s.Surfaces))
	for i, surf := range s.Surfaces {
		a[i] = surf.Current
	}
	return a
}

///////////////////////////////////////////////////////////////////////////
// Control values and booleans

func (s *System) ControlValueHandle(name string) ValueHandle {
	for i, v := range s.Values {
		if v.Name == name {
			return ValueHandle(i + 1)
		}
	}
	return 0
}

func (s *System) value(h ValueHandle) *ControlValue {
	if h <= 0 || int(h) > len(s.Values) {
		return nil
	}
	return s.Values[h-1]
}

func (s *System) ControlValue(h ValueHandle) float64 {
	if v := s.value(h); v != nil {
		return v.Current
	}
	return 0
}

func (s *System) ControlValueMin(h ValueHandle) float64 {
	if v := s.value(h); v != nil {
		return v.Min
	}
	return 0
}

func (s *System) ControlValueMax(h ValueHandle) float64 {
	if v := s.value(h); v != nil {
		return v.Max
	}
	return 0
}

func (s *System) ControlBooleanHandle(name string) BooleanHandle {
	for i, b := range s.Booleans {
		if b.Name == name {
			return BooleanHandle(i + 1)
		}
	}
	return 0
}

func (s *System) boolean(h BooleanHandle) *ControlBoolean {
	if h <= 0 || int(h) > len(s.Booleans) {
		return nil
	}
	return s.Booleans[h-1]
}

func (s *System) ControlBoolean(h BooleanHandle) bool {
	if b := s.boolean(h); b != nil {
		return b.Current
	}
	return false
}

// ControlBooleanLast returns the boolean's value before the most recent
// update.
func (s *System) ControlBooleanLast(h BooleanHandle) bool {
	if b := s.boolean(h); b != nil {
		return b.Last
	}
	return false
}

///////////////////////////////////////////////////////////////////////////

// Snapshot returns a deep copy of the system, including its input
// registry, that can be run forward independently of the original.
func (s *System) Snapshot() *System {
	c := newSystem(deep.MustCopy(s.Registry))
	c.Modifiers = deep.MustCopy(s.Modifiers)
	c.Surfaces = deep.MustCopy(s.Surfaces)
	c.Values = deep.MustCopy(s.Values)
	c.Booleans = deep.MustCopy(s.Booleans)
	c.LastUpdate = s.LastUpdate
	c.TestingNoLag = s.TestingNoLag
	c.updated = s.updated
	return c
}
