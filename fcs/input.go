// fcs/input.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package fcs

import "fmt"

type InputKind int

const (
	FloatInput InputKind = iota
	BoolInput
)

func (k InputKind) String() string {
	if k == BoolInput {
		return "bool"
	}
	return "float"
}

// ControlInput is a named channel holding the latest command value. Float
// inputs are normalized (typically -1..1 or 0..1); bool inputs keep Value
// at 1 or 0 so that gain streams can treat them uniformly.
type ControlInput struct {
	Name  string
	Kind  InputKind
	Value float64
	Bool  bool
}

// InputHandle identifies a ControlInput in a Registry. Handles start at 1;
// the zero handle never refers to an input.
type InputHandle int

// Registry holds the vehicle's control inputs. It is written by the pilot
// command blender once per tick and read by the gain streams.
type Registry struct {
	Inputs []ControlInput
}

func (r *Registry) Add(name string, kind InputKind) (InputHandle, error) {
	if r.Handle(name) != 0 {
		return 0, fmt.Errorf("%s: %w", name, ErrDuplicateInput)
	}
	r.Inputs = append(r.Inputs, ControlInput{Name: name, Kind: kind})
	return InputHandle(len(r.Inputs)), nil
}

// Handle returns the handle of the named input, or 0 if there isn't one.
func (r *Registry) Handle(name string) InputHandle {
	for i := range r.Inputs {
		if r.Inputs[i].Name == name {
			return InputHandle(i + 1)
		}
	}
	return 0
}

func (r *Registry) valid(h InputHandle) bool {
	return h > 0 && int(h) <= len(r.Inputs)
}

// Input returns a pointer to the input, or nil for an invalid handle.
func (r *Registry) Input(h InputHandle) *ControlInput {
	if !r.valid(h) {
		return nil
	}
	return &r.Inputs[h-1]
}

func (r *Registry) Value(h InputHandle) float64 {
	if !r.valid(h) {
		return 0
	}
	return r.Inputs[h-1].Value
}

func (r *Registry) BoolValue(h InputHandle) bool {
	if !r.valid(h) {
		return false
	}
	return r.Inputs[h-1].Bool
}

// SetValue sets the input's value. The boolean view of the input is kept
// consistent: it's true for values of 0.5 and above.
func (r *Registry) SetValue(h InputHandle, v float64) {
	if !r.valid(h) {
		return
	}
	in := &r.Inputs[h-1]
	in.Value = v
	in.Bool = v >= 0.5
}

// SetBool sets the input's boolean value along with its 1/0 surrogate.
func (r *Registry) SetBool(h InputHandle, b bool) {
	if !r.valid(h) {
		return
	}
	in := &r.Inputs[h-1]
	in.Bool = b
	if b {
		in.Value = 1
	} else {
		in.Value = 0
	}
}

// Names returns the input names in declaration order.
func (r *Registry) Names() []string {
	n := make([]string, len(r.Inputs))
	for i, in := range r.Inputs {
		n[i] = in.Name
	}
	return n
}
