// propulsion/errors.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package propulsion

import "errors"

var (
	ErrNoEngine          = errors.New("Thrust producer has no engine")
	ErrMissingThrustData = errors.New("Engine must provide military thrust data")
	ErrNegativeFuelFlow  = errors.New("Thrust specific fuel consumption must be non-negative")
	ErrDuplicateProducer = errors.New("Duplicate thrust producer name")
	ErrDuplicateTank     = errors.New("Duplicate fuel tank name")
	ErrUnknownProducer   = errors.New("Unknown thrust producer")
	ErrUnknownTank       = errors.New("Unknown fuel tank")
	ErrUnknownBinding    = errors.New("Control value not found for binding")
	ErrInvalidCapacity   = errors.New("Fuel tank quantity exceeds capacity")
)
