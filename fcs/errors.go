// fcs/errors.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package fcs

import "errors"

var (
	ErrDuplicateInput      = errors.New("Control input already defined")
	ErrDuplicateModifier   = errors.New("Modifier already defined")
	ErrDuplicateElement    = errors.New("Control element already defined")
	ErrUnknownInput        = errors.New("Unknown control input")
	ErrUnknownModifier     = errors.New("Unknown modifier")
	ErrUnknownModifierType = errors.New("Unknown modifier type")
	ErrInvalidClamp        = errors.New("Clamp minimum exceeds maximum")
	ErrMissingLimit        = errors.New("Required limit not specified")
	ErrInvalidLimits       = errors.New("Minimum limit exceeds maximum")
	ErrInvalidRate         = errors.New("Actuator rates must be positive")
	ErrMissingTable        = errors.New("Table modifier has no table")
	ErrNoStreams           = errors.New("Element has no control inputs")
	ErrUnknownPolicy       = errors.New("Unknown override policy")
)
