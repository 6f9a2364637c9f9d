// pilot/errors.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package pilot

import "errors"

var (
	ErrUnknownStandardInput = errors.New("Unknown standard input")
	ErrUnmatchedBinding     = errors.New("Standard input is not bound to a control input")
	ErrInvalidTrimFactor    = errors.New("Trim factor must be non-negative")
)
