// vehicle/errors.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package vehicle

import "errors"

var (
	ErrUnknownConfigFormat = errors.New("Unknown vehicle configuration format")
	ErrNoVehicleName       = errors.New("Vehicle configuration has no \"name\"")
	ErrConfigErrors        = errors.New("Vehicle configuration has errors")
)
