// vehicle/config.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package vehicle

import (
	"bytes"
	"fmt"
	"io"

	"github.com/mmp/sixdof/fcs"
	"github.com/mmp/sixdof/pilot"
	"github.com/mmp/sixdof/propulsion"
	"github.com/mmp/sixdof/util"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"
)

// Config is a complete vehicle type definition, one per file.
type Config struct {
	Name           string            `json:"name" msgpack:"name"`
	FlightControls fcs.Config        `json:"flight_controls" msgpack:"flight_controls"`
	Pilot          pilot.Config      `json:"pilot" msgpack:"pilot"`
	Propulsion     propulsion.Config `json:"propulsion" msgpack:"propulsion"`
}

// LoadConfig reads a vehicle definition from the given file, which may be
// JSON (optionally zstd-compressed) or a msgpack bundle as written by
// WriteBundle. Problems that don't prevent decoding, such as misspelled
// or repeated keys in JSON, are reported to e.
func LoadConfig(path string, e *util.ErrorLogger) (Config, error) {
	if e == nil {
		e = &util.ErrorLogger{}
	}
	b, err := util.ReadResource(nil, path)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	switch util.ResourceFormat(path) {
	case ".json":
		e.Push(path)
		cfg, err = util.DecodeJSON[Config](b, e)
		e.Pop()
	case ".msgpack":
		err = msgpack.Unmarshal(b, &cfg)
	default:
		return Config{}, fmt.Errorf("%s: %w", path, ErrUnknownConfigFormat)
	}
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	if cfg.Name == "" {
		return Config{}, fmt.Errorf("%s: %w", path, ErrNoVehicleName)
	}
	return cfg, nil
}

// WriteBundle writes the configuration to w as zstd-compressed msgpack.
func WriteBundle(w io.Writer, cfg Config) error {
	zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return err
	}
	if err := msgpack.NewEncoder(zw).Encode(cfg); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}

// EncodeBundle is a convenience wrapper around WriteBundle that returns
// the encoded bytes.
func EncodeBundle(cfg Config) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteBundle(&buf, cfg); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
