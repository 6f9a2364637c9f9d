// vehicle/load.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package vehicle

import (
	"context"
	"fmt"

	"github.com/mmp/sixdof/log"
	"github.com/mmp/sixdof/util"

	"golang.org/x/sync/errgroup"
)

// Loaded is a vehicle built from a configuration file along with any
// problems found in the file.
type Loaded struct {
	Path    string
	Vehicle *Vehicle
	Errors  *util.ErrorLogger
}

// LoadAll loads and builds the vehicles defined in the given files
// concurrently. The results are in the same order as paths. Loading stops
// at the first file that can't be read or built at all; configuration
// problems that leave a usable vehicle are reported in each result's
// Errors.
func LoadAll(ctx context.Context, paths []string, lg *log.Logger) ([]Loaded, error) {
	loaded := make([]Loaded, len(paths))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(8)
	for i, path := range paths {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			var e util.ErrorLogger
			cfg, err := LoadConfig(path, &e)
			if err != nil {
				return err
			}

			v, be, err := Rebuild(cfg, lg)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			e.Merge(path, be)

			loaded[i] = Loaded{Path: path, Vehicle: v, Errors: &e}
			lg.Infof("%s: loaded %q", path, cfg.Name)
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return loaded, nil
}
