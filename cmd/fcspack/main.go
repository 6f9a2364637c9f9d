// cmd/fcspack/main.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// fcspack validates a vehicle definition and writes it as a compressed
// msgpack bundle that loads without JSON parsing.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mmp/sixdof/log"
	"github.com/mmp/sixdof/util"
	"github.com/mmp/sixdof/vehicle"
)

var (
	output = flag.String("o", "", "Output bundle filename (.msgpack.zst)")
	force  = flag.Bool("force", false, "Write the bundle even if the definition has errors")
)

func main() {
	flag.Parse()

	lg := log.New("warn", "")
	defer lg.CatchAndReportCrash()

	if flag.NArg() != 1 || *output == "" {
		fmt.Fprintln(os.Stderr, "usage: fcspack -o vehicle.msgpack.zst vehicle.json")
		os.Exit(1)
	}
	if err := pack(flag.Arg(0), *output, *force, lg); err != nil {
		fmt.Fprintf(os.Stderr, "fcspack: %v\n", err)
		os.Exit(1)
	}
}

func pack(in, out string, force bool, lg *log.Logger) error {
	var e util.ErrorLogger
	cfg, err := vehicle.LoadConfig(in, &e)
	if err != nil {
		return err
	}

	// Build the vehicle to find errors that only show up once names are
	// resolved.
	_, be, err := vehicle.Rebuild(cfg, lg)
	if err != nil {
		return err
	}
	e.Merge(in, be)

	if e.HaveErrors() {
		e.PrintErrors(lg)
		if !force {
			return fmt.Errorf("%s: %w", in, vehicle.ErrConfigErrors)
		}
	}

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := vehicle.WriteBundle(f, cfg); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	if st, err := os.Stat(out); err == nil {
		fmt.Printf("%s: %d bytes\n", out, st.Size())
	}
	return nil
}
