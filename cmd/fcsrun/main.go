// cmd/fcsrun/main.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// fcsrun loads one or more vehicle definitions and runs their flight
// controls and engines open loop with a timed script of pilot inputs,
// writing a JSON report for each vehicle at every tick.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/mmp/sixdof/log"
	"github.com/mmp/sixdof/vehicle"

	"github.com/shirou/gopsutil/cpu"
)

var (
	configFiles  = flag.String("config", "", "Comma-separated list of vehicle definition files (.json, .json.zst, .msgpack.zst)")
	settingsFile = flag.String("settings", "", "Run settings file (YAML, TOML, or JSON)")
	logLevel     = flag.String("loglevel", "info", "Logging level: debug, info, warn, error")
	logDir       = flag.String("logdir", "", "Log file directory")
	dump         = flag.Bool("dump", false, "Dump each vehicle's complete state after the run")
	strict       = flag.Bool("strict", false, "Exit if any vehicle definition has errors")
	quiet        = flag.Bool("quiet", false, "Don't write per-tick reports")
)

func main() {
	flag.Parse()

	lg := log.New(*logLevel, *logDir)
	defer lg.CatchAndReportCrash()

	if *configFiles == "" {
		fmt.Fprintln(os.Stderr, "fcsrun: no vehicle definitions given; use -config")
		os.Exit(1)
	}

	settings, err := loadSettings(*settingsFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fcsrun: %v\n", err)
		os.Exit(1)
	}

	// Prime the CPU usage counters so the summary covers just the run.
	cpu.Percent(0, false)

	loaded, err := vehicle.LoadAll(context.Background(), strings.Split(*configFiles, ","), lg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fcsrun: %v\n", err)
		os.Exit(1)
	}

	nerrors := 0
	for _, l := range loaded {
		nerrors += l.Errors.Count()
		l.Errors.PrintErrors(lg)
	}
	if *strict && nerrors > 0 {
		fmt.Fprintf(os.Stderr, "fcsrun: %d errors in vehicle definitions\n", nerrors)
		os.Exit(1)
	}

	apply := func(c commands) {
		for _, l := range loaded {
			if err := c.applyMode(l.Vehicle.Pilot); err != nil {
				fmt.Fprintf(os.Stderr, "fcsrun: %v\n", err)
				os.Exit(1)
			}
			l.Vehicle.Freeze = c.Freeze
		}
		lg.Info("commands applied", "at", c.At, "mode", c.Mode, "freeze", c.Freeze)
	}

	step, cmds := settings.commandsAt(0)
	apply(cmds)
	for _, l := range loaded {
		l.Vehicle.SetTestingNoLag(settings.NoLag)
		l.Vehicle.Initialize(0)
	}

	w := bufio.NewWriter(os.Stdout)
	defer w.Flush()

	start := time.Now()
	nticks := 0
	for t := settings.Tick; t <= settings.Duration; t += settings.Tick {
		if i, c := settings.commandsAt(t); i != step {
			step, cmds = i, c
			apply(cmds)
		}
		for _, l := range loaded {
			v := l.Vehicle
			v.Pilot.SetManualControlData(cmds.Manual)
			v.Pilot.SetExternalDirectControlData(cmds.Manual)
			v.Tick(t, cmds.Condition, cmds.Autopilot)

			if !*quiet {
				b, err := v.Report()
				if err != nil {
					lg.Errorf("%s: %v", v.Name, err)
					continue
				}
				w.Write(b)
				w.WriteByte('\n')
			}
		}
		nticks++
	}
	w.Flush()

	if *dump {
		for _, l := range loaded {
			fmt.Fprintln(os.Stderr, l.Vehicle.Dump())
		}
	}

	elapsed := time.Since(start)
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	usage, _ := cpu.Percent(0, false)
	cpuPct := 0.
	if len(usage) > 0 {
		cpuPct = usage[0]
	}

	lg.Info("run complete", "vehicles", len(loaded), "ticks", nticks, "elapsed", elapsed,
		"cpu_percent", cpuPct, "alloc_mb", m.TotalAlloc/(1024*1024))
	fmt.Fprintf(os.Stderr, "%d vehicles, %d ticks in %s (%.1f%% CPU, %d MB allocated)\n",
		len(loaded), nticks, elapsed.Round(time.Millisecond), cpuPct, m.TotalAlloc/(1024*1024))
}
