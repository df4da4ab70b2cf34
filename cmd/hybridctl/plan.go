package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
	"github.com/usnistgov/hybrid-ctrl/core/numfmt"
	"github.com/usnistgov/hybrid-ctrl/device"
	"github.com/usnistgov/hybrid-ctrl/experiment"
	"github.com/usnistgov/hybrid-ctrl/schedule"
	"github.com/usnistgov/hybrid-ctrl/timemodel"
)

// newOffline creates an Orchestrator that records requests without a device.
func newOffline() (*experiment.Orchestrator, error) {
	if address != "" {
		deploy.Device.Address = address
	}
	deploy.ApplyDefaults()
	return experiment.New(device.NewRecorder(deploy.Device.Racks), deploy, nil)
}

// describeSchedule lists slots with their duration in device time and in experiment time.
func describeSchedule(sched schedule.Schedule, tdf timemodel.Dilation) (lines []string) {
	for i, slot := range sched {
		lines = append(lines, fmt.Sprintf("%d %d %sus %s", i, slot.Duration,
			numfmt.Float(tdf.RealTime(float64(slot.Duration))), slot.Matching))
	}
	cycle := sched.Cycle()
	return append(lines, fmt.Sprintf("cycle %d %sus", cycle, numfmt.Float(tdf.RealTime(float64(cycle)))))
}

func init() {
	var verbose bool
	defineOverrideCommand(overrideCommand{
		Name:  "show-schedule",
		Usage: "Print the schedule a configuration override installs",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "verbose",
				Aliases:     []string{"v"},
				Usage:       "print one slot per line",
				Destination: &verbose,
			},
		},
		Action: func(c *cli.Context, override map[string]any) error {
			o, e := newOffline()
			if e != nil {
				return cli.Exit(e, 2)
			}
			_, policy, wire, e := o.Plan(override)
			if e != nil {
				return cli.Exit(e, 2)
			}
			if wire == "" {
				fmt.Printf("%s: no schedule installed\n", policy.Tag())
				return nil
			}
			if !verbose {
				fmt.Println(wire)
				return nil
			}

			sched, e := schedule.Parse(wire)
			if e != nil {
				return cli.Exit(e, 2)
			}
			for _, line := range describeSchedule(sched, o.Deployment().TDF) {
				fmt.Println(line)
			}
			return nil
		},
	})
}

func init() {
	var descriptor string
	defineOverrideCommand(overrideCommand{
		Name:  "filename",
		Usage: "Print the artifact filename of a configuration override",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "descriptor",
				Usage:       "filename `descriptor`, empty prints the prefix",
				Destination: &descriptor,
			},
		},
		Action: func(c *cli.Context, override map[string]any) error {
			o, e := newOffline()
			if e != nil {
				return cli.Exit(e, 2)
			}
			cfg, _, _, e := o.Plan(override)
			if e != nil {
				return cli.Exit(e, 2)
			}
			d := o.Deployment()
			prefix := experiment.FilenamePrefix(d.Timestamp, d.Script, cfg)
			if descriptor == "" {
				fmt.Println(prefix)
			} else {
				fmt.Println(experiment.Filename(prefix, descriptor))
			}
			return nil
		},
	})
}
