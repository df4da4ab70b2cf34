package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/kballard/go-shellquote"
	"github.com/urfave/cli/v2"
	"github.com/usnistgov/hybrid-ctrl/device"
	"github.com/usnistgov/hybrid-ctrl/experiment"
	"go.uber.org/zap"
)

// makeHostController creates a HostController that runs a command with the algorithm name appended.
func makeHostController(ccCommand string) (experiment.HostController, error) {
	if ccCommand == "" {
		return nil, nil
	}
	words, e := shellquote.Split(ccCommand)
	if e != nil {
		return nil, fmt.Errorf("cc-command: %w", e)
	}
	if len(words) == 0 {
		return nil, errors.New("cc-command: empty")
	}

	return experiment.HostControllerFunc(func(ctx context.Context, cc string) error {
		args := append(append([]string{}, words...), cc)
		if rec, ok := dev.(*device.Recorder); ok {
			rec.Exec(args...)
			return nil
		}
		cmd := exec.CommandContext(ctx, args[0], args[1:]...)
		cmd.Stdout, cmd.Stderr = os.Stderr, os.Stderr
		logger.Info("setting congestion control", zap.String("cc", cc), zap.Strings("args", args))
		return cmd.Run()
	}), nil
}

func init() {
	var ccCommand, descriptor string
	defineOverrideCommand(overrideCommand{
		Name:   "apply",
		Usage:  "Apply a configuration override and print the artifact filename prefix",
		Device: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "cc-command",
				Usage:       "`command` that sets host congestion control, algorithm name is appended",
				Destination: &ccCommand,
			},
			&cli.StringFlag{
				Name:        "descriptor",
				Usage:       "print full filename with this `descriptor` instead of prefix",
				Destination: &descriptor,
			},
		},
		Action: func(c *cli.Context, override map[string]any) error {
			hosts, e := makeHostController(ccCommand)
			if e != nil {
				return cli.Exit(e, 2)
			}
			o, e := experiment.New(dev, deploy, hosts)
			if e != nil {
				return cli.Exit(e, 2)
			}
			if e := o.Apply(c.Context, override); e != nil {
				var pe *device.ProtocolError
				if errors.As(e, &pe) {
					for _, x := range pe.Transcript {
						fmt.Fprintln(os.Stderr, x)
					}
				}
				return cli.Exit(e, 1)
			}
			if cmdout {
				return nil
			}
			if descriptor != "" {
				fmt.Println(experiment.Filename(o.FilenamePrefix(), descriptor))
			} else {
				fmt.Println(o.FilenamePrefix())
			}
			return nil
		},
	})
}
