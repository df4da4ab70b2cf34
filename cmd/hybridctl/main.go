// Command hybridctl configures the hybrid circuit/packet switch for experiment runs.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/kballard/go-shellquote"
	"github.com/urfave/cli/v2"
	"github.com/usnistgov/hybrid-ctrl/core/logging"
	"github.com/usnistgov/hybrid-ctrl/core/version"
	"github.com/usnistgov/hybrid-ctrl/core/yamlflag"
	"github.com/usnistgov/hybrid-ctrl/device"
	"github.com/usnistgov/hybrid-ctrl/experiment"
	"go.uber.org/zap"
)

var logger = logging.New("hybridctl")

var (
	deploy  experiment.Deployment
	address string
	cmdout  bool

	dev     device.Device
	session *device.Session
)

// openDevice connects to the device, or creates a Recorder in --cmdout mode.
func openDevice(c *cli.Context) (e error) {
	if address != "" {
		deploy.Device.Address = address
	}
	deploy.ApplyDefaults()

	if cmdout {
		dev = device.NewRecorder(deploy.Device.Racks)
		return nil
	}
	if session, e = device.Dial(c.Context, deploy.Device); e != nil {
		return cli.Exit(e, 1)
	}
	dev = session
	return nil
}

// closeDevice prints recorded requests in --cmdout mode, or closes the session.
func closeDevice() error {
	if rec, ok := dev.(*device.Recorder); ok {
		for _, cmd := range rec.Commands() {
			fmt.Println(cmd.Shell())
		}
		return nil
	}
	if session != nil {
		return session.Close()
	}
	return nil
}

// withDevice wraps an action that needs the device.
func withDevice(action func(c *cli.Context) error) cli.ActionFunc {
	return func(c *cli.Context) (e error) {
		if e = openDevice(c); e != nil {
			return e
		}
		defer func() {
			if e2 := closeDevice(); e == nil {
				e = e2
			}
		}()
		return action(c)
	}
}

var app = &cli.App{
	Version: version.V.String(),
	Usage:   "Configure hybrid circuit/packet switch.",
	Flags: []cli.Flag{
		&cli.GenericFlag{
			Name:  "deployment",
			Usage: "deployment settings `YAML` or @file",
			Value: yamlflag.New(&deploy),
		},
		&cli.StringFlag{
			Name:        "device",
			Usage:       "device control socket `address`, overrides deployment",
			Destination: &address,
		},
		&cli.BoolFlag{
			Name:        "cmdout",
			Value:       false,
			Usage:       "print device requests instead of executing",
			Destination: &cmdout,
		},
	},
}

func defineCommand(command *cli.Command) {
	app.Commands = append(app.Commands, command)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sort.Sort(cli.CommandsByName(app.Commands))
	if e := app.RunContext(ctx, os.Args); e != nil {
		logger.Fatal("hybridctl error", zap.Error(e), zap.String("args", shellquote.Join(os.Args[1:]...)))
	}
}
