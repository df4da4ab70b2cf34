package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
	"github.com/usnistgov/hybrid-ctrl/core/logging"
)

func formatLogLevels() (lines []string) {
	for _, pl := range logging.ListLevels() {
		lines = append(lines, fmt.Sprintf("%s %c", pl.Package(), pl.Level()))
	}
	return lines
}

func init() {
	defineCommand(&cli.Command{
		Name:  "show-log-levels",
		Usage: "Show log level of each package, set via " + logging.EnvPrefix + "_<package>",
		Action: func(c *cli.Context) error {
			for _, line := range formatLogLevels() {
				fmt.Println(line)
			}
			return nil
		},
	})
}
