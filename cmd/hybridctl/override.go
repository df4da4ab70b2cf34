package main

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed override.schema.json
var overrideSchema []byte

type schemaError struct {
	*gojsonschema.Result
}

func (e schemaError) Error() string {
	var b strings.Builder
	fmt.Fprintln(&b, "configuration override failed schema validation:")
	for _, desc := range e.Result.Errors() {
		fmt.Fprintln(&b, "-", desc)
	}
	return b.String()
}

func checkSchema(input gojsonschema.JSONLoader) error {
	result, e := gojsonschema.Validate(gojsonschema.NewBytesLoader(overrideSchema), input)
	if e != nil {
		return e
	}
	if !result.Valid() {
		return schemaError{result}
	}
	return nil
}

// parseOverride decodes and validates a configuration override.
func parseOverride(r io.Reader, skipSchema bool) (override map[string]any, e error) {
	loader, rd := gojsonschema.NewReaderLoader(r)
	decoder := json.NewDecoder(rd)
	if e = decoder.Decode(&override); e != nil {
		return nil, fmt.Errorf("configuration override: %w", e)
	}
	if !skipSchema {
		if e = checkSchema(loader); e != nil {
			return nil, e
		}
	}
	return override, nil
}

type overrideCommand struct {
	Name   string
	Usage  string
	Device bool
	Flags  []cli.Flag
	Action func(c *cli.Context, override map[string]any) error
}

// defineOverrideCommand defines a command that accepts a configuration override,
// either via --config flag or via stdin.
func defineOverrideCommand(opts overrideCommand) {
	var config string
	var skipSchema bool
	action := func(c *cli.Context) error {
		var r io.Reader = os.Stdin
		if config != "" {
			r = strings.NewReader(config)
		}
		override, e := parseOverride(r, skipSchema)
		if e != nil {
			return cli.Exit(e, 2)
		}
		return opts.Action(c, override)
	}
	if opts.Device {
		action = withDevice(action)
	}

	defineCommand(&cli.Command{
		Name:  opts.Name,
		Usage: opts.Usage,
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Usage:       "configuration override `JSON`, default reads stdin",
				Destination: &config,
			},
			&cli.BoolFlag{
				Name:        "skip-schema",
				Usage:       "do not check JSON schema",
				Destination: &skipSchema,
			},
		}, opts.Flags...),
		Action: action,
	})
}
