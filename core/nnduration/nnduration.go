// Package nnduration provides non-negative duration types that accept either a number or a duration string.
package nnduration

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

func parse(input string, unit time.Duration) (value uint64, e error) {
	if d, e := time.ParseDuration(input); e == nil {
		if d < 0 {
			return 0, fmt.Errorf("negative duration %s", input)
		}
		return uint64(d / unit), nil
	}
	return strconv.ParseUint(input, 10, 64)
}

// Milliseconds is a duration in milliseconds.
// It can be written as a number or a string such as "100ms" or "5s".
type Milliseconds uint64

// Duration converts to time.Duration.
func (d Milliseconds) Duration() time.Duration {
	return time.Duration(d) * time.Millisecond
}

// DurationOr converts to time.Duration, or returns the default when zero.
func (d Milliseconds) DurationOr(dflt Milliseconds) time.Duration {
	if d == 0 {
		return dflt.Duration()
	}
	return d.Duration()
}

// MarshalJSON implements json.Marshaler.
func (d Milliseconds) MarshalJSON() ([]byte, error) {
	return json.Marshal(uint64(d))
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Milliseconds) UnmarshalJSON(p []byte) error {
	v, e := parse(strings.Trim(string(p), `"`), time.Millisecond)
	*d = Milliseconds(v)
	return e
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Milliseconds) UnmarshalYAML(node *yaml.Node) error {
	v, e := parse(node.Value, time.Millisecond)
	*d = Milliseconds(v)
	return e
}
