package experiment

import (
	"path"
	"strconv"
	"strings"

	"github.com/usnistgov/hybrid-ctrl/core/numfmt"
)

// FilenamePrefix encodes a configuration into the prefix of artifact filenames.
// Tokens are joined by '-' and the prefix ends with '-'; the caller appends a descriptor and extension.
// Offline log parsing depends on the token order.
func FilenamePrefix(timestamp, script string, cfg Config) string {
	tokens := []string{
		timestamp,
		script,
		cfg.Type,
		strconv.Itoa(cfg.BufferSize),
		cfg.TrafficSource,
		numfmt.Bool(cfg.QueueResize),
		strconv.FormatInt(cfg.InAdvance, 10),
		cfg.CC,
		numfmt.Float(cfg.CircuitLinkDelay),
		numfmt.Float(cfg.PacketLinkBandwidth),
		numfmt.Bool(cfg.HDFS),
	}
	return strings.Join(tokens, "-") + "-"
}

// Filename appends a descriptor, such as "click" or "flowgrind", and the ".txt" extension to a prefix.
func Filename(prefix, descriptor string) string {
	return prefix + descriptor + ".txt"
}

// LogPath returns the packet log path of a configuration.
func (d Deployment) LogPath(prefix string) string {
	return path.Join(d.LogDir, Filename(prefix, "click"))
}
