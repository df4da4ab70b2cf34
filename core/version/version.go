// Package version returns hybrid-ctrl version information.
package version

import (
	"fmt"
	"runtime/debug"
	"time"
)

// Version records build version information.
type Version struct {
	Version string    `json:"version"`
	Commit  string    `json:"commit"`
	Date    time.Time `json:"date"`
	Dirty   bool      `json:"dirty"`
}

func (v Version) String() string {
	return v.Version
}

// V contains version information of the running binary.
var V = Version{
	Version: "development",
	Commit:  "unknown",
	Dirty:   true,
}

// fromBuildSettings fills v from VCS build settings.
// It returns false if the binary was not built from a git checkout.
func (v *Version) fromBuildSettings(settings []debug.BuildSetting) bool {
	bs := map[string]string{}
	for _, kv := range settings {
		bs[kv.Key] = kv.Value
	}
	dt, e := time.Parse(time.RFC3339, bs["vcs.time"])
	if bs["vcs"] != "git" || len(bs["vcs.revision"]) < 12 || e != nil {
		return false
	}

	v.Commit = bs["vcs.revision"]
	v.Date = dt.UTC()
	v.Dirty = bs["vcs.modified"] == "true"
	v.Version = fmt.Sprintf("v0.0.0-%s-%s", v.Date.Format("20060102150405"), v.Commit[:12])
	if v.Dirty {
		v.Version += "-dirty"
	}
	return true
}

func init() {
	if bi, ok := debug.ReadBuildInfo(); ok {
		V.fromBuildSettings(bi.Settings)
	}
}
