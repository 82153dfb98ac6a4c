package main

import (
	"runtime/debug"
	"time"
)

// Set with -ldflags "-X main.commit=... -X main.buildDate=..." in release builds.
var (
	commit    = ""
	buildDate = ""
)

// version renders "commit (date)", falling back to VCS build info and then
// to "dev".
func version() string {
	c, d := commit, buildDate
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				if c == "" {
					c = s.Value
				}
			case "vcs.time":
				if d == "" {
					if t, err := time.Parse(time.RFC3339, s.Value); err == nil {
						d = t.Format("2006-01-02")
					}
				}
			}
		}
	}
	if len(c) > 7 {
		c = c[:7]
	}
	if c == "" {
		c = "dev"
	}
	if d == "" {
		return c
	}
	return c + " (" + d + ")"
}
