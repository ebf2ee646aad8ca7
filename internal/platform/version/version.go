// Package version exposes build metadata stamped in via ldflags, e.g.
//
//	go build -ldflags "-X .../platform/version.Version=v1.2.0 -X .../platform/version.Commit=$(git rev-parse --short HEAD)"
package version

import "runtime"

var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// Info is the resolved build metadata as served by /healthz.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
}

func Get() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
	}
}

// Short renders "version (commit)" for startup logs.
func (i Info) Short() string {
	commit := i.Commit
	if len(commit) > 8 {
		commit = commit[:8]
	}
	return i.Version + " (" + commit + ")"
}
