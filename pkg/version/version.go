// Package version reports build metadata injected through -ldflags.
package version

import (
	"fmt"
	"runtime"
	"strings"
)

var (
	// Version is the semantic version (set at build time via ldflags)
	Version = "dev"
	// Commit is the git commit hash (set at build time via ldflags)
	Commit = "unknown"
	// BuildTime is the build timestamp (set at build time via ldflags)
	BuildTime = "unknown"
	// GoVersion is the Go toolchain the binary was built with
	GoVersion = runtime.Version()
)

// Info describes the running taskium binary
type Info struct {
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"commit" yaml:"commit"`
	BuildTime string `json:"buildTime" yaml:"buildTime"`
	GoVersion string `json:"goVersion" yaml:"goVersion"`
	Platform  string `json:"platform" yaml:"platform"`
}

// Get returns the build metadata of this binary
func Get() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

type field struct {
	name  string
	value string
}

func (i Info) fields() []field {
	return []field{
		{"Version", i.Version},
		{"Commit", i.Commit},
		{"Build Time", i.BuildTime},
		{"Go Version", i.GoVersion},
		{"Platform", i.Platform},
	}
}

// String renders the multi-line block printed by "taskium version"
func (i Info) String() string {
	var b strings.Builder
	b.WriteString("Taskium")
	for _, f := range i.fields() {
		fmt.Fprintf(&b, "\n  %-11s %s", f.name+":", f.value)
	}
	return b.String()
}

// Short is the one-line form printed by "taskium --version"
func (i Info) Short() string {
	commit := i.Commit
	if len(commit) > 7 {
		commit = commit[:7]
	}
	return fmt.Sprintf("taskium %s (%s, %s %s)", i.Version, commit, i.GoVersion, i.Platform)
}

// Fields returns the metadata keyed by display name, for table output
func (i Info) Fields() map[string]interface{} {
	out := make(map[string]interface{}, 5)
	for _, f := range i.fields() {
		out[f.name] = f.value
	}
	return out
}
