package version

import (
	"runtime/debug"
	"strings"

	"github.com/fatih/color"
)

// Build metadata, overridable via -ldflags "-X dfalex/internal/version.Version=...".
var (
	Version   = "0.3.0-dev"
	GitCommit = ""
	BuildDate = "" // ISO-8601
)

// Info is the resolved build metadata.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
	Modified  bool   `json:"modified,omitempty"`
}

// Current returns the ldflags values, filling gaps from the VCS stamp the Go
// toolchain embeds into module builds.
func Current() Info {
	info := Info{
		Version:   strings.TrimSpace(Version),
		GitCommit: strings.TrimSpace(GitCommit),
		BuildDate: strings.TrimSpace(BuildDate),
	}
	if info.Version == "" {
		info.Version = "dev"
	}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.GitCommit == "" {
				info.GitCommit = s.Value
			}
		case "vcs.time":
			if info.BuildDate == "" {
				info.BuildDate = s.Value
			}
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
	return info
}

var partColors = []*color.Color{
	color.New(color.FgYellow, color.Bold),
	color.New(color.FgGreen, color.Bold),
	color.New(color.FgBlue, color.Bold),
}

// Colored paints major, minor and patch in their own colors; a pre-release
// suffix stays plain. color.NoColor turns painting off.
func Colored(v string) string {
	core, suffix, _ := strings.Cut(v, "-")
	parts := strings.Split(core, ".")
	for i, p := range parts {
		if i < len(partColors) {
			parts[i] = partColors[i].Sprint(p)
		}
	}
	out := strings.Join(parts, ".")
	if suffix != "" {
		out += "-" + suffix
	}
	return out
}

// Describe renders "dfalex <version> (<commit>, <date>)", skipping empty
// optional fields.
func Describe() string {
	info := Current()
	var extra []string
	if c := info.GitCommit; c != "" {
		if len(c) > 12 {
			c = c[:12]
		}
		if info.Modified {
			c += "+dirty"
		}
		extra = append(extra, c)
	}
	if info.BuildDate != "" {
		extra = append(extra, info.BuildDate)
	}
	s := "dfalex " + Colored(info.Version)
	if len(extra) > 0 {
		s += " (" + strings.Join(extra, ", ") + ")"
	}
	return s
}
