// Package version holds build metadata for the keel CLI. The variables are
// overridden at build time via -ldflags.
package version

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/fatih/color"
)

var (
	Version    = "0.1.0-dev"
	GitCommit  = ""
	GitMessage = ""
	BuildDate  = "" // ISO-8601
)

// Colored renders Version with each numeric component in its own color.
func Colored(enabled bool) string {
	parts := []*color.Color{
		color.New(color.FgYellow, color.Bold),
		color.New(color.FgGreen, color.Bold),
		color.New(color.FgBlue, color.Bold),
	}
	core, suffix, _ := strings.Cut(Version, "-")
	nums := strings.SplitN(core, ".", 3)
	for i, n := range nums {
		c := parts[i%len(parts)]
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		nums[i] = c.Sprint(n)
	}
	out := strings.Join(nums, ".")
	if suffix != "" {
		out += "-" + suffix
	}
	return out
}

// Info is the multi-line text of `keel version`.
func Info(colored bool) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "keel %s\n", Colored(colored))
	if GitCommit != "" {
		fmt.Fprintf(&sb, "commit: %s\n", GitCommit)
	}
	if GitMessage != "" {
		fmt.Fprintf(&sb, "message: %s\n", GitMessage)
	}
	if BuildDate != "" {
		fmt.Fprintf(&sb, "built: %s\n", BuildDate)
	}
	fmt.Fprintf(&sb, "go: %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	return sb.String()
}
