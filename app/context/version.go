package context

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// The semantic version of the application.
const version = "0.1.0"

// GetVersion returns the app version, including the VCS revision and Go
// runtime information embedded in the binary.
func GetVersion() string {
	goInfo := fmt.Sprintf("%s, %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH)

	var commit, dirty string
	if buildInfo, ok := debug.ReadBuildInfo(); ok {
		for _, s := range buildInfo.Settings {
			switch s.Key {
			case "vcs.revision":
				commit = s.Value[:min(10, len(s.Value))]
			case "vcs.modified":
				if s.Value == "true" {
					dirty = "-dirty"
				}
			}
		}
	}

	if commit == "" {
		return fmt.Sprintf("v%s (%s)", version, goInfo)
	}

	return fmt.Sprintf("v%s (commit/%s%s, %s)", version, commit, dirty, goInfo)
}
