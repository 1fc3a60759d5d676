package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set via -ldflags "-X github.com/ludo-technologies/smellscan/internal/version.Version=..."
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
	BuiltBy = "source"
)

// Info describes the running build. It is stamped into every report.
type Info struct {
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"commit" yaml:"commit"`
	Date      string `json:"date" yaml:"date"`
	BuiltBy   string `json:"built_by" yaml:"built_by"`
	GoVersion string `json:"go_version" yaml:"go_version"`
}

// Get returns the build information. Binaries installed with `go install`
// carry no ldflags, so the module version and VCS revision are used instead.
func Get() Info {
	info := Info{
		Version:   Version,
		Commit:    Commit,
		Date:      Date,
		BuiltBy:   BuiltBy,
		GoVersion: runtime.Version(),
	}
	if info.Version == "" {
		info.Version = "dev"
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
		info.BuiltBy = "go install"
	}
	for _, s := range bi.Settings {
		switch {
		case s.Key == "vcs.revision" && info.Commit == "unknown":
			info.Commit = s.Value
		case s.Key == "vcs.time" && info.Date == "unknown":
			info.Date = s.Value
		}
	}
	return info
}

// GetVersion returns the version string
func GetVersion() string {
	return Get().Version
}

// String formats the full build information on one line
func (i Info) String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s, by: %s, %s)",
		i.Version, i.Commit, i.Date, i.BuiltBy, i.GoVersion)
}
