package version

import (
	"runtime"
	"strings"
	"testing"
)

func TestGet_LdflagsWin(t *testing.T) {
	saved := [...]string{Version, Commit, Date, BuiltBy}
	t.Cleanup(func() { Version, Commit, Date, BuiltBy = saved[0], saved[1], saved[2], saved[3] })

	Version, Commit, Date, BuiltBy = "v1.2.3", "abc123", "2026-01-02", "goreleaser"
	info := Get()

	if info.Version != "v1.2.3" || info.Commit != "abc123" || info.Date != "2026-01-02" || info.BuiltBy != "goreleaser" {
		t.Errorf("ldflags values should be kept, got %+v", info)
	}
	if info.GoVersion != runtime.Version() {
		t.Errorf("GoVersion = %s, want %s", info.GoVersion, runtime.Version())
	}
	if GetVersion() != "v1.2.3" {
		t.Errorf("GetVersion() = %s", GetVersion())
	}
}

func TestGet_EmptyVersion(t *testing.T) {
	saved := Version
	t.Cleanup(func() { Version = saved })

	Version = ""
	if Get().Version == "" {
		t.Error("an empty version should fall back")
	}
}

func TestInfo_String(t *testing.T) {
	info := Info{Version: "v1.0.0", Commit: "c", Date: "d", BuiltBy: "b", GoVersion: "go1.24.6"}
	got := info.String()
	for _, part := range []string{"v1.0.0", "commit: c", "built: d", "by: b", "go1.24.6"} {
		if !strings.Contains(got, part) {
			t.Errorf("%q should contain %q", got, part)
		}
	}
}
