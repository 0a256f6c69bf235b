package version

import (
	"runtime/debug"
	"testing"
)

func stubBuildInfo(t *testing.T, mainVersion string, ok bool) {
	t.Helper()
	orig := readBuildInfo
	readBuildInfo = func() (*debug.BuildInfo, bool) {
		if !ok {
			return nil, false
		}
		return &debug.BuildInfo{Main: debug.Module{Version: mainVersion}}, true
	}
	t.Cleanup(func() { readBuildInfo = orig })
}

func TestGetVersion(t *testing.T) {
	tests := []struct {
		name      string
		version   string
		buildInfo string
		ok        bool
		want      string
	}{
		{name: "ldflags_win", version: "v1.2.3", buildInfo: "v9.9.9", ok: true, want: "v1.2.3"},
		{name: "module_version", version: devVersion, buildInfo: "v0.4.0", ok: true, want: "v0.4.0"},
		{name: "devel_build", version: devVersion, buildInfo: "(devel)", ok: true, want: devVersion},
		{name: "no_build_info", version: devVersion, ok: false, want: devVersion},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orig := Version
			Version = tt.version
			t.Cleanup(func() { Version = orig })
			stubBuildInfo(t, tt.buildInfo, tt.ok)

			if got := GetVersion(); got != tt.want {
				t.Errorf("GetVersion() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGetFullVersion(t *testing.T) {
	origV, origC, origD := Version, Commit, Date
	Version, Commit, Date = "v1.0.0", "abc123", "2026-01-02"
	t.Cleanup(func() { Version, Commit, Date = origV, origC, origD })

	want := "v1.0.0 (commit: abc123, built: 2026-01-02)"
	if got := GetFullVersion(); got != want {
		t.Errorf("GetFullVersion() = %q, want %q", got, want)
	}
}
