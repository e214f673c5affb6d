// Package buildinfo contains build information.
//
// Build information should be set during compilation by passing
// -ldflags "-X github.com/usemam/ledger/pkg/buildinfo.Var=value" to "go build".
package buildinfo

import (
	"fmt"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/usemam/ledger/pkg/prog"
)

// VersionBase identifies the version of ledger. On development commits, it
// identifies the next release.
const VersionBase = "0.1.0"

// VCSOverride may be set to a string like "20220401235958-123456789012" to
// override the VCS information found in the Go build info.
var VCSOverride string

// Version is the full version string, including VCS information on
// development builds.
var Version = devVersion(VersionBase, VCSOverride, debug.ReadBuildInfo)

func devVersion(next, vcsOverride string, readBuildInfo func() (*debug.BuildInfo, bool)) string {
	if vcsOverride != "" {
		return next + "-dev.0." + vcsOverride
	}
	fallback := next + "-dev.unknown"
	bi, ok := readBuildInfo()
	if !ok {
		return fallback
	}
	if v := bi.Main.Version; v != "" && v != "(devel)" {
		return strings.TrimPrefix(v, "v")
	}
	var revision, modified, timeStr string
	for _, setting := range bi.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			modified = setting.Value
		case "vcs.time":
			timeStr = setting.Value
		}
	}
	if revision == "" {
		return fallback
	}
	t, err := time.Parse(time.RFC3339, timeStr)
	if err != nil {
		return fallback
	}
	if len(revision) > 12 {
		revision = revision[:12]
	}
	v := fmt.Sprintf("%s-dev.0.%s-%s", next, t.UTC().Format("20060102150405"), revision)
	if modified == "true" {
		v += "-dirty"
	}
	return v
}

// Program is the buildinfo subprogram.
var Program prog.Program = program{}

type program struct{}

func (program) Run(fds [3]*os.File, f *prog.Flags, _ []string) error {
	if !f.Version {
		return prog.ErrNotSuitable
	}
	fmt.Fprintln(fds[1], Version)
	return nil
}
