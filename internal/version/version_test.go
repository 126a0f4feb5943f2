package version

import (
	"testing"

	"github.com/fatih/color"
)

func TestVersion_DefaultValues(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
}

func TestInfo_IncludesBuildMetadata(t *testing.T) {
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	defer func() {
		Version, GitCommit, BuildDate = origVersion, origCommit, origDate
	}()

	Version = "1.2.3"
	GitCommit = ""
	BuildDate = ""
	if got := Info(false); got != "scriptls 1.2.3" {
		t.Errorf("Info() = %q", got)
	}

	GitCommit = "abc123"
	BuildDate = "2024-01-15"
	if got := Info(false); got != "scriptls 1.2.3 (commit abc123, built 2024-01-15)" {
		t.Errorf("Info() = %q", got)
	}
}

func TestColored_PlainWhenColorDisabled(t *testing.T) {
	origVersion, origNoColor := Version, color.NoColor
	defer func() {
		Version, color.NoColor = origVersion, origNoColor
	}()
	color.NoColor = true

	for _, v := range []string{"0.1.0-dev", "1.2.3", "nightly"} {
		Version = v
		if got := Colored(); got != v {
			t.Errorf("Colored() = %q, want %q", got, v)
		}
	}
}
