package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
}

func TestLoadWithoutFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.MaxDiagnosticCount != DefaultMaxDiagnostics || !cfg.WarnOnHostFunctionCalls {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadFindsParentConfig(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, FileName), `
[analysis]
max_diagnostics = 7
warn_on_host_function_calls = false
globals = ["Data", " ", "Env"]
catalog = "host.toml"
`)
	nested := filepath.Join(root, "scripts", "jobs")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	cfg, err := Load(nested)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.MaxDiagnosticCount != 7 {
		t.Fatalf("expected max 7, got %d", cfg.MaxDiagnosticCount)
	}
	if cfg.WarnOnHostFunctionCalls {
		t.Fatal("expected host calls to be disabled")
	}
	if len(cfg.Globals) != 2 || cfg.Globals[0] != "Data" || cfg.Globals[1] != "Env" {
		t.Fatalf("unexpected globals: %q", cfg.Globals)
	}
	if cfg.Catalog != filepath.Join(root, "host.toml") {
		t.Fatalf("expected catalog resolved next to config, got %q", cfg.Catalog)
	}
}

func TestGlobalsDefaultAndOverride(t *testing.T) {
	if got := Default().Globals; len(got) != 1 || got[0] != "Data" {
		t.Fatalf("unexpected default globals: %q", got)
	}

	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	writeFile(t, path, "[analysis]\nmax_diagnostics = 5\n")
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.Globals) != 1 || cfg.Globals[0] != "Data" {
		t.Fatalf("expected defaults kept without a globals key, got %q", cfg.Globals)
	}

	writeFile(t, path, "[analysis]\nglobals = []\n")
	cfg, err = LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.Globals) != 0 {
		t.Fatalf("expected empty globals list to disable defaults, got %q", cfg.Globals)
	}
}

func TestLoadFileRejectsNonPositiveMax(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	writeFile(t, path, "[analysis]\nmax_diagnostics = 0\n")
	_, err := LoadFile(path)
	if err == nil || !strings.Contains(err.Error(), "max_diagnostics") {
		t.Fatalf("expected max_diagnostics error, got %v", err)
	}
}

func TestLoadFileRejectsUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	writeFile(t, path, "[analysis]\nmax_diagnostic = 3\n")
	if _, err := LoadFile(path); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestRegistryMergesCatalog(t *testing.T) {
	dir := t.TempDir()
	catalog := filepath.Join(dir, "host.toml")
	writeFile(t, catalog, "[[function]]\nname = \"SendMail\"\ncategory = \"host\"\n")
	cfg := Default()
	cfg.Catalog = catalog
	reg, err := cfg.Registry()
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	if !reg.Has("sendmail") || !reg.Has("ToUpper") {
		t.Fatalf("expected merged registry, got %v", reg.Names())
	}
}

func TestFingerprintIgnoresGlobalOrder(t *testing.T) {
	a := Default()
	a.Globals = []string{"B", "A"}
	b := Default()
	b.Globals = []string{"A", "B"}
	if a.Fingerprint() != b.Fingerprint() {
		t.Fatalf("expected equal fingerprints: %q vs %q", a.Fingerprint(), b.Fingerprint())
	}
}
