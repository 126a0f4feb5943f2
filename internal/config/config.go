// Package config loads host configuration for the analyzer from scriptls.toml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"scriptls/internal/stdlib"
)

// FileName is the configuration file searched for from the working directory upwards.
const FileName = "scriptls.toml"

// DefaultMaxDiagnostics caps diagnostics per document when nothing else is configured.
const DefaultMaxDiagnostics = 100

// DefaultGlobals are the host objects every script can reach without
// declaring them.
var DefaultGlobals = []string{"Data"}

// Config is the host configuration passed to every analysis request.
type Config struct {
	// MaxDiagnosticCount keeps only the first N diagnostics of a document.
	MaxDiagnosticCount int
	// WarnOnHostFunctionCalls enables the informational note for unknown PascalCase calls.
	WarnOnHostFunctionCalls bool
	// Globals are host-provided variable names treated as declared. A
	// `globals` key in scriptls.toml replaces DefaultGlobals.
	Globals []string
	// Catalog is an optional TOML function catalog merged over the built-in one.
	Catalog string
	// Path is the file the configuration was read from, if any.
	Path string
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		MaxDiagnosticCount:      DefaultMaxDiagnostics,
		WarnOnHostFunctionCalls: true,
		Globals:                 append([]string(nil), DefaultGlobals...),
	}
}

type fileConfig struct {
	Analysis analysisConfig `toml:"analysis"`
}

type analysisConfig struct {
	MaxDiagnostics    int      `toml:"max_diagnostics"`
	HostFunctionCalls bool     `toml:"warn_on_host_function_calls"`
	Globals           []string `toml:"globals"`
	Catalog           string   `toml:"catalog"`
}

// Find walks up from startDir looking for scriptls.toml.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load finds and reads the configuration for startDir. A missing file is not an
// error: the defaults are returned.
func Load(startDir string) (Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile reads one configuration file over the defaults.
func LoadFile(path string) (Config, error) {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}

	cfg := Default()
	cfg.Path = path
	if meta.IsDefined("analysis", "max_diagnostics") {
		if raw.Analysis.MaxDiagnostics <= 0 {
			return Config{}, fmt.Errorf("%s: [analysis].max_diagnostics must be positive", path)
		}
		cfg.MaxDiagnosticCount = raw.Analysis.MaxDiagnostics
	}
	if meta.IsDefined("analysis", "warn_on_host_function_calls") {
		cfg.WarnOnHostFunctionCalls = raw.Analysis.HostFunctionCalls
	}
	if meta.IsDefined("analysis", "globals") {
		cfg.Globals = cfg.Globals[:0]
	}
	for _, name := range raw.Analysis.Globals {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		cfg.Globals = append(cfg.Globals, name)
	}
	if catalog := strings.TrimSpace(raw.Analysis.Catalog); catalog != "" {
		if !filepath.IsAbs(catalog) {
			catalog = filepath.Join(filepath.Dir(path), filepath.FromSlash(catalog))
		}
		cfg.Catalog = catalog
	}
	return cfg, nil
}

// Registry returns the built-in catalog, merged with Catalog when set.
func (c Config) Registry() (*stdlib.Registry, error) {
	base := stdlib.Default()
	if c.Catalog == "" {
		return base, nil
	}
	extra, err := stdlib.LoadFile(c.Catalog)
	if err != nil {
		return nil, err
	}
	return base.Merge(extra), nil
}

// Fingerprint identifies the settings that influence analysis output.
func (c Config) Fingerprint() string {
	globals := append([]string(nil), c.Globals...)
	sort.Strings(globals)
	return fmt.Sprintf("max=%d;host=%t;globals=%s;catalog=%s",
		c.MaxDiagnosticCount, c.WarnOnHostFunctionCalls, strings.Join(globals, ","), c.Catalog)
}
