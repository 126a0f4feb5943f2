// Package stdlib holds the standard-library function catalog of the scripted
// language. The analyzer uses it only as a name oracle; hover, completion and
// signature help read the full descriptors.
package stdlib

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"golang.org/x/text/cases"
)

//go:embed catalog.toml
var embeddedCatalog string

// Parameter describes one argument of a library function.
type Parameter struct {
	Name        string   `toml:"name"`
	Types       []string `toml:"types"`
	Optional    bool     `toml:"optional"`
	Description string   `toml:"description"`
}

// Function describes one library function.
type Function struct {
	Name        string      `toml:"name"`
	Category    string      `toml:"category"`
	Parameters  []Parameter `toml:"params"`
	Returns     string      `toml:"returns"`
	Description string      `toml:"description"`
	Examples    []string    `toml:"examples"`
}

// Signature renders the function as `Name(a: string, b?: number): string`.
func (f *Function) Signature() string {
	var b strings.Builder
	b.WriteString(f.Name)
	b.WriteByte('(')
	for i, p := range f.Parameters {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.Label())
	}
	b.WriteByte(')')
	if f.Returns != "" {
		b.WriteString(": ")
		b.WriteString(f.Returns)
	}
	return b.String()
}

// Label renders a parameter as it appears in a signature.
func (p Parameter) Label() string {
	label := p.Name
	if p.Optional {
		label += "?"
	}
	if len(p.Types) > 0 {
		label += ": " + strings.Join(p.Types, " | ")
	}
	return label
}

type catalogFile struct {
	Functions []Function `toml:"function"`
}

// Registry is an immutable, ordered set of functions with case-insensitive lookup.
type Registry struct {
	funcs []Function
	index map[string]int
}

// New builds a registry. Later duplicates (case-insensitively) replace earlier ones
// but keep the original position.
func New(funcs []Function) *Registry {
	r := &Registry{
		funcs: make([]Function, 0, len(funcs)),
		index: make(map[string]int, len(funcs)),
	}
	for _, fn := range funcs {
		r.add(fn)
	}
	return r
}

func (r *Registry) add(fn Function) {
	key := foldName(fn.Name)
	if key == "" {
		return
	}
	if idx, ok := r.index[key]; ok {
		r.funcs[idx] = fn
		return
	}
	r.index[key] = len(r.funcs)
	r.funcs = append(r.funcs, fn)
}

// Load parses a TOML catalog.
func Load(r io.Reader) (*Registry, error) {
	var cat catalogFile
	meta, err := toml.NewDecoder(r).Decode(&cat)
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown catalog key %q", undecoded[0].String())
	}
	for i, fn := range cat.Functions {
		if strings.TrimSpace(fn.Name) == "" {
			return nil, fmt.Errorf("function #%d: missing name", i+1)
		}
	}
	return New(cat.Functions), nil
}

// LoadFile parses a TOML catalog from disk.
func LoadFile(path string) (*Registry, error) {
	// #nosec G304 -- path comes from user configuration
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	reg, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return reg, nil
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the registry built from the embedded catalog.
func Default() *Registry {
	defaultOnce.Do(func() {
		reg, err := Load(strings.NewReader(embeddedCatalog))
		if err != nil {
			panic(fmt.Errorf("embedded stdlib catalog: %w", err))
		}
		defaultRegistry = reg
	})
	return defaultRegistry
}

// Merge returns a new registry with other's functions layered over r.
func (r *Registry) Merge(other *Registry) *Registry {
	if other == nil {
		return r
	}
	out := New(r.All())
	for _, fn := range other.funcs {
		out.add(fn)
	}
	return out
}

// Lookup finds a function by name, ignoring case.
func (r *Registry) Lookup(name string) (*Function, bool) {
	if r == nil {
		return nil, false
	}
	idx, ok := r.index[foldName(name)]
	if !ok {
		return nil, false
	}
	return &r.funcs[idx], true
}

// Has reports whether name is a library function, ignoring case.
func (r *Registry) Has(name string) bool {
	_, ok := r.Lookup(name)
	return ok
}

// Names returns function names in catalog order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	out := make([]string, len(r.funcs))
	for i := range r.funcs {
		out[i] = r.funcs[i].Name
	}
	return out
}

// All returns a copy of the descriptors in catalog order.
func (r *Registry) All() []Function {
	if r == nil {
		return nil
	}
	out := make([]Function, len(r.funcs))
	copy(out, r.funcs)
	return out
}

// Len returns the number of functions.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.funcs)
}

// cases.Caser is stateful, so a fresh one is built per call.
func foldName(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}
