package graph

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/albertocavalcante/go-variants/variantset"
)

// graphFilePermissions is the file permission mode for written graph files.
const graphFilePermissions = 0o644

// Format is a graph file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from a file extension. Anything that is not
// .yaml or .yml is treated as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// File is the on-disk representation of a graph.
type File struct {
	Entries map[string]string `json:"entries" yaml:"entries"`
	Modules []ModuleSpec      `json:"modules" yaml:"modules"`
}

// ModuleSpec describes one module of a graph file.
type ModuleSpec struct {
	Path     string   `json:"path" yaml:"path"`
	Variant  string   `json:"variant,omitempty" yaml:"variant,omitempty"`
	Deps     []string `json:"deps,omitempty" yaml:"deps,omitempty"`
	Variants []string `json:"variants,omitempty" yaml:"variants,omitempty"`
}

// Load reads a graph file. The format is chosen from the file extension.
func Load(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read graph: %w", err)
	}
	return Parse(data, FormatFromPath(path))
}

// Parse decodes a graph file and builds the graph it describes.
func Parse(data []byte, format Format) (*Graph, error) {
	var f File
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("failed to parse graph YAML: %w", err)
		}
	case FormatJSON:
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("failed to parse graph JSON: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown graph format %q", format)
	}
	return FromFile(&f)
}

// FromFile builds a graph from its file representation. All dangling
// references are reported together.
func FromFile(f *File) (*Graph, error) {
	g := New()

	for i, spec := range f.Modules {
		if spec.Path == "" {
			return nil, fmt.Errorf("modules[%d]: path is required", i)
		}
		if _, dup := g.Modules[spec.Path]; dup {
			return nil, fmt.Errorf("modules[%d]: duplicate module %q", i, spec.Path)
		}
		g.Add(spec.Path, variantset.Parse(spec.Variant))
	}

	var errs []error
	for _, spec := range f.Modules {
		for _, dep := range spec.Deps {
			if err := g.Link(spec.Path, dep); err != nil {
				errs = append(errs, err)
			}
		}
		for _, v := range spec.Variants {
			if err := g.AttachVariant(spec.Path, v); err != nil {
				errs = append(errs, err)
			}
		}
	}

	for _, name := range sortedKeys(f.Entries) {
		if err := g.SetEntry(name, f.Entries[name]); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	g.Normalize()
	return g, nil
}

// File returns the file representation of the graph, modules sorted by path.
func (g *Graph) File() *File {
	f := &File{
		Entries: make(map[string]string, len(g.Entries)),
		Modules: make([]ModuleSpec, 0, len(g.Modules)),
	}
	for name, m := range g.Entries {
		if m != nil {
			f.Entries[name] = m.Path
		}
	}
	for _, path := range sortedKeys(g.Modules) {
		m := g.Modules[path]
		spec := ModuleSpec{Path: m.Path, Variant: m.VariantSet.String()}
		for _, c := range m.Children {
			spec.Deps = append(spec.Deps, c.Path)
		}
		for _, v := range m.Variants {
			spec.Variants = append(spec.Variants, v.Path)
		}
		f.Modules = append(f.Modules, spec)
	}
	return f
}

// Marshal encodes the graph in the given format. Output is deterministic.
func (g *Graph) Marshal(format Format) ([]byte, error) {
	f := g.File()
	switch format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(f); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatJSON:
		var buf bytes.Buffer
		encoder := json.NewEncoder(&buf)
		encoder.SetEscapeHTML(false)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(f); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unknown graph format %q", format)
	}
}

// WriteFile writes the graph to path, picking the format from the extension.
func (g *Graph) WriteFile(path string) error {
	data, err := g.Marshal(FormatFromPath(path))
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, graphFilePermissions)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
