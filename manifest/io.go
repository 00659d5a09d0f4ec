package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// manifestPermissions is the file permission mode for manifests.
const manifestPermissions = 0o644

// indent is the indentation of manifest output.
const indent = "    "

// ReadFile reads and parses a manifest from the given path.
func ReadFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	return Parse(data)
}

// Parse parses manifest JSON data.
func Parse(data []byte) (*Manifest, error) {
	entries := make(map[string][]Combination)
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse manifest JSON: %w", err)
	}
	for name, combos := range entries {
		for i, c := range combos {
			if c == nil {
				combos[i] = Combination{}
			}
		}
		entries[name] = combos
	}
	return &Manifest{Entries: entries}, nil
}

// WriteFile writes the manifest to the given path, creating parent
// directories as needed.
func (m *Manifest) WriteFile(path string) error {
	data, err := m.Marshal()
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create manifest directory: %w", err)
		}
	}
	return os.WriteFile(path, data, manifestPermissions)
}

// WriteTo writes the manifest to the given writer.
func (m *Manifest) WriteTo(w io.Writer) (int64, error) {
	data, err := m.Marshal()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	return int64(n), err
}

// Marshal serializes the manifest to JSON with entries in sorted order.
func (m *Manifest) Marshal() ([]byte, error) {
	ordered := orderedEntries{keys: m.Names(), values: m.Entries}

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", indent)
	if err := encoder.Encode(ordered); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// orderedEntries writes entries in key order and empty combinations as [].
type orderedEntries struct {
	keys   []string
	values map[string][]Combination
}

func (o orderedEntries) MarshalJSON() ([]byte, error) {
	if len(o.keys) == 0 {
		return []byte("{}"), nil
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyJSON, err := encode(k)
		if err != nil {
			return nil, err
		}
		buf.Write(keyJSON)
		buf.WriteByte(':')

		combos := o.values[k]
		buf.WriteByte('[')
		for j, c := range combos {
			if j > 0 {
				buf.WriteByte(',')
			}
			if c == nil {
				c = Combination{}
			}
			valJSON, err := encode([]string(c))
			if err != nil {
				return nil, err
			}
			buf.Write(valJSON)
		}
		buf.WriteByte(']')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// encode is json.Marshal without HTML escaping.
func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Exists returns true if a manifest exists at the given path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// DefaultPath returns the default manifest path inside an output directory.
func DefaultPath(outputDir string) string {
	if outputDir == "" {
		return DefaultFileName
	}
	return filepath.Join(outputDir, DefaultFileName)
}
