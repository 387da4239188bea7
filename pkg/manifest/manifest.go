package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/opencontainers/go-digest"
	"gopkg.in/yaml.v3"
)

// Entry represents a generated file recorded in the manifest.
type Entry struct {
	Package string   `yaml:"package" json:"package"`
	File    string   `yaml:"file" json:"file"`
	Types   []string `yaml:"types" json:"types"`
	Digest  string   `yaml:"digest" json:"digest"`
}

// Manifest tracks the files written by generate runs.
type Manifest struct {
	CurrentVersion  string  `yaml:"current_version" json:"current_version"`
	PreviousVersion string  `yaml:"previous_version,omitempty" json:"previous_version,omitempty"`
	Files           []Entry `yaml:"files" json:"files"`

	dir string
}

// Digest returns the content digest recorded for generated source.
func Digest(src []byte) string {
	return digest.FromBytes(src).String()
}

// Load reads a manifest from the provided path. If the file does not exist,
// an empty manifest is returned.
func Load(path string) (*Manifest, error) {
	dir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("resolve manifest directory: %w", err)
	}
	m := &Manifest{dir: dir}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return m, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	if err := yaml.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("unmarshal manifest: %w", err)
	}

	return m, nil
}

// Save writes the manifest to the provided path, creating parent directories as needed.
func (m *Manifest) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create manifest directory: %w", err)
	}

	slices.SortFunc(m.Files, func(a, b Entry) int { return strings.Compare(a.File, b.File) })
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	return nil
}

// SetVersion records the version of the run, keeping the previous one.
func (m *Manifest) SetVersion(version string) {
	if version == "" || version == m.CurrentVersion {
		return
	}
	if m.CurrentVersion != "" {
		m.PreviousVersion = m.CurrentVersion
	}
	m.CurrentVersion = version
}

// Rel returns path relative to the manifest's directory, slash separated.
// Paths outside it are kept absolute.
func (m *Manifest) Rel(path string) string {
	if m.dir == "" || !filepath.IsAbs(path) {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(m.dir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// Abs resolves a recorded file against the manifest's directory.
func (m *Manifest) Abs(file string) string {
	p := filepath.FromSlash(file)
	if filepath.IsAbs(p) || m.dir == "" {
		return p
	}
	return filepath.Join(m.dir, p)
}

// Record adds or replaces the entry for e.File.
func (m *Manifest) Record(e Entry) {
	e.File = m.Rel(e.File)
	for i := range m.Files {
		if m.Files[i].File == e.File {
			m.Files[i] = e
			return
		}
	}

	m.Files = append(m.Files, e)
}

// Remove drops the entry for file, reporting whether one existed.
func (m *Manifest) Remove(file string) bool {
	file = m.Rel(file)
	n := len(m.Files)
	m.Files = slices.DeleteFunc(m.Files, func(e Entry) bool { return e.File == file })
	return len(m.Files) != n
}

// Lookup returns the entry recorded for file, if present.
func (m *Manifest) Lookup(file string) (Entry, bool) {
	file = m.Rel(file)
	for _, e := range m.Files {
		if e.File == file {
			return e, true
		}
	}
	return Entry{}, false
}

// Stale returns the recorded entries whose files are not in keep, which holds
// paths as passed to Record.
func (m *Manifest) Stale(keep []string) []Entry {
	kept := make(map[string]bool, len(keep))
	for _, k := range keep {
		kept[m.Rel(k)] = true
	}
	var out []Entry
	for _, e := range m.Files {
		if !kept[e.File] {
			out = append(out, e)
		}
	}
	return out
}
