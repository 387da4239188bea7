package parser

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"
	"golang.org/x/mod/semver"
)

// IsolationMinVersion is the first go directive whose toolchain accepts
// main-context isolation.
const IsolationMinVersion = "v1.24"

var ErrNoGoMod = errors.New("no go.mod found")

// SupportsIsolation reports whether a module declaring goVersion ("1.24.5",
// "go1.24") can express main-context isolation.
func SupportsIsolation(goVersion string) bool {
	v := strings.TrimPrefix(strings.TrimSpace(goVersion), "go")
	if v == "" {
		return false
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return false
	}
	return semver.Compare(v, IsolationMinVersion) >= 0
}

// FindGoMod walks up from dir until it finds go.mod and returns its path.
func FindGoMod(dir string) (string, error) {
	from, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		candidate := filepath.Join(from, "go.mod")
		if _, err = os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(from)
		if parent == from {
			return "", fmt.Errorf("%w above %s", ErrNoGoMod, dir)
		}
		from = parent
	}
}

// ModuleGoVersion returns the go directive of the go.mod at path, or "" when
// it has none.
func ModuleGoVersion(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	mf, err := modfile.ParseLax(path, data, nil)
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", path, err)
	}
	if mf.Go == nil {
		return "", nil
	}
	return mf.Go.Version, nil
}

// isolationGate caches SupportsIsolation per go.mod.
type isolationGate struct {
	byGoMod map[string]bool
}

func newIsolationGate() *isolationGate {
	return &isolationGate{byGoMod: make(map[string]bool)}
}

// supported answers for the module whose go.mod is at gomod, falling back to
// the nearest go.mod above dir when gomod is empty.
func (g *isolationGate) supported(gomod, goVersion, dir string) bool {
	if goVersion != "" {
		return SupportsIsolation(goVersion)
	}
	if gomod == "" {
		found, err := FindGoMod(dir)
		if err != nil {
			return false
		}
		gomod = found
	}
	if ok, cached := g.byGoMod[gomod]; cached {
		return ok
	}
	v, err := ModuleGoVersion(gomod)
	ok := err == nil && SupportsIsolation(v)
	g.byGoMod[gomod] = ok
	return ok
}
