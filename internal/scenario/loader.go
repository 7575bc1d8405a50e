package scenario

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// Loader handles loading scenarios from a directory.
type Loader struct {
	Root string
}

// NewLoader creates a new scenario loader.
func NewLoader(root string) *Loader {
	return &Loader{Root: root}
}

// LoadAll recursively scans and loads all scenario files.
// Invalid files are skipped. Returns scenarios sorted by ID.
func (l *Loader) LoadAll() ([]*Scenario, error) {
	var scenarios []*Scenario

	err := filepath.WalkDir(l.Root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isSupportedExtension(filepath.Ext(path)) {
			return nil
		}

		sc, err := LoadFile(path)
		if err != nil {
			// Skip invalid files
			return nil
		}

		scenarios = append(scenarios, sc)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scenario: walking directory %s: %w", l.Root, err)
	}

	sortByID(scenarios)
	return scenarios, nil
}

// LoadFile loads a single scenario file.
func LoadFile(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scenario: reading file %s: %w", path, err)
	}

	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("scenario: parsing file %s: %w", path, err)
	}
	sc.FilePath = path
	return sc, nil
}

var loadBuiltin = sync.OnceValues(func() ([]*Scenario, error) {
	entries, err := fs.ReadDir(builtinFS, "builtin")
	if err != nil {
		return nil, err
	}

	var scenarios []*Scenario
	for _, e := range entries {
		name := path.Join("builtin", e.Name())
		data, err := builtinFS.ReadFile(name)
		if err != nil {
			return nil, err
		}
		sc, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("scenario: parsing %s: %w", name, err)
		}
		scenarios = append(scenarios, sc)
	}

	sortByID(scenarios)
	return scenarios, nil
})

// Builtin returns the scenarios shipped with the binary, sorted by ID.
// Panics if an embedded file is invalid.
func Builtin() []*Scenario {
	scenarios, err := loadBuiltin()
	if err != nil {
		panic(err)
	}
	return scenarios
}

// BuiltinByID returns the built-in scenario with the given ID.
func BuiltinByID(id string) (*Scenario, bool) {
	for _, sc := range Builtin() {
		if sc.ID == id {
			return sc, true
		}
	}
	return nil, false
}

// Resolve interprets arg as a scenario file path if such a file exists, and
// as a built-in scenario ID otherwise.
func Resolve(arg string) (*Scenario, error) {
	if info, err := os.Stat(arg); err == nil && !info.IsDir() {
		return LoadFile(arg)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("scenario: %w", err)
	}

	if sc, ok := BuiltinByID(arg); ok {
		return sc, nil
	}
	return nil, fmt.Errorf("scenario: unknown scenario %q", arg)
}

// IDs returns the IDs of the given scenarios.
func IDs(scenarios []*Scenario) []string {
	ids := make([]string, len(scenarios))
	for i, sc := range scenarios {
		ids[i] = sc.ID
	}
	return ids
}

func sortByID(scenarios []*Scenario) {
	sort.Slice(scenarios, func(i, j int) bool {
		return scenarios[i].ID < scenarios[j].ID
	})
}

// isSupportedExtension checks if extension is supported.
func isSupportedExtension(ext string) bool {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
