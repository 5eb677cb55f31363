// Package carddb loads card definitions from YAML files and from Postgres.
package carddb

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/magefree/mage-rules-go/internal/game/card"
)

// ErrDuplicate is returned when two definitions share a name.
var ErrDuplicate = errors.New("duplicate card definition")

// Library is a set of validated definitions keyed by card name.
type Library struct {
	defs map[string]*card.Definition
}

// NewLibrary returns an empty library.
func NewLibrary() *Library {
	return &Library{defs: make(map[string]*card.Definition)}
}

// Add validates def and adds it.
func (l *Library) Add(def *card.Definition) error {
	if err := def.Validate(); err != nil {
		return err
	}
	if _, ok := l.defs[def.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicate, def.Name)
	}
	l.defs[def.Name] = def
	return nil
}

// Get looks a definition up by name.
func (l *Library) Get(name string) (*card.Definition, bool) {
	def, ok := l.defs[name]
	return def, ok
}

// Len returns the number of definitions.
func (l *Library) Len() int {
	return len(l.defs)
}

// Names returns every card name, sorted.
func (l *Library) Names() []string {
	names := make([]string, 0, len(l.defs))
	for name := range l.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Definitions returns every definition sorted by name.
func (l *Library) Definitions() []*card.Definition {
	names := l.Names()
	out := make([]*card.Definition, len(names))
	for i, name := range names {
		out[i] = l.defs[name]
	}
	return out
}

// Merge adds every definition of other. Names already present are
// an error.
func (l *Library) Merge(other *Library) error {
	for _, def := range other.Definitions() {
		if err := l.Add(def); err != nil {
			return err
		}
	}
	return nil
}

// Parse decodes a YAML stream of one or more definitions separated by
// "---". Unknown fields are rejected. source names the stream in errors.
func Parse(r io.Reader, source string) ([]*card.Definition, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var out []*card.Definition
	for i := 0; ; i++ {
		var def card.Definition
		err := dec.Decode(&def)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%s: document %d: %w", source, i, err)
		}
		if def.Name == "" && len(def.Types) == 0 {
			// empty document, e.g. a trailing "---"
			continue
		}
		if err := def.Validate(); err != nil {
			return nil, fmt.Errorf("%s: document %d: %w", source, i, err)
		}
		out = append(out, &def)
	}
}

// LoadDir reads every .yaml and .yml file under the given directories.
func LoadDir(dirs []string, logger *zap.Logger) (*Library, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	lib := NewLibrary()
	for _, dir := range dirs {
		files := 0
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !isYAML(path) {
				return nil
			}
			defs, err := parseFile(path)
			if err != nil {
				return err
			}
			for _, def := range defs {
				if err := lib.Add(def); err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
			}
			files++
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("load card definitions from %s: %w", dir, err)
		}
		logger.Info("card definitions loaded",
			zap.String("dir", dir),
			zap.Int("files", files),
			zap.Int("total", lib.Len()))
	}
	return lib, nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func parseFile(path string) ([]*card.Definition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f, path)
}
