// Package loader discovers model definitions from a directory of YAML
// files. It is the engine's model-discovery collaborator: it only parses
// files into raw definitions; structural validation belongs to the
// registry.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/datashelf/pkg/types"
)

// Load reads every *.yaml and *.yml file in dir (sorted by name, files
// starting with "_" skipped) and parses each into one model definition.
func Load(dir string) ([]types.Definition, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading models dir: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, "_") {
			continue
		}
		ext := filepath.Ext(name)
		if ext == ".yaml" || ext == ".yml" {
			files = append(files, name)
		}
	}
	sort.Strings(files)

	defs := make([]types.Definition, 0, len(files))
	for _, name := range files {
		def, err := loadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("model file %s: %w", name, err)
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// loadFile parses one YAML model definition.
func loadFile(path string) (types.Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Definition{}, err
	}
	var def types.Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return types.Definition{}, fmt.Errorf("parsing YAML: %w", err)
	}
	if def.Model == "" {
		return types.Definition{}, fmt.Errorf("missing model name: %w", types.ErrSchemaInvalid)
	}
	return def, nil
}
