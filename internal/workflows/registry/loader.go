package registry

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/peoplekit/peoplekit/internal/log"
	"github.com/peoplekit/peoplekit/internal/workflows/domain"
)

// LoadWithUserDefinitions builds a registry from the built-in rule table
// merged with user-defined workflow YAML files from fsys. A user definition
// with the same ID as a built-in replaces it entirely; new IDs are appended
// after the built-ins, so user workflows rank below built-ins on tie-break.
// The merged table goes through the same validation as the built-ins and any
// error is fatal to startup.
func LoadWithUserDefinitions(fsys fs.FS) (*Registry, error) {
	userDefs, err := loadDefinitionsFromFS(fsys)
	if err != nil {
		return nil, err
	}

	defs := builtinDefinitions()
	byID := make(map[domain.WorkflowID]int, len(defs))
	for i, def := range defs {
		byID[def.ID] = i
	}

	// general stays last; insert user definitions before it.
	general := defs[len(defs)-1]
	defs = defs[:len(defs)-1]

	for _, def := range userDefs {
		if idx, ok := byID[def.ID]; ok && !def.ID.IsGeneral() {
			log.Info(log.CatConfig, "User definition overrides built-in workflow", "workflow", def.ID)
			defs[idx] = def
			continue
		}
		if def.ID.IsGeneral() {
			return nil, fmt.Errorf("user rule table may not redefine the %q fallback", domain.WorkflowGeneral)
		}
		defs = append(defs, def)
	}
	defs = append(defs, general)

	return New(defs)
}

// loadDefinitionsFromFS reads every *.yaml/*.yml file in the root of fsys as
// one workflow definition. Files are read in lexical order so merge results
// are deterministic.
func loadDefinitionsFromFS(fsys fs.FS) ([]*domain.Definition, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("reading rule table directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(path.Ext(entry.Name()))
		if ext == ".yaml" || ext == ".yml" {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	var defs []*domain.Definition
	for _, name := range names {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		var def domain.Definition
		if err := yaml.Unmarshal(data, &def); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", name, err)
		}
		if def.ID == "" {
			return nil, fmt.Errorf("parsing %s: workflow id is required", name)
		}
		log.Debug(log.CatConfig, "Loaded user workflow definition", "file", name, "workflow", def.ID)
		defs = append(defs, &def)
	}
	return defs, nil
}
