// Package seed provides the units the registry starts with, either built in
// or loaded from a YAML or HCL units file.
package seed

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fairyhunter13/unit-update-service/internal/apperr"
	"github.com/fairyhunter13/unit-update-service/internal/model"
)

// Default returns the built-in seed units.
func Default() []model.Unit {
	return []model.Unit{
		{Name: "Ilhéus", Record: model.Record{
			Contato:  "contato@ilhéus.com",
			Valor:    1000,
			Desconto: 10,
			Links:    []string{"www.ilheus.com"},
		}},
		{Name: "Pituba", Record: model.Record{
			Contato:  "contato@pituba.com",
			Valor:    1500,
			Desconto: 15,
			Links:    []string{"www.pituba.com"},
		}},
	}
}

// Load reads a units file. The format is chosen by extension: .yaml/.yml or .hcl.
func Load(path string) ([]model.Unit, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, apperr.E(apperr.KindIO, "seed.load", err)
	}
	var units []model.Unit
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		units, err = decodeYAML(src)
	case ".hcl":
		units, err = decodeHCL(src, path)
	default:
		return nil, apperr.Errorf(apperr.KindInvalidInput, "seed.load", "unsupported units file extension %q", ext)
	}
	if err != nil {
		return nil, err
	}
	if err := Validate(units); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return units, nil
}

// Validate checks that unit names are present, unique and usable inside a
// snapshot file name.
func Validate(units []model.Unit) error {
	if len(units) == 0 {
		return apperr.Errorf(apperr.KindInvalidInput, "seed.validate", "no units defined")
	}
	seen := make(map[string]struct{}, len(units))
	for i, u := range units {
		if strings.TrimSpace(u.Name) == "" {
			return apperr.Errorf(apperr.KindInvalidInput, "seed.validate", "unit #%d has an empty name", i+1)
		}
		if u.Name == "." || u.Name == ".." || strings.ContainsAny(u.Name, `/\`) {
			return apperr.Errorf(apperr.KindInvalidInput, "seed.validate", "unit name %q cannot be used in a file name", u.Name)
		}
		if _, dup := seen[u.Name]; dup {
			return apperr.Errorf(apperr.KindInvalidInput, "seed.validate", "duplicate unit %q", u.Name)
		}
		seen[u.Name] = struct{}{}
	}
	return nil
}
