package service

import (
	"fmt"

	"github.com/fairyhunter13/unit-update-service/internal/config"
	"github.com/fairyhunter13/unit-update-service/internal/model"
	"github.com/fairyhunter13/unit-update-service/internal/resolver"
	"github.com/fairyhunter13/unit-update-service/internal/seed"
	"github.com/fairyhunter13/unit-update-service/internal/snapshot"
	"github.com/fairyhunter13/unit-update-service/internal/store"
)

// FromConfig builds a Service from cfg. Seeds come from cfg.UnitsFile when set,
// otherwise the built-in units. The resolver checks cfg.KnownUnits when set,
// otherwise the seed names in order.
func FromConfig(cfg config.Config) (*Service, error) {
	units := seed.Default()
	if cfg.UnitsFile != "" {
		loaded, err := seed.Load(cfg.UnitsFile)
		if err != nil {
			return nil, fmt.Errorf("load units: %w", err)
		}
		units = loaded
	}
	known := cfg.KnownUnits
	if len(known) == 0 {
		known = unitNames(units)
	}
	st := store.New(units)
	return New(st, resolver.New(known...), snapshot.NewWriter(cfg.OutputDir), cfg.DocumentPath), nil
}

func unitNames(units []model.Unit) []string {
	names := make([]string, 0, len(units))
	for _, u := range units {
		names = append(names, u.Name)
	}
	return names
}
