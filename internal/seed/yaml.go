package seed

import (
	"gopkg.in/yaml.v3"

	"github.com/fairyhunter13/unit-update-service/internal/apperr"
	"github.com/fairyhunter13/unit-update-service/internal/model"
)

type yamlFile struct {
	Units []yamlUnit `yaml:"units"`
}

type yamlUnit struct {
	Name         string `yaml:"name"`
	model.Record `yaml:",inline"`
}

func decodeYAML(src []byte) ([]model.Unit, error) {
	var f yamlFile
	if err := yaml.Unmarshal(src, &f); err != nil {
		return nil, apperr.E(apperr.KindParse, "seed.yaml", err)
	}
	units := make([]model.Unit, 0, len(f.Units))
	for _, u := range f.Units {
		units = append(units, model.Unit{Name: u.Name, Record: u.Record})
	}
	return units, nil
}
