package seed

import (
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/fairyhunter13/unit-update-service/internal/apperr"
	"github.com/fairyhunter13/unit-update-service/internal/model"
)

// hclFile is the top-level structure of an HCL units file:
//
//	unit "Ilhéus" {
//	  contato  = "contato@ilhéus.com"
//	  valor    = 1000
//	  desconto = 10
//	  links    = ["www.ilheus.com"]
//	}
type hclFile struct {
	Units []*hclUnit `hcl:"unit,block"`
}

type hclUnit struct {
	Name     string   `hcl:"name,label"`
	Contato  string   `hcl:"contato"`
	Valor    float64  `hcl:"valor"`
	Desconto float64  `hcl:"desconto"`
	Links    []string `hcl:"links,optional"`
}

func decodeHCL(src []byte, filename string) ([]model.Unit, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, apperr.E(apperr.KindParse, "seed.hcl", diags)
	}
	var f hclFile
	if diags := gohcl.DecodeBody(file.Body, nil, &f); diags.HasErrors() {
		return nil, apperr.E(apperr.KindParse, "seed.hcl", diags)
	}
	units := make([]model.Unit, 0, len(f.Units))
	for _, u := range f.Units {
		units = append(units, model.Unit{Name: u.Name, Record: model.Record{
			Contato:  u.Contato,
			Valor:    u.Valor,
			Desconto: u.Desconto,
			Links:    u.Links,
		}})
	}
	return units, nil
}
