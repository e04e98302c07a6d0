// Package model defines domain types used by the service.
package model

// Record represents the current state of a unit.
type Record struct {
	Contato  string   `json:"contato" yaml:"contato"`
	Valor    float64  `json:"valor" yaml:"valor"`
	Desconto float64  `json:"desconto" yaml:"desconto"`
	Links    []string `json:"links" yaml:"links"`
}

// Clone returns a copy of r that shares no memory with it.
func (r Record) Clone() Record {
	if r.Links != nil {
		r.Links = append([]string(nil), r.Links...)
	}
	return r
}

// Patch is a partial record extracted from a document. Nil fields were not found.
type Patch struct {
	Contato  *string  `json:"contato,omitempty"`
	Valor    *float64 `json:"valor,omitempty"`
	Desconto *float64 `json:"desconto,omitempty"`
	Links    []string `json:"links,omitempty"`
}

// Empty reports whether no field was extracted.
func (p Patch) Empty() bool {
	return p.Contato == nil && p.Valor == nil && p.Desconto == nil && p.Links == nil
}

// Fields lists the JSON names of the extracted fields.
func (p Patch) Fields() []string {
	var out []string
	if p.Contato != nil {
		out = append(out, "contato")
	}
	if p.Valor != nil {
		out = append(out, "valor")
	}
	if p.Desconto != nil {
		out = append(out, "desconto")
	}
	if p.Links != nil {
		out = append(out, "links")
	}
	return out
}

// ApplyTo merges the extracted fields into r and returns the result.
func (p Patch) ApplyTo(r Record) Record {
	if p.Contato != nil {
		r.Contato = *p.Contato
	}
	if p.Valor != nil {
		r.Valor = *p.Valor
	}
	if p.Desconto != nil {
		r.Desconto = *p.Desconto
	}
	if p.Links != nil {
		r.Links = append([]string(nil), p.Links...)
	}
	return r
}

// Unit pairs a unit name with its record.
type Unit struct {
	Name   string
	Record Record
}
