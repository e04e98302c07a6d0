// Package extract derives a partial unit record from a .docx document by
// scanning its paragraphs for keyword-tagged lines such as "Valor: 2000".
package extract

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/fairyhunter13/unit-update-service/internal/apperr"
	"github.com/fairyhunter13/unit-update-service/internal/model"
)

// File extracts a patch from the .docx at path.
func File(path string) (model.Patch, error) {
	paras, err := ParagraphsFile(path)
	if err != nil {
		return model.Patch{}, err
	}
	return FromParagraphs(paras)
}

// Bytes extracts a patch from a .docx held in memory.
func Bytes(data []byte) (model.Patch, error) {
	paras, err := ParagraphsBytes(data)
	if err != nil {
		return model.Patch{}, err
	}
	return FromParagraphs(paras)
}

// FromParagraphs scans paragraphs in order. Each paragraph is classified by the
// first of contato, valor, desconto, links its lowercased text contains; a
// later paragraph with the same keyword overwrites an earlier one.
func FromParagraphs(paras []string) (model.Patch, error) {
	var p model.Patch
	for i, text := range paras {
		lower := strings.ToLower(text)
		value := trailingValue(text)
		switch {
		case strings.Contains(lower, "contato"):
			v := value
			p.Contato = &v
		case strings.Contains(lower, "valor"):
			f, err := parseNumber("valor", value, i)
			if err != nil {
				return model.Patch{}, err
			}
			p.Valor = &f
		case strings.Contains(lower, "desconto"):
			f, err := parseNumber("desconto", value, i)
			if err != nil {
				return model.Patch{}, err
			}
			p.Desconto = &f
		case strings.Contains(lower, "links"):
			p.Links = strings.Split(value, ",")
		}
	}
	return p, nil
}

// trailingValue returns the text after the last colon, trimmed.
func trailingValue(text string) string {
	if i := strings.LastIndex(text, ":"); i >= 0 {
		text = text[i+1:]
	}
	return strings.TrimSpace(text)
}

func parseNumber(field, s string, para int) (float64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, apperr.E(apperr.KindParse, "extract."+field,
			fmt.Errorf("paragraph %d: %q is not a number", para+1, s))
	}
	return d.InexactFloat64(), nil
}
