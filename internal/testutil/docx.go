// Package testutil builds fixtures shared by tests across packages.
package testutil

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const contentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

const rels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

// Paragraph renders text as a single-run body paragraph.
func Paragraph(text string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(text))
	return `<w:p><w:r><w:t xml:space="preserve">` + b.String() + `</w:t></w:r></w:p>`
}

// DocxFromBody returns a .docx package whose body holds the given raw
// WordprocessingML.
func DocxFromBody(t testing.TB, body string) []byte {
	t.Helper()
	doc := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		body + `</w:body></w:document>`
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, part := range []struct{ name, data string }{
		{"[Content_Types].xml", contentTypes},
		{"_rels/.rels", rels},
		{"word/document.xml", doc},
	} {
		w, err := zw.Create(part.name)
		if err != nil {
			t.Fatalf("docx create %s: %v", part.name, err)
		}
		if _, err := w.Write([]byte(part.data)); err != nil {
			t.Fatalf("docx write %s: %v", part.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("docx close: %v", err)
	}
	return buf.Bytes()
}

// Docx returns a .docx package with one body paragraph per line.
func Docx(t testing.TB, paragraphs ...string) []byte {
	t.Helper()
	var body strings.Builder
	for _, p := range paragraphs {
		body.WriteString(Paragraph(p))
	}
	return DocxFromBody(t, body.String())
}

// WriteDocx writes a .docx with the given paragraphs into dir and returns its path.
func WriteDocx(t testing.TB, dir, name string, paragraphs ...string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, Docx(t, paragraphs...), 0o644); err != nil {
		t.Fatalf("write docx: %v", err)
	}
	return p
}
