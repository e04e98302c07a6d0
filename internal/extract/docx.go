package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"io/fs"
	"strings"

	"github.com/fairyhunter13/unit-update-service/internal/apperr"
)

// documentPart is the main body part of a WordprocessingML package.
const documentPart = "word/document.xml"

// ParagraphsFile returns the body paragraphs of the .docx at path.
func ParagraphsFile(path string) ([]string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		var pe *fs.PathError
		if errors.As(err, &pe) {
			return nil, apperr.E(apperr.KindIO, "extract.open", err)
		}
		return nil, apperr.E(apperr.KindParse, "extract.open", err)
	}
	defer zr.Close()
	return paragraphs(&zr.Reader)
}

// ParagraphsBytes returns the body paragraphs of a .docx held in memory.
func ParagraphsBytes(data []byte) ([]string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, apperr.E(apperr.KindParse, "extract.open", err)
	}
	return paragraphs(zr)
}

func paragraphs(zr *zip.Reader) ([]string, error) {
	var part *zip.File
	for _, f := range zr.File {
		if f.Name == documentPart {
			part = f
			break
		}
	}
	if part == nil {
		return nil, apperr.Errorf(apperr.KindParse, "extract.open", "%s not found in document", documentPart)
	}
	rc, err := part.Open()
	if err != nil {
		return nil, apperr.E(apperr.KindParse, "extract.open", err)
	}
	defer rc.Close()
	paras, err := readParagraphs(rc)
	if err != nil {
		return nil, apperr.E(apperr.KindParse, "extract.read", err)
	}
	return paras, nil
}

// embedded lists elements whose content is not part of the enclosing
// paragraph's text: drawings, VML pictures and text boxes.
var embedded = map[string]bool{
	"p":                true,
	"drawing":          true,
	"pict":             true,
	"AlternateContent": true,
	"txbxContent":      true,
}

// readParagraphs walks document.xml and collects the text of every paragraph
// that is a direct child of the body. Run text, tabs and breaks are kept.
// Paragraphs inside tables or text boxes are not body paragraphs, and text
// box content does not leak into the paragraph that anchors it.
func readParagraphs(r io.Reader) ([]string, error) {
	dec := xml.NewDecoder(r)
	var (
		stack     []string
		paras     []string
		cur       strings.Builder
		inPara    bool
		paraDepth int
		inText    bool
		skipping  bool
		skipDepth int
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			name := t.Name.Local
			parent := ""
			if len(stack) > 0 {
				parent = stack[len(stack)-1]
			}
			switch {
			case !inPara && name == "p" && parent == "body":
				inPara = true
				paraDepth = len(stack)
				cur.Reset()
			case inPara && !skipping && embedded[name]:
				skipping = true
				skipDepth = len(stack)
			case inPara && !skipping && parent == "r":
				switch name {
				case "t":
					inText = true
				case "tab":
					cur.WriteByte('\t')
				case "br", "cr":
					cur.WriteByte('\n')
				}
			}
			stack = append(stack, name)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
			if !inPara {
				continue
			}
			if skipping {
				if len(stack) == skipDepth {
					skipping = false
				}
				continue
			}
			if t.Name.Local == "t" {
				inText = false
			}
			if len(stack) == paraDepth {
				paras = append(paras, cur.String())
				inPara = false
			}
		case xml.CharData:
			if inText {
				cur.Write(t)
			}
		}
	}
	return paras, nil
}
