package documents

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const docxBodyPart = "word/document.xml"

// DOCXExtractor reads Office Open XML word-processing documents.
// Body paragraphs come first, followed by table rows with cells joined by " | ".
type DOCXExtractor struct{}

func NewDOCXExtractor() *DOCXExtractor { return &DOCXExtractor{} }

func (e *DOCXExtractor) Name() string { return "docx" }

func (e *DOCXExtractor) Extensions() []string { return []string{".docx"} }

// Validate checks that data is a zip archive holding a main document part.
func (e *DOCXExtractor) Validate(data []byte) error {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("open docx archive: %w", err)
	}
	if findZipFile(zr, docxBodyPart) == nil {
		return fmt.Errorf("docx archive has no %s", docxBodyPart)
	}
	return nil
}

func (e *DOCXExtractor) ExtractText(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open docx archive: %w", err)
	}
	f := findZipFile(zr, docxBodyPart)
	if f == nil {
		return "", fmt.Errorf("docx archive has no %s", docxBodyPart)
	}
	rc, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("open %s: %w", docxBodyPart, err)
	}
	defer func() { _ = rc.Close() }()

	paragraphs, rows, err := parseDocumentXML(rc)
	if err != nil {
		return "", err
	}
	return strings.Join(append(paragraphs, rows...), "\n"), nil
}

func findZipFile(zr *zip.Reader, name string) *zip.File {
	for _, f := range zr.File {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// parseDocumentXML walks WordprocessingML and separates top-level paragraphs
// from table rows. Nested tables contribute to their enclosing cell.
func parseDocumentXML(r io.Reader) (paragraphs, rows []string, err error) {
	dec := xml.NewDecoder(r)

	var (
		tableDepth int
		para       strings.Builder
		cell       strings.Builder
		cells      []string
		inText     bool
	)

	for {
		tok, terr := dec.Token()
		if errors.Is(terr, io.EOF) {
			break
		}
		if terr != nil {
			return nil, nil, fmt.Errorf("parse %s: %w", docxBodyPart, terr)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tbl":
				tableDepth++
			case "tr":
				if tableDepth == 1 {
					cells = cells[:0]
				}
			case "tc":
				if tableDepth == 1 {
					cell.Reset()
				}
			case "p":
				para.Reset()
			case "t":
				inText = true
			case "tab":
				para.WriteString("\t")
			case "br", "cr":
				para.WriteString("\n")
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				text := strings.TrimSpace(para.String())
				if tableDepth == 0 {
					if text != "" {
						paragraphs = append(paragraphs, text)
					}
				} else if text != "" {
					if cell.Len() > 0 {
						cell.WriteString(" ")
					}
					cell.WriteString(text)
				}
				para.Reset()
			case "tc":
				if tableDepth == 1 {
					cells = append(cells, strings.TrimSpace(cell.String()))
				}
			case "tr":
				if tableDepth == 1 && hasContent(cells) {
					rows = append(rows, strings.Join(cells, " | "))
				}
			case "tbl":
				if tableDepth > 0 {
					tableDepth--
				}
			}
		case xml.CharData:
			if inText {
				para.Write(t)
			}
		}
	}
	return paragraphs, rows, nil
}

func hasContent(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return true
		}
	}
	return false
}
