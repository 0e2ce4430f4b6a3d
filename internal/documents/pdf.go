package documents

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

var pdfcpuInit sync.Once

// PDFExtractor validates PDFs with pdfcpu and reads page text with ledongthuc/pdf.
type PDFExtractor struct {
	conf *model.Configuration
}

// NewPDFExtractor creates a PDF extractor using relaxed validation.
func NewPDFExtractor() *PDFExtractor {
	pdfcpuInit.Do(api.DisableConfigDir)
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &PDFExtractor{conf: conf}
}

func (e *PDFExtractor) Name() string { return "pdf" }

func (e *PDFExtractor) Extensions() []string { return []string{".pdf"} }

// Validate checks the header, the end-of-file marker and the cross-reference
// structure.
func (e *PDFExtractor) Validate(data []byte) error {
	head := data
	if len(head) > 1024 {
		head = head[:1024]
	}
	if !bytes.Contains(head, []byte("%PDF-")) {
		return fmt.Errorf("missing %%PDF header")
	}
	tail := data
	if len(tail) > 1024 {
		tail = tail[len(tail)-1024:]
	}
	if !bytes.Contains(tail, []byte("%%EOF")) {
		return fmt.Errorf("missing %%%%EOF marker")
	}
	if err := api.Validate(bytes.NewReader(data), e.conf); err != nil {
		return fmt.Errorf("pdf validation: %w", err)
	}
	return nil
}

// ExtractText joins the text of every page with a newline. Pages that fail to
// decode are skipped.
func (e *PDFExtractor) ExtractText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	pages := 0
	func() {
		defer func() { _ = recover() }()
		pages = reader.NumPage()
	}()
	if pages <= 0 {
		return "", fmt.Errorf("pdf has no readable pages")
	}

	texts := make([]string, 0, pages)
	for i := 1; i <= pages; i++ {
		texts = append(texts, pageText(reader, i))
	}
	return strings.Join(texts, "\n"), nil
}

func pageText(reader *pdf.Reader, index int) (text string) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
		}
	}()

	page := reader.Page(index)
	if page.V.IsNull() {
		return ""
	}
	rows, err := page.GetTextByRow()
	if err != nil {
		return ""
	}

	var b strings.Builder
	for _, row := range rows {
		for _, word := range row.Content {
			b.WriteString(word.S)
		}
		b.WriteString("\n")
	}
	return b.String()
}
