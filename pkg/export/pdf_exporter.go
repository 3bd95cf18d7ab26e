package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// Field is a labelled value printed above or below the table of a document.
type Field struct {
	Label string
	Value string
}

// Document is a single page made of header fields, a table and a summary block.
type Document struct {
	Title   string
	Fields  []Field
	Table   Dataset
	Summary []Field
	Note    string
}

// PDFExporter renders documents with the core PDF fonts.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render produces the PDF bytes of doc. Text is UTF-8 and is converted to the
// cp1252 encoding of the core fonts.
func (e *PDFExporter) Render(doc Document) ([]byte, error) {
	if len(doc.Table.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(15, 15, 15)
	pdf.SetTitle(doc.Title, true)
	pdf.AddPage()

	if doc.Title != "" {
		pdf.SetFont("Arial", "B", 15)
		pdf.CellFormat(0, 10, tr(doc.Title), "", 1, "C", false, 0, "")
		pdf.Ln(3)
	}

	writeFields(pdf, tr, doc.Fields)
	pdf.Ln(4)

	width := 180.0
	first := width * 0.4
	rest := width
	if len(doc.Table.Headers) > 1 {
		rest = (width - first) / float64(len(doc.Table.Headers)-1)
	} else {
		first = width
	}
	colWidth := func(i int) float64 {
		if i == 0 {
			return first
		}
		return rest
	}

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, header := range doc.Table.Headers {
		pdf.CellFormat(colWidth(i), 8, tr(header), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, row := range doc.Table.Rows {
		for i, header := range doc.Table.Headers {
			align := "C"
			if i == 0 {
				align = "L"
			}
			pdf.CellFormat(colWidth(i), 7, tr(row[header]), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	if len(doc.Summary) > 0 {
		pdf.Ln(5)
		writeFields(pdf, tr, doc.Summary)
	}
	if doc.Note != "" {
		pdf.Ln(4)
		pdf.SetFont("Arial", "I", 9)
		pdf.MultiCell(0, 5, tr(doc.Note), "", "L", false)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func writeFields(pdf *gofpdf.Fpdf, tr func(string) string, fields []Field) {
	for _, field := range fields {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(50, 6, tr(field.Label), "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 6, tr(field.Value), "", 1, "L", false, 0, "")
	}
}
