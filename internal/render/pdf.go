package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"pargen/internal/port"
)

// lineKind classifies one body line for rendering.
type lineKind int

const (
	lineBlank lineKind = iota
	lineHeading1
	lineHeading2
	lineParagraph
)

type pdfRenderer struct{}

// NewPDFRenderer creates a ReportRenderer that produces A4 documents with
// two heading levels. Any other markup in the input is written as literal
// text; nothing is escaped or stripped.
func NewPDFRenderer() port.ReportRenderer {
	return &pdfRenderer{}
}

func (r *pdfRenderer) Render(cover, toc, body string) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)

	// Cover and TOC each render as one block followed by a forced page break.
	pdf.AddPage()
	pdf.SetFont("Arial", "", 11)
	pdf.MultiCell(0, 6, cover, "", "L", false)

	pdf.AddPage()
	pdf.MultiCell(0, 6, toc, "", "L", false)

	pdf.AddPage()
	for _, line := range strings.Split(body, "\n") {
		switch kind, text := classifyLine(line); kind {
		case lineBlank:
			pdf.Ln(4)
		case lineHeading1:
			pdf.SetFont("Arial", "B", 14)
			pdf.MultiCell(0, 8, text, "", "L", false)
			pdf.SetFont("Arial", "", 11)
		case lineHeading2:
			pdf.SetFont("Arial", "B", 12)
			pdf.MultiCell(0, 7, text, "", "L", false)
			pdf.SetFont("Arial", "", 11)
		default:
			pdf.MultiCell(0, 6, text, "", "L", false)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// classifyLine maps one body line to its rendering rule. Only "# " and "## "
// prefixes are structural; every other non-blank line is a paragraph.
func classifyLine(line string) (lineKind, string) {
	switch {
	case strings.TrimSpace(line) == "":
		return lineBlank, ""
	case strings.HasPrefix(line, "## "):
		return lineHeading2, strings.TrimPrefix(line, "## ")
	case strings.HasPrefix(line, "# "):
		return lineHeading1, strings.TrimPrefix(line, "# ")
	default:
		return lineParagraph, line
	}
}
