package formatter

import (
	"bytes"
	"fmt"
	"os"

	"github.com/futig/remedy-companion/internal/entity"
	"github.com/jung-kurt/gofpdf"
)

const (
	pdfContentType   = "application/pdf"
	pdfFileExtension = ".pdf"

	// pdfFontName is the internal name used by gofpdf
	// for the UTF-8 capable font.
	pdfFontName = "DejaVuSans"

	// Runtime layout copies fonts next to the binary
	pdfFontRuntimePath = "ttf/DejaVuSans.ttf"
	pdfFontSourcePath  = "internal/pkg/formatter/ttf/DejaVuSans.ttf"
)

type PDFFormatter struct {
	fontPath string
}

func NewPDFFormatter() *PDFFormatter {
	return &PDFFormatter{fontPath: resolveFontPath()}
}

func resolveFontPath() string {
	for _, p := range []string{pdfFontRuntimePath, pdfFontSourcePath} {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func (pf *PDFFormatter) Format(recipe *entity.Recipe) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(18, 18, 18)
	pdf.AddPage()

	fontName := "Helvetica"
	// core fonts are cp1252, accented Italian text needs translating
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	if pf.fontPath != "" {
		pdf.AddUTF8Font(pdfFontName, "", pf.fontPath)
		pdf.AddUTF8Font(pdfFontName, "B", pf.fontPath)
		pdf.AddUTF8Font(pdfFontName, "I", pf.fontPath)
		fontName = pdfFontName
		tr = func(s string) string { return s }
	}

	heading := func(text string) {
		pdf.Ln(4)
		pdf.SetFont(fontName, "B", 14)
		pdf.CellFormat(0, 8, tr(text), "", 1, "", false, 0, "")
		pdf.SetFont(fontName, "", 11)
	}
	body := func(text string) {
		pdf.MultiCell(0, 6, tr(text), "", "", false)
	}

	pdf.SetFont(fontName, "B", 20)
	pdf.MultiCell(0, 10, tr(recipe.Title), "", "", false)

	if recipe.Tagline != "" {
		pdf.SetFont(fontName, "I", 12)
		body(recipe.Tagline)
	}
	pdf.SetFont(fontName, "", 11)
	if meta := MetaLine(recipe); meta != "" {
		body(meta)
	}

	heading(headingIngredients)
	for _, ing := range recipe.IngredientsList {
		body("- " + IngredientLine(ing))
	}

	if len(recipe.ToolsList) > 0 {
		heading(headingTools)
		for _, tool := range recipe.ToolsList {
			body("- " + tool)
		}
	}

	if recipe.Benefits != "" {
		heading(headingBenefits)
		body(recipe.Benefits)
	}

	heading(headingSteps)
	for i, step := range recipe.Steps {
		body(fmt.Sprintf("%d. %s", i+1, step.Instruction))
		if step.Tip != "" {
			pdf.SetFont(fontName, "I", 10)
			body("    " + tipPrefix + step.Tip)
			pdf.SetFont(fontName, "", 11)
		}
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (pf *PDFFormatter) ContentType() string {
	return pdfContentType
}

func (pf *PDFFormatter) FileExtension() string {
	return pdfFileExtension
}
