package formatter

import (
	"bytes"
	"fmt"

	"github.com/futig/remedy-companion/internal/entity"
	"github.com/unidoc/unioffice/document"
)

const (
	docxContentType   = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	docxFileExtension = ".docx"
)

type DOCXFormatter struct{}

func NewDOCXFormatter() *DOCXFormatter {
	return &DOCXFormatter{}
}

func (df *DOCXFormatter) Format(recipe *entity.Recipe) ([]byte, error) {
	doc := document.New()
	defer doc.Close()

	styled := func(style, text string) {
		p := doc.AddParagraph()
		p.SetStyle(style)
		p.AddRun().AddText(text)
	}
	plain := func(text string) document.Run {
		run := doc.AddParagraph().AddRun()
		run.AddText(text)
		return run
	}

	styled("Title", recipe.Title)
	if recipe.Tagline != "" {
		plain(recipe.Tagline).Properties().SetItalic(true)
	}
	if meta := MetaLine(recipe); meta != "" {
		plain(meta)
	}

	styled("Heading1", headingIngredients)
	for _, ing := range recipe.IngredientsList {
		p := doc.AddParagraph()
		name := p.AddRun()
		name.Properties().SetBold(true)
		name.AddText("• " + ing.Name)
		if ing.Amount != "" {
			p.AddRun().AddText(": " + ing.Amount)
		}
	}

	if len(recipe.ToolsList) > 0 {
		styled("Heading1", headingTools)
		for _, tool := range recipe.ToolsList {
			plain("• " + tool)
		}
	}

	if recipe.Benefits != "" {
		styled("Heading1", headingBenefits)
		plain(recipe.Benefits)
	}

	styled("Heading1", headingSteps)
	for i, step := range recipe.Steps {
		plain(fmt.Sprintf("%d. %s", i+1, step.Instruction))
		if step.Tip != "" {
			plain(tipPrefix + step.Tip).Properties().SetItalic(true)
		}
	}

	var buf bytes.Buffer
	if err := doc.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (df *DOCXFormatter) ContentType() string {
	return docxContentType
}

func (df *DOCXFormatter) FileExtension() string {
	return docxFileExtension
}
