package formatter

import (
	"bytes"
	"fmt"

	"github.com/futig/remedy-companion/internal/entity"
)

const (
	markdownContentType   = "text/markdown; charset=utf-8"
	markdownFileExtension = ".md"
)

type MarkdownFormatter struct{}

func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

func (mf *MarkdownFormatter) Format(recipe *entity.Recipe) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", recipe.Title)
	if recipe.Tagline != "" {
		fmt.Fprintf(&buf, "_%s_\n\n", recipe.Tagline)
	}
	if meta := MetaLine(recipe); meta != "" {
		fmt.Fprintf(&buf, "%s\n\n", meta)
	}

	fmt.Fprintf(&buf, "## %s\n\n", headingIngredients)
	for _, ing := range recipe.IngredientsList {
		if ing.Amount == "" {
			fmt.Fprintf(&buf, "- **%s**\n", ing.Name)
			continue
		}
		fmt.Fprintf(&buf, "- **%s**: %s\n", ing.Name, ing.Amount)
	}
	buf.WriteString("\n")

	if len(recipe.ToolsList) > 0 {
		fmt.Fprintf(&buf, "## %s\n\n", headingTools)
		for _, tool := range recipe.ToolsList {
			fmt.Fprintf(&buf, "- %s\n", tool)
		}
		buf.WriteString("\n")
	}

	if recipe.Benefits != "" {
		fmt.Fprintf(&buf, "## %s\n\n%s\n\n", headingBenefits, recipe.Benefits)
	}

	fmt.Fprintf(&buf, "## %s\n\n", headingSteps)
	for i, step := range recipe.Steps {
		fmt.Fprintf(&buf, "%d. %s\n", i+1, step.Instruction)
		if step.Tip != "" {
			fmt.Fprintf(&buf, "   > %s%s\n", tipPrefix, step.Tip)
		}
	}

	return buf.Bytes(), nil
}

func (mf *MarkdownFormatter) ContentType() string {
	return markdownContentType
}

func (mf *MarkdownFormatter) FileExtension() string {
	return markdownFileExtension
}
