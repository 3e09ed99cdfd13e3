package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/futig/remedy-companion/internal/entity"
)

const (
	headingIngredients = "Ingredienti"
	headingTools       = "Strumenti"
	headingBenefits    = "Benefici"
	headingSteps       = "Preparazione"
	tipPrefix          = "Consiglio: "
)

type Formatter interface {
	Format(recipe *entity.Recipe) ([]byte, error)
	ContentType() string
	FileExtension() string
}

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Create(format entity.ExportFormat) (Formatter, error) {
	switch format {
	case entity.FormatMarkdown:
		return NewMarkdownFormatter(), nil
	case entity.FormatDOCX:
		return NewDOCXFormatter(), nil
	case entity.FormatPDF:
		return NewPDFFormatter(), nil
	default:
		return nil, fmt.Errorf("%w: %s", entity.ErrUnsupportedFile, format)
	}
}

// FileName builds a download name from the recipe title
func FileName(recipe *entity.Recipe, f Formatter) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(recipe.Title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
	}

	name := strings.Trim(b.String(), "-")
	if name == "" {
		name = "rimedio"
	}
	return name + f.FileExtension()
}

// MetaLine is the one-line summary shared by all formats and the bot card
func MetaLine(recipe *entity.Recipe) string {
	parts := make([]string, 0, 4)
	if recipe.TimeMinutes > 0 {
		parts = append(parts, fmt.Sprintf("%d min", recipe.TimeMinutes))
	}
	if recipe.Difficulty != "" {
		parts = append(parts, string(recipe.Difficulty))
	}
	if recipe.Rating > 0 {
		parts = append(parts, "voto "+strconv.FormatFloat(recipe.Rating, 'f', 1, 64))
	}
	if recipe.PrepType != "" && recipe.PrepType != entity.PrepTypeAny {
		parts = append(parts, recipe.PrepType.Label())
	}
	return strings.Join(parts, " · ")
}

func IngredientLine(ing entity.IngredientAmount) string {
	if ing.Amount == "" {
		return ing.Name
	}
	return ing.Name + ": " + ing.Amount
}
