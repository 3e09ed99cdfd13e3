package prompt

import (
	"testing"

	"github.com/futig/remedy-companion/internal/entity"
	"github.com/stretchr/testify/assert"
)

func TestBuildImagePromptContainer(t *testing.T) {
	tests := []struct {
		prepType entity.PrepType
		want     string
	}{
		{entity.PrepTypeSciroppo, "amber-colored syrup"},
		{entity.PrepTypeImpacco, "ceramic mortar"},
		{entity.PrepTypeDecotto, "rustic ceramic mug"},
		{entity.PrepTypeTisana, "double-walled glass cup"},
		{entity.PrepTypeAny, "steam rising"},
		{"", "steam rising"},
	}

	for _, tt := range tests {
		t.Run(string(tt.prepType), func(t *testing.T) {
			got := BuildImagePrompt(&entity.Recipe{PrepType: tt.prepType})
			assert.Contains(t, got, tt.want)
		})
	}
}

func TestBuildImagePromptIsVisualOnly(t *testing.T) {
	recipe := &entity.Recipe{
		Title:    "Elisir della Nonna",
		Tagline:  "Un abbraccio caldo",
		Benefits: "Calma la tosse",
		Steps:    []entity.RecipeStep{{Instruction: "Scalda 200 ml di acqua"}},
		IngredientsList: []entity.IngredientAmount{
			{Name: "Miele"},
			{Name: "Zenzero"},
		},
		PrepType: entity.PrepTypeSciroppo,
	}

	got := BuildImagePrompt(recipe)

	assert.Contains(t, got, "Miele, Zenzero")
	assert.Contains(t, got, "NO TEXT.")
	assert.NotContains(t, got, recipe.Title)
	assert.NotContains(t, got, recipe.Tagline)
	assert.NotContains(t, got, recipe.Benefits)
	assert.NotContains(t, got, recipe.Steps[0].Instruction)
}

func TestBuildImageRequest(t *testing.T) {
	req := BuildImageRequest(&entity.Recipe{})
	assert.Equal(t, "3:4", req.AspectRatio)
	assert.NotEmpty(t, req.Prompt)
}
