package validator

import (
	"testing"

	"github.com/futig/remedy-companion/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRecipe() *entity.Recipe {
	return &entity.Recipe{
		Title:           "Tisana",
		Tagline:         "Calda",
		TimeMinutes:     10,
		Difficulty:      entity.DifficultyEasy,
		Rating:          4.7,
		IngredientsList: []entity.IngredientAmount{{Name: "Miele", Amount: "1 cucchiaio"}},
		Benefits:        "Lenisce",
		Steps:           []entity.RecipeStep{{Instruction: "Scalda l'acqua"}},
	}
}

func TestRecipe(t *testing.T) {
	v := New()

	tests := []struct {
		name    string
		mutate  func(r *entity.Recipe)
		field   string
		wantErr error
	}{
		{"valid", func(*entity.Recipe) {}, "", nil},
		{"missing title", func(r *entity.Recipe) { r.Title = "" }, "title", entity.ErrMissingField},
		{"no steps", func(r *entity.Recipe) { r.Steps = nil }, "steps", entity.ErrMissingField},
		{"empty instruction", func(r *entity.Recipe) { r.Steps[0].Instruction = "" }, "steps[0].instruction", entity.ErrMissingField},
		{"bad difficulty", func(r *entity.Recipe) { r.Difficulty = "Estrema" }, "difficulty", entity.ErrInvalidParameter},
		{"zero time", func(r *entity.Recipe) { r.TimeMinutes = 0 }, "timeMinutes", entity.ErrInvalidParameter},
		{"no ingredients", func(r *entity.Recipe) { r.IngredientsList = []entity.IngredientAmount{} }, "ingredientsList", entity.ErrMissingField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validRecipe()
			tt.mutate(r)

			err := v.Recipe(r)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			var vErr *entity.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}

func TestRecipeNil(t *testing.T) {
	err := New().Recipe(nil)
	assert.ErrorIs(t, err, entity.ErrEmptyResponse)
}
