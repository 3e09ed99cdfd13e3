package prompt

import (
	"testing"

	"github.com/futig/remedy-companion/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func submittable(band entity.TimeBand) entity.Preferences {
	return entity.Preferences{
		Symptoms:    []string{"Tosse"},
		PrepType:    entity.PrepTypeAny,
		Ingredients: []string{"Miele", "Limone"},
		Time:        band,
	}
}

func TestBuildRequestRejectsIncompletePreferences(t *testing.T) {
	prefs := entity.DefaultPreferences()
	prefs.Ingredients = []string{"Miele"}
	prefs.Symptoms = []string{"Tosse"}

	req, err := BuildRequest(prefs, nil)
	require.Error(t, err)
	assert.Nil(t, req)
	assert.ErrorIs(t, err, entity.ErrPreferencesNotSubmittable)

	var vErr *entity.ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestBuildRequestComplexity(t *testing.T) {
	tests := []struct {
		band       entity.TimeBand
		difficulty entity.Difficulty
		rng        string
	}{
		{entity.TimeQuick, entity.DifficultyEasy, "2-3"},
		{entity.TimeNormal, entity.DifficultyMedium, "3-4"},
		{entity.TimeLong, entity.DifficultyHard, "4+"},
	}

	for _, tt := range tests {
		t.Run(string(tt.band), func(t *testing.T) {
			req, err := BuildRequest(submittable(tt.band), nil)
			require.NoError(t, err)

			assert.Equal(t, tt.difficulty, req.Complexity.Difficulty)
			assert.Equal(t, tt.rng, req.Complexity.IngredientRange)
			assert.Contains(t, req.Prompt, string(tt.difficulty))
			assert.Contains(t, req.Prompt, tt.band.Label())
		})
	}

	quick, _ := BuildRequest(submittable(entity.TimeQuick), nil)
	assert.Contains(t, quick.Prompt, "One-pot")
}

func TestBuildRequestIsDeterministic(t *testing.T) {
	prefs := submittable(entity.TimeNormal)

	a, err := BuildRequest(prefs, nil)
	require.NoError(t, err)
	b, err := BuildRequest(prefs, nil)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestBuildRequestContent(t *testing.T) {
	req, err := BuildRequest(submittable(entity.TimeNormal), nil)
	require.NoError(t, err)

	assert.Nil(t, req.Variation)
	assert.NotContains(t, req.Prompt, "CONTESTO VARIAZIONE")
	assert.Contains(t, req.Prompt, "Tosse")
	assert.Contains(t, req.Prompt, "Miele, Limone")
	assert.Contains(t, req.Prompt, "Qualsiasi")
	assert.Contains(t, req.Prompt, "3-4 MACRO-PASSAGGI")
	assert.Contains(t, req.Prompt, "toolsList")
	assert.Equal(t, SystemInstruction, req.SystemInstruction)
}

func TestBuildRequestWithPreviousRecipe(t *testing.T) {
	previous := &entity.Recipe{
		Title: "Tisana al miele",
		IngredientsList: []entity.IngredientAmount{
			{Name: "Miele", Amount: "1 cucchiaio"},
			{Name: "Limone", Amount: "mezzo"},
		},
	}

	req, err := BuildRequest(submittable(entity.TimeNormal), previous)
	require.NoError(t, err)

	require.NotNil(t, req.Variation)
	assert.Equal(t, "Tisana al miele", req.Variation.PreviousTitle)
	assert.Equal(t, []string{"Miele", "Limone"}, req.Variation.PreviousIngredients)
	assert.Contains(t, req.Prompt, "CONTESTO VARIAZIONE")
	assert.Contains(t, req.Prompt, "Tisana al miele")
	assert.Contains(t, req.Prompt, "CAMBIA LA TECNICA")
}

func TestBuildRequestDoesNotAliasPreferences(t *testing.T) {
	prefs := submittable(entity.TimeNormal)
	req, err := BuildRequest(prefs, nil)
	require.NoError(t, err)

	prefs.Ingredients[0] = "Aglio"
	assert.Equal(t, "Miele", req.Pantry[0])
}
