package render

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/futig/remedy-companion/internal/entity"
	"github.com/stretchr/testify/assert"
)

func TestRenderMenu(t *testing.T) {
	prefs := entity.DefaultPreferences()
	text := RenderMenu(prefs, "")

	assert.Contains(t, text, "🩺 Sintomi: -")
	assert.Contains(t, text, "🍵 Preparazione: Qualsiasi")
	assert.Contains(t, text, "⏱️ Tempo: Normale (10-20 min)")
	assert.Contains(t, text, MsgNotSubmittable)

	prefs.Symptoms = []string{"Tosse"}
	prefs.Ingredients = []string{"Miele", "Limone"}
	text = RenderMenu(prefs, "Impossibile generare la ricetta")

	assert.Contains(t, text, "⚠️ Impossibile generare la ricetta")
	assert.Contains(t, text, "🧺 Ingredienti: Miele, Limone")
	assert.NotContains(t, text, MsgNotSubmittable)
}

func TestRenderRecipeCard(t *testing.T) {
	recipe := &entity.Recipe{
		Title:           "Tisana allo Zenzero",
		Tagline:         "Calda e avvolgente",
		TimeMinutes:     12,
		Difficulty:      entity.DifficultyEasy,
		IngredientsList: []entity.IngredientAmount{{Name: "Zenzero", Amount: "2 fettine"}, {Name: "Miele"}},
		ToolsList:       []string{"Pentolino", "Tazza"},
		Benefits:        "Scalda la gola.",
		Steps:           []entity.RecipeStep{{Instruction: "a"}, {Instruction: "b"}},
	}

	card := RenderRecipeCard(recipe)
	assert.Contains(t, card, "🌿 Tisana allo Zenzero\nCalda e avvolgente\n")
	assert.Contains(t, card, "12 min · Facile")
	assert.Contains(t, card, "• Zenzero: 2 fettine\n• Miele\n")
	assert.Contains(t, card, "Pentolino, Tazza")
	assert.Contains(t, card, "2 passaggi")
}

func TestRenderTranscriptMessage(t *testing.T) {
	assert.Equal(t, "💡 Non bollire", RenderTranscriptMessage(entity.ChatMessage{Origin: entity.OriginApp, Text: "Non bollire", IsTip: true}))
	assert.Equal(t, "🙋 Fatto! ✓", RenderTranscriptMessage(entity.ChatMessage{Origin: entity.OriginUser, Text: "Fatto! ✓"}))
	assert.Equal(t, "Scalda", RenderTranscriptMessage(entity.ChatMessage{Origin: entity.OriginApp, Text: "Scalda"}))
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ErrGeneric},
		{fmt.Errorf("get: %w", entity.ErrSessionNotFound), ErrSessionNotFound},
		{entity.TransitionError(entity.ScreenLoading, "back"), ErrInvalidState},
		{entity.ErrSavingDisabled, ErrSavingDisabled},
		{context.DeadlineExceeded, ErrTimeout},
		{errors.New("dial tcp: connection refused"), ErrServiceUnavailable},
		{errors.New("boom"), ErrGeneric},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyError(tt.err))
	}
}
