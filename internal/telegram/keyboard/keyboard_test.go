package keyboard

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/futig/remedy-companion/internal/catalog"
	"github.com/futig/remedy-companion/internal/entity"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCallback(t *testing.T) {
	tests := []struct {
		data    string
		want    *CallbackData
		wantErr bool
	}{
		{"act:start", &CallbackData{Action: "act", Value: "start"}, false},
		{"sym:Mal di gola", &CallbackData{Action: "sym", Value: "Mal di gola"}, false},
		{"dl:", &CallbackData{Action: "dl", Value: ""}, false},
		{"start", nil, true},
		{":x", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.data, func(t *testing.T) {
			got, err := ParseCallback(tt.data)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeCallbackFitsTelegramLimit(t *testing.T) {
	data := EncodeCallback(ActionIngredient, strings.Repeat("à", 40))
	assert.LessOrEqual(t, len(data), maxCallbackBytes)
	assert.True(t, utf8.ValidString(data))
}

func buttonsOf(markup tgbotapi.InlineKeyboardMarkup) map[string]string {
	out := map[string]string{}
	for _, row := range markup.InlineKeyboard {
		for _, btn := range row {
			if btn.CallbackData != nil {
				out[*btn.CallbackData] = btn.Text
			}
		}
	}
	return out
}

func TestSymptomsKeyboardMarksDisabled(t *testing.T) {
	b := NewBuilder(catalog.Default())
	prefs := entity.DefaultPreferences()
	prefs.Symptoms = []string{"Tosse"}

	buttons := buttonsOf(b.SymptomsKeyboard(prefs))

	assert.Equal(t, "✅ Tosse", buttons["sym:Tosse"])
	assert.Equal(t, "Raffreddore", buttons["sym:Raffreddore"])
	assert.Equal(t, "🚫 Nausea", buttons["sym:Nausea"])
	assert.Contains(t, buttons, "menu:main")
}

func TestSymptomsKeyboardFull(t *testing.T) {
	b := NewBuilder(catalog.Default())
	prefs := entity.DefaultPreferences()
	prefs.Symptoms = []string{"Tosse", "Raffreddore"}

	buttons := buttonsOf(b.SymptomsKeyboard(prefs))
	assert.Equal(t, "🚫 Mal di gola", buttons["sym:Mal di gola"])
	assert.Equal(t, "✅ Raffreddore", buttons["sym:Raffreddore"])
}

func TestMainMenuCreateButton(t *testing.T) {
	b := NewBuilder(catalog.Default())

	buttons := buttonsOf(b.MainMenu(entity.DefaultPreferences(), false))
	assert.Equal(t, "🔒 Crea il rimedio", buttons["act:create"])
	assert.Equal(t, "🩺 Sintomi (0/2)", buttons["menu:symptoms"])
	assert.Equal(t, "⏱️ Normale", buttons["menu:time"])

	buttons = buttonsOf(b.MainMenu(entity.DefaultPreferences(), true))
	assert.Equal(t, "✨ Crea il rimedio", buttons["act:create"])
}

func TestIngredientsKeyboard(t *testing.T) {
	b := NewBuilder(catalog.Default())
	prefs := entity.DefaultPreferences()
	prefs.Ingredients = []string{"Miele"}

	markup, ok := b.IngredientsKeyboard(prefs, "spices")
	require.True(t, ok)

	buttons := buttonsOf(markup)
	assert.Equal(t, "✅ Miele", buttons["ing:Miele"])
	assert.Equal(t, "Zenzero", buttons["ing:Zenzero"])
	assert.Contains(t, buttons, "iall:spices")
	assert.Contains(t, buttons, "menu:ingredients")

	_, ok = b.IngredientsKeyboard(prefs, "nope")
	assert.False(t, ok)
}

func TestFinishedKeyboardSaving(t *testing.T) {
	b := NewBuilder(catalog.Default())

	assert.NotContains(t, buttonsOf(b.FinishedKeyboard(false)), "act:save")

	buttons := buttonsOf(b.FinishedKeyboard(true))
	assert.Equal(t, "💾 Salva ricetta", buttons["act:save"])
	assert.Contains(t, buttons, "dl:docx")
}
