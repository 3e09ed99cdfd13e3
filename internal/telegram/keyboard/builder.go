package keyboard

import (
	"fmt"
	"slices"

	"github.com/futig/remedy-companion/internal/catalog"
	"github.com/futig/remedy-companion/internal/entity"
	"github.com/futig/remedy-companion/internal/usecase/preference"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	markSelected = "✅ "
	markDisabled = "🚫 "

	symptomsPerRow    = 2
	ingredientsPerRow = 3
)

// Builder creates inline keyboards
type Builder struct {
	catalog *catalog.Catalog
}

// NewBuilder creates a keyboard builder over the session catalog
func NewBuilder(c *catalog.Catalog) *Builder {
	return &Builder{catalog: c}
}

func button(label, action, value string) tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardButtonData(label, EncodeCallback(action, value))
}

func backRow(menu string) []tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardRow(button("◀️ Indietro", ActionMenu, menu))
}

func grid(buttons []tgbotapi.InlineKeyboardButton, perRow int) [][]tgbotapi.InlineKeyboardButton {
	var rows [][]tgbotapi.InlineKeyboardButton
	for chunk := range slices.Chunk(buttons, perRow) {
		rows = append(rows, chunk)
	}
	return rows
}

// StartKeyboard creates the initial start button
func (b *Builder) StartKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			button("🌿 Crea un rimedio", ActionCommand, CmdStart),
		),
	)
}

// MainMenu is the selection screen root
func (b *Builder) MainMenu(prefs entity.Preferences, submittable bool) tgbotapi.InlineKeyboardMarkup {
	create := "✨ Crea il rimedio"
	if !submittable {
		create = "🔒 Crea il rimedio"
	}

	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			button(fmt.Sprintf("🩺 Sintomi (%d/%d)", len(prefs.Symptoms), entity.MaxSymptoms), ActionMenu, MenuSymptoms),
		),
		tgbotapi.NewInlineKeyboardRow(
			button("🍵 "+prefs.PrepType.Label(), ActionMenu, MenuPrepType),
			button("⏱️ "+b.timeLabel(prefs.Time), ActionMenu, MenuTime),
		),
		tgbotapi.NewInlineKeyboardRow(
			button(fmt.Sprintf("🌿 Ingredienti (%d)", len(prefs.Ingredients)), ActionMenu, MenuIngredients),
		),
		tgbotapi.NewInlineKeyboardRow(
			button(create, ActionCommand, CmdCreate),
		),
	)
}

func (b *Builder) timeLabel(band entity.TimeBand) string {
	for _, opt := range b.catalog.TimeOptions {
		if opt.Value == band {
			return opt.Label
		}
	}
	return band.Label()
}

// SymptomsKeyboard lists every symptom; ones that would break the selection
// rules are marked disabled
func (b *Builder) SymptomsKeyboard(prefs entity.Preferences) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton

	for _, cat := range b.catalog.Symptoms {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(cat.Items))
		for _, symptom := range cat.Items {
			label := symptom
			switch {
			case slices.Contains(prefs.Symptoms, symptom):
				label = markSelected + symptom
			case !preference.SymptomSelectable(b.catalog, prefs, symptom):
				label = markDisabled + symptom
			}
			buttons = append(buttons, button(label, ActionSymptom, symptom))
		}
		rows = append(rows, grid(buttons, symptomsPerRow)...)
	}

	rows = append(rows, backRow(MenuMain))
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func (b *Builder) PrepTypeKeyboard(prefs entity.Preferences) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, opt := range b.catalog.PrepOptions {
		label := opt.Icon + " " + opt.Label
		if opt.Value == prefs.PrepType {
			label = markSelected + label
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(button(label, ActionPrepType, string(opt.Value))))
	}
	rows = append(rows, backRow(MenuMain))
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func (b *Builder) TimeKeyboard(prefs entity.Preferences) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, opt := range b.catalog.TimeOptions {
		label := fmt.Sprintf("%s %s (%s)", opt.Icon, opt.Label, opt.Sub)
		if opt.Value == prefs.Time {
			label = markSelected + label
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(button(label, ActionTime, string(opt.Value))))
	}
	rows = append(rows, backRow(MenuMain))
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// IngredientCategoriesKeyboard shows one button per category with its selected count
func (b *Builder) IngredientCategoriesKeyboard(prefs entity.Preferences) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, cat := range b.catalog.Ingredients {
		selected := 0
		for _, item := range cat.Items {
			if slices.Contains(prefs.Ingredients, item) {
				selected++
			}
		}
		label := fmt.Sprintf("%s %s (%d/%d)", cat.Icon, cat.Title, selected, len(cat.Items))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(button(label, ActionCategory, cat.ID)))
	}
	rows = append(rows, backRow(MenuMain))
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// IngredientsKeyboard lists the items of one category. ok is false for an unknown id.
func (b *Builder) IngredientsKeyboard(prefs entity.Preferences, categoryID string) (tgbotapi.InlineKeyboardMarkup, bool) {
	cat, ok := b.catalog.IngredientCategory(categoryID)
	if !ok {
		return tgbotapi.InlineKeyboardMarkup{}, false
	}

	buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(cat.Items))
	for _, item := range cat.Items {
		label := item
		if slices.Contains(prefs.Ingredients, item) {
			label = markSelected + item
		}
		buttons = append(buttons, button(label, ActionIngredient, item))
	}

	rows := grid(buttons, ingredientsPerRow)
	rows = append(rows,
		tgbotapi.NewInlineKeyboardRow(button("➕ Seleziona tutti", ActionSelectAll, cat.ID)),
		backRow(MenuIngredients),
	)
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}, true
}

// ErrorKeyboard lets the user dismiss a generation failure notice
func (b *Builder) ErrorKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			button("👌 Ok", ActionCommand, CmdDismiss),
		),
	)
}

func downloadRow() []tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardRow(
		button("📄 .md", ActionDownload, string(entity.FormatMarkdown)),
		button("📕 .pdf", ActionDownload, string(entity.FormatPDF)),
		button("📘 .docx", ActionDownload, string(entity.FormatDOCX)),
	)
}

// PreviewKeyboard goes under the recipe card
func (b *Builder) PreviewKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			button("👩‍🍳 Iniziamo a preparare", ActionCommand, CmdPrepare),
		),
		tgbotapi.NewInlineKeyboardRow(
			button("🔄 Un'altra ricetta", ActionCommand, CmdRegenerate),
			button("◀️ Modifica scelte", ActionCommand, CmdBack),
		),
		downloadRow(),
	)
}

// StepKeyboard goes under the latest step of the preparation transcript
func (b *Builder) StepKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			button("Fatto! ✓", ActionCommand, CmdDone),
		),
		tgbotapi.NewInlineKeyboardRow(
			button("✖️ Esci", ActionCommand, CmdExit),
		),
	)
}

// ExitOnlyKeyboard is shown while the next step is being composed
func (b *Builder) ExitOnlyKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			button("✖️ Esci", ActionCommand, CmdExit),
		),
	)
}

func (b *Builder) ExitConfirmKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			button("✅ Sì, esci", ActionExit, ExitConfirm),
			button("↩️ Continua", ActionExit, ExitCancel),
		),
	)
}

// FinishedKeyboard closes a completed preparation
func (b *Builder) FinishedKeyboard(savingEnabled bool) tgbotapi.InlineKeyboardMarkup {
	first := tgbotapi.NewInlineKeyboardRow(button("🌱 Nuovo rimedio", ActionCommand, CmdNewRemedy))
	if savingEnabled {
		first = append(first, button("💾 Salva ricetta", ActionCommand, CmdSave))
	}
	return tgbotapi.NewInlineKeyboardMarkup(first, downloadRow())
}

// CancelConfirmKeyboard asks before dropping the whole session
func (b *Builder) CancelConfirmKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			button("✅ Sì, chiudi", ActionConfirm, ConfirmCancel),
			button("❌ No, continua", ActionConfirm, ConfirmContinue),
		),
	)
}
