package render

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/futig/remedy-companion/internal/entity"
	"github.com/futig/remedy-companion/internal/pkg/formatter"
)

const (
	MsgWelcome = `🌿 Ciao! Sono il tuo erborista di casa.

Dimmi come ti senti e cosa hai in dispensa: ti preparo un rimedio naturale e ti guido passo passo mentre lo realizzi.`

	MsgHelp = `🌿 Comandi del bot:

/start - Crea un nuovo rimedio
/help - Mostra questo aiuto
/cancel - Chiudi la sessione corrente

Come funziona:
1. Scegli fino a 2 sintomi della stessa area
2. Scegli tipo di preparazione e tempo a disposizione
3. Seleziona almeno 2 ingredienti che hai in casa
4. Premi "Crea il rimedio" e segui la ricetta passo passo

Inizia con /start`

	MsgSymptoms    = "🩺 Scegli fino a 2 sintomi della stessa area."
	MsgPrepType    = "🍵 Che tipo di preparazione preferisci?"
	MsgTime        = "⏱️ Quanto tempo hai?"
	MsgIngredients = "🌿 Cosa hai in casa? Scegli una categoria."
	MsgCategory    = "%s %s\nTocca per aggiungere o togliere."

	MsgNotSubmittable = "Seleziona almeno 1 sintomo e 2 ingredienti"
	MsgExitConfirm    = "⚠️ Vuoi davvero uscire? I progressi della preparazione andranno persi."
	MsgExitCancelled  = "👍 Continuiamo da dove eravamo."
	MsgCancelConfirm  = "⚠️ Sei sicuro? La sessione e le scelte fatte andranno perse."
	MsgSessionClosed  = `👋 Sessione chiusa.
Per creare un nuovo rimedio premi /start`
	MsgNoSession  = "Nessuna sessione attiva. Usa /start"
	MsgSaved      = "💾 Ricetta salvata!"
	MsgNewRemedy  = "🌱 Ottimo! Creiamo un nuovo rimedio."
	MsgProcessing = "⏳"

	// Errors
	ErrGeneric            = `❌ Si è verificato un errore. Riprova o premi /start`
	ErrSessionNotFound    = `❌ Sessione scaduta. Ricomincia con /start`
	ErrInvalidState       = `❌ Questa azione non è disponibile ora.`
	ErrNetworkIssue       = `❌ Problema di connessione. Riprova tra poco.`
	ErrServiceUnavailable = `❌ Servizio momentaneamente non disponibile. Riprova tra qualche minuto.`
	ErrTimeout            = `❌ L'operazione ha richiesto troppo tempo. Riprova.`
	ErrSavingDisabled     = `❌ Il salvataggio delle ricette non è attivo.`
	ErrUnknownCommand     = `❌ Comando sconosciuto. Usa /start`
)

// RenderMenu summarizes the current selection above the menu keyboard
func RenderMenu(prefs entity.Preferences, errMsg string) string {
	var sb strings.Builder

	if errMsg != "" {
		sb.WriteString("⚠️ " + errMsg + "\n\n")
	}

	sb.WriteString("🌿 Il tuo rimedio\n\n")
	sb.WriteString("🩺 Sintomi: " + listOrDash(prefs.Symptoms) + "\n")
	sb.WriteString("🍵 Preparazione: " + prefs.PrepType.Label() + "\n")
	sb.WriteString("⏱️ Tempo: " + prefs.Time.Label() + "\n")
	sb.WriteString("🧺 Ingredienti: " + listOrDash(prefs.Ingredients) + "\n")

	if !prefs.IsSubmittable() {
		sb.WriteString("\n" + MsgNotSubmittable + ".")
	}
	return sb.String()
}

func listOrDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}

// RenderCategory is the header of one ingredient category page
func RenderCategory(icon, title string) string {
	return fmt.Sprintf(MsgCategory, icon, title)
}

// RenderRecipeCard is the preview text under the recipe photo
func RenderRecipeCard(recipe *entity.Recipe) string {
	var sb strings.Builder

	sb.WriteString("🌿 " + recipe.Title + "\n")
	if recipe.Tagline != "" {
		sb.WriteString(recipe.Tagline + "\n")
	}
	if meta := formatter.MetaLine(recipe); meta != "" {
		sb.WriteString("\n" + meta + "\n")
	}

	sb.WriteString("\n🧺 Ingredienti\n")
	for _, ing := range recipe.IngredientsList {
		sb.WriteString("• " + formatter.IngredientLine(ing) + "\n")
	}

	if len(recipe.ToolsList) > 0 {
		sb.WriteString("\n🥄 Strumenti\n")
		sb.WriteString(strings.Join(recipe.ToolsList, ", ") + "\n")
	}

	if recipe.Benefits != "" {
		sb.WriteString("\n💚 " + recipe.Benefits + "\n")
	}

	sb.WriteString(fmt.Sprintf("\n%d passaggi", recipe.TotalSteps()))
	return sb.String()
}

// RenderTranscriptMessage formats one walkthrough line for the chat
func RenderTranscriptMessage(msg entity.ChatMessage) string {
	switch {
	case msg.IsTip:
		return "💡 " + msg.Text
	case msg.Origin == entity.OriginUser:
		return "🙋 " + msg.Text
	default:
		return msg.Text
	}
}

// RenderStep prefixes a step instruction with its progress line
func RenderStep(progress, text string) string {
	if progress == "" {
		return text
	}
	return progress + "\n\n" + text
}

// ClassifyError maps an error to a user facing message
func ClassifyError(err error) string {
	switch {
	case err == nil:
		return ErrGeneric
	case errors.Is(err, entity.ErrSessionNotFound):
		return ErrSessionNotFound
	case errors.Is(err, entity.ErrInvalidTransition),
		errors.Is(err, entity.ErrWalkthroughNotActive),
		errors.Is(err, entity.ErrWalkthroughFinished),
		errors.Is(err, entity.ErrExitNotRequested),
		errors.Is(err, entity.ErrNoRecipe):
		return ErrInvalidState
	case errors.Is(err, entity.ErrSavingDisabled):
		return ErrSavingDisabled
	case errors.Is(err, context.DeadlineExceeded):
		return ErrTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return ErrTimeout
		}
		return ErrNetworkIssue
	}

	if strings.Contains(err.Error(), "connection refused") {
		return ErrServiceUnavailable
	}
	return ErrGeneric
}
