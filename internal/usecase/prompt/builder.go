// Package prompt turns a preference snapshot into generator requests.
package prompt

import (
	"fmt"
	"strings"

	"github.com/futig/remedy-companion/internal/entity"
)

const SystemInstruction = "Sei un'app companion per un libro di rimedi naturali. Crea ricette sicure, efficaci e variegate."

var complexityByTime = map[entity.TimeBand]entity.ComplexityHint{
	entity.TimeQuick: {
		Difficulty:      entity.DifficultyEasy,
		IngredientRange: "2-3",
		Procedure:       "Usa 2-3 ingredienti massimi. Procedura \"One-pot\".",
	},
	entity.TimeNormal: {
		Difficulty:      entity.DifficultyMedium,
		IngredientRange: "3-4",
		Procedure:       "Crea una sinergia di 3-4 ingredienti. Inserisci passaggi di preparazione (pestare, grattugiare, sciogliere a parte).",
	},
	entity.TimeLong: {
		Difficulty:      entity.DifficultyHard,
		IngredientRange: "4+",
		Procedure:       "Crea una \"Pozione Maestra\". Usa 4+ ingredienti se disponibili. Sfrutta tempi di estrazione diversi o preparazioni a stadi.",
	},
}

// Complexity returns the difficulty guidance for a time band.
// Unknown bands get the NORMAL guidance.
func Complexity(band entity.TimeBand) entity.ComplexityHint {
	if hint, ok := complexityByTime[band]; ok {
		return hint
	}
	return complexityByTime[entity.TimeNormal]
}

// BuildRequest assembles the text generation request. Output depends only on
// its inputs. previous is the recipe being regenerated, if any.
func BuildRequest(prefs entity.Preferences, previous *entity.Recipe) (*entity.RecipeRequest, error) {
	if !prefs.IsSubmittable() {
		return nil, &entity.ValidationError{
			Field: "preferences",
			Err:   entity.ErrPreferencesNotSubmittable,
		}
	}

	req := &entity.RecipeRequest{
		SystemInstruction: SystemInstruction,
		Symptoms:          append([]string{}, prefs.Symptoms...),
		Pantry:            append([]string{}, prefs.Ingredients...),
		PrepType:          prefs.PrepType,
		Time:              prefs.Time,
		Complexity:        Complexity(prefs.Time),
	}

	if previous != nil {
		req.Variation = &entity.VariationDirective{
			PreviousTitle:       previous.Title,
			PreviousIngredients: previous.IngredientNames(),
		}
	}

	req.Prompt = renderRecipePrompt(req)
	return req, nil
}

func renderRecipePrompt(req *entity.RecipeRequest) string {
	var b strings.Builder

	b.WriteString("Agisci come un esperto naturopata ed erborista creativo.\n\n")

	b.WriteString("PARAMETRI UTENTE:\n")
	fmt.Fprintf(&b, "- Sintomi: %s\n", strings.Join(req.Symptoms, ", "))
	fmt.Fprintf(&b, "- Tipo preparato: %s\n", req.PrepType.Label())
	fmt.Fprintf(&b, "- Dispensa COMPLETA (Ingredienti): %s\n", strings.Join(req.Pantry, ", "))
	fmt.Fprintf(&b, "- Tempo a disposizione: %s\n\n", req.Time.Label())

	if v := req.Variation; v != nil {
		b.WriteString("CONTESTO VARIAZIONE (IMPORTANTE):\n")
		fmt.Fprintf(&b, "L'utente ha scartato la ricetta precedente: %q (Ingredienti usati: %s).\n",
			v.PreviousTitle, strings.Join(v.PreviousIngredients, ", "))
		b.WriteString("OBIETTIVO: Devi proporre qualcosa di DIVERSO.\n")
		b.WriteString("1. CAMBIA INGREDIENTI: non ripetere la stessa combinazione principale, " +
			"cerca nella Dispensa combinazioni alternative che non hai usato prima.\n")
		b.WriteString("2. Se gli altri ingredienti non sono adatti, CAMBIA LA TECNICA o il FORMATO " +
			"(es. da infuso a decotto più concentrato).\n\n")
	}

	b.WriteString("LOGICA DI SELEZIONE INGREDIENTI:\n")
	b.WriteString("- Analizza l'INTERA lista di ingredienti disponibili.\n")
	b.WriteString("- Se ci sono molti ingredienti, usane almeno 3-4 per creare una sinergia, invece che solo 1 o 2.\n")
	b.WriteString("- Cerca combinazioni creative ma sicure.\n\n")

	hint := req.Complexity
	b.WriteString("COMPLESSITÀ RICHIESTA:\n")
	fmt.Fprintf(&b, "- DIFFICOLTÀ: %q\n", hint.Difficulty)
	fmt.Fprintf(&b, "- Ingredienti: %s\n", hint.IngredientRange)
	fmt.Fprintf(&b, "- %s\n\n", hint.Procedure)

	b.WriteString("REGOLE PER I PASSAGGI (STEPS):\n")
	b.WriteString("1. Raggruppa tutto in 3-4 MACRO-PASSAGGI densi di istruzioni.\n")
	b.WriteString("2. In OGNI testo del passaggio, cita ESPLICITAMENTE le quantità e gli strumenti.\n")
	b.WriteString("3. Usa SOLO gli ingredienti disponibili (più acqua/basi comuni).\n")
	b.WriteString("4. Includi \"toolsList\".\n\n")

	b.WriteString("Tono: Caldo, esperto, rassicurante.\n")
	b.WriteString("Lingua: Italiano.\n")

	return b.String()
}
