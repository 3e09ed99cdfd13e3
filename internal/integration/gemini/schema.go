package gemini

import (
	"github.com/futig/remedy-companion/internal/entity"
	"google.golang.org/genai"
)

func str(description string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeString, Description: description}
}

func integer(description string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeInteger, Description: description}
}

// recipeSchema mirrors entity.Recipe so the model answers with decodable JSON
func recipeSchema() *genai.Schema {
	nullable := true

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"title":           str("Titolo accattivante della ricetta"),
			"tagline":         str("Breve frase emozionale sulla ricetta"),
			"timeMinutes":     integer("Tempo totale in minuti"),
			"ingredientCount": integer("Numero totale di ingredienti"),
			"stepCount":       integer("Numero totale di passaggi"),
			"difficulty": {
				Type: genai.TypeString,
				Enum: []string{
					string(entity.DifficultyEasy),
					string(entity.DifficultyMedium),
					string(entity.DifficultyHard),
				},
			},
			"rating": {Type: genai.TypeNumber, Description: "Rating tra 4.5 e 5.0"},
			"ingredientsList": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"name":   {Type: genai.TypeString},
						"amount": {Type: genai.TypeString},
					},
				},
			},
			"toolsList": {
				Type:        genai.TypeArray,
				Items:       &genai.Schema{Type: genai.TypeString},
				Description: "Lista di 3-5 utensili da cucina comuni e semplici necessari (es. pentolino, cucchiaio, tazza, colino)",
			},
			"benefits": str("Spiegazione di 2-3 frasi sui benefici"),
			"steps": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"instruction": str("Istruzione DETTAGLIATA che include quantità e strumenti."),
						"tip": {
							Type:        genai.TypeString,
							Description: "Consiglio opzionale pratico",
							Nullable:    &nullable,
						},
					},
				},
			},
		},
		Required: []string{"title", "tagline", "timeMinutes", "difficulty", "ingredientsList", "toolsList", "benefits", "steps"},
	}
}
