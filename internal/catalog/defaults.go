package catalog

import "github.com/futig/remedy-companion/internal/entity"

var defaultSymptoms = []entity.SymptomCategory{
	{Name: "Digestivo", Items: []string{"Nausea", "Acidità", "Gonfiore", "Digestione lenta", "Costipazione"}},
	{Name: "Respiratorio", Items: []string{"Tosse", "Raffreddore", "Mal di gola", "Congestione nasale"}},
	{Name: "Rilassamento", Items: []string{"Stress", "Ansia", "Insonnia", "Tensione muscolare"}},
	{Name: "Energia", Items: []string{"Stanchezza", "Affaticamento mentale", "Mancanza di concentrazione"}},
	{Name: "Pelle", Items: []string{"Irritazioni", "Piccole ferite", "Scottature", "Pelle secca"}},
	{Name: "Dolore", Items: []string{"Mal di testa", "Dolori mestruali", "Dolori articolari"}},
	{Name: "Immunitario", Items: []string{"Prevenzione", "Rafforzamento difese"}},
}

var defaultIngredients = []entity.IngredientCategory{
	{
		ID:    "herbs",
		Title: "Erbe Fresche/Secche",
		Icon:  "🌿",
		Items: []string{"Menta", "Camomilla", "Rosmarino", "Salvia", "Timo", "Origano", "Basilico", "Lavanda", "Calendula", "Valeriana", "Melissa", "Dente di leone"},
	},
	{
		ID:    "spices",
		Title: "Spezie e Cucina",
		Icon:  "🧄",
		Items: []string{"Aglio", "Cipolla", "Zenzero", "Curcuma", "Limone", "Miele", "Cannella", "Pepe di cayenna", "Aceto di mele", "Olio d'oliva"},
	},
	{
		ID:    "basics",
		Title: "Basics Dispensa",
		Icon:  "🏺",
		Items: []string{"Bicarbonato", "Sale marino", "Avena", "Semi di lino", "Acqua di rose", "Glicerina vegetale", "Cera d'api", "Alcol 40%"},
	},
	{
		ID:    "special",
		Title: "Speciali",
		Icon:  "✨",
		Items: []string{"Aloe vera", "Propoli", "Sambuco", "Echinacea", "Arnica"},
	},
}

var defaultPrepOptions = []entity.PrepOption{
	{Value: entity.PrepTypeAny, Label: "Qualsiasi", Icon: "🌿"},
	{Value: entity.PrepTypeTisana, Label: "Tisana/Infuso", Icon: "🍵"},
	{Value: entity.PrepTypeDecotto, Label: "Decotto", Icon: "🫖"},
	{Value: entity.PrepTypeImpacco, Label: "Impacco", Icon: "🧴"},
	{Value: entity.PrepTypeSciroppo, Label: "Sciroppo", Icon: "🥄"},
}

var defaultTimeOptions = []entity.TimeOption{
	{Value: entity.TimeQuick, Label: "Veloce", Sub: "< 10 min", Icon: "⚡"},
	{Value: entity.TimeNormal, Label: "Normale", Sub: "10-20 min", Icon: "⏱️"},
	{Value: entity.TimeLong, Label: "Ho tempo", Sub: "> 20 min", Icon: "🕐"},
}

// Default returns the built-in catalog
func Default() *Catalog {
	return New(defaultSymptoms, defaultIngredients, defaultPrepOptions, defaultTimeOptions)
}
