package entity

type SymptomCategory struct {
	Name  string   `json:"name"`
	Items []string `json:"items"`
}

type IngredientCategory struct {
	ID    string   `json:"id"`
	Title string   `json:"title"`
	Icon  string   `json:"icon"`
	Items []string `json:"items"`
}

type PrepOption struct {
	Value PrepType `json:"value"`
	Label string   `json:"label"`
	Icon  string   `json:"icon"`
}

type TimeOption struct {
	Value TimeBand `json:"value"`
	Label string   `json:"label"`
	Sub   string   `json:"sub"`
	Icon  string   `json:"icon"`
}
