package entity

// ComplexityHint is the difficulty guidance derived from the time budget
type ComplexityHint struct {
	Difficulty      Difficulty `json:"difficulty"`
	IngredientRange string     `json:"ingredient_range"`
	Procedure       string     `json:"procedure"`
}

// VariationDirective asks the generator not to repeat a discarded recipe
type VariationDirective struct {
	PreviousTitle       string   `json:"previous_title"`
	PreviousIngredients []string `json:"previous_ingredients"`
}

// RecipeRequest is the outbound payload for text generation
type RecipeRequest struct {
	Prompt            string              `json:"prompt"`
	SystemInstruction string              `json:"system_instruction"`
	Symptoms          []string            `json:"symptoms"`
	Pantry            []string            `json:"pantry"`
	PrepType          PrepType            `json:"prep_type"`
	Time              TimeBand            `json:"time"`
	Complexity        ComplexityHint      `json:"complexity"`
	Variation         *VariationDirective `json:"variation,omitempty"`
}

// ImageRequest is the outbound payload for image generation
type ImageRequest struct {
	Prompt      string `json:"prompt"`
	AspectRatio string `json:"aspect_ratio"`
}

// GeneratedImage holds either inline bytes or a remote URL
type GeneratedImage struct {
	Data     []byte `json:"data,omitempty"`
	MIMEType string `json:"mime_type,omitempty"`
	URL      string `json:"url,omitempty"`
}

// Empty reports whether the generator returned nothing usable
func (g *GeneratedImage) Empty() bool {
	return g == nil || (len(g.Data) == 0 && g.URL == "")
}
