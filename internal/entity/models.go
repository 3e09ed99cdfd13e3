package entity

import (
	"fmt"
	"time"
)

type ScreenState string

// Screen state of a remedy session; exactly one is active at a time
const (
	ScreenSelection   ScreenState = "SELECTION"
	ScreenLoading     ScreenState = "LOADING"
	ScreenPreview     ScreenState = "PREVIEW"
	ScreenPreparation ScreenState = "PREPARATION"
)

type PrepType string

const (
	PrepTypeAny      PrepType = "ANY"
	PrepTypeTisana   PrepType = "TISANA"
	PrepTypeDecotto  PrepType = "DECOTTO"
	PrepTypeImpacco  PrepType = "IMPACCO"
	PrepTypeSciroppo PrepType = "SCIROPPO"
)

var prepTypeLabels = map[PrepType]string{
	PrepTypeAny:      "Qualsiasi",
	PrepTypeTisana:   "Tisana/Infuso",
	PrepTypeDecotto:  "Decotto",
	PrepTypeImpacco:  "Impacco/Uso topico",
	PrepTypeSciroppo: "Sciroppo",
}

// Label returns the human readable name used in prompts and UIs
func (p PrepType) Label() string {
	if label, ok := prepTypeLabels[p]; ok {
		return label
	}
	return string(p)
}

func (p PrepType) Validate() error {
	if _, ok := prepTypeLabels[p]; !ok {
		return fmt.Errorf("%w: unknown prep type %q", ErrInvalidParameter, p)
	}
	return nil
}

type TimeBand string

const (
	TimeQuick  TimeBand = "QUICK"
	TimeNormal TimeBand = "NORMAL"
	TimeLong   TimeBand = "LONG"
)

var timeBandLabels = map[TimeBand]string{
	TimeQuick:  "Veloce (< 10 min)",
	TimeNormal: "Normale (10-20 min)",
	TimeLong:   "Ho tempo (> 20 min)",
}

func (t TimeBand) Label() string {
	if label, ok := timeBandLabels[t]; ok {
		return label
	}
	return string(t)
}

func (t TimeBand) Validate() error {
	if _, ok := timeBandLabels[t]; !ok {
		return fmt.Errorf("%w: unknown time band %q", ErrInvalidParameter, t)
	}
	return nil
}

type Difficulty string

const (
	DifficultyEasy   Difficulty = "Facile"
	DifficultyMedium Difficulty = "Media"
	DifficultyHard   Difficulty = "Difficile"
)

const (
	MinSubmitIngredients = 2
	MinSubmitSymptoms    = 1
	MaxSymptoms          = 2
)

// Preferences is the user's selection for one recipe request
type Preferences struct {
	Symptoms    []string `json:"symptoms"`
	PrepType    PrepType `json:"prep_type"`
	Ingredients []string `json:"ingredients"`
	Time        TimeBand `json:"time"`
}

// DefaultPreferences returns the selection a new session starts with
func DefaultPreferences() Preferences {
	return Preferences{
		Symptoms:    []string{},
		PrepType:    PrepTypeAny,
		Ingredients: []string{},
		Time:        TimeNormal,
	}
}

// IsSubmittable reports whether the selection is complete enough to ask for a recipe
func (p Preferences) IsSubmittable() bool {
	return len(p.Ingredients) >= MinSubmitIngredients && len(p.Symptoms) >= MinSubmitSymptoms
}

// Clone returns a deep copy, so snapshots never alias a live selection
func (p Preferences) Clone() Preferences {
	out := p
	out.Symptoms = append([]string{}, p.Symptoms...)
	out.Ingredients = append([]string{}, p.Ingredients...)
	return out
}

type IngredientAmount struct {
	Name   string `json:"name" validate:"required"`
	Amount string `json:"amount"`
}

type RecipeStep struct {
	Instruction string `json:"instruction" validate:"required"`
	Tip         string `json:"tip,omitempty"`
}

// Recipe is a generated herbal remedy.
// IngredientCount and StepCount come from the generator and may disagree
// with the actual lists; use TotalSteps / TotalIngredients instead.
type Recipe struct {
	Title           string             `json:"title" validate:"required"`
	Tagline         string             `json:"tagline" validate:"required"`
	TimeMinutes     int                `json:"timeMinutes" validate:"gt=0"`
	IngredientCount int                `json:"ingredientCount"`
	StepCount       int                `json:"stepCount"`
	Difficulty      Difficulty         `json:"difficulty" validate:"oneof=Facile Media Difficile"`
	Rating          float64            `json:"rating"`
	IngredientsList []IngredientAmount `json:"ingredientsList" validate:"min=1,dive"`
	ToolsList       []string           `json:"toolsList"`
	Benefits        string             `json:"benefits" validate:"required"`
	Steps           []RecipeStep       `json:"steps" validate:"min=1,dive"`
	ImageURL        string             `json:"imageUrl,omitempty"`
	PrepType        PrepType           `json:"prepType,omitempty"`
}

func (r *Recipe) TotalSteps() int {
	return len(r.Steps)
}

func (r *Recipe) TotalIngredients() int {
	return len(r.IngredientsList)
}

// IngredientNames lists ingredient names in recipe order
func (r *Recipe) IngredientNames() []string {
	names := make([]string, 0, len(r.IngredientsList))
	for _, ing := range r.IngredientsList {
		names = append(names, ing.Name)
	}
	return names
}

// Clone returns a deep copy of the recipe
func (r *Recipe) Clone() *Recipe {
	if r == nil {
		return nil
	}
	out := *r
	out.IngredientsList = append([]IngredientAmount(nil), r.IngredientsList...)
	out.ToolsList = append([]string(nil), r.ToolsList...)
	out.Steps = append([]RecipeStep(nil), r.Steps...)
	return &out
}

type MessageOrigin string

const (
	OriginApp  MessageOrigin = "app"
	OriginUser MessageOrigin = "user"
)

// ChatMessage is one entry of the preparation transcript
type ChatMessage struct {
	ID        string        `json:"id"`
	Origin    MessageOrigin `json:"origin"`
	Text      string        `json:"text"`
	IsTip     bool          `json:"is_tip,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

// SavedRecipe is a recipe the user chose to keep
type SavedRecipe struct {
	ID        string      `json:"id"`
	Owner     string      `json:"owner"`
	Recipe    Recipe      `json:"recipe"`
	Prefs     Preferences `json:"preferences"`
	CreatedAt time.Time   `json:"created_at"`
}
