// Package catalog holds the fixed lookup tables the selection UI is built from.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/futig/remedy-companion/internal/entity"
)

// Catalog answers membership and "same category" questions over the lookup tables
type Catalog struct {
	Symptoms    []entity.SymptomCategory    `json:"symptom_categories"`
	Ingredients []entity.IngredientCategory `json:"ingredient_categories"`
	PrepOptions []entity.PrepOption         `json:"prep_options"`
	TimeOptions []entity.TimeOption         `json:"time_options"`

	symptomCategory    map[string]string
	ingredientCategory map[string]string
}

// New indexes the given tables
func New(
	symptoms []entity.SymptomCategory,
	ingredients []entity.IngredientCategory,
	prepOptions []entity.PrepOption,
	timeOptions []entity.TimeOption,
) *Catalog {
	c := &Catalog{
		Symptoms:    symptoms,
		Ingredients: ingredients,
		PrepOptions: prepOptions,
		TimeOptions: timeOptions,
	}
	c.index()
	return c
}

func (c *Catalog) index() {
	c.symptomCategory = make(map[string]string)
	for _, cat := range c.Symptoms {
		for _, item := range cat.Items {
			// first category wins if a token is listed twice
			if _, ok := c.symptomCategory[item]; !ok {
				c.symptomCategory[item] = cat.Name
			}
		}
	}

	c.ingredientCategory = make(map[string]string)
	for _, cat := range c.Ingredients {
		for _, item := range cat.Items {
			if _, ok := c.ingredientCategory[item]; !ok {
				c.ingredientCategory[item] = cat.ID
			}
		}
	}
}

// SymptomCategory returns the category name of a symptom token
func (c *Catalog) SymptomCategory(symptom string) (string, bool) {
	name, ok := c.symptomCategory[symptom]
	return name, ok
}

// SameSymptomCategory reports whether both symptoms are known and share a category
func (c *Catalog) SameSymptomCategory(a, b string) bool {
	catA, okA := c.symptomCategory[a]
	catB, okB := c.symptomCategory[b]
	return okA && okB && catA == catB
}

func (c *Catalog) IsSymptom(token string) bool {
	_, ok := c.symptomCategory[token]
	return ok
}

func (c *Catalog) IsIngredient(token string) bool {
	_, ok := c.ingredientCategory[token]
	return ok
}

// IngredientCategory looks a category up by id
func (c *Catalog) IngredientCategory(id string) (entity.IngredientCategory, bool) {
	for _, cat := range c.Ingredients {
		if cat.ID == id {
			return cat, true
		}
	}
	return entity.IngredientCategory{}, false
}

// CategoryOfIngredient returns the id of the category listing the ingredient
func (c *Catalog) CategoryOfIngredient(ingredient string) (string, bool) {
	id, ok := c.ingredientCategory[ingredient]
	return id, ok
}

func (c *Catalog) HasPrepType(p entity.PrepType) bool {
	for _, opt := range c.PrepOptions {
		if opt.Value == p {
			return true
		}
	}
	return false
}

func (c *Catalog) HasTimeBand(t entity.TimeBand) bool {
	for _, opt := range c.TimeOptions {
		if opt.Value == t {
			return true
		}
	}
	return false
}

// LoadFile reads a catalog override from a JSON file.
// Tables missing from the file keep their default contents.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("catalog file is empty: %s", path)
	}

	def := Default()
	parsed := &Catalog{}
	if err := json.Unmarshal(data, parsed); err != nil {
		return nil, fmt.Errorf("parse catalog JSON: %w", err)
	}

	if len(parsed.Symptoms) == 0 {
		parsed.Symptoms = def.Symptoms
	}
	if len(parsed.Ingredients) == 0 {
		parsed.Ingredients = def.Ingredients
	}
	if len(parsed.PrepOptions) == 0 {
		parsed.PrepOptions = def.PrepOptions
	}
	if len(parsed.TimeOptions) == 0 {
		parsed.TimeOptions = def.TimeOptions
	}

	for _, opt := range parsed.PrepOptions {
		if err := opt.Value.Validate(); err != nil {
			return nil, fmt.Errorf("catalog prep option: %w", err)
		}
	}
	for _, opt := range parsed.TimeOptions {
		if err := opt.Value.Validate(); err != nil {
			return nil, fmt.Errorf("catalog time option: %w", err)
		}
	}

	parsed.index()
	return parsed, nil
}
