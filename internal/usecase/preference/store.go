// Package preference keeps the mutable selection of one session and guards
// its invariants on every mutation.
package preference

import (
	"slices"
	"sync"

	"github.com/futig/remedy-companion/internal/catalog"
	"github.com/futig/remedy-companion/internal/entity"
)

// Store holds a session's preferences. Rejected mutations are silent no-ops;
// every mutator reports whether the selection changed.
type Store struct {
	mu      sync.RWMutex
	catalog *catalog.Catalog
	prefs   entity.Preferences
}

func NewStore(c *catalog.Catalog) *Store {
	return &Store{
		catalog: c,
		prefs:   entity.DefaultPreferences(),
	}
}

// ToggleSymptom removes a selected symptom or adds a new one when it keeps
// the set within size and category limits
func (s *Store) ToggleSymptom(symptom string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx := slices.Index(s.prefs.Symptoms, symptom); idx >= 0 {
		s.prefs.Symptoms = slices.Delete(s.prefs.Symptoms, idx, idx+1)
		return true
	}

	if !s.canAddSymptomLocked(symptom) {
		return false
	}

	s.prefs.Symptoms = append(s.prefs.Symptoms, symptom)
	return true
}

func (s *Store) canAddSymptomLocked(symptom string) bool {
	return canAddSymptom(s.catalog, s.prefs.Symptoms, symptom)
}

func canAddSymptom(c *catalog.Catalog, selected []string, symptom string) bool {
	if !c.IsSymptom(symptom) {
		return false
	}
	if len(selected) >= entity.MaxSymptoms {
		return false
	}
	if len(selected) > 0 && !c.SameSymptomCategory(selected[0], symptom) {
		return false
	}
	return true
}

// SymptomSelectable reports whether tapping the symptom would change anything.
// UIs use it to render disabled controls.
func (s *Store) SymptomSelectable(symptom string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return SymptomSelectable(s.catalog, s.prefs, symptom)
}

// SymptomSelectable is the stateless form of Store.SymptomSelectable, for
// front ends that only hold a preferences snapshot
func SymptomSelectable(c *catalog.Catalog, prefs entity.Preferences, symptom string) bool {
	if slices.Contains(prefs.Symptoms, symptom) {
		return true
	}
	return canAddSymptom(c, prefs.Symptoms, symptom)
}

// ActiveSymptomCategory is the category of the first selected symptom
func (s *Store) ActiveSymptomCategory() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.prefs.Symptoms) == 0 {
		return "", false
	}
	return s.catalog.SymptomCategory(s.prefs.Symptoms[0])
}

func (s *Store) ToggleIngredient(ingredient string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx := slices.Index(s.prefs.Ingredients, ingredient); idx >= 0 {
		s.prefs.Ingredients = slices.Delete(s.prefs.Ingredients, idx, idx+1)
		return true
	}

	if !s.catalog.IsIngredient(ingredient) {
		return false
	}

	s.prefs.Ingredients = append(s.prefs.Ingredients, ingredient)
	return true
}

// SelectAllInCategory adds every listed ingredient not selected yet. It never removes.
func (s *Store) SelectAllInCategory(items []string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := false
	for _, item := range items {
		if !s.catalog.IsIngredient(item) || slices.Contains(s.prefs.Ingredients, item) {
			continue
		}
		s.prefs.Ingredients = append(s.prefs.Ingredients, item)
		changed = true
	}
	return changed
}

// SelectCategory is SelectAllInCategory addressed by ingredient category id
func (s *Store) SelectCategory(categoryID string) bool {
	cat, ok := s.catalog.IngredientCategory(categoryID)
	if !ok {
		return false
	}
	return s.SelectAllInCategory(cat.Items)
}

func (s *Store) SetPrepType(prepType entity.PrepType) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.catalog.HasPrepType(prepType) || s.prefs.PrepType == prepType {
		return false
	}
	s.prefs.PrepType = prepType
	return true
}

func (s *Store) SetTime(band entity.TimeBand) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.catalog.HasTimeBand(band) || s.prefs.Time == band {
		return false
	}
	s.prefs.Time = band
	return true
}

func (s *Store) IsSubmittable() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.prefs.IsSubmittable()
}

// Snapshot returns a frozen copy of the current selection
func (s *Store) Snapshot() entity.Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.prefs.Clone()
}

// Reset replaces the selection with defaults
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prefs = entity.DefaultPreferences()
}

// Catalog exposes the lookup tables the store validates against
func (s *Store) Catalog() *catalog.Catalog {
	return s.catalog
}
