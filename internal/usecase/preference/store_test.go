package preference

import (
	"math/rand"
	"testing"

	"github.com/futig/remedy-companion/internal/catalog"
	"github.com/futig/remedy-companion/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(catalog.Default())
}

func TestToggleSymptom(t *testing.T) {
	tests := []struct {
		name    string
		toggles []string
		want    []string
	}{
		{"single add", []string{"Tosse"}, []string{"Tosse"}},
		{"two of same category", []string{"Tosse", "Raffreddore"}, []string{"Tosse", "Raffreddore"}},
		{"third is rejected", []string{"Tosse", "Raffreddore", "Mal di gola"}, []string{"Tosse", "Raffreddore"}},
		{"other category is rejected", []string{"Tosse", "Nausea"}, []string{"Tosse"}},
		{"remove then other category", []string{"Tosse", "Tosse", "Nausea"}, []string{"Nausea"}},
		{"remove always allowed", []string{"Tosse", "Raffreddore", "Tosse"}, []string{"Raffreddore"}},
		{"unknown token ignored", []string{"Febbre"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore(t)
			for _, tok := range tt.toggles {
				s.ToggleSymptom(tok)
			}
			assert.Equal(t, tt.want, s.Snapshot().Symptoms)
		})
	}
}

func TestToggleSymptomRandomSequencesKeepInvariants(t *testing.T) {
	cat := catalog.Default()
	var all []string
	for _, c := range cat.Symptoms {
		all = append(all, c.Items...)
	}

	rng := rand.New(rand.NewSource(42))
	for run := 0; run < 200; run++ {
		s := NewStore(cat)
		for i := 0; i < 30; i++ {
			s.ToggleSymptom(all[rng.Intn(len(all))])

			got := s.Snapshot().Symptoms
			require.LessOrEqual(t, len(got), entity.MaxSymptoms)
			if len(got) == 2 {
				require.True(t, cat.SameSymptomCategory(got[0], got[1]), "mixed categories: %v", got)
			}
		}
	}
}

func TestSymptomSelectable(t *testing.T) {
	s := newStore(t)
	assert.True(t, s.SymptomSelectable("Nausea"))

	s.ToggleSymptom("Tosse")
	assert.False(t, s.SymptomSelectable("Nausea"))
	assert.True(t, s.SymptomSelectable("Raffreddore"))

	s.ToggleSymptom("Raffreddore")
	assert.False(t, s.SymptomSelectable("Mal di gola"))
	assert.True(t, s.SymptomSelectable("Tosse"), "selected symptoms stay tappable")

	active, ok := s.ActiveSymptomCategory()
	require.True(t, ok)
	assert.Equal(t, "Respiratorio", active)
}

func TestToggleIngredient(t *testing.T) {
	s := newStore(t)

	assert.True(t, s.ToggleIngredient("Miele"))
	assert.True(t, s.ToggleIngredient("Limone"))
	assert.Equal(t, []string{"Miele", "Limone"}, s.Snapshot().Ingredients)

	assert.True(t, s.ToggleIngredient("Miele"))
	assert.Equal(t, []string{"Limone"}, s.Snapshot().Ingredients)

	assert.False(t, s.ToggleIngredient("Cioccolato"))
}

func TestSelectAllInCategoryIsIdempotent(t *testing.T) {
	s := newStore(t)
	s.ToggleIngredient("Zenzero")

	cat, ok := s.Catalog().IngredientCategory("spices")
	require.True(t, ok)

	assert.True(t, s.SelectAllInCategory(cat.Items))
	once := s.Snapshot().Ingredients

	assert.False(t, s.SelectAllInCategory(cat.Items))
	assert.Equal(t, once, s.Snapshot().Ingredients)

	assert.Len(t, once, len(cat.Items))
	assert.Equal(t, "Zenzero", once[0], "existing selection keeps its position")
}

func TestSelectCategoryNeverRemoves(t *testing.T) {
	s := newStore(t)
	s.ToggleIngredient("Arnica")

	assert.True(t, s.SelectCategory("herbs"))
	assert.Contains(t, s.Snapshot().Ingredients, "Arnica")
	assert.False(t, s.SelectCategory("missing"))
}

func TestIsSubmittable(t *testing.T) {
	tests := []struct {
		name        string
		symptoms    []string
		ingredients []string
		want        bool
	}{
		{"empty", nil, nil, false},
		{"symptom only", []string{"Tosse"}, nil, false},
		{"one ingredient", []string{"Tosse"}, []string{"Miele"}, false},
		{"no symptom", nil, []string{"Miele", "Limone"}, false},
		{"minimum", []string{"Tosse"}, []string{"Miele", "Limone"}, true},
		{"more", []string{"Tosse", "Raffreddore"}, []string{"Miele", "Limone", "Zenzero"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore(t)
			for _, sym := range tt.symptoms {
				s.ToggleSymptom(sym)
			}
			for _, ing := range tt.ingredients {
				s.ToggleIngredient(ing)
			}
			assert.Equal(t, tt.want, s.IsSubmittable())
		})
	}
}

func TestSetPrepTypeAndTime(t *testing.T) {
	s := newStore(t)
	prefs := s.Snapshot()
	assert.Equal(t, entity.PrepTypeAny, prefs.PrepType)
	assert.Equal(t, entity.TimeNormal, prefs.Time)

	assert.True(t, s.SetPrepType(entity.PrepTypeSciroppo))
	assert.False(t, s.SetPrepType(entity.PrepTypeSciroppo))
	assert.False(t, s.SetPrepType("POZIONE"))

	assert.True(t, s.SetTime(entity.TimeLong))
	assert.False(t, s.SetTime("FOREVER"))

	prefs = s.Snapshot()
	assert.Equal(t, entity.PrepTypeSciroppo, prefs.PrepType)
	assert.Equal(t, entity.TimeLong, prefs.Time)
}

func TestSnapshotDoesNotAlias(t *testing.T) {
	s := newStore(t)
	s.ToggleIngredient("Miele")

	snap := s.Snapshot()
	snap.Ingredients[0] = "changed"

	assert.Equal(t, []string{"Miele"}, s.Snapshot().Ingredients)
}

func TestReset(t *testing.T) {
	s := newStore(t)
	s.ToggleSymptom("Tosse")
	s.ToggleIngredient("Miele")
	s.SetTime(entity.TimeQuick)

	s.Reset()

	assert.Equal(t, entity.DefaultPreferences(), s.Snapshot())
}

func TestApply(t *testing.T) {
	s := newStore(t)

	changed, err := s.Apply(Change{Action: ActionToggleSymptom, Value: "Tosse"})
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = s.Apply(Change{Action: ActionToggleSymptom, Value: "Nausea"})
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = s.Apply(Change{Action: ActionSetTime, Value: string(entity.TimeQuick)})
	require.NoError(t, err)
	assert.True(t, changed)

	_, err = s.Apply(Change{Action: "shuffle", Value: "x"})
	assert.ErrorIs(t, err, entity.ErrInvalidParameter)
}
