package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/futig/remedy-companion/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLookups(t *testing.T) {
	c := Default()

	name, ok := c.SymptomCategory("Tosse")
	require.True(t, ok)
	assert.Equal(t, "Respiratorio", name)

	assert.True(t, c.SameSymptomCategory("Tosse", "Raffreddore"))
	assert.False(t, c.SameSymptomCategory("Tosse", "Nausea"))
	assert.False(t, c.SameSymptomCategory("Tosse", "Febbre"))

	assert.True(t, c.IsIngredient("Miele"))
	assert.False(t, c.IsIngredient("Tosse"))
	assert.True(t, c.HasPrepType(entity.PrepTypeDecotto))
	assert.True(t, c.HasTimeBand(entity.TimeLong))
	assert.False(t, c.HasTimeBand("SOMETIMES"))

	_, ok = c.IngredientCategory("nope")
	assert.False(t, ok)

	id, ok := c.CategoryOfIngredient("Zenzero")
	require.True(t, ok)
	assert.Equal(t, "spices", id)
	_, ok = c.CategoryOfIngredient("Tosse")
	assert.False(t, ok)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.json")

	content := `{
		"symptom_categories": [{"name": "Sonno", "items": ["Insonnia", "Risvegli"]}]
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	c, err := LoadFile(path)
	require.NoError(t, err)

	assert.True(t, c.SameSymptomCategory("Insonnia", "Risvegli"))
	assert.False(t, c.IsSymptom("Tosse"))
	assert.Equal(t, Default().Ingredients, c.Ingredients, "missing tables fall back to defaults")
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, nil, 0o600))
	_, err = LoadFile(empty)
	assert.Error(t, err)

	badPrep := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(badPrep, []byte(`{"prep_options":[{"value":"POZIONE"}]}`), 0o600))
	_, err = LoadFile(badPrep)
	assert.ErrorIs(t, err, entity.ErrInvalidParameter)
}
