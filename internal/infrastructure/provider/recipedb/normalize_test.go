package recipedb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeFieldAliases(t *testing.T) {
	entry := map[string]any{
		"recipe_id":   "abc",
		"recipe_name": "Lentil Curry",
		"image_url":   "https://img.example.com/lentil.jpg",
		"diet_labels": []any{"vegan", "gluten free"},
		"nutrients": map[string]any{
			"energy": 450.0,
			"PROCNT": 18.0,
		},
	}

	c, ok := Normalize(entry)
	require.True(t, ok)
	assert.Equal(t, "abc", c.ID)
	assert.Equal(t, "Lentil Curry", c.Title)
	assert.Equal(t, "https://img.example.com/lentil.jpg", c.Image)
	assert.Equal(t, []string{"vegan", "gluten free"}, c.Tags)
	assert.Equal(t, 450.0, c.Nutrition.Calories)
	assert.Equal(t, 18.0, c.Nutrition.Protein)
}

func TestNormalizePrefersEarlierAliases(t *testing.T) {
	entry := map[string]any{
		"id":       "primary",
		"_id":      "secondary",
		"title":    "Primary Title",
		"name":     "Secondary Name",
		"calories": 100.0,
		"nutrition": map[string]any{
			"calories": 200.0,
		},
	}

	c, ok := Normalize(entry)
	require.True(t, ok)
	assert.Equal(t, "primary", c.ID)
	assert.Equal(t, "Primary Title", c.Title)
	// Top-level sources win over nested containers.
	assert.Equal(t, 100.0, c.Nutrition.Calories)
}

func TestNormalizeIngredientObjects(t *testing.T) {
	entry := map[string]any{
		"id":    "r1",
		"title": "Pasta",
		"extendedIngredients": []any{
			map[string]any{"name": "penne"},
			map[string]any{"original": "2 cups tomato sauce"},
			"basil",
		},
	}

	c, ok := Normalize(entry)
	require.True(t, ok)
	assert.Equal(t, []string{"penne", "2 cups tomato sauce", "basil"}, c.Ingredients)
}

func TestNormalizeNumericCoercions(t *testing.T) {
	entry := map[string]any{
		"id":    "r1",
		"title": "Bowl",
		"nutrition": map[string]any{
			"calories": "320 kcal",
			"protein":  map[string]any{"amount": 22.0, "unit": "g"},
			"sodium":   float64(410),
			"sugar":    "not a number",
		},
	}

	c, ok := Normalize(entry)
	require.True(t, ok)
	assert.Equal(t, 320.0, c.Nutrition.Calories)
	assert.Equal(t, 22.0, c.Nutrition.Protein)
	assert.Equal(t, 410.0, c.Nutrition.Sodium)
	assert.Zero(t, c.Nutrition.Sugar)
}

func TestNormalizeNumericID(t *testing.T) {
	c, ok := Normalize(map[string]any{"id": 12345.0, "title": "Numeric"})
	require.True(t, ok)
	assert.Equal(t, "12345", c.ID)
}

func TestNormalizeSlugFallback(t *testing.T) {
	c, ok := Normalize(map[string]any{"title": "Grilled Chicken & Rice!"})
	require.True(t, ok)
	assert.Equal(t, "grilled-chicken-rice", c.ID)

	// Same title always yields the same id.
	again, ok := Normalize(map[string]any{"title": "Grilled Chicken & Rice!"})
	require.True(t, ok)
	assert.Equal(t, c.ID, again.ID)
}

func TestNormalizeRejectsEmptyEntry(t *testing.T) {
	_, ok := Normalize(map[string]any{"calories": 200.0})
	assert.False(t, ok)

	_, ok = Normalize(nil)
	assert.False(t, ok)
}

func TestNormalizeLowerCasesTagsAndAllergens(t *testing.T) {
	entry := map[string]any{
		"id":        "r1",
		"title":     "Peanut Stir Fry",
		"tags":      []any{" Vegan ", "High-Protein"},
		"allergens": []any{"Peanuts", " Soy"},
	}

	c, ok := Normalize(entry)
	require.True(t, ok)
	assert.Equal(t, []string{"vegan", "high-protein"}, c.Tags)
	assert.Equal(t, []string{"peanuts", "soy"}, c.Allergens)
}
