package recipedb

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/platewise/v1/internal/domain/planner"
)

// Field aliases tried in order when reading a provider entry. The API has
// shipped several shapes over time and per-source records differ.
var (
	idKeys    = []string{"id", "_id", "recipe_id", "recipeId", "uuid"}
	titleKeys = []string{"title", "name", "recipe_name", "label"}
	imageKeys = []string{"image", "image_url", "imageUrl", "thumbnail"}

	ingredientKeys = []string{"ingredients", "ingredient_list", "extendedIngredients"}
	tagKeys        = []string{"tags", "diet_labels", "dietLabels", "categories"}
	allergenKeys   = []string{"allergens", "allergen_info", "warnings"}

	nutritionContainers = []string{"nutrition", "nutrients", "nutritional_info", "nutritionFacts"}

	calorieKeys = []string{"calories", "energy", "Calories", "kcal", "ENERC_KCAL"}
	proteinKeys = []string{"protein", "proteins", "Protein", "protein_g", "PROCNT"}
	fatKeys     = []string{"fat", "total_fat", "Fat", "fat_g", "FAT"}
	carbKeys    = []string{"carbs", "carbohydrates", "Carbs", "carbs_g", "CHOCDF"}
	sugarKeys   = []string{"sugar", "sugars", "Sugar", "sugar_g", "SUGAR"}
	sodiumKeys  = []string{"sodium", "Sodium", "sodium_mg", "NA"}
)

// Normalize converts one raw provider entry into a candidate. It returns
// false when the entry has neither a title nor any identity to key on;
// missing nutrition fields default to zero rather than rejecting the entry.
func Normalize(entry map[string]any) (planner.Candidate, bool) {
	if entry == nil {
		return planner.Candidate{}, false
	}

	title := firstString(entry, titleKeys)
	id := firstString(entry, idKeys)
	if id == "" && title == "" {
		return planner.Candidate{}, false
	}
	if id == "" {
		id = slug(title)
	}

	candidate := planner.Candidate{
		ID:          id,
		Title:       title,
		Image:       firstString(entry, imageKeys),
		Ingredients: firstStringList(entry, ingredientKeys),
		Tags:        lowered(firstStringList(entry, tagKeys)),
		Allergens:   lowered(firstStringList(entry, allergenKeys)),
		Nutrition:   normalizeNutrition(entry),
	}
	return candidate, true
}

func normalizeNutrition(entry map[string]any) planner.Nutrition {
	// Nutrition may sit at the top level or nested one container deep.
	sources := []map[string]any{entry}
	for _, key := range nutritionContainers {
		if nested, ok := entry[key].(map[string]any); ok {
			sources = append(sources, nested)
		}
	}

	return planner.Nutrition{
		Calories: firstNumber(sources, calorieKeys),
		Protein:  firstNumber(sources, proteinKeys),
		Fat:      firstNumber(sources, fatKeys),
		Carbs:    firstNumber(sources, carbKeys),
		Sugar:    firstNumber(sources, sugarKeys),
		Sodium:   firstNumber(sources, sodiumKeys),
	}
}

func firstString(entry map[string]any, keys []string) string {
	for _, key := range keys {
		if raw, ok := entry[key]; ok {
			switch v := raw.(type) {
			case string:
				if trimmed := strings.TrimSpace(v); trimmed != "" {
					return trimmed
				}
			case float64:
				// Numeric ids arrive as JSON numbers.
				return strconv.FormatFloat(v, 'f', -1, 64)
			}
		}
	}
	return ""
}

func firstStringList(entry map[string]any, keys []string) []string {
	for _, key := range keys {
		raw, ok := entry[key]
		if !ok {
			continue
		}
		switch v := raw.(type) {
		case []string:
			return v
		case []any:
			out := make([]string, 0, len(v))
			for _, item := range v {
				switch it := item.(type) {
				case string:
					out = append(out, it)
				case map[string]any:
					// Ingredient objects carry the text under name.
					if name := firstString(it, []string{"name", "original", "text"}); name != "" {
						out = append(out, name)
					}
				}
			}
			if len(out) > 0 {
				return out
			}
		case string:
			if v != "" {
				return splitList(v)
			}
		}
	}
	return nil
}

// lowered lower-cases and trims list entries. Tag and allergen matching
// downstream assumes lower-cased sets.
func lowered(items []string) []string {
	if len(items) == 0 {
		return items
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if trimmed := strings.TrimSpace(strings.ToLower(item)); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func firstNumber(sources []map[string]any, keys []string) float64 {
	for _, source := range sources {
		for _, key := range keys {
			raw, ok := source[key]
			if !ok {
				continue
			}
			if value, ok := asNumber(raw); ok {
				return value
			}
		}
	}
	return 0
}

func asNumber(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return v, true
	case int:
		return float64(v), true
	case string:
		// Strings like "320 kcal" or "12g" get their unit stripped.
		trimmed := strings.TrimSpace(v)
		end := 0
		for end < len(trimmed) && (trimmed[end] == '.' || trimmed[end] == '-' || (trimmed[end] >= '0' && trimmed[end] <= '9')) {
			end++
		}
		if end == 0 {
			return 0, false
		}
		value, err := strconv.ParseFloat(trimmed[:end], 64)
		if err != nil {
			return 0, false
		}
		return value, true
	case map[string]any:
		// Shapes like {"amount": 320, "unit": "kcal"}.
		if amount, ok := v["amount"]; ok {
			return asNumber(amount)
		}
		if quantity, ok := v["quantity"]; ok {
			return asNumber(quantity)
		}
	}
	return 0, false
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// slug derives a deterministic id from a title so entries without ids stay
// stable across fetches.
func slug(title string) string {
	raw := make([]byte, 0, len(title))
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			raw = append(raw, byte(r))
		default:
			if n := len(raw); n > 0 && raw[n-1] != '-' {
				raw = append(raw, '-')
			}
		}
	}
	out := strings.Trim(string(raw), "-")
	if out == "" {
		return fmt.Sprintf("recipe-%d", len(title))
	}
	return out
}
