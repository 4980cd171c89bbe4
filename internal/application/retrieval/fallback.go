package retrieval

import (
	"github.com/platewise/v1/internal/domain/planner"
)

// FallbackCandidates returns the built-in candidate set served when the
// provider fails entirely. The entries are broadly diet-compatible and carry
// full nutrition so every downstream stage behaves normally.
func FallbackCandidates() []planner.Candidate {
	return []planner.Candidate{
		{
			ID:          "fallback-oatmeal-berries",
			Title:       "Oatmeal with Mixed Berries",
			Ingredients: []string{"rolled oats", "blueberries", "strawberries", "honey", "cinnamon"},
			Nutrition: planner.Nutrition{
				Calories: 320, Protein: 11, Fat: 6, Carbs: 58, Sugar: 14, Sodium: 105,
			},
			Tags: []string{"vegetarian", "breakfast", "high-fiber"},
		},
		{
			ID:          "fallback-grilled-chicken-salad",
			Title:       "Grilled Chicken Salad",
			Ingredients: []string{"chicken breast", "romaine lettuce", "cherry tomatoes", "cucumber", "olive oil", "lemon juice"},
			Nutrition: planner.Nutrition{
				Calories: 410, Protein: 38, Fat: 22, Carbs: 14, Sugar: 6, Sodium: 380,
			},
			Tags: []string{"high-protein", "gluten free", "lunch"},
		},
		{
			ID:          "fallback-lentil-soup",
			Title:       "Hearty Lentil Soup",
			Ingredients: []string{"red lentils", "carrot", "onion", "celery", "vegetable broth", "cumin"},
			Nutrition: planner.Nutrition{
				Calories: 360, Protein: 18, Fat: 5, Carbs: 60, Sugar: 8, Sodium: 420,
			},
			Tags: []string{"vegan", "vegetarian", "dinner", "high-fiber"},
		},
		{
			ID:          "fallback-yogurt-parfait",
			Title:       "Greek Yogurt Parfait",
			Ingredients: []string{"greek yogurt", "granola", "banana", "almonds"},
			Nutrition: planner.Nutrition{
				Calories: 280, Protein: 20, Fat: 9, Carbs: 32, Sugar: 18, Sodium: 85,
			},
			Tags:      []string{"vegetarian", "snack", "high-protein"},
			Allergens: []string{"nuts", "dairy"},
		},
	}
}
