package planner

// MealSlot is a meal category within a day.
type MealSlot string

const (
	SlotBreakfast MealSlot = "breakfast"
	SlotLunch     MealSlot = "lunch"
	SlotDinner    MealSlot = "dinner"
	SlotSnacks    MealSlot = "snacks"
)

// PrimarySlots lists the main meal slots in the fixed order the scheduler
// fills them.
var PrimarySlots = []MealSlot{SlotBreakfast, SlotLunch, SlotDinner}

// ConstraintKey identifies a disease-derived nutrition constraint.
type ConstraintKey string

const (
	ConstraintCarbRatioMax       ConstraintKey = "carb_ratio_max"
	ConstraintSugarMaxPerMeal    ConstraintKey = "sugar_max_per_meal"
	ConstraintFatRatioMax        ConstraintKey = "fat_ratio_max"
	ConstraintSatFatMaxPerMeal   ConstraintKey = "saturated_fat_max_per_meal"
)

// Constraints is the merged disease-constraint map. Merging is
// last-applied-wins over the user's disease list; when two diseases set the
// same key the later one in the list takes effect. That ordering quirk is
// preserved deliberately rather than resolved to "most restrictive".
type Constraints map[ConstraintKey]float64

// Target holds the numeric nutrition targets derived from one Fact and the
// knowledge base. Never mutated after creation.
type Target struct {
	BMR              int
	TDEE             int
	AdjustedCalories int

	ProteinCalories int
	CarbsCalories   int
	FatsCalories    int
	ProteinGrams    int
	CarbsGrams      int
	FatsGrams       int

	// Distribution is the per-slot share of AdjustedCalories. The four
	// entries sum to 1.0.
	Distribution map[MealSlot]float64

	DiseaseConstraints Constraints
}

// SlotCalories returns the calorie target for a slot, rounded to the nearest
// whole calorie.
func (t Target) SlotCalories(slot MealSlot) int {
	ratio, ok := t.Distribution[slot]
	if !ok {
		return 0
	}
	return int(float64(t.AdjustedCalories)*ratio + 0.5)
}
