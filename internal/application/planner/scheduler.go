package planner

import (
	"math"

	"github.com/platewise/v1/internal/domain/planner"
)

// BuildSchedule allocates candidates to a seven-day schedule, greedily
// assigning the best-scoring unused candidate to each slot in fixed order
// (breakfast, lunch, dinner, then up to two snacks). A recipe id is used at
// most once across the week; when the pool runs out a slot is left empty.
// Each slot is maximized independently; the week as a whole is not.
func BuildSchedule(facts planner.Fact, targets planner.Target, pool []planner.Candidate) planner.WeeklySchedule {
	schedule := planner.WeeklySchedule{
		AdjustedCalories: targets.AdjustedCalories,
		PoolSize:         len(pool),
	}

	perMealProtein := math.Max(1, math.Round(float64(targets.ProteinGrams)*0.25))
	used := make(map[string]bool, len(pool))

	for day := 0; day < 7; day++ {
		plan := planner.DayPlan{Day: planner.DayNames[day]}

		for _, slot := range planner.PrimarySlots {
			pick := bestUnused(pool, used, float64(targets.SlotCalories(slot)), perMealProtein, facts)
			if pick == nil {
				continue
			}
			used[pick.ID] = true
			switch slot {
			case planner.SlotBreakfast:
				plan.Breakfast = pick
			case planner.SlotLunch:
				plan.Lunch = pick
			case planner.SlotDinner:
				plan.Dinner = pick
			}
		}

		snackTarget := float64(targets.SlotCalories(planner.SlotSnacks))
		for i := 0; i < planner.MaxSnacksPerDay; i++ {
			pick := bestUnused(pool, used, snackTarget, perMealProtein, facts)
			if pick == nil {
				break
			}
			used[pick.ID] = true
			plan.Snacks = append(plan.Snacks, *pick)
		}

		plan.Totals = dayTotals(plan)
		schedule.Days[day] = plan
	}

	return schedule
}

// bestUnused returns a copy of the highest-scoring candidate whose id has not
// been assigned yet, or nil when none remain. Ties keep the earliest pool
// position, matching the scoring engine's stable ordering.
func bestUnused(pool []planner.Candidate, used map[string]bool, targetCalories, targetProtein float64, facts planner.Fact) *planner.Candidate {
	var best *planner.Candidate
	bestScore := -1.0
	for i := range pool {
		if used[pool[i].ID] {
			continue
		}
		score, _ := scoreForSlot(pool[i], targetCalories, targetProtein, facts)
		if score > bestScore {
			c := pool[i]
			best = &c
			bestScore = score
		}
	}
	return best
}

func dayTotals(plan planner.DayPlan) planner.DayTotals {
	var totals planner.DayTotals
	for _, meal := range plan.Meals() {
		totals.Calories += meal.Nutrition.Calories
		totals.Protein += meal.Nutrition.Protein
		totals.Carbs += meal.Nutrition.Carbs
		totals.Fats += meal.Nutrition.Fat
	}
	return totals
}
