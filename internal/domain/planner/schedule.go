package planner

// DayNames orders the week Monday first, matching how plans are presented.
var DayNames = [7]string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// MaxSnacksPerDay bounds the snack slots filled per day.
const MaxSnacksPerDay = 2

// DayTotals aggregates nutrition over all filled slots of one day.
type DayTotals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
}

// DayPlan holds the meals assigned to one day. Primary slots may be nil and
// Snacks may be short when the candidate pool ran out; an unfilled slot is a
// documented degradation, not an error.
type DayPlan struct {
	Day       string      `json:"day"`
	Breakfast *Candidate  `json:"breakfast,omitempty"`
	Lunch     *Candidate  `json:"lunch,omitempty"`
	Dinner    *Candidate  `json:"dinner,omitempty"`
	Snacks    []Candidate `json:"snacks,omitempty"`
	Totals    DayTotals   `json:"totals"`
}

// Meals returns all filled slots of the day in slot order.
func (d DayPlan) Meals() []Candidate {
	out := make([]Candidate, 0, 3+len(d.Snacks))
	for _, m := range []*Candidate{d.Breakfast, d.Lunch, d.Dinner} {
		if m != nil {
			out = append(out, *m)
		}
	}
	return append(out, d.Snacks...)
}

// WeeklySchedule is a seven-day plan. A recipe id appears at most once across
// the whole week whenever the candidate pool is large enough; with a smaller
// pool slots are simply left empty rather than reused within the same request.
type WeeklySchedule struct {
	Days             [7]DayPlan `json:"days"`
	AdjustedCalories int        `json:"adjusted_calories"`
	PoolSize         int        `json:"pool_size"`
	Provenance       Provenance `json:"provenance,omitempty"`
}
