package planner

// GoalRule supplies the calorie multiplier and macro ratios for one goal.
// Zero-valued ratios mean "not specified" and fall back to the engine's
// defaults (0.20 protein, 0.45 carbs).
type GoalRule struct {
	CalorieMultiplier float64 `mapstructure:"calorie_multiplier" json:"calorie_multiplier"`
	ProteinRatio      float64 `mapstructure:"protein_ratio" json:"protein_ratio,omitempty"`
	CarbLimitRatio    float64 `mapstructure:"carb_limit_ratio" json:"carb_limit_ratio,omitempty"`
}

// DiseaseRule is the set of constraints one disease overlays onto the merged
// constraint map.
type DiseaseRule Constraints

// RuleSet is the nutrition knowledge base: versionable configuration, not
// code. It is loaded once at startup and injected into the inference engine
// so tests can substitute their own tables.
type RuleSet struct {
	Version  string                 `mapstructure:"version" json:"version"`
	Goals    map[Goal]GoalRule      `mapstructure:"goals" json:"goals"`
	Diseases map[string]DiseaseRule `mapstructure:"diseases" json:"diseases"`
}

// GoalRuleFor returns the rule for a goal, falling back to the general rule
// for unknown goals.
func (rs RuleSet) GoalRuleFor(goal Goal) GoalRule {
	if rule, ok := rs.Goals[goal]; ok {
		return rule
	}
	return rs.Goals[GoalGeneral]
}

// MergeConstraints overlays the rules for each disease, in list order, onto a
// single constraint map. Last applied wins on conflicting keys.
func (rs RuleSet) MergeConstraints(diseases []string) Constraints {
	merged := Constraints{}
	for _, d := range diseases {
		for key, value := range rs.Diseases[d] {
			merged[key] = value
		}
	}
	return merged
}
