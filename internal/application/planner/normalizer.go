// Package planner provides the application layer of the recommendation
// pipeline: fact normalization, target inference, candidate filtering and
// scoring, and weekly plan scheduling.
package planner

import (
	"math"
	"strconv"
	"strings"

	"github.com/platewise/v1/internal/domain/planner"
)

// NormalizeFacts converts an arbitrary key/value payload into a canonical
// Fact record. It never fails: every missing or malformed field is replaced
// with its documented default, which is the contract downstream stages rely
// on to avoid re-validating facts.
func NormalizeFacts(payload map[string]any) planner.Fact {
	if payload == nil {
		payload = map[string]any{}
	}

	facts := planner.Fact{
		Age:           int(numberOr(payload["age"], planner.DefaultAge)),
		WeightKg:      numberOr(payload["weight"], planner.DefaultWeightKg),
		HeightCm:      numberOr(payload["height"], planner.DefaultHeightCm),
		Sex:           planner.SexMale,
		Goal:          planner.Goal(stringOr(payload["goal"], string(planner.GoalGeneral))),
		ActivityLevel: planner.ActivityLevel(stringOr(payload["activityLevel"], string(planner.ActivityModerate))),
		DietType:      stringOr(payload["dietType"], ""),
		Diseases:      stringList(payload["diseases"]),
		Allergies:     stringList(payload["allergies"]),
	}

	if stringOr(payload["sex"], "") == string(planner.SexFemale) {
		facts.Sex = planner.SexFemale
	}

	// Non-positive physical measurements are as unusable as missing ones.
	if facts.Age < 0 {
		facts.Age = planner.DefaultAge
	}
	if facts.WeightKg <= 0 {
		facts.WeightKg = planner.DefaultWeightKg
	}
	if facts.HeightCm <= 0 {
		facts.HeightCm = planner.DefaultHeightCm
	}

	return facts
}

// numberOr coerces v to a finite float64, falling back to def. Strings are
// parsed; anything non-finite (NaN, Inf) is rejected.
func numberOr(v any, def float64) float64 {
	var n float64
	switch value := v.(type) {
	case float64:
		n = value
	case float32:
		n = float64(value)
	case int:
		n = float64(value)
	case int64:
		n = float64(value)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return def
		}
		n = parsed
	default:
		return def
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return def
	}
	return n
}

// stringOr lower-cases and trims v, falling back to def when v is not a
// string or is empty.
func stringOr(v any, def string) string {
	s, ok := v.(string)
	if !ok {
		return def
	}
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return def
	}
	return s
}

// stringList coerces v to a lower-cased string slice. Non-list input yields
// an empty list; non-string elements are skipped.
func stringList(v any) []string {
	out := []string{}
	switch values := v.(type) {
	case []string:
		for _, s := range values {
			if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
				out = append(out, s)
			}
		}
	case []any:
		for _, item := range values {
			if s, ok := item.(string); ok {
				if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
					out = append(out, s)
				}
			}
		}
	}
	return out
}
