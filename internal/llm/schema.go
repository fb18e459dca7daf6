package llm

// BuildScanJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a generic map.
// We pass this to OpenAI as a structured output constraint and also use it locally to validate.
// scan_date, height and weight must always be present as keys, but any value may be
// null: a model that cannot read a field reports null, never a guess.
func BuildScanJSONSchema() map[string]any {
	segProps := map[string]any{}
	for _, key := range []string{
		"arm_left_lean", "arm_right_lean", "trunk_lean", "leg_left_lean", "leg_right_lean",
		"arm_left_fat", "arm_right_fat", "trunk_fat", "leg_left_fat", "leg_right_fat",
	} {
		segProps[key] = nullableNumberProp()
	}

	props := map[string]any{
		"scan_date": map[string]any{
			"type":        []string{"string", "null"},
			"description": "Scan date and time in ISO format (YYYY-MM-DD HH:MM:SS)",
		},
		"height":              nullableNumberProp(),
		"weight":              nullableNumberProp(),
		"age":                 nullableNumberProp(),
		"gender":              map[string]any{"type": []string{"string", "null"}, "enum": []any{"male", "female", nil}},
		"muscle_mass":         nullableNumberProp(),
		"body_fat_mass":       nullableNumberProp(),
		"body_fat_percentage": nullableNumberProp(),
		"total_body_water":    nullableNumberProp(),
		"fat_free_mass":       nullableNumberProp(),
		"bmi":                 nullableNumberProp(),
		"bmr":                 nullableNumberProp(),
		"visceral_fat_level":  nullableNumberProp(),
		"pbf":                 nullableNumberProp(),
		"whr":                 nullableNumberProp(),
		"inbody_score":        nullableNumberProp(),
		"fitness_score":       nullableNumberProp(),
		"muscle_control":      nullableNumberProp(),
		"fat_control":         nullableNumberProp(),
		"measurement_system":  map[string]any{"type": []string{"string", "null"}, "enum": []any{"metric", "imperial", nil}},
		"segmental": map[string]any{
			"type":                 []string{"object", "null"},
			"additionalProperties": false,
			"properties":           segProps,
		},
	}
	required := []string{"scan_date", "height", "weight"}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
		"required":             required,
	}
}

func nullableNumberProp() map[string]any {
	return map[string]any{
		"type": []string{"number", "null"},
	}
}
