package llm

import (
	"strings"
)

// BuildSystemPrompt composes the system message for scan extraction with
// field coverage instructions and strict-but-practical formatting rules.
func BuildSystemPrompt(req ExtractRequest) string {
	parts := []string{
		"You are analyzing a photo of a printed InBody body composition scan result. Return ONLY JSON that matches the provided JSON Schema.",
		"Extract all the numerical data you can see: basic info (scan date, height, weight, age, gender), " +
			"body composition (muscle mass, body fat mass, body fat percentage), " +
			"total body water and fat free mass, " +
			"health metrics (BMI, BMR, visceral fat level), " +
			"PBF and WHR if present, " +
			"scores, control recommendations (muscle control, fat control), " +
			"and segmental lean and fat mass for both arms, the trunk, and both legs.",
		"Printouts might be in different languages (English, Polish, etc.); read the numeric values regardless of the label language.",
		"Some fields are not present on all InBody models. If a value is not visible, use null. Never guess and never use 0 for a missing value.",
		"Report values in the units printed on the scan and set 'measurement_system' to 'imperial' when the printout uses pounds and inches, otherwise 'metric'.",
		"Some models print an 'InBody Score', others a 'Fitness Score'. Fill the matching field and leave the other null.",
		"For dates, convert to ISO format (YYYY-MM-DD HH:MM:SS). If the time is not printed, use 00:00:00.",
		"Gender must be lowercase 'male' or 'female' when printed, otherwise null.",
	}

	if hint := strings.TrimSpace(req.LocaleHint); hint != "" {
		parts = append(parts, "Labels on this printout are expected to be in "+hint+".")
	}
	return strings.Join(parts, " ")
}

// BuildUserPrompt packages the filename hint alongside the attached image.
func BuildUserPrompt(req ExtractRequest) string {
	var b strings.Builder
	if filename := strings.TrimSpace(req.Filename); filename != "" {
		b.WriteString("Filename: ")
		b.WriteString(filename)
		b.WriteString("\n")
	}
	b.WriteString("\nNote: A photo of the scan result sheet is attached. Extract the fields from the image.\n")
	return b.String()
}
