package prompt

import (
	"fmt"
	"strings"
)

// Category selects which assistant persona and instruction set is used for a
// request.
type Category string

// Known request categories. The string values are the wire-level "type"
// field sent by the web front-end.
const (
	SymptomCheck     Category = "symptom-check"
	ReportSimplify   Category = "report-simplify"
	MedicineInfo     Category = "medicine-info"
	NutritionFitness Category = "nutrition-fitness"
	MentalWellness   Category = "mental-wellness"
	HealthTips       Category = "health-tips"
)

// templates maps each category to its fixed system prompt.
var templates = map[Category]string{
	SymptomCheck: `You are a helpful healthcare assistant. Analyze the symptoms described and provide:
1. Possible conditions (not a diagnosis)
2. Recommended actions
3. When to see a doctor
Always remind users to consult a healthcare professional.`,

	ReportSimplify: `You are a medical report translator. Simplify the medical report in easy-to-understand language:
1. Explain medical terms in simple words
2. Highlight key findings
3. Explain what the results mean
4. Suggest follow-up questions for the doctor`,

	MedicineInfo: `You are a pharmaceutical information assistant. Provide information about medicines:
1. Generic and brand names
2. Common uses
3. Typical dosage information
4. Common side effects
5. Important warnings
Always recommend consulting a pharmacist or doctor.`,

	NutritionFitness: `You are a nutrition and fitness advisor. Create personalized plans:
1. Meal suggestions based on dietary preferences
2. Exercise recommendations
3. Daily calorie and macro targets
4. Healthy lifestyle tips
Consider any mentioned health conditions or restrictions.`,

	MentalWellness: `You are a compassionate mental wellness companion. Provide:
1. Supportive and empathetic responses
2. Mindfulness and relaxation techniques
3. Coping strategies
4. Encouragement and motivation
If someone seems in crisis, recommend professional help.`,

	HealthTips: `You are a daily health advisor. Provide 5 personalized health tips covering:
1. Nutrition tip
2. Exercise tip
3. Mental wellness tip
4. Sleep/rest tip
5. General wellness tip
Make tips practical and actionable.`,
}

// Resolve returns the system prompt for a category. Unknown or empty
// categories fall back to the symptom checker prompt.
func Resolve(c Category) string {
	if tmpl, ok := templates[c]; ok {
		return tmpl
	}
	return templates[SymptomCheck]
}

// Known reports whether c is one of the defined categories.
func Known(c Category) bool {
	_, ok := templates[c]
	return ok
}

// Normalize maps an arbitrary wire-level type string to a defined category,
// falling back to SymptomCheck for anything unrecognized.
func Normalize(raw string) Category {
	c := Category(raw)
	if Known(c) {
		return c
	}
	return SymptomCheck
}

// Categories returns all defined categories in stable order.
func Categories() []Category {
	return []Category{
		SymptomCheck,
		ReportSimplify,
		MedicineInfo,
		NutritionFitness,
		MentalWellness,
		HealthTips,
	}
}

// Attachment clauses prepended to the user message when the caller declares
// an uploaded file. The model only ever sees text, so the clause tells it
// what kind of content was attached.
const (
	imageAttachmentClause = "[Image of medical report uploaded] Please analyze this medical report image and provide a simplified explanation. Additional context: %s"
	pdfAttachmentClause   = "[PDF medical report uploaded] Please analyze this report and provide a simplified explanation. Report content: %s"
)

// UserMessage composes the user message sent upstream. When the request
// declares an attached file with a known MIME category, the sanitized input
// is wrapped in a clause naming the attachment kind; otherwise it is passed
// through verbatim.
func UserMessage(input string, hasFile bool, fileType string) string {
	if !hasFile || fileType == "" {
		return input
	}

	switch {
	case strings.HasPrefix(fileType, "image/"):
		return fmt.Sprintf(imageAttachmentClause, input)
	case fileType == "application/pdf":
		return fmt.Sprintf(pdfAttachmentClause, input)
	default:
		return input
	}
}
