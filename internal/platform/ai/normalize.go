package ai

import (
	"encoding/json"
	"strings"
)

// rawAnalysis accepts the several shapes models actually return: the
// requested field names plus the legacy aliases (severity_level for
// urgency_level, a single recommendation string).
type rawAnalysis struct {
	AnalysisText       string          `json:"analysis_text"`
	DetectedSymptoms   []Symptom       `json:"detected_symptoms"`
	PossibleConditions []string        `json:"possible_conditions"`
	UrgencyLevel       string          `json:"urgency_level"`
	SeverityLevel      string          `json:"severity_level"`
	Recommendations    []string        `json:"recommendations"`
	Recommendation     json.RawMessage `json:"recommendation"`
	Disclaimer         string          `json:"disclaimer"`
}

var urgentKeywords = []string{"emergency", "urgent", "immediate", "severe"}
var mildKeywords = []string{"mild", "minor", "slight"}

var symptomKeywords = []string{
	"rash", "swelling", "redness", "pain", "inflammation",
	"lesion", "bruise", "cut", "burn", "infection",
}

var conditionKeywords = []string{
	"dermatitis", "eczema", "psoriasis", "acne", "infection",
	"allergy", "injury", "wound",
}

var defaultRecommendations = []string{
	"Consult a healthcare professional for proper diagnosis",
	"Monitor the condition for any changes",
	"Keep the affected area clean and dry",
}

// Normalize turns a free-form model response into the fixed Analysis shape.
// It first tries to decode the text as JSON (tolerating markdown code
// fences); when that fails it falls back to keyword heuristics over the raw
// text. Every field ends up populated.
func Normalize(responseText string) Analysis {
	if a, ok := normalizeJSON(responseText); ok {
		return a
	}
	return normalizeHeuristic(responseText)
}

func normalizeJSON(text string) (Analysis, bool) {
	cleaned := stripFences(text)
	var raw rawAnalysis
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return Analysis{}, false
	}

	a := Analysis{
		Success:            true,
		AnalysisText:       raw.AnalysisText,
		DetectedSymptoms:   raw.DetectedSymptoms,
		PossibleConditions: raw.PossibleConditions,
		UrgencyLevel:       raw.UrgencyLevel,
		Recommendations:    raw.Recommendations,
		Disclaimer:         raw.Disclaimer,
	}

	if a.AnalysisText == "" {
		a.AnalysisText = "Image analysis completed"
	}
	if a.DetectedSymptoms == nil {
		a.DetectedSymptoms = []Symptom{}
	}
	if len(a.PossibleConditions) == 0 {
		a.PossibleConditions = []string{"Further medical evaluation needed"}
	}
	if a.UrgencyLevel == "" {
		a.UrgencyLevel = raw.SeverityLevel
	}
	if a.UrgencyLevel == "" {
		a.UrgencyLevel = "medium"
	}
	if len(a.Recommendations) == 0 {
		if rec := decodeSingleRecommendation(raw.Recommendation); rec != "" {
			a.Recommendations = []string{rec}
		} else {
			a.Recommendations = []string{"Please consult a healthcare professional for proper diagnosis"}
		}
	}
	if a.Disclaimer == "" {
		a.Disclaimer = DefaultDisclaimer
	}
	return a, true
}

// normalizeHeuristic derives a structured result from plain prose by keyword
// matching. Inherently lossy; used only when the model ignored the JSON
// instruction.
func normalizeHeuristic(text string) Analysis {
	lower := strings.ToLower(text)

	urgency := "medium"
	if containsAny(lower, urgentKeywords) {
		urgency = "high"
	} else if containsAny(lower, mildKeywords) {
		urgency = "low"
	}

	symptoms := []Symptom{}
	for _, kw := range symptomKeywords {
		if strings.Contains(lower, kw) {
			symptoms = append(symptoms, Symptom{
				SymptomName: capitalize(kw),
				Severity:    "moderate",
				Confidence:  0.7,
				Description: "Detected " + kw + " in image",
			})
		}
	}

	conditions := []string{}
	for _, kw := range conditionKeywords {
		if strings.Contains(lower, kw) {
			conditions = append(conditions, capitalize(kw))
		}
	}
	if len(conditions) == 0 {
		conditions = []string{"Requires professional evaluation"}
	}

	return Analysis{
		Success:            true,
		AnalysisText:       text,
		DetectedSymptoms:   symptoms,
		PossibleConditions: conditions,
		UrgencyLevel:       urgency,
		Recommendations:    defaultRecommendations,
		Disclaimer:         DefaultDisclaimer,
	}
}

// stripFences removes a surrounding markdown code block, with or without a
// language tag.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = s[len("```json"):]
	} else if strings.HasPrefix(s, "```") {
		s = s[len("```"):]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func decodeSingleRecommendation(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return ""
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
