// Package ai wraps the external generative-model services used for triage:
// OpenRouter for free-text symptom analysis and Gemini for image analysis.
// Model output is free-form; Normalize turns it into a fixed result shape on
// a best-effort basis.
package ai

// DefaultDisclaimer is attached to every analysis result.
const DefaultDisclaimer = "This is not a medical diagnosis. Please consult a healthcare professional."

// Symptom is a single finding extracted from a model response.
type Symptom struct {
	SymptomName string  `json:"symptom_name"`
	Severity    string  `json:"severity"`
	Confidence  float64 `json:"confidence,omitempty"`
	Description string  `json:"description,omitempty"`
}

// Analysis is the fixed result shape returned by the image-analysis
// endpoints regardless of what the model produced.
type Analysis struct {
	Success            bool      `json:"success"`
	AnalysisText       string    `json:"analysis_text"`
	DetectedSymptoms   []Symptom `json:"detected_symptoms"`
	PossibleConditions []string  `json:"possible_conditions"`
	UrgencyLevel       string    `json:"urgency_level"`
	Recommendations    []string  `json:"recommendations"`
	Disclaimer         string    `json:"disclaimer"`
}
