package profile

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Profile is the sparse per-user medical profile. Every attribute is
// optional; nil means the user never supplied it.
type Profile struct {
	ID                    uuid.UUID `json:"id"`
	Email                 *string   `json:"email,omitempty"`
	FullName              *string   `json:"full_name,omitempty"`
	PhoneNumber           *string   `json:"phone_number,omitempty"`
	DateOfBirth           *string   `json:"date_of_birth,omitempty"`
	Address               *string   `json:"address,omitempty"`
	City                  *string   `json:"city,omitempty"`
	ZipCode               *string   `json:"zip_code,omitempty"`
	BloodType             *string   `json:"blood_type,omitempty"`
	Height                *float64  `json:"height,omitempty"`
	Weight                *float64  `json:"weight,omitempty"`
	Allergies             *string   `json:"allergies,omitempty"`
	ChronicConditions     *string   `json:"chronic_conditions,omitempty"`
	CurrentMedications    *string   `json:"current_medications,omitempty"`
	EmergencyContactName  *string   `json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone *string   `json:"emergency_contact_phone,omitempty"`
	InsuranceProvider     *string   `json:"insurance_provider,omitempty"`
	InsuranceNumber       *string   `json:"insurance_number,omitempty"`
	MedicalHistory        any       `json:"medical_history,omitempty"`
	Latitude              *float64  `json:"latitude,omitempty"`
	Longitude             *float64  `json:"longitude,omitempty"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// decodeStructured parses JSON-encoded text back into the structured value
// the client originally sent, so writes round-trip losslessly. Text that is
// not well-formed JSON stays a plain string.
func (p *Profile) decodeStructured() {
	s, ok := p.MedicalHistory.(string)
	if !ok || s == "" {
		return
	}
	var v any
	if err := json.Unmarshal([]byte(s), &v); err == nil {
		p.MedicalHistory = v
	}
}

// allowedColumns is the upsert allow-list. Keys not present here are
// dropped from incoming payloads without error.
var allowedColumns = map[string]bool{
	"email":                   true,
	"full_name":               true,
	"phone_number":            true,
	"date_of_birth":           true,
	"address":                 true,
	"city":                    true,
	"zip_code":                true,
	"blood_type":              true,
	"height":                  true,
	"weight":                  true,
	"allergies":               true,
	"chronic_conditions":      true,
	"current_medications":     true,
	"emergency_contact_name":  true,
	"emergency_contact_phone": true,
	"insurance_provider":      true,
	"insurance_number":        true,
	"medical_history":         true,
	"latitude":                true,
	"longitude":               true,
}
