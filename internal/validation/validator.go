// Package validation holds the pre-flight checks for the patient-with-infection
// workflow. Validation is side-effect-free and always runs before any write.
package validation

import (
	"strings"
	"time"

	"infection-registry-service/internal/domain/dtos"
	"infection-registry-service/internal/domain/txerrors"

	"github.com/jinzhu/now"
)

// Validator checks combined saga input. Clock is overridable in tests.
type Validator struct {
	Now func() time.Time
}

func NewValidator() *Validator {
	return &Validator{Now: time.Now}
}

// Validate checks the combined (patient, infection) input.
// Required patient fields are checked in a fixed order and the first
// missing one is reported; callers rely on that ordering.
func (v *Validator) Validate(patient *dtos.PatientDraft, infection *dtos.InfectionEventDraft) error {
	if patient == nil {
		return &txerrors.InvalidInputError{Message: "Dati paziente non validi"}
	}
	if infection == nil {
		return &txerrors.InvalidInputError{Message: "Dati infezione non validi"}
	}

	required := []struct {
		name  string
		value string
	}{
		{"nome", patient.Nome},
		{"cognome", patient.Cognome},
		{"birthDate", patient.BirthDate},
		{"admissionDate", patient.AdmissionDate},
		{"diagnosis", patient.Diagnosis},
		{"department", patient.Department},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			return &txerrors.MissingFieldError{Field: field.name}
		}
	}

	return v.ValidateInfection(infection)
}

// ValidateInfection checks only the infection half; the retry path uses it
// directly because the patient already exists there.
func (v *Validator) ValidateInfection(infection *dtos.InfectionEventDraft) error {
	if infection == nil {
		return &txerrors.InvalidInputError{Message: "Dati infezione non validi"}
	}
	eventDate, err := ParseDate(infection.EventDate)
	if err != nil {
		return &txerrors.InvalidDateError{}
	}
	if eventDate.After(v.Now()) {
		return &txerrors.FutureDateError{}
	}
	return nil
}

// ParseDate accepts the date layouts the clients actually send
// ("2006-01-02", RFC3339 and friends).
func ParseDate(value string) (time.Time, error) {
	return now.Parse(strings.TrimSpace(value))
}
