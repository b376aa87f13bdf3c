package dtos

// PatientDraft is the patient half of the patient-with-infection request.
// All six clinical fields are required; the coordinator forces Infected to
// true and leaves InfectionDate unset for this workflow.
type PatientDraft struct {
	Nome          string `json:"nome" validate:"required"`
	Cognome       string `json:"cognome" validate:"required"`
	BirthDate     string `json:"birthDate" validate:"required"` // ISO 8601 date YYYY-MM-DD
	AdmissionDate string `json:"admissionDate" validate:"required"`
	Diagnosis     string `json:"diagnosis" validate:"required"`
	Department    string `json:"department" validate:"required"`
}
