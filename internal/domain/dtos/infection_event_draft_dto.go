package dtos

// InfectionEventDraft is the infection half of the patient-with-infection
// request. PatientID is assigned by the coordinator only after the patient
// write has committed, never by the caller.
type InfectionEventDraft struct {
	EventDate     string `json:"eventDate" validate:"required"` // must not be in the future
	PathogenAgent string `json:"pathogenAgent,omitempty"`
	Description   string `json:"description,omitempty"`
}
