package entities

import (
	"time"

	"github.com/google/uuid"
)

// EventTypeInfection is the event type written by the infection workflow.
const EventTypeInfection = "infection"

// ClinicalEvent represents a clinical event attached to a patient.
// An event row never exists without the patient row it references; the
// coordinator guarantees this by write ordering, not by a DB constraint.
type ClinicalEvent struct {
	ID            uuid.UUID  `json:"id" db:"id" gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	PatientID     uuid.UUID  `json:"patientId" db:"patient_id" gorm:"type:uuid;not null"`
	EventType     string     `json:"eventType" db:"event_type" gorm:"not null"`
	EventDate     time.Time  `json:"eventDate" db:"event_date" gorm:"not null"`
	PathogenAgent string     `json:"pathogenAgent,omitempty" db:"pathogen_agent"`
	Description   string     `json:"description,omitempty" db:"description"`
	EventEndDate  *time.Time `json:"eventEndDate" db:"event_end_date"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at" gorm:"not null"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at" gorm:"not null"`
}
