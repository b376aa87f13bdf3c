package entities

import (
	"time"

	"github.com/google/uuid"
)

// Patient represents an admitted patient.
// InfectionDate is reconciled from the infection event after the event is
// persisted; the repository row is the source of truth for it.
type Patient struct {
	ID            uuid.UUID  `json:"id" db:"id" gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	Nome          string     `json:"nome" db:"nome" gorm:"not null"`
	Cognome       string     `json:"cognome" db:"cognome" gorm:"not null"`
	BirthDate     time.Time  `json:"birthDate" db:"birth_date" gorm:"not null"`
	AdmissionDate time.Time  `json:"admissionDate" db:"admission_date" gorm:"not null"`
	Diagnosis     string     `json:"diagnosis" db:"diagnosis" gorm:"not null"`
	Department    string     `json:"department" db:"department" gorm:"not null"`
	Infected      bool       `json:"infected" db:"infected" gorm:"not null;default:false"`
	InfectionDate *time.Time `json:"infectionDate" db:"infection_date"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at" gorm:"not null"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at" gorm:"not null"`
}
