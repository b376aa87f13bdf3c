package dtos

import (
	"infection-registry-service/internal/domain/entities"
)

// PatientWithInfectionRequest is the combined payload for the orchestrated
// create. The two halves are validated together before any write is attempted.
type PatientWithInfectionRequest struct {
	Patient   *PatientDraft        `json:"patient" validate:"required"`
	Infection *InfectionEventDraft `json:"infection" validate:"required"`
}

// TransactionResult is returned when the whole saga committed.
type TransactionResult struct {
	Success        bool                    `json:"success"`
	TransactionID  string                  `json:"transactionId"`
	Patient        *entities.Patient       `json:"patient"`
	InfectionEvent *entities.ClinicalEvent `json:"infectionEvent"`
}

// RecoveryInfo is attached to partial-failure responses so the caller can
// wire the retry / rollback actions to the right ids.
type RecoveryInfo struct {
	TransactionID string           `json:"transactionId"`
	PatientID     string           `json:"patientId"`
	Actions       []RecoveryAction `json:"actions"`
}

// RecoveryAction names one operator choice for a partially failed saga.
type RecoveryAction struct {
	Label  string `json:"label"`
	Action string `json:"action"`
}

// RetryInfectionRequest re-attempts the event half against an existing patient.
type RetryInfectionRequest struct {
	PatientID string               `json:"patientId" validate:"required"`
	Infection *InfectionEventDraft `json:"infection" validate:"required"`
}
