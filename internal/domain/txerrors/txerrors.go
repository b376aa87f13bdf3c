// Package txerrors defines the error taxonomy of the patient-with-infection
// saga. Pre-flight errors (input, missing field, date) are never wrapped and
// always block any write; the two creation errors wrap the repository failure
// with a fixed step-identifying prefix so logs and user messages are
// unambiguous about which half of the saga failed.
package txerrors

import (
	"fmt"

	"github.com/google/uuid"
)

// InvalidInputError reports an absent request half.
type InvalidInputError struct {
	Message string
}

func (e *InvalidInputError) Error() string { return e.Message }

// MissingFieldError reports the first required patient field that is missing
// or blank. Field ordering is part of the validation contract.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return "Campo paziente obbligatorio mancante: " + e.Field
}

// InvalidDateError reports an unparseable infection event date.
type InvalidDateError struct{}

func (e *InvalidDateError) Error() string { return "Data evento infezione non valida" }

// FutureDateError reports an infection event date strictly after now.
type FutureDateError struct{}

func (e *FutureDateError) Error() string {
	return "La data dell'evento di infezione non può essere nel futuro"
}

// PatientCreationError wraps a patient-write failure. Nothing was persisted,
// so no compensation is required.
type PatientCreationError struct {
	Err error
}

func (e *PatientCreationError) Error() string {
	return "Fallimento creazione paziente: " + e.Err.Error()
}

func (e *PatientCreationError) Unwrap() error { return e.Err }

// InfectionEventCreationError wraps an event-write failure after the patient
// was persisted. It carries the ids the operator needs to choose between
// retry and rollback.
type InfectionEventCreationError struct {
	TransactionID string
	PatientID     uuid.UUID
	Err           error
}

func (e *InfectionEventCreationError) Error() string {
	return "Fallimento creazione evento infezione: " + e.Err.Error()
}

func (e *InfectionEventCreationError) Unwrap() error { return e.Err }

// RollbackError wraps a failed compensating delete. The caller must surface
// this as a state requiring manual intervention.
type RollbackError struct {
	Err error
}

func (e *RollbackError) Error() string { return "Rollback fallito: " + e.Err.Error() }

func (e *RollbackError) Unwrap() error { return e.Err }

// DuplicateTransactionError guards the ledger against reuse of a transaction
// id. Ids are generator-unique in practice; this is a defensive invariant.
type DuplicateTransactionError struct {
	ID string
}

func (e *DuplicateTransactionError) Error() string {
	return fmt.Sprintf("transazione duplicata: %s", e.ID)
}
