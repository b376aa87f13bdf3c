package services

import (
	"context"

	"infection-registry-service/internal/domain/dtos"
	"infection-registry-service/internal/domain/entities"

	"github.com/google/uuid"
)

// TransactionServiceContract defines the patient-with-infection saga
// operations. Creating the patient and its infection event must look atomic
// to the caller even though the store offers no cross-entity transaction;
// partial failures are surfaced to a human operator together with the ids
// needed to retry or roll back.
type TransactionServiceContract interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error

	// ExecutePatientWithInfection runs the two-step saga: patient first,
	// infection event second. On event failure the patient is deliberately
	// left in place and the returned error carries the transaction and
	// patient ids for the recovery entry points below.
	ExecutePatientWithInfection(ctx context.Context, patient *dtos.PatientDraft, infection *dtos.InfectionEventDraft) (*dtos.TransactionResult, error)

	// RollbackPatientCreation compensates a partial failure by deleting the
	// orphaned patient.
	RollbackPatientCreation(ctx context.Context, patientID uuid.UUID) error

	// RetryInfectionCreation re-attempts the event half against the already
	// persisted patient.
	RetryInfectionCreation(ctx context.Context, transactionID string, patientID uuid.UUID, infection *dtos.InfectionEventDraft) (*entities.ClinicalEvent, error)
}
