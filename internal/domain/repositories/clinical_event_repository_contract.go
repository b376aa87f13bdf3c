package repositories

import (
	"context"

	"infection-registry-service/internal/domain/entities"

	"github.com/google/uuid"
)

type ClinicalEventRepositoryContract interface {
	// Create persists the event and fills in its assigned id. It rejects
	// events whose PatientID is unset.
	Create(ctx context.Context, event *entities.ClinicalEvent) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.ClinicalEvent, error)
	FindByPatientID(ctx context.Context, patientID uuid.UUID) ([]*entities.ClinicalEvent, error)
}
