package repositories

import (
	"context"
	"time"

	"infection-registry-service/internal/domain/entities"

	"github.com/google/uuid"
)

type PatientRepositoryContract interface {
	Create(ctx context.Context, patient *entities.Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Patient, error)
	// SetInfectionDate reconciles the patient row after an infection event
	// has been persisted for it.
	SetInfectionDate(ctx context.Context, id uuid.UUID, infectionDate time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListAll(ctx context.Context) ([]*entities.Patient, error)
}
