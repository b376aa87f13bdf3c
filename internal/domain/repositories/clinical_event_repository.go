package repositories

import (
	"context"
	"errors"
	"fmt"

	"infection-registry-service/internal/domain/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrEventNotFound       = errors.New("evento clinico non trovato")
	ErrEventWithoutPatient = errors.New("evento clinico senza paziente di riferimento")
)

// GormClinicalEventRepository implements ClinicalEventRepositoryContract on
// PostgreSQL.
type GormClinicalEventRepository struct {
	db *gorm.DB
}

var _ ClinicalEventRepositoryContract = (*GormClinicalEventRepository)(nil)

func NewGormClinicalEventRepository(db *gorm.DB) *GormClinicalEventRepository {
	return &GormClinicalEventRepository{db: db}
}

func (r *GormClinicalEventRepository) Create(ctx context.Context, event *entities.ClinicalEvent) error {
	if event.PatientID == uuid.Nil {
		return ErrEventWithoutPatient
	}
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *GormClinicalEventRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.ClinicalEvent, error) {
	var event entities.ClinicalEvent
	if err := r.db.WithContext(ctx).First(&event, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrEventNotFound, id)
		}
		return nil, err
	}
	return &event, nil
}

func (r *GormClinicalEventRepository) FindByPatientID(ctx context.Context, patientID uuid.UUID) ([]*entities.ClinicalEvent, error) {
	var events []*entities.ClinicalEvent
	if err := r.db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("event_date desc").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}
