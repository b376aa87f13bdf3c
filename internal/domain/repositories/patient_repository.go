package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"infection-registry-service/internal/domain/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrPatientNotFound = errors.New("paziente non trovato")

// GormPatientRepository implements PatientRepositoryContract on PostgreSQL.
type GormPatientRepository struct {
	db *gorm.DB
}

var _ PatientRepositoryContract = (*GormPatientRepository)(nil)

func NewGormPatientRepository(db *gorm.DB) *GormPatientRepository {
	return &GormPatientRepository{db: db}
}

func (r *GormPatientRepository) Create(ctx context.Context, patient *entities.Patient) error {
	if patient.ID == uuid.Nil {
		patient.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(patient).Error
}

func (r *GormPatientRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Patient, error) {
	var patient entities.Patient
	if err := r.db.WithContext(ctx).First(&patient, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrPatientNotFound, id)
		}
		return nil, err
	}
	return &patient, nil
}

func (r *GormPatientRepository) SetInfectionDate(ctx context.Context, id uuid.UUID, infectionDate time.Time) error {
	res := r.db.WithContext(ctx).Model(&entities.Patient{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"infected": true, "infection_date": infectionDate})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrPatientNotFound, id)
	}
	return nil
}

// Delete must never silently succeed without removing the row; a missing
// patient is reported as not found.
func (r *GormPatientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&entities.Patient{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrPatientNotFound, id)
	}
	return nil
}

func (r *GormPatientRepository) ListAll(ctx context.Context) ([]*entities.Patient, error) {
	var patients []*entities.Patient
	if err := r.db.WithContext(ctx).Order("admission_date desc").Find(&patients).Error; err != nil {
		return nil, err
	}
	return patients, nil
}
