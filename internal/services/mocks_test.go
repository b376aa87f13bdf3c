package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"infection-registry-service/internal/adapters"
	"infection-registry-service/internal/domain/entities"
	"infection-registry-service/internal/domain/repositories"
	"infection-registry-service/internal/notifications"

	"github.com/google/uuid"
)

// --- MockPatientRepository ---

var _ repositories.PatientRepositoryContract = (*MockPatientRepository)(nil)

// MockPatientRepository is a mock implementation of PatientRepositoryContract.
type MockPatientRepository struct {
	CreateFunc           func(ctx context.Context, patient *entities.Patient) error
	GetByIDFunc          func(ctx context.Context, id uuid.UUID) (*entities.Patient, error)
	SetInfectionDateFunc func(ctx context.Context, id uuid.UUID, infectionDate time.Time) error
	DeleteFunc           func(ctx context.Context, id uuid.UUID) error
	ListAllFunc          func(ctx context.Context) ([]*entities.Patient, error)

	CreateCallCount           int32
	SetInfectionDateCallCount int32
	DeleteCallCount           int32

	mu             sync.Mutex
	CreatedDrafts  []*entities.Patient
	DeletedIDs     []uuid.UUID
	ReconciledWith []time.Time
}

func (m *MockPatientRepository) Create(ctx context.Context, patient *entities.Patient) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	m.mu.Lock()
	m.CreatedDrafts = append(m.CreatedDrafts, patient)
	m.mu.Unlock()
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, patient)
	}
	patient.ID = uuid.New()
	return nil
}

func (m *MockPatientRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Patient, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, errors.New("GetByIDFunc not implemented in mock")
}

func (m *MockPatientRepository) SetInfectionDate(ctx context.Context, id uuid.UUID, infectionDate time.Time) error {
	atomic.AddInt32(&m.SetInfectionDateCallCount, 1)
	m.mu.Lock()
	m.ReconciledWith = append(m.ReconciledWith, infectionDate)
	m.mu.Unlock()
	if m.SetInfectionDateFunc != nil {
		return m.SetInfectionDateFunc(ctx, id, infectionDate)
	}
	return nil
}

func (m *MockPatientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	atomic.AddInt32(&m.DeleteCallCount, 1)
	m.mu.Lock()
	m.DeletedIDs = append(m.DeletedIDs, id)
	m.mu.Unlock()
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockPatientRepository) ListAll(ctx context.Context) ([]*entities.Patient, error) {
	if m.ListAllFunc != nil {
		return m.ListAllFunc(ctx)
	}
	return nil, nil
}

// --- MockClinicalEventRepository ---

var _ repositories.ClinicalEventRepositoryContract = (*MockClinicalEventRepository)(nil)

// MockClinicalEventRepository is a mock implementation of
// ClinicalEventRepositoryContract.
type MockClinicalEventRepository struct {
	CreateFunc          func(ctx context.Context, event *entities.ClinicalEvent) error
	GetByIDFunc         func(ctx context.Context, id uuid.UUID) (*entities.ClinicalEvent, error)
	FindByPatientIDFunc func(ctx context.Context, patientID uuid.UUID) ([]*entities.ClinicalEvent, error)

	CreateCallCount int32

	mu            sync.Mutex
	CreatedEvents []*entities.ClinicalEvent
}

func (m *MockClinicalEventRepository) Create(ctx context.Context, event *entities.ClinicalEvent) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	m.mu.Lock()
	m.CreatedEvents = append(m.CreatedEvents, event)
	m.mu.Unlock()
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, event)
	}
	event.ID = uuid.New()
	return nil
}

func (m *MockClinicalEventRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.ClinicalEvent, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, errors.New("GetByIDFunc not implemented in mock")
}

func (m *MockClinicalEventRepository) FindByPatientID(ctx context.Context, patientID uuid.UUID) ([]*entities.ClinicalEvent, error) {
	if m.FindByPatientIDFunc != nil {
		return m.FindByPatientIDFunc(ctx, patientID)
	}
	return nil, nil
}

// --- MockNotifier ---

var _ notifications.Notifier = (*MockNotifier)(nil)

type recordedNotification struct {
	Message string
	Opts    *notifications.NotifyOptions
}

// MockNotifier records every notification issued by the coordinator.
type MockNotifier struct {
	mu        sync.Mutex
	Successes []string
	Errors    []recordedNotification
	Warnings  []recordedNotification
}

func (m *MockNotifier) Success(message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Successes = append(m.Successes, message)
}

func (m *MockNotifier) Error(message string, opts *notifications.NotifyOptions) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Errors = append(m.Errors, recordedNotification{Message: message, Opts: opts})
}

func (m *MockNotifier) Warning(message string, opts *notifications.NotifyOptions) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Warnings = append(m.Warnings, recordedNotification{Message: message, Opts: opts})
}

// --- MockLoadingIndicator ---

var _ notifications.LoadingIndicator = (*MockLoadingIndicator)(nil)

// MockLoadingIndicator records loading transitions in order.
type MockLoadingIndicator struct {
	mu          sync.Mutex
	Transitions []bool
}

func (m *MockLoadingIndicator) Set(active bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Transitions = append(m.Transitions, active)
}

// --- MockQueueAdapter ---

var _ adapters.QueueAdapter = (*MockQueueAdapter)(nil)

// MockQueueAdapter records published messages per queue.
type MockQueueAdapter struct {
	PublishFunc func(ctx context.Context, queueName string, jobData []byte) error

	mu                sync.Mutex
	PublishedMessages map[string][][]byte
	Handlers          map[string]adapters.JobHandler
}

func NewMockQueueAdapter() *MockQueueAdapter {
	return &MockQueueAdapter{
		PublishedMessages: make(map[string][][]byte),
		Handlers:          make(map[string]adapters.JobHandler),
	}
}

func (m *MockQueueAdapter) Publish(ctx context.Context, queueName string, jobData []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, queueName, jobData)
	}
	m.PublishedMessages[queueName] = append(m.PublishedMessages[queueName], jobData)
	return nil
}

func (m *MockQueueAdapter) StartConsuming(ctx context.Context, queueName string, handler adapters.JobHandler) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Handlers[queueName] = handler
	return nil
}

func (m *MockQueueAdapter) StopConsuming(ctx context.Context, queueName string) error {
	return nil
}
