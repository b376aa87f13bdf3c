package services

import (
	"context"
	"encoding/json"
	"time"

	"infection-registry-service/internal/adapters"
	"infection-registry-service/internal/audit"
	"infection-registry-service/internal/domain/dtos"
	"infection-registry-service/internal/domain/entities"
	"infection-registry-service/internal/domain/repositories"
	"infection-registry-service/internal/domain/txerrors"
	"infection-registry-service/internal/metrics"
	"infection-registry-service/internal/notifications"
	"infection-registry-service/internal/validation"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// TransactionAuditQueue carries sanitized completion events out of the
// request path.
const TransactionAuditQueue = "transaction_audit_events"

// Saga step names as they appear in the ledger.
const (
	StepCreatePatient        = "create_patient"
	StepCreateInfectionEvent = "create_infection_event"
)

// Fixed user-facing messages.
const (
	msgSagaSuccess     = "Paziente e evento infezione creati con successo!"
	msgRetrySuccess    = "Evento infezione creato con successo!"
	msgRollbackSuccess = "Creazione paziente annullata con successo!"
	msgPartialFailure  = "Paziente creato, ma la creazione dell'evento di infezione è fallita. Scegliere se riprovare la creazione dell'evento o annullare il paziente."
)

// PartialFailureActions are the operator choices offered with the
// partial-failure warning. The UI renders them as buttons wired to
// RetryInfectionCreation / RollbackPatientCreation.
var PartialFailureActions = []notifications.NotificationAction{
	{Label: "Crea Comunque", Action: "retry_infection"},
	{Label: "Annulla", Action: "rollback_patient"},
}

// TransactionAuditEvent is the payload published to TransactionAuditQueue.
type TransactionAuditEvent struct {
	TransactionID string    `json:"transactionId"`
	Type          string    `json:"type"`
	Status        string    `json:"status"`
	OccurredAt    time.Time `json:"occurredAt"`
}

// TransactionServiceImpl implements TransactionServiceContract.
type TransactionServiceImpl struct {
	patientRepo   repositories.PatientRepositoryContract
	eventRepo     repositories.ClinicalEventRepositoryContract
	validator     *validation.Validator
	ledger        *audit.TransactionLedger
	notifier      notifications.Notifier
	loading       notifications.LoadingIndicator
	queueAdapter  adapters.QueueAdapter
	logger        *log.Logger
	serviceCtx    context.Context
	serviceCancel context.CancelFunc
}

// NewTransactionService creates a new TransactionServiceImpl. The ledger is
// injected, never global, so each caller owns its lifecycle.
func NewTransactionService(
	patientRepo repositories.PatientRepositoryContract,
	eventRepo repositories.ClinicalEventRepositoryContract,
	validator *validation.Validator,
	ledger *audit.TransactionLedger,
	notifier notifications.Notifier,
	loading notifications.LoadingIndicator,
	queueAdapter adapters.QueueAdapter,
	logger *log.Logger,
) TransactionServiceContract {
	if logger == nil {
		logger = log.StandardLogger()
	}
	if loading == nil {
		loading = notifications.NopLoadingIndicator{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &TransactionServiceImpl{
		patientRepo:   patientRepo,
		eventRepo:     eventRepo,
		validator:     validator,
		ledger:        ledger,
		notifier:      notifier,
		loading:       loading,
		queueAdapter:  queueAdapter,
		logger:        logger,
		serviceCtx:    ctx,
		serviceCancel: cancel,
	}
}

// Start begins draining the audit event queue into the structured log.
func (s *TransactionServiceImpl) Start(ctx context.Context) error {
	return s.queueAdapter.StartConsuming(s.serviceCtx, TransactionAuditQueue, s.handleAuditEvent)
}

// Stop shuts down the audit consumer.
func (s *TransactionServiceImpl) Stop(ctx context.Context) error {
	s.serviceCancel()
	return nil
}

// ExecutePatientWithInfection runs the saga. Step ordering is the correctness
// property: the event write never starts before the patient write committed,
// so an event row can never reference a missing patient.
func (s *TransactionServiceImpl) ExecutePatientWithInfection(ctx context.Context, patientData *dtos.PatientDraft, infectionData *dtos.InfectionEventDraft) (*dtos.TransactionResult, error) {
	txID := s.ledger.GenerateID()
	if err := s.ledger.Begin(txID, audit.TypePatientWithInfection, map[string]interface{}{
		"patientData":   patientData,
		"infectionData": infectionData,
	}); err != nil {
		s.logger.WithError(err).WithField("transactionId", txID).Warn("apertura transazione nel registro fallita")
	}

	s.loading.Set(true)
	defer s.loading.Set(false)

	if err := s.validator.Validate(patientData, infectionData); err != nil {
		// Validation errors already carry a precise message; surface verbatim.
		s.completeTransaction(ctx, txID, audit.TypePatientWithInfection, audit.StatusFailed)
		s.notifier.Error(err.Error(), nil)
		return nil, err
	}

	patient, err := s.createInfectedPatient(ctx, txID, patientData)
	if err != nil {
		return nil, err
	}

	event, err := s.createInfectionEvent(ctx, txID, patient.ID, infectionData)
	if err != nil {
		return nil, err
	}

	patient = s.reconcilePatient(ctx, patient, event)

	s.completeTransaction(ctx, txID, audit.TypePatientWithInfection, audit.StatusCompleted)
	s.notifier.Success(msgSagaSuccess)
	s.logger.WithFields(log.Fields{
		"transactionId": txID,
		"patientId":     patient.ID,
		"eventId":       event.ID,
	}).Info("transazione paziente con infezione completata")

	return &dtos.TransactionResult{
		Success:        true,
		TransactionID:  txID,
		Patient:        patient,
		InfectionEvent: event,
	}, nil
}

// createInfectedPatient runs step 1. On failure nothing was persisted, so no
// compensation is needed.
func (s *TransactionServiceImpl) createInfectedPatient(ctx context.Context, txID string, draft *dtos.PatientDraft) (*entities.Patient, error) {
	patient, err := buildPatient(draft)
	if err == nil {
		err = s.patientRepo.Create(ctx, patient)
	}
	if err != nil {
		s.ledger.AppendStep(txID, StepCreatePatient, audit.StepFailed, map[string]interface{}{"error": err.Error()})
		metrics.TransactionStepsTotal.WithLabelValues(StepCreatePatient, audit.StepFailed).Inc()
		s.completeTransaction(ctx, txID, audit.TypePatientWithInfection, audit.StatusFailed)

		wrapped := &txerrors.PatientCreationError{Err: err}
		s.notifier.Error(wrapped.Error(), nil)
		s.logger.WithError(err).WithField("transactionId", txID).Error("creazione paziente fallita")
		return nil, wrapped
	}

	s.ledger.AppendStep(txID, StepCreatePatient, audit.StepCompleted, map[string]interface{}{
		"patientId": patient.ID.String(),
		"nome":      patient.Nome,
		"cognome":   patient.Cognome,
	})
	metrics.TransactionStepsTotal.WithLabelValues(StepCreatePatient, audit.StepCompleted).Inc()
	return patient, nil
}

// createInfectionEvent runs step 2. On failure the patient is deliberately
// left in place: the rollback-vs-retry decision belongs to the operator, so
// the transaction stays open in the ledger and the warning carries both ids.
func (s *TransactionServiceImpl) createInfectionEvent(ctx context.Context, txID string, patientID uuid.UUID, draft *dtos.InfectionEventDraft) (*entities.ClinicalEvent, error) {
	event := buildInfectionEvent(patientID, draft)
	if err := s.eventRepo.Create(ctx, event); err != nil {
		s.ledger.AppendStep(txID, StepCreateInfectionEvent, audit.StepFailed, map[string]interface{}{"error": err.Error()})
		metrics.TransactionStepsTotal.WithLabelValues(StepCreateInfectionEvent, audit.StepFailed).Inc()
		metrics.TransactionsTotal.WithLabelValues(audit.TypePatientWithInfection, "partial_failure").Inc()

		s.notifier.Warning(msgPartialFailure, &notifications.NotifyOptions{
			Persistent: true,
			Actions:    PartialFailureActions,
		})
		s.logger.WithError(err).WithFields(log.Fields{
			"transactionId": txID,
			"patientId":     patientID,
		}).Error("creazione evento infezione fallita, paziente mantenuto in attesa di decisione")

		return nil, &txerrors.InfectionEventCreationError{
			TransactionID: txID,
			PatientID:     patientID,
			Err:           err,
		}
	}

	s.ledger.AppendStep(txID, StepCreateInfectionEvent, audit.StepCompleted, map[string]interface{}{
		"eventId":   event.ID.String(),
		"patientId": patientID.String(),
	})
	metrics.TransactionStepsTotal.WithLabelValues(StepCreateInfectionEvent, audit.StepCompleted).Inc()
	return event, nil
}

// reconcilePatient pushes the infection date onto the patient row and
// re-reads it. The repository, not this service, is the source of truth for
// the final record.
func (s *TransactionServiceImpl) reconcilePatient(ctx context.Context, patient *entities.Patient, event *entities.ClinicalEvent) *entities.Patient {
	if err := s.patientRepo.SetInfectionDate(ctx, patient.ID, event.EventDate); err != nil {
		s.logger.WithError(err).WithField("patientId", patient.ID).Warn("riconciliazione data infezione fallita")
		return patient
	}
	fresh, err := s.patientRepo.GetByID(ctx, patient.ID)
	if err != nil {
		s.logger.WithError(err).WithField("patientId", patient.ID).Warn("rilettura paziente fallita dopo la riconciliazione")
		return patient
	}
	return fresh
}

// RollbackPatientCreation deletes the orphaned patient left by a partial
// failure. A failed rollback is not automatically recoverable and must be
// escalated to manual intervention.
func (s *TransactionServiceImpl) RollbackPatientCreation(ctx context.Context, patientID uuid.UUID) error {
	s.loading.Set(true)
	defer s.loading.Set(false)

	if err := s.patientRepo.Delete(ctx, patientID); err != nil {
		wrapped := &txerrors.RollbackError{Err: err}
		s.logger.WithError(err).WithField("patientId", patientID).Error("rollback della creazione paziente fallito")
		return wrapped
	}

	s.notifier.Success(msgRollbackSuccess)
	s.logger.WithField("patientId", patientID).Info("rollback della creazione paziente eseguito")
	return nil
}

// RetryInfectionCreation re-validates only the infection half and re-attempts
// the event write against the existing patient. Repository failures are
// returned as-is: the operator already saw the wrapped message once.
func (s *TransactionServiceImpl) RetryInfectionCreation(ctx context.Context, transactionID string, patientID uuid.UUID, infectionData *dtos.InfectionEventDraft) (*entities.ClinicalEvent, error) {
	retryID := s.ledger.GenerateID()
	if err := s.ledger.Begin(retryID, audit.TypeRetryInfectionCreation, map[string]interface{}{
		"originalTransactionId": transactionID,
		"patientId":             patientID.String(),
		"infectionData":         infectionData,
	}); err != nil {
		s.logger.WithError(err).WithField("transactionId", retryID).Warn("apertura transazione nel registro fallita")
	}

	s.loading.Set(true)
	defer s.loading.Set(false)

	if err := s.validator.ValidateInfection(infectionData); err != nil {
		s.completeTransaction(ctx, retryID, audit.TypeRetryInfectionCreation, audit.StatusFailed)
		s.notifier.Error(err.Error(), nil)
		return nil, err
	}

	event := buildInfectionEvent(patientID, infectionData)
	if err := s.eventRepo.Create(ctx, event); err != nil {
		s.ledger.AppendStep(retryID, StepCreateInfectionEvent, audit.StepFailed, map[string]interface{}{"error": err.Error()})
		metrics.TransactionStepsTotal.WithLabelValues(StepCreateInfectionEvent, audit.StepFailed).Inc()
		s.completeTransaction(ctx, retryID, audit.TypeRetryInfectionCreation, audit.StatusFailed)
		s.notifier.Error(err.Error(), nil)
		s.logger.WithError(err).WithFields(log.Fields{
			"transactionId":         retryID,
			"originalTransactionId": transactionID,
			"patientId":             patientID,
		}).Error("retry creazione evento infezione fallito")
		return nil, err
	}

	s.ledger.AppendStep(retryID, StepCreateInfectionEvent, audit.StepCompleted, map[string]interface{}{
		"eventId":   event.ID.String(),
		"patientId": patientID.String(),
	})
	metrics.TransactionStepsTotal.WithLabelValues(StepCreateInfectionEvent, audit.StepCompleted).Inc()

	if patient, err := s.patientRepo.GetByID(ctx, patientID); err == nil {
		_ = s.reconcilePatient(ctx, patient, event)
	} else {
		s.logger.WithError(err).WithField("patientId", patientID).Warn("paziente non rileggibile durante il retry")
	}

	s.completeTransaction(ctx, retryID, audit.TypeRetryInfectionCreation, audit.StatusCompleted)
	s.notifier.Success(msgRetrySuccess)
	return event, nil
}

// completeTransaction seals the ledger record and streams the audit event.
func (s *TransactionServiceImpl) completeTransaction(ctx context.Context, txID, txType, finalStatus string) {
	s.ledger.Complete(txID, finalStatus)
	metrics.TransactionsTotal.WithLabelValues(txType, finalStatus).Inc()
	s.publishAuditEvent(ctx, TransactionAuditEvent{
		TransactionID: txID,
		Type:          txType,
		Status:        finalStatus,
		OccurredAt:    time.Now(),
	})
}

// publishAuditEvent is best-effort: audit streaming must never abort a
// business operation.
func (s *TransactionServiceImpl) publishAuditEvent(ctx context.Context, event TransactionAuditEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.WithError(err).Warn("serializzazione evento di audit fallita")
		return
	}
	if err := s.queueAdapter.Publish(ctx, TransactionAuditQueue, payload); err != nil {
		s.logger.WithError(err).WithField("transactionId", event.TransactionID).Warn("pubblicazione evento di audit fallita")
	}
}

func (s *TransactionServiceImpl) handleAuditEvent(ctx context.Context, data []byte) error {
	var event TransactionAuditEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return err
	}
	s.logger.WithFields(log.Fields{
		"transactionId": event.TransactionID,
		"type":          event.Type,
		"status":        event.Status,
	}).Info("evento di audit registrato")
	return nil
}

// buildPatient turns the draft into an entity. The workflow always marks the
// patient infected and leaves the infection date for reconciliation.
func buildPatient(draft *dtos.PatientDraft) (*entities.Patient, error) {
	birthDate, err := validation.ParseDate(draft.BirthDate)
	if err != nil {
		return nil, err
	}
	admissionDate, err := validation.ParseDate(draft.AdmissionDate)
	if err != nil {
		return nil, err
	}
	return &entities.Patient{
		Nome:          draft.Nome,
		Cognome:       draft.Cognome,
		BirthDate:     birthDate,
		AdmissionDate: admissionDate,
		Diagnosis:     draft.Diagnosis,
		Department:    draft.Department,
		Infected:      true,
		InfectionDate: nil,
	}, nil
}

// buildInfectionEvent assumes the draft already passed validation.
func buildInfectionEvent(patientID uuid.UUID, draft *dtos.InfectionEventDraft) *entities.ClinicalEvent {
	eventDate, _ := validation.ParseDate(draft.EventDate)
	return &entities.ClinicalEvent{
		PatientID:     patientID,
		EventType:     entities.EventTypeInfection,
		EventDate:     eventDate,
		PathogenAgent: draft.PathogenAgent,
		Description:   draft.Description,
		EventEndDate:  nil,
	}
}
