package handlers

import (
	"context"
	"errors"
	"time"

	"infection-registry-service/internal/audit"
	"infection-registry-service/internal/domain/dtos"
	"infection-registry-service/internal/domain/txerrors"
	"infection-registry-service/internal/notifications"
	"infection-registry-service/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

type TransactionHandler struct {
	transactionService services.TransactionServiceContract
	ledger             *audit.TransactionLedger
	logger             *log.Logger
}

func NewTransactionHandler(ts services.TransactionServiceContract, ledger *audit.TransactionLedger, logger *log.Logger) *TransactionHandler {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &TransactionHandler{
		transactionService: ts,
		ledger:             ledger,
		logger:             logger,
	}
}

// CreatePatientWithInfection executes the saga. A partial failure answers 500
// with the recovery payload so the client can offer retry / rollback.
func (h *TransactionHandler) CreatePatientWithInfection(c *fiber.Ctx) error {
	var req dtos.PatientWithInfectionRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.WithError(err).Warn("richiesta paziente con infezione non parsabile")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Non è stato possibile leggere la richiesta: " + err.Error(),
		})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 30*time.Second)
	defer cancel()

	result, err := h.transactionService.ExecutePatientWithInfection(ctx, req.Patient, req.Infection)
	if err != nil {
		return h.mapSagaError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

// RetryInfection re-attempts the event half of a partially failed saga.
func (h *TransactionHandler) RetryInfection(c *fiber.Ctx) error {
	transactionID := c.Params("id")

	var req dtos.RetryInfectionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Non è stato possibile leggere la richiesta: " + err.Error(),
		})
	}
	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "patientId non valido"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 30*time.Second)
	defer cancel()

	event, err := h.transactionService.RetryInfectionCreation(ctx, transactionID, patientID, req.Infection)
	if err != nil {
		if isValidationError(err) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(event)
}

// RollbackPatient deletes the patient left behind by a partial failure.
func (h *TransactionHandler) RollbackPatient(c *fiber.Ctx) error {
	patientID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "id paziente non valido"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 30*time.Second)
	defer cancel()

	if err := h.transactionService.RollbackPatientCreation(ctx, patientID); err != nil {
		var rollbackErr *txerrors.RollbackError
		if errors.As(err, &rollbackErr) {
			// Not automatically recoverable: the operator must intervene.
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": rollbackErr.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// GetTransaction returns the ledger record for one transaction.
func (h *TransactionHandler) GetTransaction(c *fiber.Ctx) error {
	record := h.ledger.Get(c.Params("id"))
	if record == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "transazione non trovata"})
	}
	return c.JSON(record)
}

// GetTransactionStats returns the aggregate ledger view.
func (h *TransactionHandler) GetTransactionStats(c *fiber.Ctx) error {
	return c.JSON(h.ledger.Stats())
}

func (h *TransactionHandler) mapSagaError(c *fiber.Ctx, err error) error {
	var eventErr *txerrors.InfectionEventCreationError
	if errors.As(err, &eventErr) {
		recovery := dtos.RecoveryInfo{
			TransactionID: eventErr.TransactionID,
			PatientID:     eventErr.PatientID.String(),
			Actions: lo.Map(services.PartialFailureActions, func(a notifications.NotificationAction, _ int) dtos.RecoveryAction {
				return dtos.RecoveryAction{Label: a.Label, Action: a.Action}
			}),
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":    eventErr.Error(),
			"recovery": recovery,
		})
	}
	if isValidationError(err) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}

func isValidationError(err error) bool {
	var invalidInput *txerrors.InvalidInputError
	var missingField *txerrors.MissingFieldError
	var invalidDate *txerrors.InvalidDateError
	var futureDate *txerrors.FutureDateError
	return errors.As(err, &invalidInput) ||
		errors.As(err, &missingField) ||
		errors.As(err, &invalidDate) ||
		errors.As(err, &futureDate)
}

func RegisterTransactionRoutes(app *fiber.App, th *TransactionHandler) {
	patients := app.Group("/patients")
	patients.Post("/with-infection", th.CreatePatientWithInfection)
	patients.Delete("/:id", th.RollbackPatient)

	transactions := app.Group("/transactions")
	transactions.Get("/stats", th.GetTransactionStats)
	transactions.Get("/:id", th.GetTransaction)
	transactions.Post("/:id/retry-infection", th.RetryInfection)
}
