// Package audit keeps the in-process transaction ledger: an append-only
// record of every orchestrated operation's lifecycle and step history. The
// ledger is the recovery and observability surface of the saga — it must be
// written on every outcome, and writing it must never abort a business
// operation.
package audit

import (
	"math/rand"
	"strconv"
	"sync"
	"time"

	"infection-registry-service/internal/domain/txerrors"

	log "github.com/sirupsen/logrus"
)

// Transaction lifecycle statuses. A record only moves forward:
// started → completed or started → failed.
const (
	StatusStarted   = "started"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Step statuses.
const (
	StepCompleted = "completed"
	StepFailed    = "failed"
)

// Transaction types.
const (
	TypePatientWithInfection   = "patient_with_infection"
	TypeRetryInfectionCreation = "retry_infection_creation"
)

// TransactionStep is one entry in a record's append-only step history.
type TransactionStep struct {
	Step      string                 `json:"step"`
	Status    string                 `json:"status"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// TransactionRecord is the full audit trail of one orchestrated operation.
type TransactionRecord struct {
	ID          string                 `json:"id"`
	Type        string                 `json:"type"`
	Status      string                 `json:"status"`
	InitialData map[string]interface{} `json:"initialData,omitempty"`
	Steps       []TransactionStep      `json:"steps"`
	StartedAt   time.Time              `json:"startedAt"`
	CompletedAt *time.Time             `json:"completedAt"`
}

// Stats is the aggregate view over all recorded transactions.
type Stats struct {
	Total     int            `json:"total"`
	ByStatus  map[string]int `json:"byStatus"`
	ByType    map[string]int `json:"byType"`
	OldestLog *time.Time     `json:"oldestLog"`
	NewestLog *time.Time     `json:"newestLog"`
}

// TransactionLedger is a process-wide, mutex-guarded map of transaction
// records. Records are retained for the process lifetime; there is no
// eviction.
type TransactionLedger struct {
	mu      sync.Mutex
	records map[string]*TransactionRecord
	logger  *log.Logger
	now     func() time.Time
}

func NewTransactionLedger(logger *log.Logger) *TransactionLedger {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &TransactionLedger{
		records: make(map[string]*TransactionRecord),
		logger:  logger,
		now:     time.Now,
	}
}

// GenerateID returns a process-unique transaction id of the form
// tx_<unixMillis>_<base36 random>.
func (l *TransactionLedger) GenerateID() string {
	suffix := strconv.FormatUint(rand.Uint64(), 36)
	return "tx_" + strconv.FormatInt(l.now().UnixMilli(), 10) + "_" + suffix
}

// Begin inserts a new started record. Initial data is sanitized before it is
// stored.
func (l *TransactionLedger) Begin(id, txType string, initialData map[string]interface{}) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, exists := l.records[id]; exists {
		return &txerrors.DuplicateTransactionError{ID: id}
	}
	l.records[id] = &TransactionRecord{
		ID:          id,
		Type:        txType,
		Status:      StatusStarted,
		InitialData: Sanitize(initialData),
		Steps:       []TransactionStep{},
		StartedAt:   l.now(),
	}
	return nil
}

// AppendStep appends one step to a record's history. An unknown id is logged
// and ignored: audit logging must never abort a business operation.
func (l *TransactionLedger) AppendStep(id, step, status string, data map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	record, ok := l.records[id]
	if !ok {
		l.logger.WithFields(log.Fields{"transactionId": id, "step": step}).
			Warn("append su transazione sconosciuta, passo scartato")
		return
	}
	record.Steps = append(record.Steps, TransactionStep{
		Step:      step,
		Status:    status,
		Data:      Sanitize(data),
		Timestamp: l.now(),
	})
}

// Complete seals a record with its final status.
func (l *TransactionLedger) Complete(id, finalStatus string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	record, ok := l.records[id]
	if !ok {
		l.logger.WithField("transactionId", id).
			Warn("complete su transazione sconosciuta, ignorato")
		return
	}
	completedAt := l.now()
	record.Status = finalStatus
	record.CompletedAt = &completedAt
}

// Get returns a copy of the record for id, or nil if it was never begun.
// Copying keeps readers safe while another transaction is appending.
func (l *TransactionLedger) Get(id string) *TransactionRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	record, ok := l.records[id]
	if !ok {
		return nil
	}
	copied := *record
	copied.Steps = append([]TransactionStep(nil), record.Steps...)
	return &copied
}

// Stats aggregates all records in a single pass. An empty ledger yields a
// zeroed structure with empty maps.
func (l *TransactionLedger) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()

	stats := Stats{
		Total:    len(l.records),
		ByStatus: make(map[string]int),
		ByType:   make(map[string]int),
	}
	for _, record := range l.records {
		stats.ByStatus[record.Status]++
		stats.ByType[record.Type]++
		startedAt := record.StartedAt
		if stats.OldestLog == nil || startedAt.Before(*stats.OldestLog) {
			oldest := startedAt
			stats.OldestLog = &oldest
		}
		if stats.NewestLog == nil || startedAt.After(*stats.NewestLog) {
			newest := startedAt
			stats.NewestLog = &newest
		}
	}
	return stats
}
