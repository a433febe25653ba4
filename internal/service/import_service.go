package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"visadesk-data/internal/domain"
	"visadesk-data/internal/importer"
	"visadesk-data/internal/repository"

	"go.uber.org/zap"
)

// TrackerService is the single entry point for every mutation of the case
// tracking data: imports, cell edits, flag toggles, notes and resets. One
// mutex serializes all writers; the engine assumes a single writer at a
// time and spreadsheet populations are small enough that latency is not a
// concern.
//
// Each mutation fully validates and constructs its result before any
// repository write, so a failure leaves no partial state. Audit appends
// happen after the primary write and are best-effort: an unavailable audit
// sink is logged but never rolls back a write that already succeeded.
type TrackerService struct {
	mu        sync.Mutex
	employees repository.EmployeesRepository
	audit     repository.AuditRepository
	notifier  *ImportNotifier
	logger    *zap.Logger
	alertDays int
	now       func() time.Time
}

func NewTrackerService(
	employees repository.EmployeesRepository,
	audit repository.AuditRepository,
	notifier *ImportNotifier,
	alertDays int,
	logger *zap.Logger,
) *TrackerService {
	if alertDays <= 0 {
		alertDays = 213
	}
	return &TrackerService{
		employees: employees,
		audit:     audit,
		notifier:  notifier,
		logger:    logger,
		alertDays: alertDays,
		now:       time.Now,
	}
}

// ImportResult is what a caller gets back from an import: the reconcile
// summary plus the non-fatal header validation outcome.
type ImportResult struct {
	Summary         importer.Summary `json:"summary"`
	HeadersOK       bool             `json:"headersOk"`
	HeadersDetected []string         `json:"headersDetected"`
	HeadersMissing  []string         `json:"headersMissing,omitempty"`
}

// ImportFile ingests an uploaded workbook. A malformed file fails the call
// with nothing changed; missing canonical headers only flag HeadersOK=false
// and the import proceeds with whatever columns are present.
func (s *TrackerService) ImportFile(ctx context.Context, filename string, data []byte, mode importer.Mode, actor string) (*ImportResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	parsed, err := importer.ReadWorkbook(data)
	if err != nil {
		return nil, err
	}

	existing, err := s.employees.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load existing records: %w", err)
	}

	records, summary := importer.Reconcile(parsed, existing, mode)
	if err := s.employees.ReplaceAll(ctx, records); err != nil {
		return nil, fmt.Errorf("failed to write record set: %w", err)
	}

	result := &ImportResult{
		Summary:         summary,
		HeadersOK:       parsed.Validation.OK,
		HeadersDetected: parsed.Validation.Detected,
		HeadersMissing:  parsed.Validation.Missing,
	}

	s.appendAudit(ctx, newAuditEntry(s.now(), domain.AuditTypeImport, actor, "",
		fmt.Sprintf("Imported file %s (%s mode)", filename, mode),
		[]domain.Change{
			{Key: "recordsCreated", Before: nil, After: summary.Created},
			{Key: "recordsUpdated", Before: nil, After: summary.Updated},
		}))

	s.logger.Info("import completed",
		zap.String("file", filename),
		zap.String("mode", string(mode)),
		zap.Int("rows_read", summary.RowsRead),
		zap.Int("identities", summary.Identities),
		zap.Bool("headers_ok", result.HeadersOK),
	)

	if s.notifier != nil {
		s.notifier.ImportCompleted(filename, result)
	}
	return result, nil
}

// ClearRawRows empties the row history of every record without deleting
// the records themselves.
func (s *TrackerService) ClearRawRows(ctx context.Context, actor string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.employees.LoadAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load records: %w", err)
	}
	affected := 0
	for _, e := range items {
		if len(e.RawRows) > 0 {
			e.RawRows = nil
			affected++
		}
	}
	if err := s.employees.ReplaceAll(ctx, items); err != nil {
		return 0, fmt.Errorf("failed to write record set: %w", err)
	}

	s.appendAudit(ctx, newAuditEntry(s.now(), domain.AuditTypeImportClear, actor, "",
		"Cleared imported raw rows",
		[]domain.Change{{Key: "rawRowsClearedEmployees", Before: nil, After: affected}}))
	return affected, nil
}

// ResetAll wipes both the record store and the audit log, then writes a
// RESET entry as the very first post-reset audit record.
func (s *TrackerService) ResetAll(ctx context.Context, actor string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.employees.ReplaceAll(ctx, nil); err != nil {
		return fmt.Errorf("failed to clear record set: %w", err)
	}
	if err := s.audit.Reset(ctx); err != nil {
		return fmt.Errorf("failed to clear audit log: %w", err)
	}
	s.appendAudit(ctx, newAuditEntry(s.now(), domain.AuditTypeReset, actor, "",
		"Full system reset", nil))
	return nil
}

// AuditLog returns audit entries newest-first, capped at limit (500 by
// default).
func (s *TrackerService) AuditLog(ctx context.Context, limit int) ([]*domain.AuditEntry, error) {
	if limit <= 0 {
		limit = 500
	}
	return s.audit.List(ctx, limit)
}

// appendAudit writes an entry to the audit sink, tolerating failure: the
// primary record is the record of truth, the audit trail is best-effort.
func (s *TrackerService) appendAudit(ctx context.Context, entry *domain.AuditEntry) {
	if err := s.audit.Append(ctx, entry); err != nil {
		s.logger.Warn("audit append failed",
			zap.String("type", entry.Type),
			zap.Error(err))
	}
}
