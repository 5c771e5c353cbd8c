package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/finbase/billforge-api/internal/domain/entity"
	"github.com/finbase/billforge-api/internal/domain/enum"
	"github.com/finbase/billforge-api/internal/domain/repository"
	"github.com/finbase/billforge-api/pkg/apperror"
	"github.com/finbase/billforge-api/pkg/utils"
	"github.com/rs/zerolog"
)

const maxSummaryErrors = 3

// BatchOrchestrator drives a full billing run: it opens the audit record,
// scopes the work through the analyzer, delegates to the processor and
// closes the record with the outcome. Concurrent runs for the same billing
// date are rejected.
type BatchOrchestrator struct {
	analyzer          *BatchAnalyzer
	processor         *BatchProcessor
	processRecordRepo repository.ProcessRecordRepository

	lock   *runLock
	logger zerolog.Logger
	now    func() time.Time
}

// NewBatchOrchestrator creates a new batch orchestrator
func NewBatchOrchestrator(
	analyzer *BatchAnalyzer,
	processor *BatchProcessor,
	processRecordRepo repository.ProcessRecordRepository,
	logger zerolog.Logger,
) *BatchOrchestrator {
	return &BatchOrchestrator{
		analyzer:          analyzer,
		processor:         processor,
		processRecordRepo: processRecordRepo,
		lock:              newRunLock(),
		logger:            logger,
		now:               time.Now,
	}
}

// Preview reports what a run for billingDate would do without writing anything
func (o *BatchOrchestrator) Preview(ctx context.Context, billingDate time.Time, includeOverdue bool) (*BatchPreview, error) {
	return o.analyzer.Preview(ctx, billingDate, includeOverdue)
}

// RunInvoiceBatch executes a billing run for billingDate. Every run,
// including an empty one, leaves a terminal process record behind.
func (o *BatchOrchestrator) RunInvoiceBatch(ctx context.Context, billingDate time.Time, includeOverdue bool, triggeredBy string) (*BatchResult, error) {
	if !o.lock.TryAcquire(billingDate) {
		return nil, apperror.ErrRunInProgress
	}
	defer o.lock.Release(billingDate)

	record := &entity.ProcessRecord{
		Number:      utils.GenerateNumber(utils.PrefixProcess),
		Type:        enum.ProcessTypeInvoiceBatch,
		Status:      enum.ProcessStatusStarted,
		Title:       fmt.Sprintf("Invoice batch %s", billingDate.Format("2006-01-02")),
		TriggeredBy: triggeredBy,
		StartedAt:   o.now(),
	}
	if err := o.processRecordRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("creating process record: %w", err)
	}

	analysis, err := o.analyzer.Analyze(ctx, billingDate, includeOverdue)
	if err != nil {
		o.closeFailed(ctx, record, fmt.Sprintf("analysis failed: %v", err))
		return nil, fmt.Errorf("billing run %s: %w", record.Number, err)
	}

	if analysis.IsEmpty() {
		msg := fmt.Sprintf("No due schedules found for %s", billingDate.Format("2006-01-02"))
		_ = record.SetMetadata("summary", msg)
		_ = record.Complete(o.now())
		if err := o.processRecordRepo.Update(ctx, record); err != nil {
			o.logger.Error().Err(err).Str("process", record.Number).Msg("closing process record failed")
		}
		return newBatchAccumulator("").freeze(record.Number, msg), nil
	}

	if err := record.MarkRunning(); err != nil {
		return nil, fmt.Errorf("billing run %s: %w", record.Number, err)
	}
	batchID := utils.GenerateBatchID(billingDate)
	record.BatchID = &batchID
	if err := o.processRecordRepo.Update(ctx, record); err != nil {
		o.closeFailed(ctx, record, fmt.Sprintf("updating process record: %v", err))
		return nil, fmt.Errorf("billing run %s: %w", record.Number, err)
	}

	o.logger.Info().
		Str("batch_id", batchID).
		Str("process", record.Number).
		Time("billing_date", billingDate).
		Int("schedules", len(analysis.Schedules)).
		Bool("include_overdue", includeOverdue).
		Msg("billing run started")

	acc, err := o.processor.Process(ctx, analysis, record, batchID)
	if err != nil {
		o.closeFailed(ctx, record, err.Error())
		return nil, fmt.Errorf("billing run %s: %w", record.Number, err)
	}

	_ = record.SetMetadata("billing_date", billingDate.Format("2006-01-02"))
	_ = record.SetMetadata("batch_id", batchID)
	_ = record.SetMetadata("month_count", strconv.Itoa(analysis.MonthCount()))

	result := o.closeRun(ctx, record, acc, batchID, len(analysis.Schedules))
	return result, nil
}

// closeRun moves the record to its terminal state and freezes the result
func (o *BatchOrchestrator) closeRun(ctx context.Context, record *entity.ProcessRecord, acc *batchAccumulator, batchID string, totalItems int) *BatchResult {
	var message string
	if len(acc.errors) > 0 {
		message = fmt.Sprintf("Processed %d of %d due schedules", acc.processed(), totalItems)
	} else {
		message = fmt.Sprintf("Processed %d due schedules", acc.processed())
	}
	result := acc.freeze(record.Number, message)
	_ = record.SetMetadata("summary", result.Summary(maxSummaryErrors))
	if len(acc.errors) > 0 {
		_ = record.Fail("", o.now())
	} else {
		_ = record.Complete(o.now())
	}
	if err := o.processRecordRepo.Update(ctx, record); err != nil {
		o.logger.Error().Err(err).Str("process", record.Number).Msg("closing process record failed")
	}

	o.logger.Info().
		Str("batch_id", batchID).
		Str("process", record.Number).
		Int("invoices", result.CreatedInvoices).
		Int("open_items", result.CreatedOpenItems).
		Str("total", result.TotalAmount.StringFixed(2)).
		Int("errors", len(result.Errors)).
		Msg("billing run finished")
	return result
}

// closeFailed marks the record failed after a systemic error. Best effort:
// a persistence failure here is logged, the original error wins.
func (o *BatchOrchestrator) closeFailed(ctx context.Context, record *entity.ProcessRecord, message string) {
	if err := record.Fail(message, o.now()); err != nil {
		o.logger.Error().Err(err).Str("process", record.Number).Msg("closing process record failed")
		return
	}
	if err := o.processRecordRepo.Update(ctx, record); err != nil {
		o.logger.Error().Err(err).Str("process", record.Number).Msg("closing process record failed")
	}
}
