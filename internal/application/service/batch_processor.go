package service

import (
	"context"
	"fmt"
	"time"

	"github.com/finbase/billforge-api/internal/domain/entity"
	"github.com/finbase/billforge-api/internal/domain/enum"
	"github.com/finbase/billforge-api/internal/domain/repository"
	"github.com/finbase/billforge-api/pkg/utils"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// IntegrityPolicy decides how a post-batch artifact-count mismatch is handled
type IntegrityPolicy string

const (
	// IntegrityPolicyLog records the mismatch as a result error only
	IntegrityPolicyLog IntegrityPolicy = "log"
	// IntegrityPolicyFail escalates the mismatch to whole-run failure
	IntegrityPolicyFail IntegrityPolicy = "fail"
)

// BatchProcessor turns every schedule of a scoping report into exactly one
// invoice and one open item. Items are processed independently: a failure in
// one schedule is recorded and rolled back without aborting the batch.
type BatchProcessor struct {
	subscriptionRepo repository.SubscriptionRepository
	dueScheduleRepo  repository.DueScheduleRepository
	invoiceRepo      repository.InvoiceRepository
	openItemRepo     repository.OpenItemRepository

	taxRate         decimal.Decimal
	paymentTermDays int
	integrityPolicy IntegrityPolicy
	logger          zerolog.Logger
	now             func() time.Time
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(
	subscriptionRepo repository.SubscriptionRepository,
	dueScheduleRepo repository.DueScheduleRepository,
	invoiceRepo repository.InvoiceRepository,
	openItemRepo repository.OpenItemRepository,
	taxRate decimal.Decimal,
	paymentTermDays int,
	integrityPolicy IntegrityPolicy,
	logger zerolog.Logger,
) *BatchProcessor {
	return &BatchProcessor{
		subscriptionRepo: subscriptionRepo,
		dueScheduleRepo:  dueScheduleRepo,
		invoiceRepo:      invoiceRepo,
		openItemRepo:     openItemRepo,
		taxRate:          taxRate,
		paymentTermDays:  paymentTermDays,
		integrityPolicy:  integrityPolicy,
		logger:           logger,
		now:              time.Now,
	}
}

// Process executes the batch over the analysis scope. Per-item errors land in
// the accumulator; only systemic failures (and integrity mismatches under the
// fail policy) are returned as an error.
func (p *BatchProcessor) Process(ctx context.Context, analysis *BatchAnalysis, record *entity.ProcessRecord, batchID string) (*batchAccumulator, error) {
	acc := newBatchAccumulator(batchID)

	for i := range analysis.Schedules {
		schedule := analysis.Schedules[i]
		if invoice, err := p.processSchedule(ctx, &schedule, analysis.BillingDate, record, batchID, acc); err != nil {
			msg := fmt.Sprintf("due schedule %s: %v", schedule.Number, err)
			acc.recordError(msg)
			_ = record.RecordItem(false, decimal.Zero)
			_ = record.AppendError(msg)
			p.logger.Error().
				Str("batch_id", batchID).
				Str("due_schedule", schedule.Number).
				Err(err).
				Msg("billing item failed")
			p.rollback(ctx, &schedule, invoice, batchID)
		}
	}

	if err := p.verifyIntegrity(acc, record, batchID); err != nil {
		return acc, err
	}
	return acc, nil
}

// processSchedule runs the per-item algorithm: resolve subscription, build
// and persist the invoice, complete the schedule, create the open item. On
// failure it returns the invoice if one was already persisted, so the caller
// can void it during rollback.
func (p *BatchProcessor) processSchedule(ctx context.Context, schedule *entity.DueSchedule, billingDate time.Time, record *entity.ProcessRecord, batchID string, acc *batchAccumulator) (*entity.Invoice, error) {
	subscription, err := p.subscriptionRepo.GetWithCustomer(ctx, schedule.SubscriptionID)
	if err != nil {
		return nil, fmt.Errorf("resolving subscription: %w", err)
	}
	if subscription == nil {
		// a due schedule must always reference a subscription; no retry
		return nil, fmt.Errorf("subscription %s not found", schedule.SubscriptionID)
	}

	invoice := p.buildInvoice(schedule, subscription, billingDate, record, batchID)
	if err := p.invoiceRepo.Create(ctx, invoice); err != nil {
		return nil, fmt.Errorf("persisting invoice: %w", err)
	}

	if err := schedule.MarkInvoiced(invoice.ID, batchID, p.now()); err != nil {
		return invoice, err
	}
	if err := p.dueScheduleRepo.Update(ctx, schedule); err != nil {
		return invoice, fmt.Errorf("updating due schedule: %w", err)
	}

	openItem := &entity.OpenItem{
		Number:          utils.GenerateNumber(utils.PrefixOpenItem),
		InvoiceID:       invoice.ID,
		SubscriptionID:  &subscription.ID,
		Amount:          invoice.Total,
		PaidAmount:      decimal.Zero,
		Status:          enum.OpenItemStatusOpen,
		DueDate:         invoice.DueDate,
		ProcessRecordID: &record.ID,
		BatchID:         &batchID,
	}
	if err := p.openItemRepo.Create(ctx, openItem); err != nil {
		return invoice, fmt.Errorf("persisting open item: %w", err)
	}

	acc.recordSuccess(invoice, openItem, schedule)
	_ = record.RecordItem(true, invoice.Total)
	return invoice, nil
}

// buildInvoice copies amount, billing period and product description from
// the schedule into a single-line recurring invoice
func (p *BatchProcessor) buildInvoice(schedule *entity.DueSchedule, subscription *entity.Subscription, billingDate time.Time, record *entity.ProcessRecord, batchID string) *entity.Invoice {
	ageTag := "current"
	if schedule.IsOverdue(billingDate) {
		ageTag = "overdue"
	}
	description := fmt.Sprintf("%s %s (%s - %s) [%s]",
		subscription.ProductName,
		subscription.Number,
		schedule.PeriodStart.Format("2006-01-02"),
		schedule.PeriodEnd.Format("2006-01-02"),
		ageTag,
	)

	periodStart := schedule.PeriodStart
	periodEnd := schedule.PeriodEnd
	scheduleID := schedule.ID

	invoice := &entity.Invoice{
		Number:          utils.GenerateNumber(utils.PrefixInvoice),
		InvoiceDate:     billingDate,
		DueDate:         billingDate.AddDate(0, 0, p.paymentTermDays),
		Status:          enum.InvoiceStatusOpen,
		Type:            enum.InvoiceTypeRecurring,
		CustomerID:      subscription.CustomerID,
		BillingAddress:  subscription.Customer.BillingAddress(),
		BatchID:         &batchID,
		ProcessRecordID: &record.ID,
	}
	invoice.AddItem(entity.InvoiceItem{
		Description:   description,
		Quantity:      decimal.NewFromInt(1),
		UnitPrice:     schedule.Amount,
		TaxRate:       p.taxRate,
		ItemType:      enum.InvoiceItemTypeSubscription,
		DueScheduleID: &scheduleID,
		PeriodStart:   &periodStart,
		PeriodEnd:     &periodEnd,
	})
	return invoice
}

// rollback attempts to revert the artifacts of a failed item: the persisted
// invoice is voided and the schedule returns to its pre-batch state. A
// failing rollback is a second-order error: it is logged for manual
// reconciliation but never raised further.
func (p *BatchProcessor) rollback(ctx context.Context, schedule *entity.DueSchedule, invoice *entity.Invoice, batchID string) {
	if invoice != nil {
		if err := invoice.Cancel(); err != nil {
			p.logger.Error().
				Str("batch_id", batchID).
				Str("invoice", invoice.Number).
				Err(err).
				Msg("rollback failed")
		} else if err := p.invoiceRepo.Update(ctx, invoice); err != nil {
			p.logger.Error().
				Str("batch_id", batchID).
				Str("invoice", invoice.Number).
				Err(err).
				Msg("rollback failed")
		}
	}

	if schedule.Status != enum.DueScheduleStatusCompleted {
		return
	}
	if schedule.BatchID == nil || *schedule.BatchID != batchID {
		// completed by an earlier run; not ours to revert
		return
	}
	if err := schedule.RevertInvoicing(); err != nil {
		p.logger.Error().
			Str("batch_id", batchID).
			Str("due_schedule", schedule.Number).
			Err(err).
			Msg("rollback failed")
		return
	}
	if err := p.dueScheduleRepo.Update(ctx, schedule); err != nil {
		p.logger.Error().
			Str("batch_id", batchID).
			Str("due_schedule", schedule.Number).
			Err(err).
			Msg("rollback failed")
	}
}

// verifyIntegrity checks the post-condition that every successfully
// processed schedule produced exactly one invoice and one open item
func (p *BatchProcessor) verifyIntegrity(acc *batchAccumulator, record *entity.ProcessRecord, batchID string) error {
	if acc.createdInvoices() == acc.createdOpenItems() && acc.createdInvoices() == acc.processed() {
		return nil
	}
	msg := fmt.Sprintf("integrity check failed: %d invoices, %d open items, %d processed schedules",
		acc.createdInvoices(), acc.createdOpenItems(), acc.processed())
	p.logger.Error().Str("batch_id", batchID).Msg(msg)

	if p.integrityPolicy == IntegrityPolicyFail {
		return fmt.Errorf("%s", msg)
	}
	acc.recordError(msg)
	_ = record.AppendError(msg)
	return nil
}
