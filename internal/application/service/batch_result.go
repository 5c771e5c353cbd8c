package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/finbase/billforge-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// BatchAnalysis is the scoping report for one billing date: every eligible
// due schedule plus the derived counts. It is produced read-only; nothing in
// it has been mutated yet.
type BatchAnalysis struct {
	BillingDate    time.Time                       `json:"billing_date"`
	IncludeOverdue bool                            `json:"include_overdue"`
	Schedules      []entity.DueSchedule            `json:"schedules"`
	OverdueCount   int                             `json:"overdue_count"`
	CurrentCount   int                             `json:"current_count"`
	FutureCount    int                             `json:"future_count"`
	TotalAmount    decimal.Decimal                 `json:"total_amount"`
	MonthGroups    map[string][]entity.DueSchedule `json:"month_groups"`
}

// IsEmpty reports whether the analysis found nothing to bill
func (a *BatchAnalysis) IsEmpty() bool {
	return len(a.Schedules) == 0
}

// MonthCount returns how many distinct due-date months the scope spans
func (a *BatchAnalysis) MonthCount() int {
	return len(a.MonthGroups)
}

// Months returns the sorted year-month keys of the grouping
func (a *BatchAnalysis) Months() []string {
	months := make([]string, 0, len(a.MonthGroups))
	for m := range a.MonthGroups {
		months = append(months, m)
	}
	sort.Strings(months)
	return months
}

// BatchPreview is a read-only projection of a BatchAnalysis for a dry run
// before committing to a real billing run
type BatchPreview struct {
	BillingDate    time.Time       `json:"billing_date"`
	IncludeOverdue bool            `json:"include_overdue"`
	EligibleCount  int             `json:"eligible_count"`
	OverdueCount   int             `json:"overdue_count"`
	CurrentCount   int             `json:"current_count"`
	EstimatedTotal decimal.Decimal `json:"estimated_total"`
	Months         []string        `json:"months"`
}

// BatchResult is the immutable summary of one billing run. It is assembled
// through a batchAccumulator during the processing loop and frozen before it
// leaves the orchestrator, so a partially-built result can never escape.
type BatchResult struct {
	BatchID               string          `json:"batch_id"`
	ProcessNumber         string          `json:"process_number"`
	ProcessedDueSchedules int             `json:"processed_due_schedules"`
	CreatedInvoices       int             `json:"created_invoices"`
	CreatedOpenItems      int             `json:"created_open_items"`
	TotalAmount           decimal.Decimal `json:"total_amount"`
	Errors                []string        `json:"errors,omitempty"`
	Message               string          `json:"message"`
}

// HasErrors reports whether any item failed during the run
func (r *BatchResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// IsSuccessful reports whether the run completed without item errors
func (r *BatchResult) IsSuccessful() bool {
	return !r.HasErrors()
}

// Summary returns a bounded excerpt of the error list for audit logs; the
// full list stays on the result itself.
func (r *BatchResult) Summary(maxErrors int) string {
	if !r.HasErrors() {
		return r.Message
	}
	errs := r.Errors
	truncated := false
	if len(errs) > maxErrors {
		errs = errs[:maxErrors]
		truncated = true
	}
	s := fmt.Sprintf("%s; errors:", r.Message)
	for _, e := range errs {
		s += " " + e + ";"
	}
	if truncated {
		s += fmt.Sprintf(" (+%d more)", len(r.Errors)-maxErrors)
	}
	return s
}

// batchAccumulator collects the artifacts of a running batch. It is the
// mutable builder behind BatchResult.
type batchAccumulator struct {
	batchID         string
	invoiceIDs      []string
	openItemIDs     []string
	scheduleNumbers []string
	totalAmount     decimal.Decimal
	errors          []string
}

func newBatchAccumulator(batchID string) *batchAccumulator {
	return &batchAccumulator{batchID: batchID, totalAmount: decimal.Zero}
}

// recordSuccess registers the three artifacts of one processed due schedule
func (b *batchAccumulator) recordSuccess(invoice *entity.Invoice, item *entity.OpenItem, schedule *entity.DueSchedule) {
	b.invoiceIDs = append(b.invoiceIDs, invoice.ID.String())
	b.openItemIDs = append(b.openItemIDs, item.ID.String())
	b.scheduleNumbers = append(b.scheduleNumbers, schedule.Number)
	b.totalAmount = b.totalAmount.Add(invoice.Total)
}

// recordError registers one failed item without aborting the batch
func (b *batchAccumulator) recordError(msg string) {
	b.errors = append(b.errors, msg)
}

func (b *batchAccumulator) createdInvoices() int  { return len(b.invoiceIDs) }
func (b *batchAccumulator) createdOpenItems() int { return len(b.openItemIDs) }
func (b *batchAccumulator) processed() int        { return len(b.scheduleNumbers) }

// freeze produces the immutable result
func (b *batchAccumulator) freeze(processNumber, message string) *BatchResult {
	errs := make([]string, len(b.errors))
	copy(errs, b.errors)
	return &BatchResult{
		BatchID:               b.batchID,
		ProcessNumber:         processNumber,
		ProcessedDueSchedules: b.processed(),
		CreatedInvoices:       b.createdInvoices(),
		CreatedOpenItems:      b.createdOpenItems(),
		TotalAmount:           b.totalAmount,
		Errors:                errs,
		Message:               message,
	}
}
