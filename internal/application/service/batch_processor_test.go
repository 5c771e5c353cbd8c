package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/finbase/billforge-api/internal/domain/entity"
	"github.com/finbase/billforge-api/internal/domain/enum"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type processorFixture struct {
	subscriptionRepo *fakeSubscriptionRepo
	dueScheduleRepo  *fakeDueScheduleRepo
	invoiceRepo      *fakeInvoiceRepo
	openItemRepo     *fakeOpenItemRepo
	processor        *BatchProcessor
	record           *entity.ProcessRecord
}

func newProcessorFixture(t *testing.T, policy IntegrityPolicy) *processorFixture {
	t.Helper()
	f := &processorFixture{
		subscriptionRepo: newFakeSubscriptionRepo(),
		dueScheduleRepo:  newFakeDueScheduleRepo(),
		invoiceRepo:      newFakeInvoiceRepo(),
		openItemRepo:     newFakeOpenItemRepo(),
	}
	f.processor = NewBatchProcessor(
		f.subscriptionRepo,
		f.dueScheduleRepo,
		f.invoiceRepo,
		f.openItemRepo,
		decimal.RequireFromString("19"),
		14,
		policy,
		zerolog.Nop(),
	)
	f.record = &entity.ProcessRecord{
		ID:        uuid.New(),
		Number:    "PRC-TEST",
		Type:      enum.ProcessTypeInvoiceBatch,
		Status:    enum.ProcessStatusRunning,
		StartedAt: time.Now(),
	}
	return f
}

// addSubscription wires a customer and subscription into the fixture and
// returns the subscription for schedule linkage
func (f *processorFixture) addSubscription(name, product, amount string) *entity.Subscription {
	email := strings.ToLower(name) + "@example.com"
	customer := &entity.Customer{
		Number: "CUST-" + name,
		Name:   name,
		Email:  &email,
	}
	customer.ID = uuid.New()
	sub := &entity.Subscription{
		Number:        "SUB-" + name,
		CustomerID:    customer.ID,
		ProductName:   product,
		MonthlyAmount: decimal.RequireFromString(amount),
		Status:        enum.SubscriptionStatusActive,
		Customer:      *customer,
	}
	f.subscriptionRepo.add(sub)
	return sub
}

func (f *processorFixture) addSchedule(sub *entity.Subscription, number string, due time.Time) *entity.DueSchedule {
	ds := activeSchedule(number, due, sub.MonthlyAmount.String())
	ds.SubscriptionID = sub.ID
	f.dueScheduleRepo.add(ds)
	return ds
}

func (f *processorFixture) analysis(t *testing.T, billingDate time.Time) *BatchAnalysis {
	t.Helper()
	analysis, err := NewBatchAnalyzer(f.dueScheduleRepo).Analyze(context.Background(), billingDate, true)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	return analysis
}

func TestProcessCreatesInvoiceAndOpenItemPerSchedule(t *testing.T) {
	f := newProcessorFixture(t, IntegrityPolicyLog)
	billingDate := date(2025, time.February, 1)
	sub := f.addSubscription("Acme", "Hosting Pro", "49.99")
	ds := f.addSchedule(sub, "DS-1", billingDate)

	acc, err := f.processor.Process(context.Background(), f.analysis(t, billingDate), f.record, "BATCH-1")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(acc.errors) != 0 {
		t.Fatalf("unexpected errors: %v", acc.errors)
	}
	if acc.createdInvoices() != 1 || acc.createdOpenItems() != 1 || acc.processed() != 1 {
		t.Fatalf("counts invoices=%d openItems=%d processed=%d, want 1/1/1",
			acc.createdInvoices(), acc.createdOpenItems(), acc.processed())
	}

	if len(f.invoiceRepo.invoices) != 1 {
		t.Fatalf("expected 1 persisted invoice, got %d", len(f.invoiceRepo.invoices))
	}
	var invoice *entity.Invoice
	for _, inv := range f.invoiceRepo.invoices {
		invoice = inv
	}
	if invoice.Type != enum.InvoiceTypeRecurring {
		t.Errorf("invoice type = %s, want Recurring", invoice.Type)
	}
	// 49.99 + 19% tax (9.50) = 59.49
	if want := decimal.RequireFromString("59.49"); !invoice.Total.Equal(want) {
		t.Errorf("invoice total = %s, want %s", invoice.Total, want)
	}
	if !invoice.DueDate.Equal(billingDate.AddDate(0, 0, 14)) {
		t.Errorf("due date = %s, want billing date + 14d", invoice.DueDate)
	}
	if invoice.BatchID == nil || *invoice.BatchID != "BATCH-1" {
		t.Error("invoice not stamped with batch id")
	}
	if len(invoice.Items) != 1 || !strings.Contains(invoice.Items[0].Description, "Hosting Pro") {
		t.Errorf("unexpected invoice items: %+v", invoice.Items)
	}

	stored := f.dueScheduleRepo.schedules[ds.ID]
	if stored.Status != enum.DueScheduleStatusCompleted {
		t.Errorf("schedule status = %s, want Completed", stored.Status)
	}
	if stored.InvoiceID == nil || *stored.InvoiceID != invoice.ID {
		t.Error("schedule not linked to invoice")
	}

	if len(f.openItemRepo.items) != 1 {
		t.Fatalf("expected 1 open item, got %d", len(f.openItemRepo.items))
	}
	for _, item := range f.openItemRepo.items {
		if !item.Amount.Equal(invoice.Total) {
			t.Errorf("open item amount = %s, want invoice total %s", item.Amount, invoice.Total)
		}
		if !item.DueDate.Equal(invoice.DueDate) {
			t.Errorf("open item due date = %s, want %s", item.DueDate, invoice.DueDate)
		}
		if item.SubscriptionID == nil || *item.SubscriptionID != sub.ID {
			t.Error("open item not linked to subscription")
		}
	}

	if f.record.SuccessCount != 1 || f.record.ErrorCount != 0 {
		t.Errorf("record success=%d error=%d, want 1/0", f.record.SuccessCount, f.record.ErrorCount)
	}
}

func TestProcessIsolatesItemFailures(t *testing.T) {
	f := newProcessorFixture(t, IntegrityPolicyLog)
	billingDate := date(2025, time.February, 1)
	sub := f.addSubscription("Acme", "Hosting Pro", "49.99")
	f.addSchedule(sub, "DS-GOOD", billingDate)

	// schedule pointing at a subscription that does not exist
	orphan := activeSchedule("DS-ORPHAN", billingDate, "10.00")
	orphan.SubscriptionID = uuid.New()
	f.dueScheduleRepo.add(orphan)

	acc, err := f.processor.Process(context.Background(), f.analysis(t, billingDate), f.record, "BATCH-2")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if acc.processed() != 1 || acc.createdInvoices() != 1 || acc.createdOpenItems() != 1 {
		t.Fatalf("counts processed=%d invoices=%d openItems=%d, want 1/1/1",
			acc.processed(), acc.createdInvoices(), acc.createdOpenItems())
	}
	if len(acc.errors) != 1 || !strings.Contains(acc.errors[0], "DS-ORPHAN") {
		t.Fatalf("errors = %v, want one naming DS-ORPHAN", acc.errors)
	}
	if f.record.ProcessedCount != 2 || f.record.SuccessCount != 1 || f.record.ErrorCount != 1 {
		t.Errorf("record processed=%d success=%d error=%d, want 2/1/1",
			f.record.ProcessedCount, f.record.SuccessCount, f.record.ErrorCount)
	}

	// the failed schedule is untouched and remains billable
	stored := f.dueScheduleRepo.schedules[orphan.ID]
	if stored.Status != enum.DueScheduleStatusActive {
		t.Errorf("orphan schedule status = %s, want Active", stored.Status)
	}
}

func TestProcessRollsBackInvoicedScheduleOnOpenItemFailure(t *testing.T) {
	f := newProcessorFixture(t, IntegrityPolicyLog)
	billingDate := date(2025, time.February, 1)
	sub := f.addSubscription("Acme", "Hosting Pro", "49.99")
	ds := f.addSchedule(sub, "DS-1", billingDate)

	f.openItemRepo.failNextCreate = true

	acc, err := f.processor.Process(context.Background(), f.analysis(t, billingDate), f.record, "BATCH-3")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if acc.processed() != 0 || len(acc.errors) != 1 {
		t.Fatalf("processed=%d errors=%v, want 0 and one error", acc.processed(), acc.errors)
	}

	// the schedule was completed mid-item and must be released again
	stored := f.dueScheduleRepo.schedules[ds.ID]
	if stored.Status != enum.DueScheduleStatusActive {
		t.Errorf("schedule status = %s, want Active after rollback", stored.Status)
	}
	if stored.InvoiceID != nil || stored.BatchID != nil {
		t.Error("schedule still linked to invoice after rollback")
	}

	// the persisted invoice of the failed item must not survive as an open
	// receivable-less document
	if len(f.invoiceRepo.invoices) != 1 {
		t.Fatalf("invoice count = %d, want the single orphan", len(f.invoiceRepo.invoices))
	}
	for _, inv := range f.invoiceRepo.invoices {
		if inv.Status != enum.InvoiceStatusCancelled {
			t.Errorf("orphaned invoice status = %s, want Cancelled after rollback", inv.Status)
		}
	}
}

func TestVerifyIntegrity(t *testing.T) {
	record := func() *entity.ProcessRecord {
		return &entity.ProcessRecord{Status: enum.ProcessStatusRunning}
	}
	mismatched := func() *batchAccumulator {
		acc := newBatchAccumulator("BATCH-X")
		acc.invoiceIDs = append(acc.invoiceIDs, uuid.NewString())
		return acc
	}

	t.Run("log policy records the mismatch", func(t *testing.T) {
		f := newProcessorFixture(t, IntegrityPolicyLog)
		acc := mismatched()
		rec := record()
		if err := f.processor.verifyIntegrity(acc, rec, "BATCH-X"); err != nil {
			t.Fatalf("verifyIntegrity: %v", err)
		}
		if len(acc.errors) != 1 || !strings.Contains(acc.errors[0], "integrity check failed") {
			t.Errorf("errors = %v, want integrity failure entry", acc.errors)
		}
		if !strings.Contains(rec.ErrorLog, "integrity check failed") {
			t.Error("integrity failure missing from audit error log")
		}
	})

	t.Run("fail policy escalates", func(t *testing.T) {
		f := newProcessorFixture(t, IntegrityPolicyFail)
		if err := f.processor.verifyIntegrity(mismatched(), record(), "BATCH-X"); err == nil {
			t.Fatal("expected integrity error")
		}
	})

	t.Run("consistent counts pass", func(t *testing.T) {
		f := newProcessorFixture(t, IntegrityPolicyFail)
		if err := f.processor.verifyIntegrity(newBatchAccumulator("BATCH-X"), record(), "BATCH-X"); err != nil {
			t.Fatalf("verifyIntegrity: %v", err)
		}
	})
}
