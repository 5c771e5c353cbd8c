package entity

import (
	"errors"
	"testing"
	"time"

	"github.com/finbase/billforge-api/internal/domain/enum"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func scheduleFixture(due time.Time) *DueSchedule {
	return &DueSchedule{
		Number:      "DS-1",
		DueDate:     due,
		PeriodStart: due,
		PeriodEnd:   due.AddDate(0, 1, -1),
		Amount:      decimal.RequireFromString("49.99"),
		PaidAmount:  decimal.Zero,
		Status:      enum.DueScheduleStatusActive,
	}
}

func TestMarkInvoicedIsOneShot(t *testing.T) {
	now := time.Now()
	ds := scheduleFixture(now)
	invoiceID := uuid.New()

	if err := ds.MarkInvoiced(invoiceID, "BATCH-1", now); err != nil {
		t.Fatalf("MarkInvoiced: %v", err)
	}
	if ds.Status != enum.DueScheduleStatusCompleted {
		t.Errorf("status = %s, want Completed", ds.Status)
	}
	if ds.InvoiceID == nil || *ds.InvoiceID != invoiceID {
		t.Error("invoice linkage not stored")
	}
	if ds.BatchID == nil || *ds.BatchID != "BATCH-1" {
		t.Error("batch linkage not stored")
	}
	if ds.InvoicedAt == nil {
		t.Error("invoiced timestamp not stored")
	}

	// invoicing the same schedule again must be rejected
	if err := ds.MarkInvoiced(uuid.New(), "BATCH-2", now); !errors.Is(err, ErrDueScheduleNotActive) {
		t.Errorf("err = %v, want ErrDueScheduleNotActive", err)
	}
	if *ds.InvoiceID != invoiceID || *ds.BatchID != "BATCH-1" {
		t.Error("rejected re-invoicing mutated the schedule")
	}
}

func TestMarkInvoicedRequiresActive(t *testing.T) {
	now := time.Now()
	for _, status := range []enum.DueScheduleStatus{
		enum.DueScheduleStatusPaused,
		enum.DueScheduleStatusSuspended,
		enum.DueScheduleStatusCompleted,
	} {
		ds := scheduleFixture(now)
		ds.Status = status
		if err := ds.MarkInvoiced(uuid.New(), "BATCH-1", now); !errors.Is(err, ErrDueScheduleNotActive) {
			t.Errorf("%s: err = %v, want ErrDueScheduleNotActive", status, err)
		}
	}
}

func TestRevertInvoicing(t *testing.T) {
	now := time.Now()
	ds := scheduleFixture(now)
	_ = ds.MarkInvoiced(uuid.New(), "BATCH-1", now)

	if err := ds.RevertInvoicing(); err != nil {
		t.Fatalf("RevertInvoicing: %v", err)
	}
	if ds.Status != enum.DueScheduleStatusActive {
		t.Errorf("status = %s, want Active", ds.Status)
	}
	if ds.InvoiceID != nil || ds.BatchID != nil || ds.InvoicedAt != nil {
		t.Error("invoicing linkage not cleared")
	}

	if err := ds.RevertInvoicing(); !errors.Is(err, ErrDueScheduleNotInvoiced) {
		t.Errorf("revert of active schedule: err = %v, want ErrDueScheduleNotInvoiced", err)
	}
}

func TestScheduleSuspendAndResume(t *testing.T) {
	ds := scheduleFixture(time.Now())

	if err := ds.Pause(); err != nil {
		t.Fatalf("Pause: %v", err)
	}
	if err := ds.Pause(); err == nil {
		t.Error("pausing a paused schedule must fail")
	}
	if err := ds.Resume(); err != nil {
		t.Fatalf("Resume: %v", err)
	}
	if ds.Status != enum.DueScheduleStatusActive {
		t.Errorf("status = %s, want Active", ds.Status)
	}

	if err := ds.Suspend(); err != nil {
		t.Fatalf("Suspend: %v", err)
	}
	if err := ds.Resume(); err != nil {
		t.Fatalf("Resume from suspended: %v", err)
	}

	// completed schedules can neither be suspended nor resumed
	_ = ds.MarkInvoiced(uuid.New(), "BATCH-1", time.Now())
	if err := ds.Suspend(); err == nil {
		t.Error("suspending a completed schedule must fail")
	}
	if err := ds.Resume(); err == nil {
		t.Error("resuming a completed schedule must fail")
	}
}

func TestIsOverdue(t *testing.T) {
	billingDate := time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)

	if !scheduleFixture(billingDate.AddDate(0, 0, -1)).IsOverdue(billingDate) {
		t.Error("yesterday's schedule must be overdue")
	}
	if scheduleFixture(billingDate).IsOverdue(billingDate) {
		t.Error("today's schedule is current, not overdue")
	}
	if scheduleFixture(billingDate.AddDate(0, 0, 1)).IsOverdue(billingDate) {
		t.Error("tomorrow's schedule must not be overdue")
	}
	// a time-of-day component on the billing date does not change the answer
	if scheduleFixture(billingDate).IsOverdue(billingDate.Add(18 * time.Hour)) {
		t.Error("same-day billing time must not make the schedule overdue")
	}
}
