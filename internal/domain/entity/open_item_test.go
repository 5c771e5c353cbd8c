package entity

import (
	"errors"
	"testing"
	"time"

	"github.com/finbase/billforge-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

func openItemFixture(amount string, due time.Time) *OpenItem {
	return &OpenItem{
		Number:     "OI-1",
		Amount:     decimal.RequireFromString(amount),
		PaidAmount: decimal.Zero,
		Status:     enum.OpenItemStatusOpen,
		DueDate:    due,
	}
}

func TestOpenItemPaymentLifecycle(t *testing.T) {
	now := time.Date(2025, time.February, 10, 12, 0, 0, 0, time.UTC)
	item := openItemFixture("100.00", now.AddDate(0, 0, 5))

	if err := item.RecordPayment(d("40.00"), "bank_transfer", "TX-1", now); err != nil {
		t.Fatalf("RecordPayment: %v", err)
	}
	if item.Status != enum.OpenItemStatusPartiallyPaid {
		t.Errorf("status = %s, want PartiallyPaid", item.Status)
	}
	if !item.Outstanding().Equal(d("60.00")) {
		t.Errorf("outstanding = %s, want 60.00", item.Outstanding())
	}
	if item.PaymentMethod == nil || *item.PaymentMethod != "bank_transfer" {
		t.Error("payment method not recorded")
	}

	if err := item.RecordPayment(d("60.00"), "bank_transfer", "TX-2", now); err != nil {
		t.Fatalf("RecordPayment: %v", err)
	}
	if item.Status != enum.OpenItemStatusPaid {
		t.Errorf("status = %s, want Paid", item.Status)
	}

	// paid items accept no further payments
	if err := item.RecordPayment(d("1.00"), "cash", "", now); !errors.Is(err, ErrOpenItemNotPayable) {
		t.Errorf("err = %v, want ErrOpenItemNotPayable", err)
	}
}

func TestOpenItemReversalRestoresPrePaymentState(t *testing.T) {
	now := time.Date(2025, time.February, 10, 12, 0, 0, 0, time.UTC)
	item := openItemFixture("100.00", now.AddDate(0, 0, 5))

	if err := item.RecordPayment(d("100.00"), "bank_transfer", "TX-1", now); err != nil {
		t.Fatalf("RecordPayment: %v", err)
	}
	if item.Status != enum.OpenItemStatusPaid {
		t.Fatalf("status = %s, want Paid", item.Status)
	}

	if err := item.ReversePayment(d("100.00"), now); err != nil {
		t.Fatalf("ReversePayment: %v", err)
	}
	if item.Status != enum.OpenItemStatusOpen {
		t.Errorf("status = %s, want Open", item.Status)
	}
	if !item.PaidAmount.IsZero() {
		t.Errorf("paid = %s, want 0", item.PaidAmount)
	}
	if item.PaymentMethod != nil || item.PaymentReference != nil || item.PaymentDate != nil {
		t.Error("payment facts not cleared after full reversal")
	}
}

func TestOpenItemReversalRejections(t *testing.T) {
	now := time.Now()
	item := openItemFixture("100.00", now.AddDate(0, 0, 5))
	_ = item.RecordPayment(d("40.00"), "cash", "", now)

	if err := item.ReversePayment(d("50.00"), now); !errors.Is(err, ErrReversalExceedsPaid) {
		t.Errorf("err = %v, want ErrReversalExceedsPaid", err)
	}
	if err := item.ReversePayment(decimal.Zero, now); !errors.Is(err, ErrNonPositiveAmount) {
		t.Errorf("err = %v, want ErrNonPositiveAmount", err)
	}

	item.Cancel()
	if err := item.ReversePayment(d("10.00"), now); !errors.Is(err, ErrOpenItemNotPayable) {
		t.Errorf("err = %v, want ErrOpenItemNotPayable", err)
	}
}

func TestDeriveStatus(t *testing.T) {
	now := time.Date(2025, time.February, 10, 0, 0, 0, 0, time.UTC)
	past := now.AddDate(0, 0, -5)
	future := now.AddDate(0, 0, 5)

	cases := []struct {
		name      string
		amount    string
		paid      string
		due       time.Time
		cancelled bool
		want      enum.OpenItemStatus
	}{
		{name: "unpaid before due date", amount: "100.00", paid: "0", due: future, want: enum.OpenItemStatusOpen},
		{name: "unpaid past due date", amount: "100.00", paid: "0", due: past, want: enum.OpenItemStatusOverdue},
		{name: "partially paid", amount: "100.00", paid: "30.00", due: future, want: enum.OpenItemStatusPartiallyPaid},
		{name: "partially paid past due", amount: "100.00", paid: "30.00", due: past, want: enum.OpenItemStatusPartiallyPaid},
		{name: "fully paid", amount: "100.00", paid: "100.00", due: past, want: enum.OpenItemStatusPaid},
		{name: "overpaid", amount: "100.00", paid: "120.00", due: future, want: enum.OpenItemStatusPaid},
		{name: "cancelled is sticky", amount: "100.00", paid: "100.00", due: past, cancelled: true, want: enum.OpenItemStatusCancelled},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			item := openItemFixture(tc.amount, tc.due)
			item.PaidAmount = decimal.RequireFromString(tc.paid)
			if tc.cancelled {
				item.Cancel()
			}
			if got := item.DeriveStatus(now); got != tc.want {
				t.Errorf("DeriveStatus = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestAddReminderEscalates(t *testing.T) {
	now := time.Date(2025, time.February, 10, 0, 0, 0, 0, time.UTC)
	item := openItemFixture("100.00", now.AddDate(0, 0, -3))

	item.AddReminder(now)
	if item.ReminderCount != 1 {
		t.Errorf("reminder count = %d, want 1", item.ReminderCount)
	}
	if item.LastReminderAt == nil {
		t.Error("last reminder timestamp not set")
	}
	if item.Status != enum.OpenItemStatusOverdue {
		t.Errorf("status = %s, want Overdue", item.Status)
	}

	item.AddReminder(now)
	if item.ReminderCount != 2 {
		t.Errorf("reminder count = %d, want 2", item.ReminderCount)
	}
}
