package service

import (
	"context"
	"testing"
	"time"

	"github.com/finbase/billforge-api/internal/domain/entity"
	"github.com/finbase/billforge-api/internal/domain/enum"
	"github.com/finbase/billforge-api/pkg/email"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type openItemServiceFixture struct {
	openItemRepo     *fakeOpenItemRepo
	invoiceRepo      *fakeInvoiceRepo
	subscriptionRepo *fakeSubscriptionRepo
	svc              *OpenItemService
}

func newOpenItemServiceFixture() *openItemServiceFixture {
	f := &openItemServiceFixture{
		openItemRepo:     newFakeOpenItemRepo(),
		invoiceRepo:      newFakeInvoiceRepo(),
		subscriptionRepo: newFakeSubscriptionRepo(),
	}
	f.svc = NewOpenItemService(
		f.openItemRepo,
		f.invoiceRepo,
		f.subscriptionRepo,
		email.NewEmailService(email.EmailConfig{}),
		zerolog.Nop(),
	)
	f.svc.now = func() time.Time { return date(2025, time.February, 1) }
	return f
}

func (f *openItemServiceFixture) seedItem(t *testing.T) (*entity.OpenItem, *entity.Subscription) {
	t.Helper()
	ctx := context.Background()

	sub := &entity.Subscription{
		Number:        "SUB-1",
		MonthlyAmount: decimal.RequireFromString("49.99"),
		PaidAmount:    decimal.Zero,
		Status:        enum.SubscriptionStatusActive,
	}
	f.subscriptionRepo.add(sub)

	invoice := &entity.Invoice{ID: uuid.New(), Number: "INV-1", Status: enum.InvoiceStatusOpen}
	invoice.AddItem(entity.InvoiceItem{Quantity: decimal.NewFromInt(1), UnitPrice: decimal.RequireFromString("49.99")})
	if err := f.invoiceRepo.Create(ctx, invoice); err != nil {
		t.Fatalf("Create invoice: %v", err)
	}

	item := &entity.OpenItem{
		Number:         "OI-1",
		InvoiceID:      invoice.ID,
		SubscriptionID: &sub.ID,
		Amount:         invoice.Total,
		Status:         enum.OpenItemStatusOpen,
		DueDate:        date(2025, time.February, 15),
	}
	if err := f.openItemRepo.Create(ctx, item); err != nil {
		t.Fatalf("Create open item: %v", err)
	}
	return item, sub
}

func TestOpenItemRecordPaymentForwardsToInvoiceAndSubscription(t *testing.T) {
	f := newOpenItemServiceFixture()
	item, sub := f.seedItem(t)

	paid, err := f.svc.RecordPayment(context.Background(), item.ID, item.Amount, "bank_transfer", "TX-1")
	if err != nil {
		t.Fatalf("RecordPayment: %v", err)
	}
	if paid.Status != enum.OpenItemStatusPaid {
		t.Errorf("item status = %s, want Paid", paid.Status)
	}

	invoice := f.invoiceRepo.invoices[item.InvoiceID]
	if invoice.Status != enum.InvoiceStatusPaid {
		t.Errorf("invoice status = %s, want Paid", invoice.Status)
	}
	if !f.subscriptionRepo.subs[sub.ID].PaidAmount.Equal(item.Amount) {
		t.Error("payment not forwarded to the subscription")
	}
}

func TestOpenItemReverseThenRepay(t *testing.T) {
	f := newOpenItemServiceFixture()
	item, _ := f.seedItem(t)
	ctx := context.Background()

	if _, err := f.svc.RecordPayment(ctx, item.ID, decimal.RequireFromString("20.00"), "cash", ""); err != nil {
		t.Fatalf("RecordPayment: %v", err)
	}
	reversed, err := f.svc.ReversePayment(ctx, item.ID, decimal.RequireFromString("20.00"))
	if err != nil {
		t.Fatalf("ReversePayment: %v", err)
	}
	if reversed.Status != enum.OpenItemStatusOpen {
		t.Errorf("status = %s, want Open after full reversal", reversed.Status)
	}

	if _, err := f.svc.ReversePayment(ctx, item.ID, decimal.RequireFromString("5.00")); err == nil {
		t.Error("reversal beyond paid amount must fail")
	}
}

func TestSendReminderEscalatesWithoutCustomerEmail(t *testing.T) {
	f := newOpenItemServiceFixture()
	item, _ := f.seedItem(t)

	// the linked invoice carries no customer email; the escalation itself
	// must still go through
	reminded, err := f.svc.SendReminder(context.Background(), item.ID)
	if err != nil {
		t.Fatalf("SendReminder: %v", err)
	}
	if reminded.ReminderCount != 1 {
		t.Errorf("reminder count = %d, want 1", reminded.ReminderCount)
	}
	if reminded.LastReminderAt == nil {
		t.Error("reminder timestamp not set")
	}
}

func TestSendReminderRejectsSettledItems(t *testing.T) {
	f := newOpenItemServiceFixture()
	item, _ := f.seedItem(t)
	ctx := context.Background()

	if _, err := f.svc.RecordPayment(ctx, item.ID, item.Amount, "cash", ""); err != nil {
		t.Fatalf("RecordPayment: %v", err)
	}
	if _, err := f.svc.SendReminder(ctx, item.ID); err == nil {
		t.Error("reminder for a paid item must fail")
	}
}

func TestOpenItemRecordPaymentSurvivesUnpayableInvoice(t *testing.T) {
	f := newOpenItemServiceFixture()
	item, _ := f.seedItem(t)
	ctx := context.Background()

	invoice := f.invoiceRepo.invoices[item.InvoiceID]
	if err := invoice.Cancel(); err != nil {
		t.Fatalf("Cancel invoice: %v", err)
	}

	paid, err := f.svc.RecordPayment(ctx, item.ID, item.Amount, "cash", "")
	if err != nil {
		t.Fatalf("RecordPayment: %v", err)
	}
	if paid.Status != enum.OpenItemStatusPaid {
		t.Errorf("item status = %s, want Paid", paid.Status)
	}
	if invoice.Status != enum.InvoiceStatusCancelled {
		t.Errorf("invoice status = %s, want Cancelled untouched", invoice.Status)
	}
}

func TestCancelOpenItem(t *testing.T) {
	f := newOpenItemServiceFixture()
	item, _ := f.seedItem(t)
	ctx := context.Background()

	cancelled, err := f.svc.CancelOpenItem(ctx, item.ID)
	if err != nil {
		t.Fatalf("CancelOpenItem: %v", err)
	}
	if cancelled.Status != enum.OpenItemStatusCancelled {
		t.Errorf("status = %s, want Cancelled", cancelled.Status)
	}
	if _, err := f.svc.CancelOpenItem(ctx, item.ID); err == nil {
		t.Error("second cancel must fail")
	}
}
