package entity

import (
	"errors"
	"time"

	"github.com/finbase/billforge-api/internal/domain/enum"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	// ErrOpenItemNotPayable is returned when a payment is recorded against a
	// paid or cancelled receivable
	ErrOpenItemNotPayable = errors.New("open item does not accept payments")
	// ErrReversalExceedsPaid is returned when a reversal is larger than the
	// paid-to-date amount
	ErrReversalExceedsPaid = errors.New("reversal exceeds paid amount")
)

// OpenItem tracks money owed against exactly one invoice. The status column
// is a cache: it is always re-derived from (paidAmount, amount, dueDate, now)
// and must never diverge from that derivation.
type OpenItem struct {
	ID               uuid.UUID           `gorm:"type:uuid;primary_key" json:"id"`
	Number           string              `gorm:"size:100;unique;not null" json:"number"`
	InvoiceID        uuid.UUID           `gorm:"type:uuid;not null;index" json:"invoice_id"`
	SubscriptionID   *uuid.UUID          `gorm:"type:uuid;index" json:"subscription_id,omitempty"`
	Amount           decimal.Decimal     `gorm:"type:decimal(15,2);not null" json:"amount"`
	PaidAmount       decimal.Decimal     `gorm:"type:decimal(15,2);default:0" json:"paid_amount"`
	Status           enum.OpenItemStatus `gorm:"default:0;index" json:"status"`
	DueDate          time.Time           `gorm:"type:date;not null;index" json:"due_date"`
	PaymentMethod    *string             `gorm:"size:50" json:"payment_method,omitempty"`
	PaymentReference *string             `gorm:"size:255" json:"payment_reference,omitempty"`
	PaymentDate      *time.Time          `json:"payment_date,omitempty"`
	ReminderCount    int                 `gorm:"default:0" json:"reminder_count"`
	LastReminderAt   *time.Time          `json:"last_reminder_at,omitempty"`
	ProcessRecordID  *uuid.UUID          `gorm:"type:uuid;index" json:"process_record_id,omitempty"`
	BatchID          *string             `gorm:"size:100;index" json:"batch_id,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
	DeletedAt        gorm.DeletedAt      `gorm:"index" json:"-"`

	// Relationships
	Invoice      Invoice       `gorm:"foreignKey:InvoiceID" json:"invoice,omitempty"`
	Subscription *Subscription `gorm:"foreignKey:SubscriptionID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new open item
func (o *OpenItem) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the OpenItem model
func (OpenItem) TableName() string {
	return "open_items"
}

// Outstanding returns amount − paidAmount. It is always computed, never
// cached.
func (o *OpenItem) Outstanding() decimal.Decimal {
	return o.Amount.Sub(o.PaidAmount)
}

// RecordPayment accumulates a payment and re-derives the status. Payments on
// paid or cancelled items are rejected, as are non-positive amounts.
func (o *OpenItem) RecordPayment(amount decimal.Decimal, method, reference string, now time.Time) error {
	if !amount.IsPositive() {
		return ErrNonPositiveAmount
	}
	if o.Status.IsTerminal() {
		return ErrOpenItemNotPayable
	}
	o.PaidAmount = o.PaidAmount.Add(amount)
	o.PaymentMethod = &method
	o.PaymentReference = &reference
	o.PaymentDate = &now
	o.Status = o.DeriveStatus(now)
	return nil
}

// ReversePayment undoes part or all of the paid amount and re-derives the
// status. When the paid amount returns to zero the payment method, reference
// and date are cleared, restoring the pre-payment state.
func (o *OpenItem) ReversePayment(amount decimal.Decimal, now time.Time) error {
	if !amount.IsPositive() {
		return ErrNonPositiveAmount
	}
	if amount.GreaterThan(o.PaidAmount) {
		return ErrReversalExceedsPaid
	}
	if o.Status == enum.OpenItemStatusCancelled {
		return ErrOpenItemNotPayable
	}
	o.PaidAmount = o.PaidAmount.Sub(amount)
	if o.PaidAmount.IsZero() {
		o.PaymentMethod = nil
		o.PaymentReference = nil
		o.PaymentDate = nil
	}
	o.Status = o.DeriveStatus(now)
	return nil
}

// Cancel forces the terminal Cancelled state regardless of prior state
func (o *OpenItem) Cancel() {
	o.Status = enum.OpenItemStatusCancelled
}

// AddReminder increments the dunning counter, stamps the reminder date, and
// promotes an unpaid item past its due date to Overdue.
func (o *OpenItem) AddReminder(now time.Time) {
	o.ReminderCount++
	o.LastReminderAt = &now
	if o.Status == enum.OpenItemStatusOpen && o.isPastDue(now) {
		o.Status = enum.OpenItemStatusOverdue
	}
}

// DeriveStatus computes the status from (paidAmount, amount, dueDate, now).
// Cancelled is sticky: it cannot be left via derivation.
func (o *OpenItem) DeriveStatus(now time.Time) enum.OpenItemStatus {
	if o.Status == enum.OpenItemStatusCancelled {
		return enum.OpenItemStatusCancelled
	}
	switch {
	case o.PaidAmount.GreaterThanOrEqual(o.Amount):
		return enum.OpenItemStatusPaid
	case o.PaidAmount.IsPositive():
		return enum.OpenItemStatusPartiallyPaid
	case o.isPastDue(now):
		return enum.OpenItemStatusOverdue
	default:
		return enum.OpenItemStatusOpen
	}
}

func (o *OpenItem) isPastDue(now time.Time) bool {
	return o.DueDate.Before(truncateToDay(now))
}
