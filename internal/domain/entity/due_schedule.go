package entity

import (
	"errors"
	"fmt"
	"time"

	"github.com/finbase/billforge-api/internal/domain/enum"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	// ErrDueScheduleNotActive is returned when an invoicing transition is
	// attempted on a schedule that is not in the Active state
	ErrDueScheduleNotActive = errors.New("due schedule is not active")
	// ErrDueScheduleNotInvoiced is returned when an invoicing reversal is
	// attempted on a schedule that was never invoiced
	ErrDueScheduleNotInvoiced = errors.New("due schedule is not invoiced")
)

// DueSchedule represents one recurring charge instance for a subscription
// billing period. An Active schedule has no invoice link; a Completed
// schedule always carries the invoice id and batch id that settled it.
type DueSchedule struct {
	ID             uuid.UUID              `gorm:"type:uuid;primary_key" json:"id"`
	Number         string                 `gorm:"size:100;unique;not null" json:"number"`
	SubscriptionID uuid.UUID              `gorm:"type:uuid;not null;index" json:"subscription_id"`
	DueDate        time.Time              `gorm:"type:date;not null;index" json:"due_date"`
	PeriodStart    time.Time              `gorm:"type:date;not null" json:"period_start"`
	PeriodEnd      time.Time              `gorm:"type:date;not null" json:"period_end"`
	Amount         decimal.Decimal        `gorm:"type:decimal(15,2);not null" json:"amount"`
	PaidAmount     decimal.Decimal        `gorm:"type:decimal(15,2);default:0" json:"paid_amount"`
	Status         enum.DueScheduleStatus `gorm:"default:0;index" json:"status"`
	InvoiceID      *uuid.UUID             `gorm:"type:uuid;index" json:"invoice_id,omitempty"`
	BatchID        *string                `gorm:"size:100;index" json:"batch_id,omitempty"`
	InvoicedAt     *time.Time             `json:"invoiced_at,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
	DeletedAt      gorm.DeletedAt         `gorm:"index" json:"-"`

	// Relationships
	Subscription Subscription `gorm:"foreignKey:SubscriptionID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new due schedule
func (d *DueSchedule) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the DueSchedule model
func (DueSchedule) TableName() string {
	return "due_schedules"
}

// MarkInvoiced transitions the schedule to Completed and stores the invoice
// and batch linkage. Only an Active schedule may be invoiced; re-running a
// batch against an already-Completed schedule is rejected here, which is what
// makes double invoicing impossible.
func (d *DueSchedule) MarkInvoiced(invoiceID uuid.UUID, batchID string, now time.Time) error {
	if d.Status != enum.DueScheduleStatusActive {
		return fmt.Errorf("%w: %s is %s", ErrDueScheduleNotActive, d.Number, d.Status)
	}
	d.Status = enum.DueScheduleStatusCompleted
	d.InvoiceID = &invoiceID
	d.BatchID = &batchID
	d.InvoicedAt = &now
	return nil
}

// RevertInvoicing undoes MarkInvoiced so the schedule becomes eligible for
// rebilling. Used by per-item rollback and by invoice cancellation.
func (d *DueSchedule) RevertInvoicing() error {
	if d.Status != enum.DueScheduleStatusCompleted {
		return fmt.Errorf("%w: %s is %s", ErrDueScheduleNotInvoiced, d.Number, d.Status)
	}
	d.Status = enum.DueScheduleStatusActive
	d.InvoiceID = nil
	d.BatchID = nil
	d.InvoicedAt = nil
	return nil
}

// RecordPayment accumulates the proportional payment share forwarded from the
// settling invoice
func (d *DueSchedule) RecordPayment(amount decimal.Decimal) {
	d.PaidAmount = d.PaidAmount.Add(amount)
}

// Pause suspends billing for the schedule without losing it
func (d *DueSchedule) Pause() error {
	if d.Status != enum.DueScheduleStatusActive {
		return fmt.Errorf("%w: %s is %s", ErrDueScheduleNotActive, d.Number, d.Status)
	}
	d.Status = enum.DueScheduleStatusPaused
	return nil
}

// Suspend marks the schedule suspended, e.g. for a delinquent subscription
func (d *DueSchedule) Suspend() error {
	if d.Status == enum.DueScheduleStatusCompleted {
		return fmt.Errorf("%w: %s is %s", ErrDueScheduleNotActive, d.Number, d.Status)
	}
	d.Status = enum.DueScheduleStatusSuspended
	return nil
}

// Resume reactivates a paused or suspended schedule
func (d *DueSchedule) Resume() error {
	if d.Status != enum.DueScheduleStatusPaused && d.Status != enum.DueScheduleStatusSuspended {
		return fmt.Errorf("cannot resume schedule %s from %s", d.Number, d.Status)
	}
	d.Status = enum.DueScheduleStatusActive
	return nil
}

// IsOverdue reports whether the schedule's due date lies strictly before the
// given billing date
func (d *DueSchedule) IsOverdue(billingDate time.Time) bool {
	return d.DueDate.Before(truncateToDay(billingDate))
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
