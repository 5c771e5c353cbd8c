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
	// ErrInvoiceNotPayable is returned when a payment is recorded against a
	// cancelled invoice
	ErrInvoiceNotPayable = errors.New("invoice does not accept payments")
	// ErrInvoiceAlreadyCancelled is returned when cancelling twice
	ErrInvoiceAlreadyCancelled = errors.New("invoice is already cancelled")
	// ErrNonPositiveAmount rejects zero or negative payment amounts
	ErrNonPositiveAmount = errors.New("amount must be positive")
)

// ratioPrecision is the scale used for intermediate payment-allocation and
// tax ratios; money itself is always rounded to 2 places.
const ratioPrecision = 4

// Invoice represents a billing document. Subtotal, tax and total are never
// stored inconsistently with the items: Recalculate is invoked on every item
// or discount change.
type Invoice struct {
	ID                uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	Number            string             `gorm:"size:100;unique;not null" json:"number"`
	InvoiceDate       time.Time          `gorm:"type:date;not null" json:"invoice_date"`
	DueDate           time.Time          `gorm:"type:date;not null" json:"due_date"`
	Status            enum.InvoiceStatus `gorm:"default:0;index" json:"status"`
	Type              enum.InvoiceType   `gorm:"default:0" json:"type"`
	SubTotal          decimal.Decimal    `gorm:"type:decimal(15,2);default:0" json:"sub_total"`
	TaxAmount         decimal.Decimal    `gorm:"type:decimal(15,2);default:0" json:"tax_amount"`
	DiscountAmount    decimal.Decimal    `gorm:"type:decimal(15,2);default:0" json:"discount_amount"`
	Total             decimal.Decimal    `gorm:"type:decimal(15,2);default:0" json:"total"`
	CustomerID        uuid.UUID          `gorm:"type:uuid;not null;index" json:"customer_id"`
	BillingAddress    string             `gorm:"size:500" json:"billing_address"`
	OriginalInvoiceID *uuid.UUID         `gorm:"type:uuid;index" json:"original_invoice_id,omitempty"`
	BatchID           *string            `gorm:"size:100;index" json:"batch_id,omitempty"`
	ProcessRecordID   *uuid.UUID         `gorm:"type:uuid;index" json:"process_record_id,omitempty"`
	PaymentDate       *time.Time         `json:"payment_date,omitempty"`
	PaymentMethod     *string            `gorm:"size:50" json:"payment_method,omitempty"`
	PaymentReference  *string            `gorm:"size:255" json:"payment_reference,omitempty"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
	DeletedAt         gorm.DeletedAt     `gorm:"index" json:"-"`

	// Relationships
	Customer     Customer      `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Items        []InvoiceItem `gorm:"foreignKey:InvoiceID" json:"items,omitempty"`
	DueSchedules []DueSchedule `gorm:"foreignKey:InvoiceID" json:"due_schedules,omitempty"`
	CreditNotes  []Invoice     `gorm:"foreignKey:OriginalInvoiceID" json:"credit_notes,omitempty"`
}

// BeforeCreate generates a UUID before creating a new invoice
func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Invoice model
func (Invoice) TableName() string {
	return "invoices"
}

// AddItem appends a line and recomputes the totals
func (i *Invoice) AddItem(item InvoiceItem) {
	item.InvoiceID = i.ID
	item.ComputeLineTotal()
	i.Items = append(i.Items, item)
	i.Recalculate()
}

// RemoveItem deletes the line with the given id and recomputes the totals
func (i *Invoice) RemoveItem(itemID uuid.UUID) {
	items := i.Items[:0]
	for _, it := range i.Items {
		if it.ID != itemID {
			items = append(items, it)
		}
	}
	i.Items = items
	i.Recalculate()
}

// SetDiscount replaces the document discount and recomputes the totals
func (i *Invoice) SetDiscount(discount decimal.Decimal) {
	i.DiscountAmount = discount
	i.Recalculate()
}

// Recalculate derives subtotal, tax and total from the items and the
// document discount:
//
//	subtotal = Σ(line totals) − discount, clamped at zero
//	total    = subtotal + tax
func (i *Invoice) Recalculate() {
	lineSum := decimal.Zero
	taxSum := decimal.Zero
	for idx := range i.Items {
		i.Items[idx].ComputeLineTotal()
		lineSum = lineSum.Add(i.Items[idx].LineTotal)
		taxSum = taxSum.Add(i.Items[idx].TaxAmount)
	}
	subTotal := lineSum.Sub(i.DiscountAmount)
	if subTotal.IsNegative() && !lineSum.IsNegative() {
		// the discount never pushes a document negative; credit notes with
		// negated lines keep their negative sum
		subTotal = decimal.Zero
	}
	i.SubTotal = subTotal.Round(2)
	i.TaxAmount = taxSum.Round(2)
	i.Total = i.SubTotal.Add(i.TaxAmount)
}

// Outstanding returns the unpaid part of the invoice total, derived from the
// linked due schedules' paid amounts for recurring invoices
func (i *Invoice) Outstanding(paid decimal.Decimal) decimal.Decimal {
	return i.Total.Sub(paid)
}

// MarkAsPaid records a payment fact against the invoice and allocates it
// proportionally across every linked due schedule still marked as invoiced:
//
//	proportion = scheduleAmount / invoiceTotal  (4 decimals, half-up)
//	share      = amount × proportion            (2 decimals, half-up)
func (i *Invoice) MarkAsPaid(amount decimal.Decimal, method, reference string, now time.Time) error {
	if !amount.IsPositive() {
		return ErrNonPositiveAmount
	}
	if i.Status == enum.InvoiceStatusCancelled {
		return ErrInvoiceNotPayable
	}

	i.PaymentDate = &now
	i.PaymentMethod = &method
	i.PaymentReference = &reference
	if amount.GreaterThanOrEqual(i.Total) {
		i.Status = enum.InvoiceStatusPaid
	} else {
		i.Status = enum.InvoiceStatusPartiallyPaid
	}

	if i.Total.IsZero() {
		return nil
	}
	for idx := range i.DueSchedules {
		ds := &i.DueSchedules[idx]
		if ds.Status != enum.DueScheduleStatusCompleted || ds.InvoiceID == nil || *ds.InvoiceID != i.ID {
			continue
		}
		proportion := ds.Amount.DivRound(i.Total, ratioPrecision)
		share := amount.Mul(proportion).Round(2)
		ds.RecordPayment(share)
	}
	return nil
}

// Cancel terminates the invoice and releases every linked due schedule for
// rebilling. Cancelled invoices are terminal.
func (i *Invoice) Cancel() error {
	if i.Status == enum.InvoiceStatusCancelled {
		return ErrInvoiceAlreadyCancelled
	}
	i.Status = enum.InvoiceStatusCancelled
	for idx := range i.DueSchedules {
		if i.DueSchedules[idx].Status == enum.DueScheduleStatusCompleted {
			// revert only what this invoice settled
			if id := i.DueSchedules[idx].InvoiceID; id != nil && *id == i.ID {
				_ = i.DueSchedules[idx].RevertInvoicing()
			}
		}
	}
	i.DueSchedules = nil
	return nil
}

// CreateCreditNote builds a new invoice that offsets this one: every item
// quantity is negated, the customer and billing address are copied, and the
// new document references this invoice as its original.
func (i *Invoice) CreateCreditNote(number string, now time.Time) *Invoice {
	originalID := i.ID
	cn := &Invoice{
		ID:                uuid.New(),
		Number:            number,
		InvoiceDate:       now,
		DueDate:           now,
		Status:            enum.InvoiceStatusOpen,
		Type:              enum.InvoiceTypeCreditNote,
		CustomerID:        i.CustomerID,
		BillingAddress:    i.BillingAddress,
		OriginalInvoiceID: &originalID,
	}
	for _, item := range i.Items {
		negated := InvoiceItem{
			Description: item.Description,
			Quantity:    item.Quantity.Neg(),
			UnitPrice:   item.UnitPrice,
			TaxRate:     item.TaxRate,
			Discount:    item.Discount,
			ItemType:    item.ItemType,
			PeriodStart: item.PeriodStart,
			PeriodEnd:   item.PeriodEnd,
		}
		cn.AddItem(negated)
	}
	cn.Recalculate()
	i.CreditNotes = append(i.CreditNotes, *cn)
	return cn
}

// InvoiceItem represents one line of an invoice
type InvoiceItem struct {
	ID            uuid.UUID            `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceID     uuid.UUID            `gorm:"type:uuid;not null;index" json:"invoice_id"`
	Description   string               `gorm:"size:500;not null" json:"description"`
	Quantity      decimal.Decimal      `gorm:"type:decimal(15,4);not null" json:"quantity"`
	UnitPrice     decimal.Decimal      `gorm:"type:decimal(15,2);not null" json:"unit_price"`
	LineTotal     decimal.Decimal      `gorm:"type:decimal(15,2);not null" json:"line_total"`
	TaxRate       decimal.Decimal      `gorm:"type:decimal(8,4);default:0" json:"tax_rate"`
	TaxAmount     decimal.Decimal      `gorm:"type:decimal(15,2);default:0" json:"tax_amount"`
	Discount      decimal.Decimal      `gorm:"type:decimal(15,2);default:0" json:"discount"`
	ItemType      enum.InvoiceItemType `gorm:"default:0" json:"item_type"`
	DueScheduleID *uuid.UUID           `gorm:"type:uuid;index" json:"due_schedule_id,omitempty"`
	PeriodStart   *time.Time           `gorm:"type:date" json:"period_start,omitempty"`
	PeriodEnd     *time.Time           `gorm:"type:date" json:"period_end,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
	DeletedAt     gorm.DeletedAt       `gorm:"index" json:"-"`

	// Relationships
	Invoice Invoice `gorm:"foreignKey:InvoiceID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new invoice item
func (it *InvoiceItem) BeforeCreate(tx *gorm.DB) error {
	if it.ID == uuid.Nil {
		it.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the InvoiceItem model
func (InvoiceItem) TableName() string {
	return "invoice_items"
}

// ComputeLineTotal derives line total and tax from quantity, unit price and
// discount. Negative line totals only occur on credit-note items, where the
// quantity itself is negated.
func (it *InvoiceItem) ComputeLineTotal() {
	total := it.Quantity.Mul(it.UnitPrice).Sub(it.Discount)
	if total.IsNegative() && it.Quantity.IsPositive() {
		// only negated quantities (credit notes) may produce negative lines
		total = decimal.Zero
	}
	it.LineTotal = total.Round(2)
	if !it.TaxRate.IsZero() {
		it.TaxAmount = it.LineTotal.Mul(it.TaxRate.DivRound(decimal.NewFromInt(100), ratioPrecision)).Round(2)
	} else {
		it.TaxAmount = decimal.Zero
	}
}
