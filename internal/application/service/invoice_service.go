package service

import (
	"context"
	"fmt"
	"time"

	"github.com/finbase/billforge-api/internal/domain/entity"
	"github.com/finbase/billforge-api/internal/domain/enum"
	"github.com/finbase/billforge-api/internal/domain/repository"
	"github.com/finbase/billforge-api/pkg/apperror"
	"github.com/finbase/billforge-api/pkg/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceService handles invoice business logic
type InvoiceService struct {
	invoiceRepo     repository.InvoiceRepository
	customerRepo    repository.CustomerRepository
	dueScheduleRepo repository.DueScheduleRepository
	openItemRepo    repository.OpenItemRepository
	now             func() time.Time
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	customerRepo repository.CustomerRepository,
	dueScheduleRepo repository.DueScheduleRepository,
	openItemRepo repository.OpenItemRepository,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:     invoiceRepo,
		customerRepo:    customerRepo,
		dueScheduleRepo: dueScheduleRepo,
		openItemRepo:    openItemRepo,
		now:             time.Now,
	}
}

// GetInvoice returns one invoice with its items, schedules and credit notes
func (s *InvoiceService) GetInvoice(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetWithRelations(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	return invoice, nil
}

// ListInvoices returns a filtered, paginated invoice listing
func (s *InvoiceService) ListInvoices(ctx context.Context, params *repository.InvoiceFilterParams) ([]entity.Invoice, int64, error) {
	return s.invoiceRepo.List(ctx, params)
}

// ManualInvoiceItemInput describes one line of a manually created invoice
type ManualInvoiceItemInput struct {
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	TaxRate     decimal.Decimal
	ItemType    enum.InvoiceItemType
}

// CreateManualInvoice builds a manual invoice for a customer. Amounts are
// derived from the items; the discount is applied against the subtotal.
func (s *InvoiceService) CreateManualInvoice(ctx context.Context, customerID uuid.UUID, dueDate time.Time, items []ManualInvoiceItemInput, discount decimal.Decimal) (*entity.Invoice, error) {
	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	if len(items) == 0 {
		return nil, apperror.NewBadRequestError("An invoice needs at least one item")
	}

	invoice := &entity.Invoice{
		Number:         utils.GenerateNumber(utils.PrefixInvoice),
		InvoiceDate:    s.now(),
		DueDate:        dueDate,
		Status:         enum.InvoiceStatusOpen,
		Type:           enum.InvoiceTypeManual,
		CustomerID:     customer.ID,
		BillingAddress: customer.BillingAddress(),
	}
	for _, in := range items {
		invoice.AddItem(entity.InvoiceItem{
			Description: in.Description,
			Quantity:    in.Quantity,
			UnitPrice:   in.UnitPrice,
			TaxRate:     in.TaxRate,
			ItemType:    in.ItemType,
		})
	}
	if discount.IsPositive() {
		invoice.SetDiscount(discount)
	}

	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		return nil, fmt.Errorf("persisting invoice: %w", err)
	}
	return invoice, nil
}

// RecordPayment applies a payment fact to the invoice and forwards the
// proportional shares to the linked due schedules
func (s *InvoiceService) RecordPayment(ctx context.Context, id uuid.UUID, amount decimal.Decimal, method, reference string) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetWithRelations(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}

	if err := invoice.MarkAsPaid(amount, method, reference, s.now()); err != nil {
		return nil, apperror.NewBadRequestError(err.Error())
	}

	for i := range invoice.DueSchedules {
		if err := s.dueScheduleRepo.Update(ctx, &invoice.DueSchedules[i]); err != nil {
			return nil, fmt.Errorf("updating due schedule %s: %w", invoice.DueSchedules[i].Number, err)
		}
	}
	if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
		return nil, fmt.Errorf("updating invoice: %w", err)
	}
	return invoice, nil
}

// CancelInvoice terminates the invoice and releases its due schedules for a
// later rebilling run. The linked open item, if any, is cancelled with it.
func (s *InvoiceService) CancelInvoice(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetWithRelations(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}

	// Cancel detaches the schedule slice; keep a handle for persistence
	schedules := invoice.DueSchedules
	if err := invoice.Cancel(); err != nil {
		return nil, apperror.NewConflictError(err.Error())
	}
	for i := range schedules {
		if err := s.dueScheduleRepo.Update(ctx, &schedules[i]); err != nil {
			return nil, fmt.Errorf("updating due schedule %s: %w", schedules[i].Number, err)
		}
	}

	openItem, err := s.openItemRepo.GetByInvoiceID(ctx, invoice.ID)
	if err != nil {
		return nil, err
	}
	if openItem != nil && !openItem.Status.IsTerminal() {
		openItem.Cancel()
		if err := s.openItemRepo.Update(ctx, openItem); err != nil {
			return nil, fmt.Errorf("updating open item: %w", err)
		}
	}

	if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
		return nil, fmt.Errorf("updating invoice: %w", err)
	}
	return invoice, nil
}

// CreateCreditNote issues an offsetting document for the invoice
func (s *InvoiceService) CreateCreditNote(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetWithRelations(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	if invoice.Type == enum.InvoiceTypeCreditNote {
		return nil, apperror.NewConflictError("Credit notes cannot be credited again")
	}

	creditNote := invoice.CreateCreditNote(utils.GenerateNumber(utils.PrefixCreditNote), s.now())
	if err := s.invoiceRepo.Create(ctx, creditNote); err != nil {
		return nil, fmt.Errorf("persisting credit note: %w", err)
	}
	return creditNote, nil
}
