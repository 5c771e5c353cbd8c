package service

import (
	"context"
	"fmt"
	"time"

	"github.com/finbase/billforge-api/internal/domain/entity"
	"github.com/finbase/billforge-api/internal/domain/repository"
	"github.com/finbase/billforge-api/pkg/apperror"
	"github.com/finbase/billforge-api/pkg/email"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// OpenItemService handles receivable business logic
type OpenItemService struct {
	openItemRepo     repository.OpenItemRepository
	invoiceRepo      repository.InvoiceRepository
	subscriptionRepo repository.SubscriptionRepository
	emailService     *email.EmailService
	logger           zerolog.Logger
	now              func() time.Time
}

// NewOpenItemService creates a new open item service
func NewOpenItemService(
	openItemRepo repository.OpenItemRepository,
	invoiceRepo repository.InvoiceRepository,
	subscriptionRepo repository.SubscriptionRepository,
	emailService *email.EmailService,
	logger zerolog.Logger,
) *OpenItemService {
	return &OpenItemService{
		openItemRepo:     openItemRepo,
		invoiceRepo:      invoiceRepo,
		subscriptionRepo: subscriptionRepo,
		emailService:     emailService,
		logger:           logger,
		now:              time.Now,
	}
}

// GetOpenItem returns one receivable by id
func (s *OpenItemService) GetOpenItem(ctx context.Context, id uuid.UUID) (*entity.OpenItem, error) {
	item, err := s.openItemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperror.NewNotFoundError("Open item")
	}
	return item, nil
}

// ListOpenItems returns a filtered, paginated receivable listing
func (s *OpenItemService) ListOpenItems(ctx context.Context, params *repository.OpenItemFilterParams) ([]entity.OpenItem, int64, error) {
	return s.openItemRepo.List(ctx, params)
}

// RecordPayment applies a payment to the receivable and forwards it to the
// invoice, which allocates it across any linked due schedules
func (s *OpenItemService) RecordPayment(ctx context.Context, id uuid.UUID, amount decimal.Decimal, method, reference string) (*entity.OpenItem, error) {
	item, err := s.openItemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperror.NewNotFoundError("Open item")
	}

	now := s.now()
	if err := item.RecordPayment(amount, method, reference, now); err != nil {
		return nil, apperror.NewBadRequestError(err.Error())
	}
	if err := s.openItemRepo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("updating open item: %w", err)
	}

	invoice, err := s.invoiceRepo.GetWithRelations(ctx, item.InvoiceID)
	if err != nil {
		return nil, err
	}
	if invoice != nil {
		if err := invoice.MarkAsPaid(amount, method, reference, now); err != nil {
			// the receivable's own state is authoritative; a non-payable
			// invoice only loses the forwarded allocation
			s.logger.Warn().
				Str("open_item", item.Number).
				Str("invoice", invoice.Number).
				Err(err).
				Msg("payment not forwarded to invoice")
		} else if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
			return nil, fmt.Errorf("updating invoice: %w", err)
		}
	}

	if item.SubscriptionID != nil {
		subscription, err := s.subscriptionRepo.GetByID(ctx, *item.SubscriptionID)
		if err != nil {
			return nil, err
		}
		if subscription != nil {
			subscription.RecordPayment(amount)
			if err := s.subscriptionRepo.Update(ctx, subscription); err != nil {
				return nil, fmt.Errorf("updating subscription: %w", err)
			}
		}
	}
	return item, nil
}

// ReversePayment undoes part or all of a payment, e.g. after a chargeback
func (s *OpenItemService) ReversePayment(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (*entity.OpenItem, error) {
	item, err := s.openItemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperror.NewNotFoundError("Open item")
	}
	if err := item.ReversePayment(amount, s.now()); err != nil {
		return nil, apperror.NewBadRequestError(err.Error())
	}
	if err := s.openItemRepo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("updating open item: %w", err)
	}
	return item, nil
}

// CancelOpenItem writes off the receivable
func (s *OpenItemService) CancelOpenItem(ctx context.Context, id uuid.UUID) (*entity.OpenItem, error) {
	item, err := s.openItemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperror.NewNotFoundError("Open item")
	}
	if item.Status.IsTerminal() {
		return nil, apperror.NewConflictError("Open item is already closed")
	}
	item.Cancel()
	if err := s.openItemRepo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("updating open item: %w", err)
	}
	return item, nil
}

// SendReminder escalates the receivable and mails a dunning notice to the
// customer. A mail delivery failure does not roll back the escalation.
func (s *OpenItemService) SendReminder(ctx context.Context, id uuid.UUID) (*entity.OpenItem, error) {
	item, err := s.openItemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperror.NewNotFoundError("Open item")
	}
	if item.Status.IsTerminal() {
		return nil, apperror.NewConflictError("Open item is already closed")
	}
	if !item.Outstanding().IsPositive() {
		return nil, apperror.NewBadRequestError("Open item has no outstanding amount")
	}

	item.AddReminder(s.now())
	if err := s.openItemRepo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("updating open item: %w", err)
	}

	invoice, err := s.invoiceRepo.GetWithRelations(ctx, item.InvoiceID)
	if err != nil || invoice == nil {
		s.logger.Warn().Str("open_item", item.Number).Msg("reminder sent without invoice context")
		return item, nil
	}
	customer := invoice.Customer
	if customer.Email == nil || *customer.Email == "" {
		s.logger.Warn().Str("open_item", item.Number).Msg("customer has no email, reminder not mailed")
		return item, nil
	}

	reminder := email.PaymentReminder{
		CustomerName:  customer.Name,
		InvoiceNumber: invoice.Number,
		Outstanding:   item.Outstanding().StringFixed(2),
		DueDate:       item.DueDate,
		ReminderNo:    item.ReminderCount,
	}
	if err := s.emailService.SendPaymentReminderEmail(*customer.Email, reminder); err != nil {
		s.logger.Error().Err(err).Str("open_item", item.Number).Msg("reminder email failed")
	}
	return item, nil
}
