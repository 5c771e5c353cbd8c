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

// SubscriptionService handles subscription business logic, including the
// provisioning of monthly due schedules
type SubscriptionService struct {
	subscriptionRepo repository.SubscriptionRepository
	dueScheduleRepo  repository.DueScheduleRepository
	customerRepo     repository.CustomerRepository
	scheduleMonths   int
	now              func() time.Time
}

// NewSubscriptionService creates a new subscription service
func NewSubscriptionService(
	subscriptionRepo repository.SubscriptionRepository,
	dueScheduleRepo repository.DueScheduleRepository,
	customerRepo repository.CustomerRepository,
	scheduleMonths int,
) *SubscriptionService {
	return &SubscriptionService{
		subscriptionRepo: subscriptionRepo,
		dueScheduleRepo:  dueScheduleRepo,
		customerRepo:     customerRepo,
		scheduleMonths:   scheduleMonths,
		now:              time.Now,
	}
}

// CreateSubscriptionInput carries the fields for a new subscription
type CreateSubscriptionInput struct {
	CustomerID      uuid.UUID
	ProductName     string
	Description     *string
	MonthlyAmount   decimal.Decimal
	PaymentTermDays int
	StartDate       time.Time
}

// CreateSubscription creates the subscription and provisions one due
// schedule per month for the configured horizon
func (s *SubscriptionService) CreateSubscription(ctx context.Context, input CreateSubscriptionInput) (*entity.Subscription, error) {
	customer, err := s.customerRepo.GetByID(ctx, input.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	if !input.MonthlyAmount.IsPositive() {
		return nil, apperror.NewBadRequestError("Monthly amount must be positive")
	}

	termDays := input.PaymentTermDays
	if termDays <= 0 {
		termDays = 14
	}
	subscription := &entity.Subscription{
		Number:          utils.GenerateNumber(utils.PrefixSubscription),
		CustomerID:      customer.ID,
		ProductName:     input.ProductName,
		Description:     input.Description,
		MonthlyAmount:   input.MonthlyAmount,
		PaidAmount:      decimal.Zero,
		PaymentTermDays: termDays,
		Status:          enum.SubscriptionStatusActive,
		StartDate:       input.StartDate,
	}
	if err := s.subscriptionRepo.Create(ctx, subscription); err != nil {
		return nil, fmt.Errorf("persisting subscription: %w", err)
	}

	schedules := s.buildSchedules(subscription, input.StartDate, s.scheduleMonths)
	if err := s.dueScheduleRepo.CreateBatch(ctx, schedules); err != nil {
		return nil, fmt.Errorf("provisioning due schedules: %w", err)
	}
	subscription.DueSchedules = schedules
	return subscription, nil
}

// RenewSubscription extends the schedule horizon by months, continuing after
// the last existing billing period
func (s *SubscriptionService) RenewSubscription(ctx context.Context, id uuid.UUID, months int) (*entity.Subscription, error) {
	if months <= 0 {
		return nil, apperror.NewBadRequestError("Months must be positive")
	}
	subscription, err := s.subscriptionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if subscription == nil {
		return nil, apperror.NewNotFoundError("Subscription")
	}
	if subscription.Status == enum.SubscriptionStatusCancelled {
		return nil, apperror.NewConflictError("Cancelled subscriptions cannot be renewed")
	}

	existing, err := s.dueScheduleRepo.ListBySubscription(ctx, subscription.ID)
	if err != nil {
		return nil, err
	}
	from := subscription.StartDate
	if n := len(existing); n > 0 {
		// periods are provisioned in order; continue after the last one
		last := existing[n-1]
		from = last.PeriodEnd.AddDate(0, 0, 1)
	}

	schedules := s.buildSchedules(subscription, from, months)
	if err := s.dueScheduleRepo.CreateBatch(ctx, schedules); err != nil {
		return nil, fmt.Errorf("provisioning due schedules: %w", err)
	}
	if subscription.Status == enum.SubscriptionStatusExpired {
		subscription.Status = enum.SubscriptionStatusActive
		if err := s.subscriptionRepo.Update(ctx, subscription); err != nil {
			return nil, fmt.Errorf("updating subscription: %w", err)
		}
	}
	return subscription, nil
}

// buildSchedules produces months consecutive monthly periods starting at from.
// Each period is due on its first day.
func (s *SubscriptionService) buildSchedules(subscription *entity.Subscription, from time.Time, months int) []entity.DueSchedule {
	schedules := make([]entity.DueSchedule, 0, months)
	for i := 0; i < months; i++ {
		periodStart := from.AddDate(0, i, 0)
		periodEnd := periodStart.AddDate(0, 1, -1)
		schedules = append(schedules, entity.DueSchedule{
			Number:         utils.GenerateNumber(utils.PrefixDueSchedule),
			SubscriptionID: subscription.ID,
			DueDate:        periodStart,
			PeriodStart:    periodStart,
			PeriodEnd:      periodEnd,
			Amount:         subscription.MonthlyAmount,
			PaidAmount:     decimal.Zero,
			Status:         enum.DueScheduleStatusActive,
		})
	}
	return schedules
}

// GetSubscription returns one subscription with its customer
func (s *SubscriptionService) GetSubscription(ctx context.Context, id uuid.UUID) (*entity.Subscription, error) {
	subscription, err := s.subscriptionRepo.GetWithCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	if subscription == nil {
		return nil, apperror.NewNotFoundError("Subscription")
	}
	return subscription, nil
}

// ListSubscriptions returns a filtered, paginated subscription listing
func (s *SubscriptionService) ListSubscriptions(ctx context.Context, params *repository.SubscriptionFilterParams) ([]entity.Subscription, int64, error) {
	return s.subscriptionRepo.List(ctx, params)
}

// ListDueSchedules returns every schedule of the subscription in period order
func (s *SubscriptionService) ListDueSchedules(ctx context.Context, id uuid.UUID) ([]entity.DueSchedule, error) {
	subscription, err := s.subscriptionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if subscription == nil {
		return nil, apperror.NewNotFoundError("Subscription")
	}
	return s.dueScheduleRepo.ListBySubscription(ctx, subscription.ID)
}

// PauseDueSchedule takes one schedule out of billing scope
func (s *SubscriptionService) PauseDueSchedule(ctx context.Context, scheduleID uuid.UUID) (*entity.DueSchedule, error) {
	return s.transitionSchedule(ctx, scheduleID, (*entity.DueSchedule).Pause)
}

// SuspendDueSchedule parks one schedule, e.g. during a payment dispute
func (s *SubscriptionService) SuspendDueSchedule(ctx context.Context, scheduleID uuid.UUID) (*entity.DueSchedule, error) {
	return s.transitionSchedule(ctx, scheduleID, (*entity.DueSchedule).Suspend)
}

// ResumeDueSchedule returns a paused or suspended schedule to billing scope
func (s *SubscriptionService) ResumeDueSchedule(ctx context.Context, scheduleID uuid.UUID) (*entity.DueSchedule, error) {
	return s.transitionSchedule(ctx, scheduleID, (*entity.DueSchedule).Resume)
}

func (s *SubscriptionService) transitionSchedule(ctx context.Context, scheduleID uuid.UUID, transition func(*entity.DueSchedule) error) (*entity.DueSchedule, error) {
	schedule, err := s.dueScheduleRepo.GetByID(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	if schedule == nil {
		return nil, apperror.NewNotFoundError("Due schedule")
	}
	if err := transition(schedule); err != nil {
		return nil, apperror.NewConflictError(err.Error())
	}
	if err := s.dueScheduleRepo.Update(ctx, schedule); err != nil {
		return nil, fmt.Errorf("updating due schedule: %w", err)
	}
	return schedule, nil
}
