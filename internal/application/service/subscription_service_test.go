package service

import (
	"context"
	"testing"
	"time"

	"github.com/finbase/billforge-api/internal/domain/entity"
	"github.com/finbase/billforge-api/internal/domain/enum"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestCreateSubscriptionProvisionsMonthlySchedules(t *testing.T) {
	customerRepo := newFakeCustomerRepo()
	customer := &entity.Customer{Number: "CUST-1", Name: "Acme"}
	customerRepo.add(customer)

	subscriptionRepo := newFakeSubscriptionRepo()
	dueScheduleRepo := newFakeDueScheduleRepo()
	svc := NewSubscriptionService(subscriptionRepo, dueScheduleRepo, customerRepo, 12)

	start := date(2025, time.January, 1)
	sub, err := svc.CreateSubscription(context.Background(), CreateSubscriptionInput{
		CustomerID:    customer.ID,
		ProductName:   "Hosting Pro",
		MonthlyAmount: decimal.RequireFromString("49.99"),
		StartDate:     start,
	})
	if err != nil {
		t.Fatalf("CreateSubscription: %v", err)
	}
	if sub.Status != enum.SubscriptionStatusActive {
		t.Errorf("status = %s, want Active", sub.Status)
	}
	if sub.PaymentTermDays != 14 {
		t.Errorf("payment term = %d, want default 14", sub.PaymentTermDays)
	}

	schedules, err := dueScheduleRepo.ListBySubscription(context.Background(), sub.ID)
	if err != nil {
		t.Fatalf("ListBySubscription: %v", err)
	}
	if len(schedules) != 12 {
		t.Fatalf("schedules = %d, want 12", len(schedules))
	}
	for i, ds := range schedules {
		wantStart := start.AddDate(0, i, 0)
		if !ds.PeriodStart.Equal(wantStart) {
			t.Errorf("schedule %d period start = %s, want %s", i, ds.PeriodStart, wantStart)
		}
		if !ds.PeriodEnd.Equal(wantStart.AddDate(0, 1, -1)) {
			t.Errorf("schedule %d period end = %s", i, ds.PeriodEnd)
		}
		if !ds.DueDate.Equal(ds.PeriodStart) {
			t.Errorf("schedule %d due date = %s, want period start", i, ds.DueDate)
		}
		if !ds.Amount.Equal(sub.MonthlyAmount) {
			t.Errorf("schedule %d amount = %s", i, ds.Amount)
		}
		if ds.Status != enum.DueScheduleStatusActive {
			t.Errorf("schedule %d status = %s, want Active", i, ds.Status)
		}
	}
	// periods tile the year without gaps
	for i := 1; i < len(schedules); i++ {
		if !schedules[i].PeriodStart.Equal(schedules[i-1].PeriodEnd.AddDate(0, 0, 1)) {
			t.Errorf("gap between period %d and %d", i-1, i)
		}
	}
}

func TestCreateSubscriptionValidations(t *testing.T) {
	customerRepo := newFakeCustomerRepo()
	customer := &entity.Customer{Number: "CUST-1", Name: "Acme"}
	customerRepo.add(customer)
	svc := NewSubscriptionService(newFakeSubscriptionRepo(), newFakeDueScheduleRepo(), customerRepo, 12)
	ctx := context.Background()

	if _, err := svc.CreateSubscription(ctx, CreateSubscriptionInput{
		CustomerID:    uuid.New(),
		ProductName:   "Hosting",
		MonthlyAmount: decimal.RequireFromString("10.00"),
		StartDate:     date(2025, time.January, 1),
	}); err == nil {
		t.Error("unknown customer must be rejected")
	}

	if _, err := svc.CreateSubscription(ctx, CreateSubscriptionInput{
		CustomerID:    customer.ID,
		ProductName:   "Hosting",
		MonthlyAmount: decimal.Zero,
		StartDate:     date(2025, time.January, 1),
	}); err == nil {
		t.Error("zero monthly amount must be rejected")
	}
}

func TestRenewSubscriptionContinuesAfterLastPeriod(t *testing.T) {
	customerRepo := newFakeCustomerRepo()
	customer := &entity.Customer{Number: "CUST-1", Name: "Acme"}
	customerRepo.add(customer)

	subscriptionRepo := newFakeSubscriptionRepo()
	dueScheduleRepo := newFakeDueScheduleRepo()
	svc := NewSubscriptionService(subscriptionRepo, dueScheduleRepo, customerRepo, 3)
	ctx := context.Background()

	start := date(2025, time.January, 1)
	sub, err := svc.CreateSubscription(ctx, CreateSubscriptionInput{
		CustomerID:    customer.ID,
		ProductName:   "Hosting",
		MonthlyAmount: decimal.RequireFromString("10.00"),
		StartDate:     start,
	})
	if err != nil {
		t.Fatalf("CreateSubscription: %v", err)
	}

	if _, err := svc.RenewSubscription(ctx, sub.ID, 2); err != nil {
		t.Fatalf("RenewSubscription: %v", err)
	}
	schedules, _ := dueScheduleRepo.ListBySubscription(ctx, sub.ID)
	if len(schedules) != 5 {
		t.Fatalf("schedules = %d, want 5 after renewal", len(schedules))
	}
	// the renewal starts the day after the last provisioned period ends
	if want := date(2025, time.April, 1); !schedules[3].PeriodStart.Equal(want) {
		t.Errorf("renewal period start = %s, want %s", schedules[3].PeriodStart, want)
	}
}

func TestRenewSubscriptionRejectsCancelled(t *testing.T) {
	customerRepo := newFakeCustomerRepo()
	subscriptionRepo := newFakeSubscriptionRepo()
	sub := &entity.Subscription{
		Number:        "SUB-1",
		Status:        enum.SubscriptionStatusCancelled,
		MonthlyAmount: decimal.RequireFromString("10.00"),
	}
	subscriptionRepo.add(sub)

	svc := NewSubscriptionService(subscriptionRepo, newFakeDueScheduleRepo(), customerRepo, 3)
	if _, err := svc.RenewSubscription(context.Background(), sub.ID, 2); err == nil {
		t.Error("renewing a cancelled subscription must fail")
	}
}
