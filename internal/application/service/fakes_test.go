package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/finbase/billforge-api/internal/domain/entity"
	"github.com/finbase/billforge-api/internal/domain/enum"
	"github.com/finbase/billforge-api/internal/domain/repository"
	"github.com/finbase/billforge-api/pkg/pagination"
	"github.com/google/uuid"
)

// In-memory repository fakes for exercising the billing engine without a
// database. Only the behavior the engine depends on is modeled.

var errFakeRepo = errors.New("storage unavailable")

type fakeSubscriptionRepo struct {
	subs map[uuid.UUID]*entity.Subscription
}

func newFakeSubscriptionRepo() *fakeSubscriptionRepo {
	return &fakeSubscriptionRepo{subs: make(map[uuid.UUID]*entity.Subscription)}
}

func (f *fakeSubscriptionRepo) add(sub *entity.Subscription) {
	if sub.ID == uuid.Nil {
		sub.ID = uuid.New()
	}
	f.subs[sub.ID] = sub
}

func (f *fakeSubscriptionRepo) Create(ctx context.Context, sub *entity.Subscription) error {
	f.add(sub)
	return nil
}

func (f *fakeSubscriptionRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Subscription, error) {
	return f.subs[id], nil
}

func (f *fakeSubscriptionRepo) GetByNumber(ctx context.Context, number string) (*entity.Subscription, error) {
	for _, s := range f.subs {
		if s.Number == number {
			return s, nil
		}
	}
	return nil, nil
}

func (f *fakeSubscriptionRepo) GetWithCustomer(ctx context.Context, id uuid.UUID) (*entity.Subscription, error) {
	return f.subs[id], nil
}

func (f *fakeSubscriptionRepo) Update(ctx context.Context, sub *entity.Subscription) error {
	f.subs[sub.ID] = sub
	return nil
}

func (f *fakeSubscriptionRepo) List(ctx context.Context, params *repository.SubscriptionFilterParams) ([]entity.Subscription, int64, error) {
	out := make([]entity.Subscription, 0, len(f.subs))
	for _, s := range f.subs {
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

type fakeDueScheduleRepo struct {
	schedules  map[uuid.UUID]*entity.DueSchedule
	listDueErr error
	updateErr  error
}

func newFakeDueScheduleRepo() *fakeDueScheduleRepo {
	return &fakeDueScheduleRepo{schedules: make(map[uuid.UUID]*entity.DueSchedule)}
}

func (f *fakeDueScheduleRepo) add(ds *entity.DueSchedule) {
	if ds.ID == uuid.Nil {
		ds.ID = uuid.New()
	}
	f.schedules[ds.ID] = ds
}

func (f *fakeDueScheduleRepo) Create(ctx context.Context, ds *entity.DueSchedule) error {
	f.add(ds)
	return nil
}

func (f *fakeDueScheduleRepo) CreateBatch(ctx context.Context, schedules []entity.DueSchedule) error {
	for i := range schedules {
		if schedules[i].ID == uuid.Nil {
			schedules[i].ID = uuid.New()
		}
		copied := schedules[i]
		f.schedules[copied.ID] = &copied
	}
	return nil
}

func (f *fakeDueScheduleRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.DueSchedule, error) {
	return f.schedules[id], nil
}

func (f *fakeDueScheduleRepo) Update(ctx context.Context, ds *entity.DueSchedule) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	copied := *ds
	f.schedules[ds.ID] = &copied
	return nil
}

func (f *fakeDueScheduleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.schedules, id)
	return nil
}

func (f *fakeDueScheduleRepo) ListDue(ctx context.Context, billingDate time.Time, includeOverdue bool) ([]entity.DueSchedule, error) {
	if f.listDueErr != nil {
		return nil, f.listDueErr
	}
	day := billingDate.Format("2006-01-02")
	var out []entity.DueSchedule
	for _, ds := range f.schedules {
		if ds.Status != enum.DueScheduleStatusActive {
			continue
		}
		dsDay := ds.DueDate.Format("2006-01-02")
		if includeOverdue {
			if dsDay > day {
				continue
			}
		} else if dsDay != day {
			continue
		}
		out = append(out, *ds)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].DueDate.Equal(out[j].DueDate) {
			return out[i].DueDate.Before(out[j].DueDate)
		}
		return out[i].Number < out[j].Number
	})
	return out, nil
}

func (f *fakeDueScheduleRepo) CountDue(ctx context.Context, billingDate time.Time, includeOverdue bool) (int64, error) {
	due, err := f.ListDue(ctx, billingDate, includeOverdue)
	return int64(len(due)), err
}

func (f *fakeDueScheduleRepo) ListBySubscription(ctx context.Context, subscriptionID uuid.UUID) ([]entity.DueSchedule, error) {
	var out []entity.DueSchedule
	for _, ds := range f.schedules {
		if ds.SubscriptionID == subscriptionID {
			out = append(out, *ds)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out, nil
}

func (f *fakeDueScheduleRepo) ListByBatchID(ctx context.Context, batchID string) ([]entity.DueSchedule, error) {
	var out []entity.DueSchedule
	for _, ds := range f.schedules {
		if ds.BatchID != nil && *ds.BatchID == batchID {
			out = append(out, *ds)
		}
	}
	return out, nil
}

func (f *fakeDueScheduleRepo) List(ctx context.Context, params *repository.DueScheduleFilterParams) ([]entity.DueSchedule, int64, error) {
	out := make([]entity.DueSchedule, 0, len(f.schedules))
	for _, ds := range f.schedules {
		out = append(out, *ds)
	}
	return out, int64(len(out)), nil
}

type fakeInvoiceRepo struct {
	invoices       map[uuid.UUID]*entity.Invoice
	failNextCreate bool
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{invoices: make(map[uuid.UUID]*entity.Invoice)}
}

func (f *fakeInvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	if f.failNextCreate {
		f.failNextCreate = false
		return errFakeRepo
	}
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	f.invoices[inv.ID] = inv
	return nil
}

func (f *fakeInvoiceRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	return f.invoices[id], nil
}

func (f *fakeInvoiceRepo) GetByNumber(ctx context.Context, number string) (*entity.Invoice, error) {
	for _, inv := range f.invoices {
		if inv.Number == number {
			return inv, nil
		}
	}
	return nil, nil
}

func (f *fakeInvoiceRepo) GetWithRelations(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	return f.invoices[id], nil
}

func (f *fakeInvoiceRepo) Update(ctx context.Context, inv *entity.Invoice) error {
	f.invoices[inv.ID] = inv
	return nil
}

func (f *fakeInvoiceRepo) List(ctx context.Context, params *repository.InvoiceFilterParams) ([]entity.Invoice, int64, error) {
	out := make([]entity.Invoice, 0, len(f.invoices))
	for _, inv := range f.invoices {
		out = append(out, *inv)
	}
	return out, int64(len(out)), nil
}

func (f *fakeInvoiceRepo) ListByBatchID(ctx context.Context, batchID string) ([]entity.Invoice, error) {
	var out []entity.Invoice
	for _, inv := range f.invoices {
		if inv.BatchID != nil && *inv.BatchID == batchID {
			out = append(out, *inv)
		}
	}
	return out, nil
}

type fakeOpenItemRepo struct {
	items          map[uuid.UUID]*entity.OpenItem
	failNextCreate bool
}

func newFakeOpenItemRepo() *fakeOpenItemRepo {
	return &fakeOpenItemRepo{items: make(map[uuid.UUID]*entity.OpenItem)}
}

func (f *fakeOpenItemRepo) Create(ctx context.Context, item *entity.OpenItem) error {
	if f.failNextCreate {
		f.failNextCreate = false
		return errFakeRepo
	}
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	f.items[item.ID] = item
	return nil
}

func (f *fakeOpenItemRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.OpenItem, error) {
	return f.items[id], nil
}

func (f *fakeOpenItemRepo) GetByInvoiceID(ctx context.Context, invoiceID uuid.UUID) (*entity.OpenItem, error) {
	for _, item := range f.items {
		if item.InvoiceID == invoiceID {
			return item, nil
		}
	}
	return nil, nil
}

func (f *fakeOpenItemRepo) Update(ctx context.Context, item *entity.OpenItem) error {
	f.items[item.ID] = item
	return nil
}

func (f *fakeOpenItemRepo) List(ctx context.Context, params *repository.OpenItemFilterParams) ([]entity.OpenItem, int64, error) {
	out := make([]entity.OpenItem, 0, len(f.items))
	for _, item := range f.items {
		out = append(out, *item)
	}
	return out, int64(len(out)), nil
}

func (f *fakeOpenItemRepo) ListOverdue(ctx context.Context, asOf time.Time) ([]entity.OpenItem, error) {
	var out []entity.OpenItem
	for _, item := range f.items {
		if item.DueDate.Before(asOf) && !item.Status.IsTerminal() {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (f *fakeOpenItemRepo) ListByBatchID(ctx context.Context, batchID string) ([]entity.OpenItem, error) {
	var out []entity.OpenItem
	for _, item := range f.items {
		if item.BatchID != nil && *item.BatchID == batchID {
			out = append(out, *item)
		}
	}
	return out, nil
}

type fakeProcessRecordRepo struct {
	records map[uuid.UUID]*entity.ProcessRecord
}

func newFakeProcessRecordRepo() *fakeProcessRecordRepo {
	return &fakeProcessRecordRepo{records: make(map[uuid.UUID]*entity.ProcessRecord)}
}

func (f *fakeProcessRecordRepo) Create(ctx context.Context, record *entity.ProcessRecord) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	f.records[record.ID] = record
	return nil
}

func (f *fakeProcessRecordRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.ProcessRecord, error) {
	return f.records[id], nil
}

func (f *fakeProcessRecordRepo) GetByNumber(ctx context.Context, number string) (*entity.ProcessRecord, error) {
	for _, r := range f.records {
		if r.Number == number {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeProcessRecordRepo) Update(ctx context.Context, record *entity.ProcessRecord) error {
	f.records[record.ID] = record
	return nil
}

func (f *fakeProcessRecordRepo) List(ctx context.Context, params *repository.ProcessRecordFilterParams) ([]entity.ProcessRecord, int64, error) {
	out := make([]entity.ProcessRecord, 0, len(f.records))
	for _, r := range f.records {
		out = append(out, *r)
	}
	return out, int64(len(out)), nil
}

type fakeCustomerRepo struct {
	customers map[uuid.UUID]*entity.Customer
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: make(map[uuid.UUID]*entity.Customer)}
}

func (f *fakeCustomerRepo) add(c *entity.Customer) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	f.customers[c.ID] = c
}

func (f *fakeCustomerRepo) Create(ctx context.Context, c *entity.Customer) error {
	f.add(c)
	return nil
}

func (f *fakeCustomerRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	return f.customers[id], nil
}

func (f *fakeCustomerRepo) GetByNumber(ctx context.Context, number string) (*entity.Customer, error) {
	for _, c := range f.customers {
		if c.Number == number {
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeCustomerRepo) Update(ctx context.Context, c *entity.Customer) error {
	f.customers[c.ID] = c
	return nil
}

func (f *fakeCustomerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.customers, id)
	return nil
}

func (f *fakeCustomerRepo) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Customer, int64, error) {
	out := make([]entity.Customer, 0, len(f.customers))
	for _, c := range f.customers {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}
