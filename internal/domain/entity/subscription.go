package entity

import (
	"time"

	"github.com/finbase/billforge-api/internal/domain/enum"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Subscription represents a recurring contract that produces one due schedule
// per billing period
type Subscription struct {
	ID              uuid.UUID               `gorm:"type:uuid;primary_key" json:"id"`
	Number          string                  `gorm:"size:100;unique;not null" json:"number"`
	CustomerID      uuid.UUID               `gorm:"type:uuid;not null;index" json:"customer_id"`
	ProductName     string                  `gorm:"size:255;not null" json:"product_name"`
	Description     *string                 `gorm:"type:text" json:"description,omitempty"`
	MonthlyAmount   decimal.Decimal         `gorm:"type:decimal(15,2);not null" json:"monthly_amount"`
	PaidAmount      decimal.Decimal         `gorm:"type:decimal(15,2);default:0" json:"paid_amount"`
	PaymentTermDays int                     `gorm:"default:14" json:"payment_term_days"`
	Status          enum.SubscriptionStatus `gorm:"default:0" json:"status"`
	StartDate       time.Time               `gorm:"type:date;not null" json:"start_date"`
	CreatedAt       time.Time               `json:"created_at"`
	UpdatedAt       time.Time               `json:"updated_at"`
	DeletedAt       gorm.DeletedAt          `gorm:"index" json:"-"`

	// Relationships
	Customer     Customer      `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	DueSchedules []DueSchedule `gorm:"foreignKey:SubscriptionID" json:"due_schedules,omitempty"`
	OpenItems    []OpenItem    `gorm:"foreignKey:SubscriptionID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new subscription
func (s *Subscription) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Subscription model
func (Subscription) TableName() string {
	return "subscriptions"
}

// RecordPayment accumulates a payment share forwarded from an invoice
func (s *Subscription) RecordPayment(amount decimal.Decimal) {
	s.PaidAmount = s.PaidAmount.Add(amount)
}
