package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer represents a billing customer master record
type Customer struct {
	ID            uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Number        string         `gorm:"size:100;unique;not null" json:"number"`
	Name          string         `gorm:"size:255;not null" json:"name"`
	Email         *string        `gorm:"size:255" json:"email,omitempty"`
	Phone         *string        `gorm:"size:50" json:"phone,omitempty"`
	BillingStreet *string        `gorm:"size:255" json:"billing_street,omitempty"`
	BillingZip    *string        `gorm:"size:20" json:"billing_zip,omitempty"`
	BillingCity   *string        `gorm:"size:100" json:"billing_city,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Subscriptions []Subscription `gorm:"foreignKey:CustomerID" json:"-"`
	Invoices      []Invoice      `gorm:"foreignKey:CustomerID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new customer
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}

// BillingAddress returns the formatted billing address for invoice documents
func (c *Customer) BillingAddress() string {
	addr := ""
	if c.BillingStreet != nil {
		addr = *c.BillingStreet
	}
	if c.BillingZip != nil || c.BillingCity != nil {
		line := ""
		if c.BillingZip != nil {
			line = *c.BillingZip
		}
		if c.BillingCity != nil {
			if line != "" {
				line += " "
			}
			line += *c.BillingCity
		}
		if addr != "" {
			addr += ", "
		}
		addr += line
	}
	return addr
}
