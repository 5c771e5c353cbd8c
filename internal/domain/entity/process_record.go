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

// ErrProcessRecordClosed is returned on any mutation of a record that already
// reached a terminal status
var ErrProcessRecordClosed = errors.New("process record is closed")

// ProcessRecord is the audit unit wrapping one tracked system action, e.g.
// one billing run. The end timestamp is set exactly once, by the terminal
// transition; counts only ever grow within a run.
type ProcessRecord struct {
	ID             uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	Number         string             `gorm:"size:100;unique;not null" json:"number"`
	Type           enum.ProcessType   `gorm:"default:0;index" json:"type"`
	Status         enum.ProcessStatus `gorm:"default:0;index" json:"status"`
	Title          string             `gorm:"size:255;not null" json:"title"`
	StartedAt      time.Time          `gorm:"not null" json:"started_at"`
	EndedAt        *time.Time         `json:"ended_at,omitempty"`
	TriggeredBy    string             `gorm:"size:255" json:"triggered_by"`
	Automatic      bool               `gorm:"default:false" json:"automatic"`
	ProcessedCount int                `gorm:"default:0" json:"processed_count"`
	SuccessCount   int                `gorm:"default:0" json:"success_count"`
	ErrorCount     int                `gorm:"default:0" json:"error_count"`
	TotalAmount    decimal.Decimal    `gorm:"type:decimal(15,2);default:0" json:"total_amount"`
	ErrorLog       string             `gorm:"type:text" json:"error_log,omitempty"`
	Metadata       map[string]string  `gorm:"serializer:json" json:"metadata,omitempty"`
	BatchID        *string            `gorm:"size:100;index" json:"batch_id,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
	DeletedAt      gorm.DeletedAt     `gorm:"index" json:"-"`

	// Back-references to the artifacts a run touched. Due schedules are
	// correlated through BatchID, which the processor stamps on each one.
	Invoices  []Invoice  `gorm:"foreignKey:ProcessRecordID" json:"-"`
	OpenItems []OpenItem `gorm:"foreignKey:ProcessRecordID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new process record
func (p *ProcessRecord) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ProcessRecord model
func (ProcessRecord) TableName() string {
	return "process_records"
}

// MarkRunning transitions Started → Running
func (p *ProcessRecord) MarkRunning() error {
	if p.Status.IsTerminal() {
		return ErrProcessRecordClosed
	}
	p.Status = enum.ProcessStatusRunning
	return nil
}

// RecordItem counts one processed item. Counts are monotonically
// non-decreasing within a run.
func (p *ProcessRecord) RecordItem(success bool, amount decimal.Decimal) error {
	if p.Status.IsTerminal() {
		return ErrProcessRecordClosed
	}
	p.ProcessedCount++
	if success {
		p.SuccessCount++
		p.TotalAmount = p.TotalAmount.Add(amount)
	} else {
		p.ErrorCount++
	}
	return nil
}

// AppendError adds a line to the error log
func (p *ProcessRecord) AppendError(msg string) error {
	if p.Status.IsTerminal() {
		return ErrProcessRecordClosed
	}
	if p.ErrorLog != "" {
		p.ErrorLog += "\n"
	}
	p.ErrorLog += msg
	return nil
}

// SetMetadata stores one free-form key/value pair on the record
func (p *ProcessRecord) SetMetadata(key, value string) error {
	if p.Status.IsTerminal() {
		return ErrProcessRecordClosed
	}
	if p.Metadata == nil {
		p.Metadata = make(map[string]string)
	}
	p.Metadata[key] = value
	return nil
}

// Complete closes the record as Succeeded
func (p *ProcessRecord) Complete(now time.Time) error {
	return p.close(enum.ProcessStatusSucceeded, now)
}

// Fail closes the record as Failed and appends the failure message
func (p *ProcessRecord) Fail(message string, now time.Time) error {
	if p.Status.IsTerminal() {
		return ErrProcessRecordClosed
	}
	if message != "" {
		_ = p.AppendError(message)
	}
	return p.close(enum.ProcessStatusFailed, now)
}

// Abort closes the record as Aborted
func (p *ProcessRecord) Abort(now time.Time) error {
	return p.close(enum.ProcessStatusAborted, now)
}

// close performs the single terminal transition. It is the only place where
// EndedAt is assigned.
func (p *ProcessRecord) close(status enum.ProcessStatus, now time.Time) error {
	if p.Status.IsTerminal() {
		return fmt.Errorf("%w: %s already %s", ErrProcessRecordClosed, p.Number, p.Status)
	}
	p.Status = status
	p.EndedAt = &now
	return nil
}

// Duration returns how long the run took, or the elapsed time so far for an
// open record
func (p *ProcessRecord) Duration(now time.Time) time.Duration {
	if p.EndedAt != nil {
		return p.EndedAt.Sub(p.StartedAt)
	}
	return now.Sub(p.StartedAt)
}
