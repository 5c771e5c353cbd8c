package enum

import "fmt"

// Parse helpers turn query-string values into typed enums. Unknown values
// return an error so filters never silently match everything.

func ParseProcessStatus(s string) (ProcessStatus, error) {
	switch s {
	case "Started":
		return ProcessStatusStarted, nil
	case "Running":
		return ProcessStatusRunning, nil
	case "Succeeded":
		return ProcessStatusSucceeded, nil
	case "Failed":
		return ProcessStatusFailed, nil
	case "Aborted":
		return ProcessStatusAborted, nil
	case "Paused":
		return ProcessStatusPaused, nil
	case "Waiting":
		return ProcessStatusWaiting, nil
	}
	return ProcessStatusStarted, fmt.Errorf("unknown process status %q", s)
}

func ParseProcessType(s string) (ProcessType, error) {
	switch s {
	case "InvoiceBatch":
		return ProcessTypeInvoiceBatch, nil
	case "ManualAction":
		return ProcessTypeManualAction, nil
	case "SubscriptionChange":
		return ProcessTypeSubscriptionChange, nil
	case "ReminderRun":
		return ProcessTypeReminderRun, nil
	}
	return ProcessTypeManualAction, fmt.Errorf("unknown process type %q", s)
}

func ParseInvoiceStatus(s string) (InvoiceStatus, error) {
	switch s {
	case "Open":
		return InvoiceStatusOpen, nil
	case "PartiallyPaid":
		return InvoiceStatusPartiallyPaid, nil
	case "Paid":
		return InvoiceStatusPaid, nil
	case "Cancelled":
		return InvoiceStatusCancelled, nil
	}
	return InvoiceStatusOpen, fmt.Errorf("unknown invoice status %q", s)
}

func ParseInvoiceType(s string) (InvoiceType, error) {
	switch s {
	case "Manual":
		return InvoiceTypeManual, nil
	case "AutoGenerated":
		return InvoiceTypeAutoGenerated, nil
	case "Recurring":
		return InvoiceTypeRecurring, nil
	case "CreditNote":
		return InvoiceTypeCreditNote, nil
	}
	return InvoiceTypeManual, fmt.Errorf("unknown invoice type %q", s)
}

func ParseOpenItemStatus(s string) (OpenItemStatus, error) {
	switch s {
	case "Open":
		return OpenItemStatusOpen, nil
	case "PartiallyPaid":
		return OpenItemStatusPartiallyPaid, nil
	case "Paid":
		return OpenItemStatusPaid, nil
	case "Overdue":
		return OpenItemStatusOverdue, nil
	case "Cancelled":
		return OpenItemStatusCancelled, nil
	}
	return OpenItemStatusOpen, fmt.Errorf("unknown open item status %q", s)
}

func ParseSubscriptionStatus(s string) (SubscriptionStatus, error) {
	switch s {
	case "Active":
		return SubscriptionStatusActive, nil
	case "Paused":
		return SubscriptionStatusPaused, nil
	case "Cancelled":
		return SubscriptionStatusCancelled, nil
	case "Expired":
		return SubscriptionStatusExpired, nil
	}
	return SubscriptionStatusActive, fmt.Errorf("unknown subscription status %q", s)
}

func ParseDueScheduleStatus(s string) (DueScheduleStatus, error) {
	switch s {
	case "Active":
		return DueScheduleStatusActive, nil
	case "Paused":
		return DueScheduleStatusPaused, nil
	case "Suspended":
		return DueScheduleStatusSuspended, nil
	case "Completed":
		return DueScheduleStatusCompleted, nil
	}
	return DueScheduleStatusActive, fmt.Errorf("unknown due schedule status %q", s)
}
