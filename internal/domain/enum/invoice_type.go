package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// InvoiceType represents how an invoice came into existence
type InvoiceType int

const (
	InvoiceTypeManual        InvoiceType = 0
	InvoiceTypeAutoGenerated InvoiceType = 1
	InvoiceTypeRecurring     InvoiceType = 2
	InvoiceTypeCreditNote    InvoiceType = 3
)

func (t InvoiceType) String() string {
	names := [...]string{"Manual", "AutoGenerated", "Recurring", "CreditNote"}
	if int(t) < 0 || int(t) >= len(names) {
		return "Manual"
	}
	return names[t]
}

func (t InvoiceType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *InvoiceType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*t = InvoiceType(i)
		return nil
	}
	switch str {
	case "Manual":
		*t = InvoiceTypeManual
	case "AutoGenerated":
		*t = InvoiceTypeAutoGenerated
	case "Recurring":
		*t = InvoiceTypeRecurring
	case "CreditNote":
		*t = InvoiceTypeCreditNote
	}
	return nil
}

func (t InvoiceType) Value() (driver.Value, error) {
	return int64(t), nil
}

func (t *InvoiceType) Scan(value interface{}) error {
	if value == nil {
		*t = InvoiceTypeManual
		return nil
	}
	switch v := value.(type) {
	case int64:
		*t = InvoiceType(v)
	case int:
		*t = InvoiceType(v)
	}
	return nil
}
