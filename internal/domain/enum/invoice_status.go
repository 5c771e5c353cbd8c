package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// InvoiceStatus represents the payment state of an invoice
type InvoiceStatus int

const (
	InvoiceStatusOpen          InvoiceStatus = 0
	InvoiceStatusPartiallyPaid InvoiceStatus = 1
	InvoiceStatusPaid          InvoiceStatus = 2
	InvoiceStatusCancelled     InvoiceStatus = 3
)

func (s InvoiceStatus) String() string {
	names := [...]string{"Open", "PartiallyPaid", "Paid", "Cancelled"}
	if int(s) < 0 || int(s) >= len(names) {
		return "Open"
	}
	return names[s]
}

func (s InvoiceStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *InvoiceStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = InvoiceStatus(i)
		return nil
	}
	switch str {
	case "Open":
		*s = InvoiceStatusOpen
	case "PartiallyPaid":
		*s = InvoiceStatusPartiallyPaid
	case "Paid":
		*s = InvoiceStatusPaid
	case "Cancelled":
		*s = InvoiceStatusCancelled
	}
	return nil
}

func (s InvoiceStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *InvoiceStatus) Scan(value interface{}) error {
	if value == nil {
		*s = InvoiceStatusOpen
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = InvoiceStatus(v)
	case int:
		*s = InvoiceStatus(v)
	}
	return nil
}
