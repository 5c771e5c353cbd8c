package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// OpenItemStatus represents the payment state of a receivable
type OpenItemStatus int

const (
	OpenItemStatusOpen          OpenItemStatus = 0
	OpenItemStatusPartiallyPaid OpenItemStatus = 1
	OpenItemStatusPaid          OpenItemStatus = 2
	OpenItemStatusOverdue       OpenItemStatus = 3
	OpenItemStatusCancelled     OpenItemStatus = 4
)

func (s OpenItemStatus) String() string {
	names := [...]string{"Open", "PartiallyPaid", "Paid", "Overdue", "Cancelled"}
	if int(s) < 0 || int(s) >= len(names) {
		return "Open"
	}
	return names[s]
}

// IsTerminal reports whether no further payments may be recorded
func (s OpenItemStatus) IsTerminal() bool {
	return s == OpenItemStatusPaid || s == OpenItemStatusCancelled
}

func (s OpenItemStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *OpenItemStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = OpenItemStatus(i)
		return nil
	}
	switch str {
	case "Open":
		*s = OpenItemStatusOpen
	case "PartiallyPaid":
		*s = OpenItemStatusPartiallyPaid
	case "Paid":
		*s = OpenItemStatusPaid
	case "Overdue":
		*s = OpenItemStatusOverdue
	case "Cancelled":
		*s = OpenItemStatusCancelled
	}
	return nil
}

func (s OpenItemStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *OpenItemStatus) Scan(value interface{}) error {
	if value == nil {
		*s = OpenItemStatusOpen
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = OpenItemStatus(v)
	case int:
		*s = OpenItemStatus(v)
	}
	return nil
}
