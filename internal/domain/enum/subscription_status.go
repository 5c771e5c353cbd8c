package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// SubscriptionStatus represents the contract state of a subscription
type SubscriptionStatus int

const (
	SubscriptionStatusActive    SubscriptionStatus = 0
	SubscriptionStatusPaused    SubscriptionStatus = 1
	SubscriptionStatusCancelled SubscriptionStatus = 2
	SubscriptionStatusExpired   SubscriptionStatus = 3
)

func (s SubscriptionStatus) String() string {
	names := [...]string{"Active", "Paused", "Cancelled", "Expired"}
	if int(s) < 0 || int(s) >= len(names) {
		return "Active"
	}
	return names[s]
}

func (s SubscriptionStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *SubscriptionStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = SubscriptionStatus(i)
		return nil
	}
	switch str {
	case "Active":
		*s = SubscriptionStatusActive
	case "Paused":
		*s = SubscriptionStatusPaused
	case "Cancelled":
		*s = SubscriptionStatusCancelled
	case "Expired":
		*s = SubscriptionStatusExpired
	}
	return nil
}

func (s SubscriptionStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *SubscriptionStatus) Scan(value interface{}) error {
	if value == nil {
		*s = SubscriptionStatusActive
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = SubscriptionStatus(v)
	case int:
		*s = SubscriptionStatus(v)
	}
	return nil
}
