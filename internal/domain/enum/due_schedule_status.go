package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// DueScheduleStatus represents the lifecycle state of a due schedule
type DueScheduleStatus int

const (
	DueScheduleStatusActive    DueScheduleStatus = 0
	DueScheduleStatusPaused    DueScheduleStatus = 1
	DueScheduleStatusSuspended DueScheduleStatus = 2
	DueScheduleStatusCompleted DueScheduleStatus = 3
)

func (s DueScheduleStatus) String() string {
	names := [...]string{"Active", "Paused", "Suspended", "Completed"}
	if int(s) < 0 || int(s) >= len(names) {
		return "Active"
	}
	return names[s]
}

func (s DueScheduleStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *DueScheduleStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = DueScheduleStatus(i)
		return nil
	}
	switch str {
	case "Active":
		*s = DueScheduleStatusActive
	case "Paused":
		*s = DueScheduleStatusPaused
	case "Suspended":
		*s = DueScheduleStatusSuspended
	case "Completed":
		*s = DueScheduleStatusCompleted
	}
	return nil
}

func (s DueScheduleStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *DueScheduleStatus) Scan(value interface{}) error {
	if value == nil {
		*s = DueScheduleStatusActive
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = DueScheduleStatus(v)
	case int:
		*s = DueScheduleStatus(v)
	}
	return nil
}
