package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// ProcessType classifies what kind of system action a process record tracks
type ProcessType int

const (
	ProcessTypeInvoiceBatch       ProcessType = 0
	ProcessTypeManualAction       ProcessType = 1
	ProcessTypeSubscriptionChange ProcessType = 2
	ProcessTypeReminderRun        ProcessType = 3
)

func (t ProcessType) String() string {
	names := [...]string{"InvoiceBatch", "ManualAction", "SubscriptionChange", "ReminderRun"}
	if int(t) < 0 || int(t) >= len(names) {
		return "ManualAction"
	}
	return names[t]
}

func (t ProcessType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *ProcessType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*t = ProcessType(i)
		return nil
	}
	switch str {
	case "InvoiceBatch":
		*t = ProcessTypeInvoiceBatch
	case "ManualAction":
		*t = ProcessTypeManualAction
	case "SubscriptionChange":
		*t = ProcessTypeSubscriptionChange
	case "ReminderRun":
		*t = ProcessTypeReminderRun
	}
	return nil
}

func (t ProcessType) Value() (driver.Value, error) {
	return int64(t), nil
}

func (t *ProcessType) Scan(value interface{}) error {
	if value == nil {
		*t = ProcessTypeManualAction
		return nil
	}
	switch v := value.(type) {
	case int64:
		*t = ProcessType(v)
	case int:
		*t = ProcessType(v)
	}
	return nil
}
