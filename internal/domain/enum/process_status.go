package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// ProcessStatus represents the lifecycle state of a tracked process
type ProcessStatus int

const (
	ProcessStatusStarted   ProcessStatus = 0
	ProcessStatusRunning   ProcessStatus = 1
	ProcessStatusSucceeded ProcessStatus = 2
	ProcessStatusFailed    ProcessStatus = 3
	ProcessStatusAborted   ProcessStatus = 4
	ProcessStatusPaused    ProcessStatus = 5
	ProcessStatusWaiting   ProcessStatus = 6
)

func (s ProcessStatus) String() string {
	names := [...]string{"Started", "Running", "Succeeded", "Failed", "Aborted", "Paused", "Waiting"}
	if int(s) < 0 || int(s) >= len(names) {
		return "Started"
	}
	return names[s]
}

// IsTerminal reports whether the process has finished and may no longer change
func (s ProcessStatus) IsTerminal() bool {
	return s == ProcessStatusSucceeded || s == ProcessStatusFailed || s == ProcessStatusAborted
}

func (s ProcessStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *ProcessStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = ProcessStatus(i)
		return nil
	}
	switch str {
	case "Started":
		*s = ProcessStatusStarted
	case "Running":
		*s = ProcessStatusRunning
	case "Succeeded":
		*s = ProcessStatusSucceeded
	case "Failed":
		*s = ProcessStatusFailed
	case "Aborted":
		*s = ProcessStatusAborted
	case "Paused":
		*s = ProcessStatusPaused
	case "Waiting":
		*s = ProcessStatusWaiting
	}
	return nil
}

func (s ProcessStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *ProcessStatus) Scan(value interface{}) error {
	if value == nil {
		*s = ProcessStatusStarted
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = ProcessStatus(v)
	case int:
		*s = ProcessStatus(v)
	}
	return nil
}
