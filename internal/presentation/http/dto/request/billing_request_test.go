package request

import (
	"encoding/json"
	"testing"
)

func TestRunBatchRequestIncludesOverdueByDefault(t *testing.T) {
	cases := []struct {
		name string
		body string
		want bool
	}{
		{"omitted", `{"billing_date":"2025-02-01"}`, true},
		{"explicit true", `{"billing_date":"2025-02-01","include_overdue":true}`, true},
		{"explicit false", `{"billing_date":"2025-02-01","include_overdue":false}`, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var req RunBatchRequest
			if err := json.Unmarshal([]byte(tc.body), &req); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if got := req.OverdueIncluded(); got != tc.want {
				t.Errorf("OverdueIncluded() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestPreviewBatchRequestIncludesOverdueByDefault(t *testing.T) {
	var req PreviewBatchRequest
	if !req.OverdueIncluded() {
		t.Error("OverdueIncluded() = false with the flag unset, want true")
	}
	optOut := false
	req.IncludeOverdue = &optOut
	if req.OverdueIncluded() {
		t.Error("OverdueIncluded() = true after an explicit opt-out")
	}
}
