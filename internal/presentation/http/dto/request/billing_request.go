package request

// RunBatchRequest starts a billing run for one billing date. An omitted
// include_overdue pulls overdue schedules into scope; callers opt out
// explicitly.
type RunBatchRequest struct {
	BillingDate    string `json:"billing_date" binding:"required,datetime=2006-01-02"`
	IncludeOverdue *bool  `json:"include_overdue"`
}

// OverdueIncluded reports the effective overdue flag
func (r *RunBatchRequest) OverdueIncluded() bool {
	return r.IncludeOverdue == nil || *r.IncludeOverdue
}

// PreviewBatchRequest scopes a dry-run projection of a billing run
type PreviewBatchRequest struct {
	BillingDate    string `form:"billing_date" binding:"required,datetime=2006-01-02"`
	IncludeOverdue *bool  `form:"include_overdue"`
}

// OverdueIncluded reports the effective overdue flag
func (r *PreviewBatchRequest) OverdueIncluded() bool {
	return r.IncludeOverdue == nil || *r.IncludeOverdue
}

// ProcessRecordFilterRequest represents process record filter parameters
type ProcessRecordFilterRequest struct {
	Status  string `form:"status"`
	Type    string `form:"type"`
	Page    int    `form:"page"`
	PerPage int    `form:"per_page"`
}
