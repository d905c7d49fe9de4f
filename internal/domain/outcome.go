package domain

// OutcomeStatus is the final state of one issue in a dispatch or export run.
type OutcomeStatus string

const (
	OutcomeApplied  OutcomeStatus = "applied"
	OutcomeExported OutcomeStatus = "exported"
	OutcomeFailed   OutcomeStatus = "failed"
	OutcomeSkipped  OutcomeStatus = "skipped"
)

// Stage names the pipeline step an outcome stopped at.
type Stage string

const (
	StageSelect    Stage = "select"
	StageFetch     Stage = "fetch_suggestion"
	StageLoad      Stage = "load_source"
	StageTranslate Stage = "translate"
	StageSubmit    Stage = "submit"
	StageAudit     Stage = "audit"
)

// DispatchOutcome is the per-issue result of a pipeline run.
type DispatchOutcome struct {
	IssueKey     string        `json:"issue_key"`
	Component    string        `json:"component,omitempty"`
	Status       OutcomeStatus `json:"status"`
	Stage        Stage         `json:"stage,omitempty"`
	Reason       string        `json:"reason,omitempty"`
	Warning      string        `json:"warning,omitempty"`
	SuggestionID string        `json:"suggestion_id,omitempty"`
	AgentStatus  int           `json:"agent_status,omitempty"`
	Err          error         `json:"-"`
}

// Failed builds a failed outcome for issue at stage.
func Failed(issue Issue, stage Stage, err error) DispatchOutcome {
	return DispatchOutcome{
		IssueKey:  issue.Key,
		Component: issue.Component,
		Status:    OutcomeFailed,
		Stage:     stage,
		Reason:    err.Error(),
		Err:       err,
	}
}

// DispatchReport collects the outcomes of one apply operation.
type DispatchReport struct {
	OperationID string            `json:"operation_id"`
	Port        int               `json:"port"`
	Outcomes    []DispatchOutcome `json:"outcomes"`
}

func (r DispatchReport) Count(status OutcomeStatus) int { return countStatus(r.Outcomes, status) }

// ExportReport collects the outcomes of one export operation.
type ExportReport struct {
	OperationID string            `json:"operation_id"`
	JSONFile    string            `json:"json_file"`
	CSVFile     string            `json:"csv_file"`
	Outcomes    []DispatchOutcome `json:"outcomes"`
}

func (r ExportReport) Count(status OutcomeStatus) int { return countStatus(r.Outcomes, status) }

func countStatus(outcomes []DispatchOutcome, status OutcomeStatus) int {
	n := 0
	for _, o := range outcomes {
		if o.Status == status {
			n++
		}
	}
	return n
}
