package application

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abdidvp/sonarfix/internal/domain"
	"github.com/abdidvp/sonarfix/internal/logging"
)

// DispatchService orchestrates one apply operation:
// locate agent -> per issue fetch fix -> load source -> translate -> submit -> audit.
type DispatchService struct {
	suggestions domain.SuggestionFetcher
	sources     domain.SourceLoader
	locator     domain.AgentLocator
	agent       domain.AgentSubmitter
	audit       domain.AuditLog
	log         *zap.Logger
}

func NewDispatchService(
	suggestions domain.SuggestionFetcher,
	sources domain.SourceLoader,
	locator domain.AgentLocator,
	agent domain.AgentSubmitter,
	audit domain.AuditLog,
	log *zap.Logger,
) *DispatchService {
	return &DispatchService{
		suggestions: suggestions,
		sources:     sources,
		locator:     locator,
		agent:       agent,
		audit:       audit,
		log:         logging.OrNop(log),
	}
}

// Apply sends the fix of every issue to the local agent, one issue at a time.
// It fails with domain.ErrAgentNotRunning before touching any issue when no
// agent serves the project. Per-issue failures are recorded in the report and
// never stop the batch.
func (s *DispatchService) Apply(ctx context.Context, criteria domain.FilterCriteria, issues []domain.Issue) (*domain.DispatchReport, error) {
	if err := criteria.Validate(); err != nil {
		return nil, err
	}

	port := s.locator.Locate(ctx, criteria.Project)
	if port == domain.AgentNotFound {
		return nil, domain.ErrAgentNotRunning
	}

	report := &domain.DispatchReport{
		OperationID: uuid.NewString(),
		Port:        port,
		Outcomes:    make([]domain.DispatchOutcome, 0, len(issues)),
	}
	log := s.log.With(zap.String("operation", report.OperationID), zap.Int("port", port))
	log.Info("dispatching fixes", zap.Int("issues", len(issues)))

	for i, issue := range issues {
		if err := ctx.Err(); err != nil {
			for _, rest := range issues[i:] {
				report.Outcomes = append(report.Outcomes, domain.DispatchOutcome{
					IssueKey:  rest.Key,
					Component: rest.Component,
					Status:    domain.OutcomeSkipped,
					Reason:    err.Error(),
					Err:       err,
				})
			}
			break
		}

		outcome := s.applyOne(ctx, criteria, port, issue)
		if outcome.Status == domain.OutcomeFailed {
			log.Warn("fix not applied",
				zap.String("issue", issue.Key),
				zap.String("stage", string(outcome.Stage)),
				zap.Error(outcome.Err))
		} else {
			log.Info("fix applied", zap.String("issue", issue.Key), zap.Int("agent_status", outcome.AgentStatus))
		}
		report.Outcomes = append(report.Outcomes, outcome)
	}

	return report, nil
}

func (s *DispatchService) applyOne(ctx context.Context, criteria domain.FilterCriteria, port int, issue domain.Issue) domain.DispatchOutcome {
	fix, err := s.suggestions.FetchSuggestion(ctx, issue.Key)
	if err != nil {
		return domain.Failed(issue, domain.StageFetch, err)
	}

	source, err := s.sources.LoadSource(ctx, issue.Component)
	if err != nil {
		return domain.Failed(issue, domain.StageLoad, err)
	}

	edit, err := domain.Translate(issue, fix, source)
	if err != nil {
		return domain.Failed(issue, domain.StageTranslate, err)
	}

	issueID := fix.IssueID
	if issueID == "" {
		issueID = issue.Key
	}
	resp, err := s.agent.Submit(ctx, port, domain.AgentSubmission{
		ServerURL: criteria.ServerURL,
		Project:   criteria.Project,
		IssueID:   issueID,
		Edit:      edit,
	})
	if err != nil {
		out := domain.Failed(issue, domain.StageSubmit, err)
		if resp != nil {
			out.AgentStatus = resp.StatusCode
		}
		return out
	}

	out := domain.DispatchOutcome{
		IssueKey:     issue.Key,
		Component:    issue.Component,
		Status:       domain.OutcomeApplied,
		SuggestionID: fix.ID,
		AgentStatus:  resp.StatusCode,
	}
	if err := s.audit.AppendApplied(fix); err != nil {
		out.Stage = domain.StageAudit
		out.Warning = "audit log not written: " + err.Error()
		out.Err = err
	}
	return out
}
