package application

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abdidvp/sonarfix/internal/domain"
	"github.com/abdidvp/sonarfix/internal/logging"
)

// ExportService writes the AI fix of each issue to the exported audit files
// without involving the local agent.
type ExportService struct {
	suggestions domain.SuggestionFetcher
	audit       domain.AuditLog
	log         *zap.Logger
}

func NewExportService(suggestions domain.SuggestionFetcher, audit domain.AuditLog, log *zap.Logger) *ExportService {
	return &ExportService{
		suggestions: suggestions,
		audit:       audit,
		log:         logging.OrNop(log),
	}
}

// Export fetches and records the fix for every issue. Failures are recorded
// per issue; cancellation marks the remaining issues as skipped.
func (s *ExportService) Export(ctx context.Context, issues []domain.Issue) *domain.ExportReport {
	report := &domain.ExportReport{
		OperationID: uuid.NewString(),
		Outcomes:    make([]domain.DispatchOutcome, 0, len(issues)),
	}
	log := s.log.With(zap.String("operation", report.OperationID))

	for _, issue := range issues {
		if err := ctx.Err(); err != nil {
			report.Outcomes = append(report.Outcomes, domain.DispatchOutcome{
				IssueKey:  issue.Key,
				Component: issue.Component,
				Status:    domain.OutcomeSkipped,
				Reason:    err.Error(),
				Err:       err,
			})
			continue
		}

		fix, err := s.suggestions.FetchSuggestion(ctx, issue.Key)
		if err != nil {
			log.Warn("fix not exported", zap.String("issue", issue.Key), zap.Error(err))
			report.Outcomes = append(report.Outcomes, domain.Failed(issue, domain.StageFetch, err))
			continue
		}
		if err := s.audit.AppendExported(issue, fix); err != nil {
			log.Warn("fix not exported", zap.String("issue", issue.Key), zap.Error(err))
			report.Outcomes = append(report.Outcomes, domain.Failed(issue, domain.StageAudit, err))
			continue
		}
		report.Outcomes = append(report.Outcomes, domain.DispatchOutcome{
			IssueKey:     issue.Key,
			Component:    issue.Component,
			Status:       domain.OutcomeExported,
			SuggestionID: fix.ID,
		})
	}

	log.Info("export finished",
		zap.Int("exported", report.Count(domain.OutcomeExported)),
		zap.Int("failed", report.Count(domain.OutcomeFailed)))
	return report
}
