package application

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/abdidvp/sonarfix/internal/domain"
	"github.com/abdidvp/sonarfix/internal/logging"
)

const (
	// probePageSize is used for the first search, which only reads the total.
	probePageSize = 1
	pageSize      = 100
)

// CatalogService retrieves the issues of a project that have an AI fix:
// search page by page -> filter by folder -> probe fix availability.
type CatalogService struct {
	searcher domain.IssueSearcher
	probe    domain.FixAvailability
	log      *zap.Logger
}

func NewCatalogService(searcher domain.IssueSearcher, probe domain.FixAvailability, log *zap.Logger) *CatalogService {
	return &CatalogService{
		searcher: searcher,
		probe:    probe,
		log:      logging.OrNop(log),
	}
}

// Fetch returns the issues matching criteria that have an AI fix available.
// Pagination stops once the number of retrieved issues reaches the total
// reported by the first search. Availability probe failures skip the issue.
func (s *CatalogService) Fetch(ctx context.Context, criteria domain.FilterCriteria) ([]domain.Issue, error) {
	if err := criteria.Validate(); err != nil {
		return nil, err
	}

	first, err := s.searcher.SearchIssues(ctx, criteria.Query(1, probePageSize))
	if err != nil {
		return nil, fmt.Errorf("counting issues: %w", err)
	}
	total := first.Total

	s.log.Debug("issue search",
		zap.String("project", criteria.Project),
		zap.String("severity", criteria.Severity),
		zap.Int("total", total),
	)

	var (
		retrieved int
		withFix   []domain.Issue
	)
	for page := 1; retrieved < total; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		res, err := s.searcher.SearchIssues(ctx, criteria.Query(page, pageSize))
		if err != nil {
			return nil, fmt.Errorf("searching issues page %d: %w", page, err)
		}
		if len(res.Issues) == 0 {
			s.log.Warn("empty issue page before reaching total",
				zap.Int("page", page), zap.Int("retrieved", retrieved), zap.Int("total", total))
			break
		}
		retrieved += len(res.Issues)

		for _, issue := range res.Issues {
			if !criteria.MatchesComponent(issue.Component) {
				continue
			}
			ok, err := s.probe.HasAIFix(ctx, issue.Key)
			if err != nil {
				s.log.Debug("fix availability probe failed", zap.String("issue", issue.Key), zap.Error(err))
				continue
			}
			if ok {
				withFix = append(withFix, issue)
			}
		}
	}

	s.log.Info("issues with AI fix",
		zap.String("project", criteria.Project),
		zap.Int("retrieved", retrieved),
		zap.Int("with_fix", len(withFix)),
	)
	return withFix, nil
}
