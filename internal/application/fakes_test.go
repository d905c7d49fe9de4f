package application_test

import (
	"context"
	"errors"
	"fmt"

	"github.com/abdidvp/sonarfix/internal/domain"
)

// fakeServer is an in-memory analysis server holding a flat issue list.
type fakeServer struct {
	issues      []domain.Issue
	available   map[string]bool
	probeErrs   map[string]error
	fixes       map[string]domain.FixSuggestion
	sources     map[string]string
	searches    []domain.IssueQuery
	probed      []string
	fetched     []string
	shrinkAfter int // report fewer issues than total after this many searches
}

func (f *fakeServer) SearchIssues(_ context.Context, q domain.IssueQuery) (*domain.IssuePage, error) {
	f.searches = append(f.searches, q)
	all := f.issues
	if q.Severity != "" {
		all = nil
		for _, is := range f.issues {
			if is.Severity == q.Severity {
				all = append(all, is)
			}
		}
	}
	total := len(all)
	if f.shrinkAfter > 0 && len(f.searches) > f.shrinkAfter {
		all = all[:len(all)/2]
	}

	start := (q.Page - 1) * q.PageSize
	if start > len(all) {
		start = len(all)
	}
	end := start + q.PageSize
	if end > len(all) {
		end = len(all)
	}
	return &domain.IssuePage{Total: total, Issues: all[start:end]}, nil
}

func (f *fakeServer) HasAIFix(_ context.Context, key string) (bool, error) {
	f.probed = append(f.probed, key)
	if err := f.probeErrs[key]; err != nil {
		return false, err
	}
	return f.available[key], nil
}

func (f *fakeServer) FetchSuggestion(_ context.Context, key string) (domain.FixSuggestion, error) {
	f.fetched = append(f.fetched, key)
	fix, ok := f.fixes[key]
	if !ok {
		return domain.FixSuggestion{}, fmt.Errorf("ai suggestion for %s: %w", key, domain.ErrSuggestionUnavailable)
	}
	return fix, nil
}

func (f *fakeServer) LoadSource(_ context.Context, component string) (string, error) {
	src, ok := f.sources[component]
	if !ok {
		return "", errors.New("raw source: HTTP 404")
	}
	return src, nil
}

type fakeLocator struct {
	port  int
	calls int
}

func (l *fakeLocator) Locate(context.Context, string) int {
	l.calls++
	return l.port
}

type fakeAgent struct {
	submitted []domain.AgentSubmission
	ports     []int
	rejectFor map[string]bool
}

func (a *fakeAgent) Submit(_ context.Context, port int, sub domain.AgentSubmission) (*domain.AgentResponse, error) {
	a.ports = append(a.ports, port)
	if a.rejectFor[sub.IssueID] {
		return &domain.AgentResponse{StatusCode: 403}, errors.New("agent rejected fix: HTTP 403")
	}
	a.submitted = append(a.submitted, sub)
	return &domain.AgentResponse{StatusCode: 200, Body: "ok"}, nil
}

type fakeAudit struct {
	applied  []domain.FixSuggestion
	exported []domain.ExportedFix
	err      error
}

func (a *fakeAudit) AppendApplied(fix domain.FixSuggestion) error {
	if a.err != nil {
		return a.err
	}
	a.applied = append(a.applied, fix)
	return nil
}

func (a *fakeAudit) AppendExported(issue domain.Issue, fix domain.FixSuggestion) error {
	if a.err != nil {
		return a.err
	}
	a.exported = append(a.exported, domain.ExportedFix{File: issue.Component, Rule: issue.Rule, Fix: fix})
	return nil
}

func makeIssues(n int, project, folder, severity string) []domain.Issue {
	out := make([]domain.Issue, n)
	for i := range out {
		out[i] = domain.Issue{
			Key:       fmt.Sprintf("%s-%s-%d", project, severity, i),
			Project:   project,
			Severity:  severity,
			Rule:      "java:S1192",
			Component: fmt.Sprintf("%s:%sFile%d.java", project, folder, i),
		}
	}
	return out
}
