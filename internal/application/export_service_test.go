package application_test

import (
	"context"
	"errors"
	"testing"

	"github.com/abdidvp/sonarfix/internal/application"
	"github.com/abdidvp/sonarfix/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportService_RecordsEachFix(t *testing.T) {
	srv := &fakeServer{fixes: map[string]domain.FixSuggestion{
		"k1": {ID: "s1", IssueID: "k1", Explanation: "one"},
		"k3": {ID: "s3", IssueID: "k3", Explanation: "three"},
	}}
	audit := &fakeAudit{}
	issues := []domain.Issue{
		{Key: "k1", Component: "proj:A.java", Rule: "java:S1"},
		{Key: "k2", Component: "proj:B.java", Rule: "java:S2"},
		{Key: "k3", Component: "proj:C.java", Rule: "java:S3"},
	}

	report := application.NewExportService(srv, audit, nil).Export(context.Background(), issues)

	require.Len(t, report.Outcomes, 3)
	assert.NotEmpty(t, report.OperationID)
	assert.Equal(t, domain.OutcomeExported, report.Outcomes[0].Status)
	assert.Equal(t, domain.OutcomeFailed, report.Outcomes[1].Status)
	assert.Equal(t, domain.StageFetch, report.Outcomes[1].Stage)
	assert.Equal(t, domain.OutcomeExported, report.Outcomes[2].Status)

	require.Len(t, audit.exported, 2)
	assert.Equal(t, domain.ExportedFix{File: "proj:A.java", Rule: "java:S1", Fix: srv.fixes["k1"]}, audit.exported[0])
}

func TestExportService_AuditFailure(t *testing.T) {
	srv := &fakeServer{fixes: map[string]domain.FixSuggestion{"k1": {ID: "s1"}}}
	audit := &fakeAudit{err: errors.New("read-only file system")}

	report := application.NewExportService(srv, audit, nil).Export(context.Background(), []domain.Issue{{Key: "k1"}})

	require.Len(t, report.Outcomes, 1)
	assert.Equal(t, domain.OutcomeFailed, report.Outcomes[0].Status)
	assert.Equal(t, domain.StageAudit, report.Outcomes[0].Stage)
}

func TestExportService_Cancelled(t *testing.T) {
	srv := &fakeServer{fixes: map[string]domain.FixSuggestion{"k1": {ID: "s1"}}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report := application.NewExportService(srv, &fakeAudit{}, nil).Export(ctx, []domain.Issue{{Key: "k1"}})
	require.Len(t, report.Outcomes, 1)
	assert.Equal(t, domain.OutcomeSkipped, report.Outcomes[0].Status)
	assert.Empty(t, srv.fetched)
}
