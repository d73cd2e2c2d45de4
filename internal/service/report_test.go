package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/bounty-tracker/internal/apperror"
	"github.com/sakif/bounty-tracker/internal/model"
)

func TestFilterReports(t *testing.T) {
	h1 := "plat-h1"
	reports := []model.Report{
		{ID: "1", Title: "Stored XSS in profile", Severity: model.SeverityHigh, Status: model.StatusResolved, PlatformID: &h1},
		{ID: "2", Title: "IDOR", Description: "Invoice download leaks other tenants", Severity: model.SeverityCritical, Status: model.StatusTriaged, PlatformID: &h1},
		{ID: "3", Title: "Reflected xss on search", Severity: model.SeverityMedium, Status: model.StatusDuplicate},
	}

	tests := []struct {
		name   string
		filter model.ReportFilter
		want   []string
	}{
		{"zero filter keeps everything", model.ReportFilter{}, []string{"1", "2", "3"}},
		{"by status", model.ReportFilter{Status: model.StatusTriaged}, []string{"2"}},
		{"by severity", model.ReportFilter{Severity: model.SeverityMedium}, []string{"3"}},
		{"by platform skips unattached", model.ReportFilter{PlatformID: h1}, []string{"1", "2"}},
		{"query is case-insensitive", model.ReportFilter{Query: "XSS"}, []string{"1", "3"}},
		{"query searches description", model.ReportFilter{Query: "tenants"}, []string{"2"}},
		{"fields combine", model.ReportFilter{Query: "xss", PlatformID: h1}, []string{"1"}},
		{"no match", model.ReportFilter{Status: model.StatusInformative}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := []string{}
			for _, r := range FilterReports(reports, tt.filter) {
				got = append(got, r.ID)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComputeReportStats(t *testing.T) {
	reports := []model.Report{
		{Severity: model.SeverityHigh, Status: model.StatusResolved, BountyAmount: money(t, "0.1")},
		{Severity: model.SeverityHigh, Status: model.StatusResolved, BountyAmount: money(t, "0.2")},
		{Severity: model.SeverityLow, Status: model.StatusDuplicate},
	}

	stats := ComputeReportStats(reports)

	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.ByStatus[model.StatusResolved])
	assert.Equal(t, 1, stats.ByStatus[model.StatusDuplicate])
	assert.Equal(t, 2, stats.BySeverity[model.SeverityHigh])
	assert.Equal(t, "0.3", stats.TotalEarned.String())

	// Unused keys are present so the frontend can render empty buckets.
	assert.Len(t, stats.ByStatus, len(model.ReportStatuses))
	assert.Len(t, stats.BySeverity, len(model.Severities))
	assert.Zero(t, stats.ByStatus[model.StatusInformative])
}

func TestComputeReportStats_Empty(t *testing.T) {
	stats := ComputeReportStats(nil)
	assert.Zero(t, stats.Total)
	assert.True(t, stats.TotalEarned.IsZero())
}

func TestReportService_CreateDefaultsAndValidation(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	userID := createUser(t, db, 1)
	svc := NewReportService(db.Reports(), db.Platforms(), testLogger())

	r, err := svc.Create(ctx, userID, ReportInput{Title: "Open redirect", PlatformID: ptr("")})
	require.NoError(t, err)
	assert.Equal(t, model.SeverityNone, r.Severity)
	assert.Equal(t, model.StatusNew, r.Status)
	assert.Nil(t, r.PlatformID, "blank platform ID means unattached")

	tests := []struct {
		name      string
		in        ReportInput
		wantField string
	}{
		{"missing title", ReportInput{}, "title"},
		{"unknown severity", ReportInput{Title: "x", Severity: "apocalyptic"}, "severity"},
		{"unknown status", ReportInput{Title: "x", Status: "lost"}, "status"},
		{"negative bounty", ReportInput{Title: "x", BountyAmount: money(t, "-1")}, "bountyAmount"},
		{"unknown platform", ReportInput{Title: "x", PlatformID: ptr("nope")}, "platformId"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, userID, tt.in)
			var appErr *apperror.AppError
			require.ErrorAs(t, err, &appErr)
			assert.ErrorIs(t, err, apperror.ErrValidation)
			assert.Equal(t, tt.wantField, appErr.Field)
		})
	}
}

func TestReportService_ListFiltersThenPaginates(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	userID := createUser(t, db, 1)
	svc := NewReportService(db.Reports(), db.Platforms(), testLogger())

	for _, title := range []string{"xss one", "sqli", "xss two", "xss three"} {
		_, err := svc.Create(ctx, userID, ReportInput{Title: title})
		require.NoError(t, err)
	}

	all, err := svc.List(ctx, userID, model.ReportFilter{Query: "xss"}, 0, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	page, err := svc.List(ctx, userID, model.ReportFilter{Query: "xss"}, 2, 2)
	require.NoError(t, err)
	assert.Len(t, page, 1)

	past, err := svc.List(ctx, userID, model.ReportFilter{}, 10, 50)
	require.NoError(t, err)
	assert.Empty(t, past)
}

func TestReportService_UpdateAndStats(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	userID := createUser(t, db, 1)
	platforms := NewPlatformService(db.Platforms(), testLogger())
	svc := NewReportService(db.Reports(), db.Platforms(), testLogger())

	p, err := platforms.Create(ctx, userID, PlatformInput{Name: "HackerOne", Kind: model.PlatformHackerOne})
	require.NoError(t, err)
	r, err := svc.Create(ctx, userID, ReportInput{Title: "SSRF", Severity: model.SeverityHigh})
	require.NoError(t, err)

	submitted := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	updated, err := svc.Update(ctx, userID, r.ID, ReportInput{
		PlatformID:   &p.ID,
		Title:        "SSRF via PDF renderer",
		Severity:     model.SeverityCritical,
		Status:       model.StatusResolved,
		BountyAmount: money(t, "1500.50"),
		SubmittedAt:  &submitted,
	})
	require.NoError(t, err)
	require.NotNil(t, updated.PlatformID)
	assert.Equal(t, p.ID, *updated.PlatformID)

	stats, err := svc.Stats(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Total)
	assert.Equal(t, 1, stats.BySeverity[model.SeverityCritical])
	assert.Equal(t, "1500.5", stats.TotalEarned.String())

	require.NoError(t, svc.Delete(ctx, userID, r.ID))
	_, err = svc.Get(ctx, userID, r.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
