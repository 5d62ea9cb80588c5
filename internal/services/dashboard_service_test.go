package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"autumhire/internal/models/request_models"
	resp "autumhire/internal/models/response_models"
	"autumhire/internal/repositories"
	"autumhire/pkg/utils"
)

func TestBucketStartUsesKenyaTime(t *testing.T) {
	// 22:30 UTC on a Sunday is 01:30 Monday in Nairobi.
	ts := time.Date(2024, 3, 10, 22, 30, 0, 0, time.UTC)

	day := bucketStart(ts, "day")
	if got := day.Format("2006-01-02 15:04"); got != "2024-03-11 00:00" {
		t.Fatalf("day bucket = %s", got)
	}
	week := bucketStart(ts, "week")
	if week.Weekday() != time.Monday || week.Day() != 11 {
		t.Fatalf("week bucket = %s", week)
	}
	if month := bucketStart(ts, "month"); month.Day() != 1 || month.Month() != time.March {
		t.Fatalf("month bucket = %s", month)
	}
}

func TestBuildSeriesFillsGaps(t *testing.T) {
	loc := utils.KenyaLocation()
	rng := resp.TimeRange{
		Start:    time.Date(2024, 1, 1, 9, 0, 0, 0, loc),
		End:      time.Date(2024, 1, 4, 9, 0, 0, 0, loc),
		Interval: "day",
	}
	at := []time.Time{
		time.Date(2024, 1, 1, 10, 0, 0, 0, loc),
		time.Date(2024, 1, 1, 12, 0, 0, 0, loc),
		time.Date(2024, 1, 3, 8, 0, 0, 0, loc),
	}

	points := buildSeries(rng, at, countOne)
	want := []int64{2, 0, 1, 0}
	if len(points) != len(want) {
		t.Fatalf("expected %d points, got %d", len(want), len(points))
	}
	for i, p := range points {
		if p.Value != want[i] {
			t.Fatalf("point %d = %d, want %d", i, p.Value, want[i])
		}
	}
}

func TestNormalizeRange(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	got, err := normalizeRange(resp.TimeRange{}, now)
	if err != nil || got.Interval != "day" || !got.End.Equal(now) || !got.Start.Equal(now.AddDate(0, 0, -30)) {
		t.Fatalf("unexpected defaults %+v %v", got, err)
	}

	swapped, _ := normalizeRange(resp.TimeRange{Start: now, End: now.AddDate(0, 0, -2)}, now)
	if !swapped.Start.Before(swapped.End) {
		t.Fatal("expected bounds to be ordered")
	}

	for _, bad := range []resp.TimeRange{
		{Interval: "hour"},
		{Start: now.AddDate(-2, 0, 0), End: now},
	} {
		if _, err := normalizeRange(bad, now); !errors.Is(err, utils.ErrInvalidRange) {
			t.Fatalf("expected invalid range for %+v, got %v", bad, err)
		}
	}
}

func TestBuildDashboard(t *testing.T) {
	env := newTestEnv(t, slowPoll, "")
	ctx := context.Background()
	admin := env.registerAdmin(t, "a@example.com", "Acme")
	env.postJob(t, admin, "free", "Technology")
	paid := env.postJob(t, admin, "standard", "Technology")
	env.subscribe(t, "s@example.com", "Finance")

	pay, err := env.payments.Initiate(ctx, &admin, request_models.InitiatePaymentRequest{
		PhoneNumber: "0712345678", Amount: 1000, Plan: "standard", JobID: paid.ID.String(),
	})
	if err != nil {
		t.Fatalf("initiate: %v", err)
	}
	if err := env.payments.HandleCallback(ctx, "instasend", intasendCallback(t, pay.CheckoutRequestID, "COMPLETE", pay.Reference, "")); err != nil {
		t.Fatalf("callback: %v", err)
	}

	svc := NewDashboardService(repositories.NewDashboardRepository(env.db))
	report, err := svc.BuildDashboard(ctx, resp.TimeRange{Start: time.Now().UTC().Add(-time.Hour)})
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}

	k := report.KPIs
	if k.TotalUsers != 1 || k.TotalCompanies != 1 || k.Subscribers != 1 || k.LiveJobs != 2 {
		t.Fatalf("unexpected counts %+v", k)
	}
	if k.CompletedPayments != 1 || k.RevenueKES != 1000 || report.Revenue.Total != 1000 || report.Revenue.Currency != "KES" {
		t.Fatalf("unexpected revenue %+v / %+v", k, report.Revenue)
	}
	if len(report.PlanMix) != 2 || report.PlanMix[0].Percent != 50 {
		t.Fatalf("unexpected plan mix %+v", report.PlanMix)
	}
	if len(report.TopIndustries) != 1 || report.TopIndustries[0].Count != 2 {
		t.Fatalf("unexpected industries %+v", report.TopIndustries)
	}
	if len(report.RecentPayments) != 1 || report.RecentPayments[0].Reference != pay.Reference {
		t.Fatalf("unexpected recent payments %+v", report.RecentPayments)
	}

	var posted int64
	for _, p := range report.NewJobs.Points {
		posted += p.Value
	}
	if posted != 2 {
		t.Fatalf("expected 2 postings across the series, got %d", posted)
	}
}
