package services

import (
	"context"
	"time"

	dbm "autumhire/internal/models/db_models"
	resp "autumhire/internal/models/response_models"
	"autumhire/internal/repositories"
	"autumhire/pkg/utils"
)

const (
	dashboardCurrency = "KES"
	maxDashboardDays  = 366
	topIndustryLimit  = 10
	recentPaymentRows = 10
)

type DashboardService interface {
	BuildDashboard(ctx context.Context, rng resp.TimeRange) (*resp.DashboardReport, error)
}

type dashboardService struct {
	repo repositories.DashboardRepository
	now  func() time.Time
}

func NewDashboardService(repo repositories.DashboardRepository) DashboardService {
	return &dashboardService{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

// normalizeRange fills defaults (last 30 days, daily buckets) and orders the
// bounds.
func normalizeRange(r resp.TimeRange, now time.Time) (resp.TimeRange, error) {
	out := r
	if out.Interval == "" {
		out.Interval = "day"
	}
	if out.Interval != "day" && out.Interval != "week" && out.Interval != "month" {
		return out, utils.ErrInvalidRange
	}
	if out.End.IsZero() {
		out.End = now
	}
	if out.Start.IsZero() {
		out.Start = out.End.AddDate(0, 0, -30)
	}
	if out.Start.After(out.End) {
		out.Start, out.End = out.End, out.Start
	}
	if out.End.Sub(out.Start) > maxDashboardDays*24*time.Hour {
		return out, utils.ErrInvalidRange
	}
	out.Start, out.End = out.Start.UTC(), out.End.UTC()
	return out, nil
}

// bucketStart truncates t to the start of its day, ISO week or month in
// Kenya time.
func bucketStart(t time.Time, interval string) time.Time {
	local := t.In(utils.KenyaLocation())
	y, m, d := local.Date()
	switch interval {
	case "month":
		return time.Date(y, m, 1, 0, 0, 0, 0, local.Location())
	case "week":
		day := time.Date(y, m, d, 0, 0, 0, 0, local.Location())
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	default:
		return time.Date(y, m, d, 0, 0, 0, 0, local.Location())
	}
}

func nextBucket(t time.Time, interval string) time.Time {
	switch interval {
	case "month":
		return t.AddDate(0, 1, 0)
	case "week":
		return t.AddDate(0, 0, 7)
	default:
		return t.AddDate(0, 0, 1)
	}
}

// buildSeries returns one point per bucket across the range, empty buckets
// included, so charts need no gap filling.
func buildSeries(rng resp.TimeRange, at []time.Time, weight func(i int) int64) []resp.SeriesPoint {
	sums := map[time.Time]int64{}
	for i, t := range at {
		sums[bucketStart(t, rng.Interval)] += weight(i)
	}

	var points []resp.SeriesPoint
	for b := bucketStart(rng.Start, rng.Interval); !b.After(rng.End); b = nextBucket(b, rng.Interval) {
		points = append(points, resp.SeriesPoint{Bucket: b, Value: sums[b]})
	}
	return points
}

func countOne(int) int64 { return 1 }

func (s *dashboardService) BuildDashboard(ctx context.Context, rng resp.TimeRange) (*resp.DashboardReport, error) {
	rng, err := normalizeRange(rng, s.now())
	if err != nil {
		return nil, err
	}

	// ---------- Core counts ----------
	var kpis resp.KPIBlock
	counts := []struct {
		dst *int64
		fn  func() (int64, error)
	}{
		{&kpis.TotalUsers, func() (int64, error) { return s.repo.CountUsers(ctx) }},
		{&kpis.TotalCompanies, func() (int64, error) { return s.repo.CountCompanies(ctx) }},
		{&kpis.Subscribers, func() (int64, error) { return s.repo.CountSubscribers(ctx) }},
		{&kpis.LiveJobs, func() (int64, error) { return s.repo.CountJobsByStatus(ctx, dbm.JobStatusActive) }},
		{&kpis.PendingPaymentJobs, func() (int64, error) { return s.repo.CountJobsByStatus(ctx, dbm.JobStatusPendingPayment) }},
		{&kpis.FailedPayments, func() (int64, error) {
			return s.repo.CountAttemptsByStatus(ctx, dbm.AttemptFailed, rng.Start, rng.End)
		}},
	}
	for _, c := range counts {
		if *c.dst, err = c.fn(); err != nil {
			return nil, utils.ErrDatabaseError
		}
	}

	// ---------- Series ----------
	payments, err := s.repo.CompletedPayments(ctx, rng.Start, rng.End)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	paidAt := make([]time.Time, len(payments))
	for i, p := range payments {
		paidAt[i] = p.CompletedAt
		kpis.RevenueKES += p.Amount
	}
	kpis.CompletedPayments = int64(len(payments))
	revenue := buildSeries(rng, paidAt, func(i int) int64 { return payments[i].Amount })

	signups, err := s.repo.UserSignups(ctx, rng.Start, rng.End)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	kpis.NewUsers = int64(len(signups))

	postings, err := s.repo.JobPostings(ctx, rng.Start, rng.End)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	// ---------- Plan mix ----------
	planRows, err := s.repo.PlanMix(ctx, rng.Start, rng.End)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	var totalJobs int64
	for _, r := range planRows {
		totalJobs += r.Count
	}
	planMix := make([]resp.PlanMixItem, 0, len(planRows))
	for _, r := range planRows {
		var pct float64
		if totalJobs > 0 {
			pct = float64(r.Count) * 100.0 / float64(totalJobs)
		}
		planMix = append(planMix, resp.PlanMixItem{PlanCode: r.Plan, Count: r.Count, Percent: pct})
	}

	// ---------- Top industries ----------
	industryRows, err := s.repo.TopIndustries(ctx, rng.Start, rng.End, topIndustryLimit)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	industries := make([]resp.TopIndustry, 0, len(industryRows))
	for _, r := range industryRows {
		industries = append(industries, resp.TopIndustry{Industry: r.Industry, Count: r.Count})
	}

	// ---------- Recent payments ----------
	recentRows, err := s.repo.RecentCompletedPayments(ctx, recentPaymentRows)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	recent := make([]resp.RecentPayment, 0, len(recentRows))
	for _, r := range recentRows {
		recent = append(recent, resp.RecentPayment{
			Reference:   r.Reference,
			CompletedAt: r.CompletedAt,
			Amount:      r.Amount,
			Plan:        r.Plan,
			Provider:    r.Provider,
			Receipt:     r.Receipt,
		})
	}

	return &resp.DashboardReport{
		Range: rng,
		KPIs:  kpis,
		Revenue: resp.RevenueSeries{
			Currency: dashboardCurrency,
			Points:   revenue,
			Total:    kpis.RevenueKES,
		},
		NewUsers:       resp.CountSeries{Points: buildSeries(rng, signups, countOne)},
		NewJobs:        resp.CountSeries{Points: buildSeries(rng, postings, countOne)},
		PlanMix:        planMix,
		TopIndustries:  industries,
		RecentPayments: recent,
	}, nil
}
