package services

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"

	"autumhire/internal/models/db_models"
	"autumhire/internal/models/request_models"
	"autumhire/pkg/utils"
)

func mustID(t *testing.T, s string) uuid.UUID {
	t.Helper()
	id, err := uuid.Parse(s)
	if err != nil {
		t.Fatalf("parse id %q: %v", s, err)
	}
	return id
}

func fixtureJobs(now time.Time) []db_models.Job {
	future := now.Add(24 * time.Hour)
	past := now.Add(-time.Hour)
	mk := func(title, plan string, status db_models.JobStatus, created time.Time, expires *time.Time) db_models.Job {
		j := db_models.Job{Title: title, Plan: plan, Status: status, Industry: "Technology",
			Location: "Nairobi", JobType: "full-time", ExpiresAt: expires}
		j.ID = uuid.New()
		j.CreatedAt = created
		return j
	}
	return []db_models.Job{
		mk("free-old", "free", db_models.JobStatusActive, now.Add(-3*time.Hour), &future),
		mk("premium-old", "premium", db_models.JobStatusActive, now.Add(-5*time.Hour), &future),
		mk("standard", "standard", db_models.JobStatusActive, now.Add(-time.Hour), &future),
		mk("premium-new", "premium", db_models.JobStatusActive, now.Add(-30*time.Minute), &future),
		mk("free-new", "free", db_models.JobStatusActive, now.Add(-10*time.Minute), &future),
		mk("closed", "premium", db_models.JobStatusClosed, now, &future),
		mk("deactivated", "premium", db_models.JobStatusDeactivatedByAdmin, now, &future),
		mk("unpaid", "standard", db_models.JobStatusPendingPayment, now, nil),
		mk("expired", "premium", db_models.JobStatusActive, now.Add(-48*time.Hour), &past),
	}
}

func titles(jobs []db_models.Job) []string {
	out := make([]string, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, j.Title)
	}
	return out
}

func TestFilterJobsDropsNonActiveAndIsIdempotent(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	filters := []request_models.JobFilter{
		{},
		{Keyword: "premium"},
		{Industry: "technology", JobType: "full-time"},
		{Location: "nairobi"},
	}

	for _, f := range filters {
		once := FilterJobs(fixtureJobs(now), f, now)
		for _, j := range once {
			if j.Status != db_models.JobStatusActive || !j.IsLive(now) {
				t.Fatalf("filter %+v kept non-live job %s", f, j.Title)
			}
		}
		twice := FilterJobs(once, f, now)
		if !reflect.DeepEqual(titles(once), titles(twice)) {
			t.Fatalf("filter %+v not idempotent: %v vs %v", f, titles(once), titles(twice))
		}
	}

	if got := FilterJobs(fixtureJobs(now), request_models.JobFilter{Keyword: "premium"}, now); len(got) != 2 {
		t.Fatalf("expected 2 premium matches, got %v", titles(got))
	}
}

func TestSortByPlanRanksThenNewestFirst(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	jobs := FilterJobs(fixtureJobs(now), request_models.JobFilter{}, now)
	rank := map[string]int{"free": 1, "standard": 2, "premium": 3}

	SortByPlan(jobs, func(code string) int { return rank[code] })

	want := []string{"premium-new", "premium-old", "standard", "free-new", "free-old"}
	if got := titles(jobs); !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected order %v, want %v", got, want)
	}
}

func TestPostJobAppliesPlan(t *testing.T) {
	env := newTestEnv(t, slowPoll, "")
	admin := env.registerAdmin(t, "a@example.com", "Acme")

	free := env.postJob(t, admin, "free", "Technology")
	if free.Status != db_models.JobStatusActive || free.PaymentStatus != db_models.PaymentNotRequired || free.ExpiresAt == nil {
		t.Fatalf("unexpected free job: %+v", free)
	}
	if days := free.ExpiresAt.Sub(free.CreatedAt).Hours() / 24; days < 6.9 || days > 7.1 {
		t.Fatalf("expected 7 days of visibility, got %.2f", days)
	}
	if free.Description != "<p>Build <strong>payment</strong> services</p>" {
		t.Fatalf("description not sanitised: %q", free.Description)
	}
	if free.CompanyName != "Acme" {
		t.Fatalf("expected denormalised company name, got %q", free.CompanyName)
	}

	paid := env.postJob(t, admin, "premium", "Technology")
	if paid.Status != db_models.JobStatusPendingPayment || paid.PaymentStatus != db_models.PaymentPending || paid.ExpiresAt != nil {
		t.Fatalf("unexpected paid job: %+v", paid)
	}

	list, err := env.jobs.List(context.Background(), request_models.JobFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if list.Total != 1 || list.Items[0].ID != free.ID {
		t.Fatalf("expected only the free job listed, got %d", list.Total)
	}

	// Owners can still open their unpaid job; the public cannot.
	if _, err := env.jobs.Get(context.Background(), nil, paid.ID); !errors.Is(err, utils.ErrJobNotFound) {
		t.Fatalf("expected hidden job, got %v", err)
	}
	if _, err := env.jobs.Get(context.Background(), &admin, paid.ID); err != nil {
		t.Fatalf("owner get: %v", err)
	}
}

func TestCloseJobRequiresOwner(t *testing.T) {
	env := newTestEnv(t, slowPoll, "")
	ctx := context.Background()
	owner := env.registerAdmin(t, "a@example.com", "Acme")
	other := env.registerAdmin(t, "b@example.com", "Globex")
	job := env.postJob(t, owner, "free", "Technology")

	if err := env.jobs.Close(ctx, other, job.ID); !errors.Is(err, utils.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if err := env.jobs.Close(ctx, owner, job.ID); err != nil {
		t.Fatalf("close: %v", err)
	}
	mine, _ := env.jobs.ListMine(ctx, owner)
	if len(mine) != 1 || mine[0].Status != db_models.JobStatusClosed {
		t.Fatalf("expected closed job in own list, got %+v", mine)
	}

	if err := env.jobs.Deactivate(ctx, uuid.New()); !errors.Is(err, utils.ErrJobNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListRejectsBadPaging(t *testing.T) {
	env := newTestEnv(t, slowPoll, "")
	if _, err := env.jobs.List(context.Background(), request_models.JobFilter{PageSize: 1000}); !errors.Is(err, utils.ErrInvalidPageSize) {
		t.Fatalf("expected page size error, got %v", err)
	}
}
