package services

import (
	"context"
	"errors"
	"testing"

	"autumhire/internal/models/request_models"
	"autumhire/pkg/utils"
)

func TestNotifySubscribersCountsFailures(t *testing.T) {
	env := newTestEnv(t, slowPoll, "")
	env.subscribe(t, "one@example.com", "Technology")
	env.subscribe(t, "two@example.com", "technology ", "Finance")
	env.subscribe(t, "broken@example.com", "TECHNOLOGY")
	env.subscribe(t, "other@example.com", "Health")
	env.mail.failFor["broken@example.com"] = true

	res, err := env.notifications.NotifySubscribers(context.Background(), JobAlert{
		Title: "Backend Engineer", CompanyName: "Acme", Industry: "Technology", Location: "Nairobi",
	})
	if err != nil {
		t.Fatalf("notify: %v", err)
	}
	if res.Matched != 3 || res.Sent != 2 || res.Failed != 1 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestNotifySubscribersWithoutMatches(t *testing.T) {
	env := newTestEnv(t, slowPoll, "")

	res, err := env.notifications.NotifySubscribers(context.Background(), JobAlert{Title: "Nurse", Industry: "Health"})
	if err != nil || res.Matched != 0 || res.Sent != 0 {
		t.Fatalf("expected empty result, got %+v %v", res, err)
	}
}

func TestSendJobAlertChecksJobAndPlan(t *testing.T) {
	env := newTestEnv(t, slowPoll, "")
	ctx := context.Background()
	admin := env.registerAdmin(t, "a@example.com", "Acme")
	env.subscribe(t, "one@example.com", "Technology")

	free := env.postJob(t, admin, "free", "Technology")
	_, err := env.notifications.SendJobAlert(ctx, admin, request_models.JobAlertRequest{JobID: free.ID.String()})
	if !errors.Is(err, utils.ErrPlanHasNoAlerts) {
		t.Fatalf("expected plan without alerts, got %v", err)
	}

	unpaid := env.postJob(t, admin, "standard", "Technology")
	_, err = env.notifications.SendJobAlert(ctx, admin, request_models.JobAlertRequest{JobID: unpaid.ID.String()})
	if !errors.Is(err, utils.ErrJobNotActive) {
		t.Fatalf("expected inactive job, got %v", err)
	}

	_, err = env.notifications.SendJobAlert(ctx, admin, request_models.JobAlertRequest{Title: "Tester"})
	if !errors.Is(err, utils.ErrAlertIncomplete) {
		t.Fatalf("expected incomplete alert, got %v", err)
	}

	res, err := env.notifications.SendJobAlert(ctx, admin, request_models.JobAlertRequest{
		Title: "Tester", Industry: "technology", CompanyName: "Acme",
	})
	if err != nil || res.Sent != 1 {
		t.Fatalf("inline alert: %+v %v", res, err)
	}
}

func TestNotifyJobPostedMailsPosterAndSupport(t *testing.T) {
	env := newTestEnv(t, slowPoll, "")
	ctx := context.Background()
	admin := env.registerAdmin(t, "a@example.com", "Acme")
	outsider := env.registerAdmin(t, "b@example.com", "Globex")
	job := env.postJob(t, admin, "free", "Technology")

	if err := env.notifications.NotifyJobPosted(ctx, admin, job.ID); err != nil {
		t.Fatalf("notify posted: %v", err)
	}
	if len(env.mail.posted) != 1 || env.mail.posted[0] != "a@example.com" || env.mail.notices != 1 {
		t.Fatalf("unexpected mails posted=%v notices=%d", env.mail.posted, env.mail.notices)
	}

	if err := env.notifications.NotifyJobPosted(ctx, outsider, job.ID); !errors.Is(err, utils.ErrForbidden) {
		t.Fatalf("expected forbidden for another company, got %v", err)
	}
}

func TestSendContactMessageNormalizes(t *testing.T) {
	env := newTestEnv(t, slowPoll, "")

	err := env.notifications.SendContactMessage(context.Background(), request_models.ContactMessageRequest{
		Name: " Wanjiku ", Email: " W@Example.COM", Subject: "Pricing", Message: "Hello\n",
	})
	if err != nil {
		t.Fatalf("contact: %v", err)
	}
	got := env.mail.contacts[0]
	if got.Email != "w@example.com" || got.Name != "Wanjiku" || got.Message != "Hello" {
		t.Fatalf("unexpected contact %+v", got)
	}
}
