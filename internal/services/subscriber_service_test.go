package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"autumhire/internal/infra"
	"autumhire/internal/models/db_models"
	"autumhire/internal/models/request_models"
	"autumhire/internal/repositories"
	"autumhire/pkg/utils"
)

func TestSubscribeDedupesIndustries(t *testing.T) {
	env := newTestEnv(t, slowPoll, "")
	ctx := context.Background()

	sub, err := env.subscribers.Subscribe(ctx, request_models.SubscribeRequest{
		Email: " Jane@Example.com ", Industries: []string{"Technology", " technology", "Real  Estate", " "},
	})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if sub.Email != "jane@example.com" || len(sub.Industries) != 2 || sub.Industries[1].Industry != "Real Estate" {
		t.Fatalf("unexpected subscriber %+v", sub)
	}

	_, err = env.subscribers.Subscribe(ctx, request_models.SubscribeRequest{Email: "x@example.com", Industries: []string{" "}})
	if !errors.Is(err, utils.ErrIndustryRequired) {
		t.Fatalf("expected industry required, got %v", err)
	}
}

func TestResubscribeKeepsOriginalDate(t *testing.T) {
	env := newTestEnv(t, slowPoll, "")
	ctx := context.Background()
	svc := NewSubscriberService(repositories.NewSubscriberRepository(env.db)).(*SubscriberService)

	first := time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return first }
	if _, err := svc.Subscribe(ctx, request_models.SubscribeRequest{Email: "jane@example.com", Industries: []string{"Technology"}}); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	svc.now = func() time.Time { return first.AddDate(0, 2, 0) }
	sub, err := svc.Subscribe(ctx, request_models.SubscribeRequest{Email: "jane@example.com", Industries: []string{"Finance"}, Location: "Nairobi"})
	if err != nil {
		t.Fatalf("resubscribe: %v", err)
	}
	if !sub.SubscribedAt.Equal(first) {
		t.Fatalf("expected original date %v, got %v", first, sub.SubscribedAt)
	}

	var stored db_models.Subscriber
	if err := env.db.Preload("Industries").First(&stored, "email = ?", "jane@example.com").Error; err != nil {
		t.Fatalf("load: %v", err)
	}
	if !stored.SubscribedAt.Equal(sub.SubscribedAt) || stored.Location != "Nairobi" || len(stored.Industries) != 1 || stored.Industries[0].Industry != "Finance" {
		t.Fatalf("store disagrees with response: stored=%+v returned=%+v", stored, sub)
	}
}

func TestUnsubscribe(t *testing.T) {
	env := newTestEnv(t, slowPoll, "")
	ctx := context.Background()
	env.subscribe(t, "jane@example.com", "Technology")

	if err := env.subscribers.Unsubscribe(ctx, "JANE@example.com"); err != nil {
		t.Fatalf("unsubscribe: %v", err)
	}
	if err := env.subscribers.Unsubscribe(ctx, "jane@example.com"); !errors.Is(err, utils.RecordNotFound) {
		t.Fatalf("expected not found on second unsubscribe, got %v", err)
	}
}

func TestIndustryCreateIsCaseInsensitive(t *testing.T) {
	db, err := infra.OpenSQLite(filepath.Join(t.TempDir(), "industry.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = infra.CloseDatabase(context.Background(), db) })
	svc := NewIndustryService(repositories.NewIndustryRepository(db))
	ctx := context.Background()

	first, created, err := svc.Create(ctx, " Agri  Tech ")
	if err != nil || !created || first.Name != "Agri Tech" {
		t.Fatalf("create: %+v %v %v", first, created, err)
	}
	again, created, err := svc.Create(ctx, "agri tech")
	if err != nil || created || again.ID != first.ID {
		t.Fatalf("expected existing industry, got %+v %v %v", again, created, err)
	}
	if _, _, err := svc.Create(ctx, "  "); !errors.Is(err, utils.ErrIndustryRequired) {
		t.Fatalf("expected industry required, got %v", err)
	}

	list, err := svc.List(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("list: %v %v", list, err)
	}
}
