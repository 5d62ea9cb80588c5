package config

import (
	"strings"
	"testing"
	"time"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}
}

func TestFromLookupDefaults(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(map[string]string{
		"JWT_SECRET":           "secret",
		"DB_DRIVER":            "sqlite",
		"INSTASEND_SECRET_KEY": "ISSecretKey_test",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" || cfg.PaymentProvider != "instasend" {
		t.Fatalf("unexpected defaults: port=%s provider=%s", cfg.Port, cfg.PaymentProvider)
	}
	if cfg.Poll.InitialDelay != 20*time.Second || cfg.Poll.Interval != 5*time.Second || cfg.Poll.MaxAttempts != 12 {
		t.Fatalf("unexpected poll policy: %+v", cfg.Poll)
	}
	if cfg.NotifyConcurrency != 5 {
		t.Fatalf("expected notify concurrency 5, got %d", cfg.NotifyConcurrency)
	}
}

func TestFromLookupMissingRequired(t *testing.T) {
	_, err := FromLookup(lookupFrom(map[string]string{"PAYMENT_PROVIDER": "mpesa"}))
	if err == nil {
		t.Fatal("expected error")
	}
	for _, key := range []string{"JWT_SECRET", "POSTGRES_URL", "MPESA_PASSKEY"} {
		if !strings.Contains(err.Error(), key) {
			t.Errorf("expected %s in %q", key, err.Error())
		}
	}
}

func TestFromLookupRejectsBadValues(t *testing.T) {
	_, err := FromLookup(lookupFrom(map[string]string{
		"JWT_SECRET":            "secret",
		"DB_DRIVER":             "sqlite",
		"INSTASEND_SECRET_KEY":  "k",
		"PAYMENT_POLL_INTERVAL": "soon",
	}))
	if err == nil || !strings.Contains(err.Error(), "PAYMENT_POLL_INTERVAL") {
		t.Fatalf("expected interval error, got %v", err)
	}
}

func TestPlanCatalog(t *testing.T) {
	plans, err := PlanCatalog()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[string]struct {
		price  int64
		days   int
		notify bool
		rank   int
	}{
		"free":     {0, 7, false, 1},
		"standard": {1000, 30, true, 2},
		"premium":  {2500, 60, true, 3},
	}
	if len(plans) != len(want) {
		t.Fatalf("expected %d plans, got %d", len(want), len(plans))
	}
	for _, p := range plans {
		w, ok := want[p.Code]
		if !ok {
			t.Fatalf("unexpected plan %q", p.Code)
		}
		if p.Price != w.price || p.VisibilityDays != w.days || p.NotifySubscribers != w.notify || p.Rank != w.rank {
			t.Errorf("plan %s: got %+v", p.Code, p)
		}
	}
}

func TestParsePlansRejectsDuplicates(t *testing.T) {
	doc := []byte("plans:\n  - {code: free, price: 0, visibility_days: 7}\n  - {code: free, price: 0, visibility_days: 7}\n")
	if _, err := ParsePlans(doc); err == nil {
		t.Fatal("expected duplicate error")
	}
}
