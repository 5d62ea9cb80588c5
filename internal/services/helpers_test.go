package services

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"autumhire/internal/config"
	"autumhire/internal/infra"
	"autumhire/internal/models/db_models"
	"autumhire/internal/models/request_models"
	"autumhire/internal/repositories"
	"autumhire/pkg/gateways"
	"autumhire/pkg/gateways/instasend"
	"autumhire/pkg/utils"
)

type stubMailer struct {
	mu       sync.Mutex
	failFor  map[string]bool
	alerts   []string
	posted   []string
	notices  int
	contacts []ContactMessage
	invites  []string
}

func (m *stubMailer) SendJobAlert(_ context.Context, to string, _ JobAlert) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failFor[to] {
		return errors.New("mailbox unavailable")
	}
	m.alerts = append(m.alerts, to)
	return nil
}

func (m *stubMailer) SendJobPosted(_ context.Context, to string, _ JobPosted) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.posted = append(m.posted, to)
	return nil
}

func (m *stubMailer) SendSupportNotice(context.Context, JobPosted) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notices++
	return nil
}

func (m *stubMailer) SendContactMessage(_ context.Context, c ContactMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.contacts = append(m.contacts, c)
	return nil
}

func (m *stubMailer) SendInvitation(_ context.Context, to, _, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invites = append(m.invites, to)
	return nil
}

func (m *stubMailer) alertCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.alerts)
}

// stubGateway answers STK pushes locally and parses IntaSend-shaped
// callbacks.
type stubGateway struct {
	mu      sync.Mutex
	pushErr error
	status  gateways.Status
	pushes  int
	queries int
	parser  *instasend.Client
	// beforeReply runs after the push is accepted and before its response
	// reaches the caller.
	beforeReply func(checkoutID string)
}

func newStubGateway() *stubGateway {
	return &stubGateway{status: gateways.StatusPending, parser: instasend.NewClient(instasend.Config{}, nil)}
}

func (g *stubGateway) Name() string { return instasend.ProviderName }

func (g *stubGateway) STKPush(_ context.Context, req gateways.STKPushRequest) (*gateways.STKPushResult, error) {
	g.mu.Lock()
	g.pushes++
	err, hook := g.pushErr, g.beforeReply
	g.mu.Unlock()
	if err != nil {
		return nil, err
	}
	checkoutID := "INV-" + req.Reference
	if hook != nil {
		hook(checkoutID)
	}
	return &gateways.STKPushResult{CheckoutRequestID: checkoutID}, nil
}

func (g *stubGateway) QueryStatus(_ context.Context, id string) (*gateways.StatusResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.queries++
	return &gateways.StatusResult{CheckoutRequestID: id, Status: g.status, ResultDesc: string(g.status)}, nil
}

func (g *stubGateway) ParseCallback(body []byte) (*gateways.CallbackResult, error) {
	return g.parser.ParseCallback(body)
}

func (g *stubGateway) queryCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.queries
}

type testEnv struct {
	db            *gorm.DB
	plans         PlanServiceInterface
	accounts      AccountServiceInterface
	companies     CompanyServiceInterface
	jobs          JobServiceInterface
	subscribers   SubscriberServiceInterface
	notifications NotificationServiceInterface
	payments      PaymentServiceInterface
	attempts      repositories.PaymentAttemptRepository
	mail          *stubMailer
	gateway       *stubGateway
}

func newTestEnv(t *testing.T, poll PollPolicy, challenge string) *testEnv {
	t.Helper()
	ctx := context.Background()
	log := zap.NewNop()

	db, err := infra.OpenSQLite(filepath.Join(t.TempDir(), "svc.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	catalog, err := config.PlanCatalog()
	if err != nil {
		t.Fatalf("plan catalog: %v", err)
	}
	plans := NewPlanService(repositories.NewPlanRepository(db), log)
	if err := plans.Seed(ctx, catalog); err != nil {
		t.Fatalf("seed: %v", err)
	}

	mail := &stubMailer{failFor: map[string]bool{}}
	gw := newStubGateway()

	accountRepo := repositories.NewAccountRepository(db)
	companyRepo := repositories.NewCompanyRepository(db)
	inviteRepo := repositories.NewInvitationRepository(db)
	jobRepo := repositories.NewJobRepository(db)
	subRepo := repositories.NewSubscriberRepository(db)
	attempts := repositories.NewPaymentAttemptRepository(db)

	accounts := NewAccountService(repositories.NewTransactor(db), accountRepo, companyRepo, inviteRepo,
		utils.NewTokenIssuer("test-secret", time.Hour), log)
	jobs := NewJobService(jobRepo, companyRepo, accounts, plans, log)
	notifications := NewNotificationService(subRepo, jobs, accounts, plans, mail, 3, log)
	payments, err := NewPaymentService(PaymentConfig{
		Provider:         instasend.ProviderName,
		WebhookChallenge: challenge,
		Poll:             poll,
	}, []gateways.Gateway{gw}, attempts, jobRepo, plans, jobs, notifications, log)
	if err != nil {
		t.Fatalf("payment service: %v", err)
	}

	env := &testEnv{
		db:            db,
		plans:         plans,
		accounts:      accounts,
		companies:     NewCompanyService(accounts, companyRepo, inviteRepo, mail, log),
		jobs:          jobs,
		subscribers:   NewSubscriberService(subRepo),
		notifications: notifications,
		payments:      payments,
		attempts:      attempts,
		mail:          mail,
		gateway:       gw,
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = payments.Shutdown(ctx)
		_ = infra.CloseDatabase(context.Background(), db)
	})
	return env
}

// slowPoll keeps the fallback poller out of the way of callback tests.
var slowPoll = PollPolicy{InitialDelay: time.Hour, Interval: time.Hour, MaxAttempts: 1}

func (e *testEnv) registerAdmin(t *testing.T, email, company string) uuid.UUID {
	t.Helper()
	resp, err := e.accounts.Register(context.Background(), request_models.SignUpRequest{
		DisplayName: "Admin " + company,
		Email:       email,
		Password:    "secret123",
		Company:     &request_models.CompanyDetails{Name: company, Industry: "Technology", PhoneNumber: "0712 345 678"},
	})
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return uuid.MustParse(resp.User.ID)
}

func (e *testEnv) postJob(t *testing.T, actor uuid.UUID, plan, industry string) *db_models.Job {
	t.Helper()
	job, err := e.jobs.Post(context.Background(), actor, request_models.CreateJobRequest{
		Title:           "Go Developer",
		Description:     "<p>Build <strong>payment</strong> services</p><script>x()</script>",
		Location:        "Nairobi",
		JobType:         "full-time",
		ExperienceLevel: "mid",
		Industry:        industry,
		Plan:            plan,
	})
	if err != nil {
		t.Fatalf("post job: %v", err)
	}
	return job
}

func (e *testEnv) subscribe(t *testing.T, email string, industries ...string) {
	t.Helper()
	_, err := e.subscribers.Subscribe(context.Background(), request_models.SubscribeRequest{Email: email, Industries: industries})
	if err != nil {
		t.Fatalf("subscribe %s: %v", email, err)
	}
}

func intasendCallback(t *testing.T, invoiceID, state, apiRef, challenge string) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]string{
		"invoice_id":      invoiceID,
		"state":           state,
		"api_ref":         apiRef,
		"mpesa_reference": "QKJ" + invoiceID[len(invoiceID)-3:],
		"challenge":       challenge,
	})
	if err != nil {
		t.Fatalf("marshal callback: %v", err)
	}
	return body
}
