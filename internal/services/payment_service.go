package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"autumhire/internal/models/db_models"
	"autumhire/internal/models/request_models"
	"autumhire/internal/models/response_models"
	"autumhire/internal/repositories"
	"autumhire/pkg/gateways"
	"autumhire/pkg/gateways/instasend"
	"autumhire/pkg/utils"
)

const staleAttemptAge = 30 * time.Minute

type PaymentServiceInterface interface {
	Initiate(ctx context.Context, actorID *uuid.UUID, request request_models.InitiatePaymentRequest) (*response_models.InitiatePaymentResponse, error)
	CheckStatus(ctx context.Context, checkoutID string) (*response_models.PaymentStatusResponse, error)
	HandleCallback(ctx context.Context, provider string, body []byte) error
	SweepStale(ctx context.Context) (int64, error)
	Shutdown(ctx context.Context) error
}

type PaymentConfig struct {
	Provider         string
	WebhookChallenge string
	Poll             PollPolicy
}

type PaymentService struct {
	cfg           PaymentConfig
	gateways      map[string]gateways.Gateway
	attempts      repositories.PaymentAttemptRepository
	jobRepo       repositories.JobRepository
	plans         PlanServiceInterface
	jobs          JobServiceInterface
	notifications NotificationServiceInterface
	poller        *paymentPoller
	log           *zap.Logger

	bgCtx     context.Context
	bgCancel  context.CancelFunc
	bgMu      sync.Mutex
	bgClosing bool
	bgWG      sync.WaitGroup
}

func NewPaymentService(
	cfg PaymentConfig,
	gws []gateways.Gateway,
	attempts repositories.PaymentAttemptRepository,
	jobRepo repositories.JobRepository,
	plans PlanServiceInterface,
	jobs JobServiceInterface,
	notifications NotificationServiceInterface,
	log *zap.Logger,
) (PaymentServiceInterface, error) {
	byName := make(map[string]gateways.Gateway, len(gws))
	for _, gw := range gws {
		byName[gw.Name()] = gw
	}
	if _, ok := byName[cfg.Provider]; !ok {
		return nil, fmt.Errorf("payment provider %q is not configured", cfg.Provider)
	}
	if cfg.Poll.MaxAttempts <= 0 {
		cfg.Poll = DefaultPollPolicy()
	}

	s := &PaymentService{
		cfg:           cfg,
		gateways:      byName,
		attempts:      attempts,
		jobRepo:       jobRepo,
		plans:         plans,
		jobs:          jobs,
		notifications: notifications,
		log:           log,
	}
	s.bgCtx, s.bgCancel = context.WithCancel(context.Background())
	s.poller = newPaymentPoller(cfg.Poll, s.refresh, s.expire, log)
	return s, nil
}

// NewReference builds the account reference shown on the customer's phone.
func NewReference(planCode string) string {
	return fmt.Sprintf("AH-%s-%s", strings.ToUpper(planCode), strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func (s *PaymentService) Initiate(ctx context.Context, actorID *uuid.UUID, request request_models.InitiatePaymentRequest) (*response_models.InitiatePaymentResponse, error) {
	phone, err := utils.NormalizeKenyanPhone(request.PhoneNumber)
	if err != nil {
		return nil, err
	}

	plan, err := s.plans.GetByCode(ctx, request.Plan)
	if err != nil {
		return nil, err
	}
	if plan.IsFree() {
		return nil, utils.ErrPlanNotBillable
	}
	if request.Amount != plan.PriceKES {
		return nil, utils.ErrAmountMismatch
	}

	var jobID *uuid.UUID
	if request.JobID != "" {
		id, err := uuid.Parse(request.JobID)
		if err != nil {
			return nil, utils.ErrJobNotFound
		}
		job, err := s.jobRepo.FindById(ctx, id)
		if err != nil {
			return nil, utils.ErrDatabaseError
		}
		if job == nil {
			return nil, utils.ErrJobNotFound
		}
		if job.Status != db_models.JobStatusPendingPayment || job.Plan != plan.Code {
			return nil, utils.ErrInvalidJobStatus
		}
		jobID = &id
	}

	gw := s.gateways[s.cfg.Provider]
	attempt := &db_models.PaymentAttempt{
		Reference:   NewReference(plan.Code),
		Provider:    gw.Name(),
		PhoneNumber: phone,
		Amount:      plan.PriceKES,
		Plan:        plan.Code,
		JobID:       jobID,
		UserID:      actorID,
		Status:      db_models.AttemptPending,
	}
	if err := s.attempts.Insert(ctx, attempt); err != nil {
		return nil, utils.ErrDatabaseError
	}

	res, err := gw.STKPush(ctx, gateways.STKPushRequest{
		PhoneNumber: phone,
		Amount:      plan.PriceKES,
		Reference:   attempt.Reference,
		Description: plan.Name + " job post",
	})
	if err != nil {
		var providerErr *gateways.ProviderError
		if !errors.As(err, &providerErr) {
			providerErr = &gateways.ProviderError{
				Provider:   gw.Name(),
				StatusCode: http.StatusBadGateway,
				Message:    "payment provider unavailable",
			}
		}
		if markErr := s.attempts.MarkFailed(ctx, attempt.ID, providerErr.Message); markErr != nil {
			s.log.Error("could not mark payment attempt failed", zap.String("reference", attempt.Reference), zap.Error(markErr))
		}
		s.log.Warn("stk push rejected",
			zap.String("provider", gw.Name()),
			zap.String("reference", attempt.Reference),
			zap.Error(err))
		return nil, providerErr
	}

	bound, err := s.attempts.SetCheckoutID(ctx, attempt.ID, res.CheckoutRequestID)
	if err != nil {
		s.log.Error("could not bind checkout id",
			zap.String("reference", attempt.Reference),
			zap.String("checkout_request_id", res.CheckoutRequestID),
			zap.Error(err))
		return nil, utils.ErrDatabaseError
	}

	s.log.Info("stk push sent",
		zap.String("provider", gw.Name()),
		zap.String("reference", attempt.Reference),
		zap.String("checkout_request_id", res.CheckoutRequestID),
		zap.String("plan", plan.Code))

	switch {
	case bound.Status == db_models.AttemptCompleted:
		s.log.Info("callback arrived before push response, merged",
			zap.String("reference", bound.Reference),
			zap.String("checkout_request_id", res.CheckoutRequestID))
		s.activate(ctx, bound)
	case !bound.Status.IsTerminal():
		s.poller.Watch(res.CheckoutRequestID)
	}

	return &response_models.InitiatePaymentResponse{
		CheckoutRequestID: res.CheckoutRequestID,
		Reference:         attempt.Reference,
		Status:            string(bound.Status),
		CustomerMessage:   res.CustomerMessage,
	}, nil
}

func (s *PaymentService) CheckStatus(ctx context.Context, checkoutID string) (*response_models.PaymentStatusResponse, error) {
	attempt, err := s.attempts.FindByCheckoutID(ctx, checkoutID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if attempt == nil {
		return nil, utils.ErrPaymentNotFound
	}

	if !attempt.Status.IsTerminal() {
		if _, err := s.refresh(ctx, checkoutID); err != nil {
			return nil, err
		}
		attempt, err = s.attempts.FindByCheckoutID(ctx, checkoutID)
		if err != nil || attempt == nil {
			return nil, utils.ErrDatabaseError
		}
	}
	return statusResponse(attempt), nil
}

func statusResponse(a *db_models.PaymentAttempt) *response_models.PaymentStatusResponse {
	resp := &response_models.PaymentStatusResponse{
		Status:     string(a.Status),
		ResultCode: a.ResultCode,
		ResultDesc: a.ResultDesc,
	}
	if a.CheckoutRequestID != nil {
		resp.CheckoutRequestID = *a.CheckoutRequestID
	}
	if a.JobID != nil {
		resp.JobID = a.JobID.String()
	}
	return resp
}

// refresh asks the provider about a pending attempt and records any final
// outcome through the same path as a callback.
func (s *PaymentService) refresh(ctx context.Context, checkoutID string) (db_models.AttemptStatus, error) {
	attempt, err := s.attempts.FindByCheckoutID(ctx, checkoutID)
	if err != nil {
		return "", utils.ErrDatabaseError
	}
	if attempt == nil {
		return "", utils.ErrPaymentNotFound
	}
	if attempt.Status.IsTerminal() {
		return attempt.Status, nil
	}

	gw, ok := s.gateways[attempt.Provider]
	if !ok {
		gw = s.gateways[s.cfg.Provider]
	}
	res, err := gw.QueryStatus(ctx, checkoutID)
	if err != nil {
		return "", err
	}

	status := attemptStatus(res.Status)
	if status == db_models.AttemptPending {
		return status, nil
	}

	changed, err := s.attempts.ApplyResult(ctx, checkoutID, repositories.AttemptResult{
		Status:     status,
		ResultCode: res.ResultCode,
		ResultDesc: res.ResultDesc,
		Raw:        res.Raw,
	})
	if err != nil {
		return "", utils.ErrDatabaseError
	}
	if changed {
		s.log.Info("payment settled by status query", zap.String("checkout_request_id", checkoutID), zap.String("status", string(status)))
	}
	if status == db_models.AttemptCompleted {
		s.activate(ctx, attempt)
	}
	return status, nil
}

func (s *PaymentService) expire(ctx context.Context, checkoutID string) {
	expired, err := s.attempts.TimeoutPending(ctx, checkoutID)
	if err != nil {
		s.log.Error("could not expire payment attempt", zap.String("checkout_request_id", checkoutID), zap.Error(err))
		return
	}
	if expired {
		s.log.Info("payment attempt timed out", zap.String("checkout_request_id", checkoutID))
	}
}

func (s *PaymentService) HandleCallback(ctx context.Context, provider string, body []byte) error {
	gw, ok := s.gateways[provider]
	if !ok {
		return utils.ErrInvalidCallback
	}
	cb, err := gw.ParseCallback(body)
	if err != nil {
		s.log.Warn("unreadable payment callback", zap.String("provider", provider), zap.Error(err))
		return fmt.Errorf("%w: %v", utils.ErrInvalidCallback, err)
	}
	if s.cfg.WebhookChallenge != "" && provider == instasend.ProviderName && cb.Challenge != s.cfg.WebhookChallenge {
		return utils.ErrCallbackForbidden
	}

	status := attemptStatus(cb.Status)
	if status == db_models.AttemptPending {
		s.log.Debug("intermediate payment callback", zap.String("checkout_request_id", cb.CheckoutRequestID))
		return nil
	}

	existing, err := s.attempts.FindByCheckoutID(ctx, cb.CheckoutRequestID)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if existing == nil && cb.Reference != "" {
		// The callback can beat the checkout id write after STK push.
		byRef, err := s.attempts.FindByReference(ctx, cb.Reference)
		if err != nil {
			return utils.ErrDatabaseError
		}
		if byRef != nil && byRef.CheckoutRequestID == nil {
			if existing, err = s.attempts.SetCheckoutID(ctx, byRef.ID, cb.CheckoutRequestID); err != nil {
				return utils.ErrDatabaseError
			}
		}
	}
	if existing == nil {
		s.log.Warn("payment callback for unknown checkout",
			zap.String("provider", provider),
			zap.String("checkout_request_id", cb.CheckoutRequestID),
			zap.String("reference", cb.Reference))
	}

	checkoutID := cb.CheckoutRequestID
	record := &db_models.PaymentAttempt{
		Reference:         repositories.OrphanReference(checkoutID),
		CheckoutRequestID: &checkoutID,
		Provider:          provider,
		Status:            status,
		ResultCode:        cb.ResultCode,
		ResultDesc:        cb.ResultDesc,
		Receipt:           cb.Receipt,
		RawCallback:       datatypes.JSON(cb.Raw),
	}
	if status == db_models.AttemptCompleted {
		now := time.Now().UTC()
		record.CompletedAt = &now
	}
	if err := s.attempts.UpsertCallback(ctx, record); err != nil {
		return utils.ErrDatabaseError
	}

	attempt, err := s.attempts.FindByCheckoutID(ctx, checkoutID)
	if err != nil || attempt == nil {
		return utils.ErrDatabaseError
	}
	s.log.Info("payment callback recorded",
		zap.String("provider", provider),
		zap.String("checkout_request_id", checkoutID),
		zap.String("status", string(attempt.Status)))

	if attempt.Status == db_models.AttemptCompleted {
		s.activate(ctx, attempt)
	}
	return nil
}

// activate turns a completed payment into a live job. Only the call that
// flips the job fans out alerts, so repeated callbacks stay quiet.
func (s *PaymentService) activate(ctx context.Context, attempt *db_models.PaymentAttempt) {
	if attempt.JobID == nil {
		return
	}
	flipped, job, err := s.jobs.ActivatePaid(ctx, *attempt.JobID)
	if err != nil {
		s.log.Error("job activation after payment failed",
			zap.String("job_id", attempt.JobID.String()),
			zap.String("reference", attempt.Reference),
			zap.Error(err))
		return
	}
	if !flipped {
		return
	}

	s.bgMu.Lock()
	defer s.bgMu.Unlock()
	if s.bgClosing {
		s.log.Warn("shutting down, job alerts skipped", zap.String("job_id", job.ID.String()))
		return
	}
	s.bgWG.Add(1)
	go func() {
		defer s.bgWG.Done()
		s.notifications.JobActivated(s.bgCtx, job)
	}()
}

func (s *PaymentService) SweepStale(ctx context.Context) (int64, error) {
	n, err := s.attempts.TimeoutStale(ctx, time.Now().UTC().Add(-staleAttemptAge))
	if err != nil {
		return 0, utils.ErrDatabaseError
	}
	return n, nil
}

func (s *PaymentService) Shutdown(ctx context.Context) error {
	err := s.poller.Stop(ctx)

	s.bgMu.Lock()
	s.bgClosing = true
	s.bgMu.Unlock()

	done := make(chan struct{})
	go func() {
		s.bgWG.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		s.bgCancel()
		return ctx.Err()
	}
	s.bgCancel()
	return err
}

func attemptStatus(st gateways.Status) db_models.AttemptStatus {
	switch st {
	case gateways.StatusCompleted:
		return db_models.AttemptCompleted
	case gateways.StatusFailed:
		return db_models.AttemptFailed
	case gateways.StatusCancelled:
		return db_models.AttemptCancelled
	default:
		return db_models.AttemptPending
	}
}
