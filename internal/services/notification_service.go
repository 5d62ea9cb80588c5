package services

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"autumhire/internal/models/db_models"
	"autumhire/internal/models/request_models"
	"autumhire/internal/models/response_models"
	"autumhire/internal/repositories"
	"autumhire/pkg/utils"
)

type NotificationServiceInterface interface {
	// NotifySubscribers mails every subscriber of the alert's industry. A
	// failed send is logged and counted; the rest still go out.
	NotifySubscribers(ctx context.Context, alert JobAlert) (response_models.NotifyResult, error)
	SendJobAlert(ctx context.Context, actorID uuid.UUID, request request_models.JobAlertRequest) (response_models.NotifyResult, error)
	NotifyJobPosted(ctx context.Context, actorID uuid.UUID, jobID uuid.UUID) error
	SendContactMessage(ctx context.Context, request request_models.ContactMessageRequest) error
	// JobActivated runs the side effects of a paid job going live. Errors
	// are logged, never returned.
	JobActivated(ctx context.Context, job *db_models.Job)
}

type NotificationService struct {
	subscribers repositories.SubscriberRepository
	jobs        JobServiceInterface
	accounts    AccountServiceInterface
	plans       PlanServiceInterface
	mail        IMailService
	concurrency int
	log         *zap.Logger
}

func NewNotificationService(
	subscribers repositories.SubscriberRepository,
	jobs JobServiceInterface,
	accounts AccountServiceInterface,
	plans PlanServiceInterface,
	mail IMailService,
	concurrency int,
	log *zap.Logger,
) NotificationServiceInterface {
	if concurrency < 1 {
		concurrency = 1
	}
	return &NotificationService{
		subscribers: subscribers,
		jobs:        jobs,
		accounts:    accounts,
		plans:       plans,
		mail:        mail,
		concurrency: concurrency,
		log:         log,
	}
}

func AlertFromJob(job *db_models.Job) JobAlert {
	return JobAlert{
		JobID:       job.ID.String(),
		Title:       job.Title,
		CompanyName: job.CompanyName,
		Industry:    job.Industry,
		Location:    job.Location,
	}
}

func (s *NotificationService) NotifySubscribers(ctx context.Context, alert JobAlert) (response_models.NotifyResult, error) {
	var result response_models.NotifyResult

	subs, err := s.subscribers.FindByIndustry(ctx, alert.Industry)
	if err != nil {
		return result, utils.ErrDatabaseError
	}
	result.Matched = len(subs)
	if len(subs) == 0 {
		return result, nil
	}

	var sent, failed atomic.Int64
	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for _, sub := range subs {
		email := sub.Email
		g.Go(func() error {
			if err := s.mail.SendJobAlert(ctx, email, alert); err != nil {
				failed.Add(1)
				s.log.Warn("job alert not delivered",
					zap.String("job_id", alert.JobID),
					zap.String("subscriber", email),
					zap.Error(err))
				return nil
			}
			sent.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	result.Sent = int(sent.Load())
	result.Failed = int(failed.Load())
	s.log.Info("job alert fan-out finished",
		zap.String("job_id", alert.JobID),
		zap.String("industry", alert.Industry),
		zap.Int("matched", result.Matched),
		zap.Int("sent", result.Sent),
		zap.Int("failed", result.Failed))
	return result, nil
}

func (s *NotificationService) SendJobAlert(ctx context.Context, actorID uuid.UUID, request request_models.JobAlertRequest) (response_models.NotifyResult, error) {
	if _, err := s.accounts.Caller(ctx, actorID); err != nil {
		return response_models.NotifyResult{}, err
	}

	if request.JobID != "" {
		jobID, err := uuid.Parse(request.JobID)
		if err != nil {
			return response_models.NotifyResult{}, utils.ErrJobNotFound
		}
		job, err := s.jobs.Get(ctx, &actorID, jobID)
		if err != nil {
			return response_models.NotifyResult{}, err
		}
		if job.Status != db_models.JobStatusActive {
			return response_models.NotifyResult{}, utils.ErrJobNotActive
		}
		plan, err := s.plans.GetByCode(ctx, job.Plan)
		if err != nil {
			return response_models.NotifyResult{}, err
		}
		if !plan.NotifySubscribers {
			return response_models.NotifyResult{}, utils.ErrPlanHasNoAlerts
		}
		return s.NotifySubscribers(ctx, AlertFromJob(job))
	}

	alert := JobAlert{
		Title:       strings.TrimSpace(request.Title),
		CompanyName: strings.TrimSpace(request.CompanyName),
		Industry:    strings.TrimSpace(request.Industry),
		Location:    strings.TrimSpace(request.Location),
	}
	if alert.Title == "" || alert.Industry == "" {
		return response_models.NotifyResult{}, utils.ErrAlertIncomplete
	}
	return s.NotifySubscribers(ctx, alert)
}

func (s *NotificationService) NotifyJobPosted(ctx context.Context, actorID uuid.UUID, jobID uuid.UUID) error {
	user, err := s.accounts.Caller(ctx, actorID)
	if err != nil {
		return err
	}
	job, err := s.jobs.Get(ctx, &actorID, jobID)
	if err != nil {
		return err
	}
	if user.CompanyID == nil || *user.CompanyID != job.CompanyID {
		return utils.ErrForbidden
	}

	posted := JobPosted{
		JobID:       job.ID.String(),
		Title:       job.Title,
		CompanyName: job.CompanyName,
		PosterName:  user.DisplayName,
		PosterEmail: user.Email,
		Plan:        job.Plan,
		Status:      string(job.Status),
	}
	if job.Deadline != nil {
		posted.Deadline = utils.FormatDateKE(*job.Deadline)
	}

	if err := s.mail.SendJobPosted(ctx, user.Email, posted); err != nil {
		return err
	}
	if err := s.mail.SendSupportNotice(ctx, posted); err != nil {
		s.log.Warn("support notice not sent", zap.String("job_id", posted.JobID), zap.Error(err))
	}
	return nil
}

func (s *NotificationService) SendContactMessage(ctx context.Context, request request_models.ContactMessageRequest) error {
	return s.mail.SendContactMessage(ctx, ContactMessage{
		Name:    strings.TrimSpace(request.Name),
		Email:   normalizeEmail(request.Email),
		Subject: strings.TrimSpace(request.Subject),
		Message: strings.TrimSpace(request.Message),
	})
}

func (s *NotificationService) JobActivated(ctx context.Context, job *db_models.Job) {
	plan, err := s.plans.GetByCode(ctx, job.Plan)
	if err != nil {
		s.log.Error("plan lookup failed after activation", zap.String("job_id", job.ID.String()), zap.Error(err))
		return
	}
	if !plan.NotifySubscribers {
		return
	}
	if _, err := s.NotifySubscribers(ctx, AlertFromJob(job)); err != nil {
		s.log.Error("job alert fan-out failed", zap.String("job_id", job.ID.String()), zap.Error(err))
	}
}
