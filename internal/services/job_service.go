package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"autumhire/internal/models/db_models"
	"autumhire/internal/models/request_models"
	"autumhire/internal/models/response_models"
	"autumhire/internal/repositories"
	"autumhire/pkg/utils"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type JobServiceInterface interface {
	Post(ctx context.Context, actorID uuid.UUID, request request_models.CreateJobRequest) (*db_models.Job, error)
	List(ctx context.Context, filter request_models.JobFilter) (*response_models.JobListResponse, error)
	Get(ctx context.Context, actorID *uuid.UUID, jobID uuid.UUID) (*db_models.Job, error)
	ListMine(ctx context.Context, actorID uuid.UUID) ([]db_models.Job, error)
	Close(ctx context.Context, actorID uuid.UUID, jobID uuid.UUID) error
	Deactivate(ctx context.Context, jobID uuid.UUID) error
	// ActivatePaid records payment on the job and reports whether this call
	// made it live.
	ActivatePaid(ctx context.Context, jobID uuid.UUID) (bool, *db_models.Job, error)
	CloseExpired(ctx context.Context) (int64, error)
}

type JobService struct {
	jobRepo     repositories.JobRepository
	companyRepo repositories.CompanyRepository
	accounts    AccountServiceInterface
	plans       PlanServiceInterface
	log         *zap.Logger
	now         func() time.Time
}

func NewJobService(
	jobRepo repositories.JobRepository,
	companyRepo repositories.CompanyRepository,
	accounts AccountServiceInterface,
	plans PlanServiceInterface,
	log *zap.Logger,
) JobServiceInterface {
	return &JobService{
		jobRepo:     jobRepo,
		companyRepo: companyRepo,
		accounts:    accounts,
		plans:       plans,
		log:         log,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *JobService) Post(ctx context.Context, actorID uuid.UUID, request request_models.CreateJobRequest) (*db_models.Job, error) {
	user, err := s.accounts.Caller(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if user.CompanyID == nil {
		return nil, utils.ErrCompanyRequired
	}
	company, err := s.companyRepo.FindById(ctx, *user.CompanyID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if company == nil {
		return nil, utils.ErrCompanyNotFound
	}

	plan, err := s.plans.GetByCode(ctx, request.Plan)
	if err != nil {
		return nil, err
	}

	now := s.now()
	job := &db_models.Job{
		Title:           strings.TrimSpace(request.Title),
		Description:     utils.SanitizeHTML(request.Description),
		Location:        strings.TrimSpace(request.Location),
		Salary:          strings.TrimSpace(request.Salary),
		JobType:         request.JobType,
		ExperienceLevel: request.ExperienceLevel,
		Industry:        strings.TrimSpace(request.Industry),
		Deadline:        request.Deadline,
		CompanyID:       company.ID,
		CompanyName:     company.Name,
		CompanyLogo:     company.LogoURL,
		PostedBy:        user.ID,
		Plan:            plan.Code,
	}
	if job.Deadline != nil {
		d := job.Deadline.UTC()
		job.Deadline = &d
	}

	if plan.IsFree() {
		expires := now.AddDate(0, 0, plan.VisibilityDays)
		job.Status = db_models.JobStatusActive
		job.PaymentStatus = db_models.PaymentNotRequired
		job.ExpiresAt = &expires
	} else {
		job.Status = db_models.JobStatusPendingPayment
		job.PaymentStatus = db_models.PaymentPending
	}

	if err := s.jobRepo.Insert(ctx, job); err != nil {
		return nil, utils.ErrDatabaseError
	}

	s.log.Info("job posted",
		zap.String("job_id", job.ID.String()),
		zap.String("company_id", company.ID.String()),
		zap.String("plan", plan.Code),
		zap.String("status", string(job.Status)))
	return job, nil
}

func (s *JobService) List(ctx context.Context, filter request_models.JobFilter) (*response_models.JobListResponse, error) {
	page, pageSize, err := pageBounds(filter.Page, filter.PageSize)
	if err != nil {
		return nil, err
	}

	query := repositories.JobQuery{
		Location:        filter.Location,
		JobType:         filter.JobType,
		ExperienceLevel: filter.ExperienceLevel,
		Industry:        filter.Industry,
	}
	if filter.CompanyID != "" {
		id, err := uuid.Parse(filter.CompanyID)
		if err != nil {
			return &response_models.JobListResponse{Items: []db_models.Job{}, Page: page, PageSize: pageSize}, nil
		}
		query.CompanyID = &id
	}

	now := s.now()
	jobs, err := s.jobRepo.ListLive(ctx, query, now)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	jobs = FilterJobs(jobs, filter, now)
	SortByPlan(jobs, s.plans.Rank)

	total := len(jobs)
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return &response_models.JobListResponse{
		Items:    jobs[start:end],
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

func pageBounds(page, pageSize int) (int, int, error) {
	if page < 0 {
		return 0, 0, utils.ErrInvalidPage
	}
	if pageSize < 0 || pageSize > maxPageSize {
		return 0, 0, utils.ErrInvalidPageSize
	}
	if page == 0 {
		page = 1
	}
	if pageSize == 0 {
		pageSize = defaultPageSize
	}
	return page, pageSize, nil
}

// FilterJobs keeps live jobs matching every non-empty filter field. Applying
// it twice gives the same result as applying it once.
func FilterJobs(jobs []db_models.Job, filter request_models.JobFilter, now time.Time) []db_models.Job {
	keyword := strings.ToLower(strings.TrimSpace(filter.Keyword))
	location := strings.ToLower(strings.TrimSpace(filter.Location))
	industry := strings.ToLower(strings.TrimSpace(filter.Industry))

	out := make([]db_models.Job, 0, len(jobs))
	for _, job := range jobs {
		if !job.IsLive(now) {
			continue
		}
		if filter.JobType != "" && job.JobType != filter.JobType {
			continue
		}
		if filter.ExperienceLevel != "" && job.ExperienceLevel != filter.ExperienceLevel {
			continue
		}
		if industry != "" && strings.ToLower(job.Industry) != industry {
			continue
		}
		if location != "" && !strings.Contains(strings.ToLower(job.Location), location) {
			continue
		}
		if filter.CompanyID != "" && job.CompanyID.String() != filter.CompanyID {
			continue
		}
		if keyword != "" && !matchesKeyword(job, keyword) {
			continue
		}
		out = append(out, job)
	}
	return out
}

func matchesKeyword(job db_models.Job, keyword string) bool {
	for _, field := range []string{job.Title, job.CompanyName, job.Industry, job.Location} {
		if strings.Contains(strings.ToLower(field), keyword) {
			return true
		}
	}
	return strings.Contains(strings.ToLower(utils.PlainText(job.Description)), keyword)
}

// SortByPlan orders jobs by plan rank, highest first, then newest first.
func SortByPlan(jobs []db_models.Job, rank func(plan string) int) {
	sort.SliceStable(jobs, func(i, j int) bool {
		ri, rj := rank(jobs[i].Plan), rank(jobs[j].Plan)
		if ri != rj {
			return ri > rj
		}
		return jobs[i].CreatedAt.After(jobs[j].CreatedAt)
	})
}

func (s *JobService) Get(ctx context.Context, actorID *uuid.UUID, jobID uuid.UUID) (*db_models.Job, error) {
	job, err := s.jobRepo.FindById(ctx, jobID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if job == nil {
		return nil, utils.ErrJobNotFound
	}
	if job.IsLive(s.now()) {
		return job, nil
	}

	// Owners and platform staff still see jobs that left the listing.
	if actorID != nil {
		user, err := s.accounts.Caller(ctx, *actorID)
		if err == nil && (user.Role == db_models.RoleSuper ||
			(user.CompanyID != nil && *user.CompanyID == job.CompanyID)) {
			return job, nil
		}
	}
	return nil, utils.ErrJobNotFound
}

func (s *JobService) ListMine(ctx context.Context, actorID uuid.UUID) ([]db_models.Job, error) {
	user, err := s.accounts.Caller(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if user.CompanyID == nil {
		return []db_models.Job{}, nil
	}
	jobs, err := s.jobRepo.ListByCompany(ctx, *user.CompanyID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	return jobs, nil
}

func (s *JobService) Close(ctx context.Context, actorID uuid.UUID, jobID uuid.UUID) error {
	user, err := s.accounts.Caller(ctx, actorID)
	if err != nil {
		return err
	}
	job, err := s.jobRepo.FindById(ctx, jobID)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if job == nil {
		return utils.ErrJobNotFound
	}
	if user.CompanyID == nil || *user.CompanyID != job.CompanyID {
		return utils.ErrForbidden
	}
	if job.Status == db_models.JobStatusDeactivatedByAdmin {
		return utils.ErrInvalidJobStatus
	}
	if job.Status == db_models.JobStatusClosed {
		return nil
	}
	return s.setStatus(ctx, jobID, db_models.JobStatusClosed)
}

func (s *JobService) Deactivate(ctx context.Context, jobID uuid.UUID) error {
	return s.setStatus(ctx, jobID, db_models.JobStatusDeactivatedByAdmin)
}

func (s *JobService) setStatus(ctx context.Context, jobID uuid.UUID, status db_models.JobStatus) error {
	if err := s.jobRepo.UpdateStatus(ctx, jobID, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrJobNotFound
		}
		return utils.ErrDatabaseError
	}
	s.log.Info("job status changed", zap.String("job_id", jobID.String()), zap.String("status", string(status)))
	return nil
}

func (s *JobService) ActivatePaid(ctx context.Context, jobID uuid.UUID) (bool, *db_models.Job, error) {
	job, err := s.jobRepo.FindById(ctx, jobID)
	if err != nil {
		return false, nil, utils.ErrDatabaseError
	}
	if job == nil {
		return false, nil, utils.ErrJobNotFound
	}

	plan, err := s.plans.GetByCode(ctx, job.Plan)
	if err != nil {
		return false, nil, err
	}

	expires := s.now().AddDate(0, 0, plan.VisibilityDays)
	outcome, err := s.jobRepo.MarkPaid(ctx, jobID, expires)
	if err != nil {
		return false, nil, utils.ErrDatabaseError
	}
	switch outcome {
	case repositories.PaidUnchanged:
		return false, job, nil
	case repositories.PaidRecorded:
		job.PaymentStatus = db_models.PaymentPaid
		s.log.Warn("payment completed for a job that is no longer awaiting payment, not reactivated",
			zap.String("job_id", jobID.String()),
			zap.String("status", string(job.Status)))
		return false, job, nil
	}

	job.Status = db_models.JobStatusActive
	job.PaymentStatus = db_models.PaymentPaid
	job.ExpiresAt = &expires
	s.log.Info("job activated after payment", zap.String("job_id", jobID.String()), zap.Time("expires_at", expires))
	return true, job, nil
}

func (s *JobService) CloseExpired(ctx context.Context) (int64, error) {
	n, err := s.jobRepo.CloseExpired(ctx, s.now())
	if err != nil {
		return 0, utils.ErrDatabaseError
	}
	return n, nil
}
