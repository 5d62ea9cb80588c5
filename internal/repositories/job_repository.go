package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"autumhire/internal/infra"
	"autumhire/internal/models/db_models"
)

// JobQuery narrows the live listing in the database. Keyword matching is
// done by the caller.
type JobQuery struct {
	Location        string
	JobType         string
	ExperienceLevel string
	Industry        string
	CompanyID       *uuid.UUID
}

type PaidOutcome int

const (
	// PaidUnchanged: the job was already marked paid.
	PaidUnchanged PaidOutcome = iota
	// PaidActivated: the job was awaiting payment and is now live.
	PaidActivated
	// PaidRecorded: payment was recorded on a job that is no longer
	// awaiting payment; its status was kept.
	PaidRecorded
)

type JobRepository interface {
	Insert(ctx context.Context, job *db_models.Job) error
	FindById(ctx context.Context, id uuid.UUID) (*db_models.Job, error)
	ListLive(ctx context.Context, q JobQuery, now time.Time) ([]db_models.Job, error)
	ListByCompany(ctx context.Context, companyID uuid.UUID) ([]db_models.Job, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status db_models.JobStatus) error
	// MarkPaid records payment on a job and activates it when it is still
	// awaiting payment. The outcome tells which of the two this call did.
	MarkPaid(ctx context.Context, id uuid.UUID, expiresAt time.Time) (PaidOutcome, error)
	CloseExpired(ctx context.Context, now time.Time) (int64, error)
}

type jobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) JobRepository {
	return &jobRepository{db: db}
}

func (r *jobRepository) Insert(ctx context.Context, job *db_models.Job) error {
	return infra.Conn(ctx, r.db).Create(job).Error
}

func (r *jobRepository) FindById(ctx context.Context, id uuid.UUID) (*db_models.Job, error) {
	var job db_models.Job
	err := infra.Conn(ctx, r.db).First(&job, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &job, nil
}

func (r *jobRepository) ListLive(ctx context.Context, q JobQuery, now time.Time) ([]db_models.Job, error) {
	tx := infra.Conn(ctx, r.db).
		Where("status = ?", db_models.JobStatusActive).
		Where("expires_at IS NULL OR expires_at > ?", now).
		Where("deadline IS NULL OR deadline > ?", now)

	if q.Location != "" {
		tx = tx.Where("LOWER(location) LIKE ?", "%"+strings.ToLower(q.Location)+"%")
	}
	if q.JobType != "" {
		tx = tx.Where("job_type = ?", q.JobType)
	}
	if q.ExperienceLevel != "" {
		tx = tx.Where("experience_level = ?", q.ExperienceLevel)
	}
	if q.Industry != "" {
		tx = tx.Where("LOWER(industry) = ?", strings.ToLower(q.Industry))
	}
	if q.CompanyID != nil {
		tx = tx.Where("company_id = ?", *q.CompanyID)
	}

	var jobs []db_models.Job
	if err := tx.Order("created_at desc").Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

func (r *jobRepository) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]db_models.Job, error) {
	var jobs []db_models.Job
	err := infra.Conn(ctx, r.db).
		Where("company_id = ?", companyID).
		Order("created_at desc").
		Find(&jobs).Error
	if err != nil {
		return nil, err
	}
	return jobs, nil
}

func (r *jobRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status db_models.JobStatus) error {
	res := infra.Conn(ctx, r.db).Model(&db_models.Job{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": status, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *jobRepository) MarkPaid(ctx context.Context, id uuid.UUID, expiresAt time.Time) (PaidOutcome, error) {
	now := time.Now().UTC()
	res := infra.Conn(ctx, r.db).Model(&db_models.Job{}).
		Where("id = ? AND payment_status <> ? AND status = ?", id, db_models.PaymentPaid, db_models.JobStatusPendingPayment).
		Updates(map[string]any{
			"payment_status": db_models.PaymentPaid,
			"status":         db_models.JobStatusActive,
			"expires_at":     expiresAt,
			"updated_at":     now,
		})
	if res.Error != nil {
		return PaidUnchanged, res.Error
	}
	if res.RowsAffected == 1 {
		return PaidActivated, nil
	}

	// Closed or deactivated while the push was in flight: record the money,
	// leave the listing state alone.
	res = infra.Conn(ctx, r.db).Model(&db_models.Job{}).
		Where("id = ? AND payment_status <> ?", id, db_models.PaymentPaid).
		Updates(map[string]any{"payment_status": db_models.PaymentPaid, "updated_at": now})
	if res.Error != nil {
		return PaidUnchanged, res.Error
	}
	if res.RowsAffected == 1 {
		return PaidRecorded, nil
	}
	return PaidUnchanged, nil
}

func (r *jobRepository) CloseExpired(ctx context.Context, now time.Time) (int64, error) {
	res := infra.Conn(ctx, r.db).Model(&db_models.Job{}).
		Where("status = ?", db_models.JobStatusActive).
		Where("(expires_at IS NOT NULL AND expires_at <= ?) OR (deadline IS NOT NULL AND deadline <= ?)", now, now).
		Updates(map[string]any{"status": db_models.JobStatusClosed, "updated_at": now})
	return res.RowsAffected, res.Error
}
