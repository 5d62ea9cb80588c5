package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	dbm "autumhire/internal/models/db_models"
)

type DashboardRepository interface {
	// KPIs / counts
	CountUsers(ctx context.Context) (int64, error)
	CountCompanies(ctx context.Context) (int64, error)
	CountSubscribers(ctx context.Context) (int64, error)
	CountJobsByStatus(ctx context.Context, status dbm.JobStatus) (int64, error)
	CountAttemptsByStatus(ctx context.Context, status dbm.AttemptStatus, start, end time.Time) (int64, error)

	// Raw rows for series; bucketing happens in the service so it works on
	// both postgres and sqlite.
	CompletedPayments(ctx context.Context, start, end time.Time) ([]PaymentRow, error)
	UserSignups(ctx context.Context, start, end time.Time) ([]time.Time, error)
	JobPostings(ctx context.Context, start, end time.Time) ([]time.Time, error)

	PlanMix(ctx context.Context, start, end time.Time) ([]PlanCountRow, error)
	TopIndustries(ctx context.Context, start, end time.Time, limit int) ([]IndustryCountRow, error)
	RecentCompletedPayments(ctx context.Context, limit int) ([]dbm.PaymentAttempt, error)
}

type dashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) DashboardRepository {
	return &dashboardRepository{db: db}
}

// ---------- Row helpers ----------
type PaymentRow struct {
	Amount      int64     `gorm:"column:amount"`
	CompletedAt time.Time `gorm:"column:completed_at"`
}

type PlanCountRow struct {
	Plan  string `gorm:"column:plan"`
	Count int64  `gorm:"column:count"`
}

type IndustryCountRow struct {
	Industry string `gorm:"column:industry"`
	Count    int64  `gorm:"column:count"`
}

// ---------- Counts ----------
func (r *dashboardRepository) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&dbm.User{}).Count(&n).Error
	return n, err
}

func (r *dashboardRepository) CountCompanies(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&dbm.Company{}).Count(&n).Error
	return n, err
}

func (r *dashboardRepository) CountSubscribers(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&dbm.Subscriber{}).Count(&n).Error
	return n, err
}

func (r *dashboardRepository) CountJobsByStatus(ctx context.Context, status dbm.JobStatus) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&dbm.Job{}).
		Where("status = ?", status).
		Count(&n).Error
	return n, err
}

func (r *dashboardRepository) CountAttemptsByStatus(ctx context.Context, status dbm.AttemptStatus, start, end time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&dbm.PaymentAttempt{}).
		Where("status = ? AND updated_at BETWEEN ? AND ?", status, start, end).
		Count(&n).Error
	return n, err
}

// ---------- Series ----------
func (r *dashboardRepository) CompletedPayments(ctx context.Context, start, end time.Time) ([]PaymentRow, error) {
	var rows []PaymentRow
	err := r.db.WithContext(ctx).
		Model(&dbm.PaymentAttempt{}).
		Select("amount, completed_at").
		Where("status = ? AND completed_at BETWEEN ? AND ?", dbm.AttemptCompleted, start, end).
		Order("completed_at").
		Scan(&rows).Error
	return rows, err
}

func (r *dashboardRepository) UserSignups(ctx context.Context, start, end time.Time) ([]time.Time, error) {
	var out []time.Time
	err := r.db.WithContext(ctx).
		Model(&dbm.User{}).
		Where("created_at BETWEEN ? AND ?", start, end).
		Order("created_at").
		Pluck("created_at", &out).Error
	return out, err
}

func (r *dashboardRepository) JobPostings(ctx context.Context, start, end time.Time) ([]time.Time, error) {
	var out []time.Time
	err := r.db.WithContext(ctx).
		Model(&dbm.Job{}).
		Where("created_at BETWEEN ? AND ?", start, end).
		Order("created_at").
		Pluck("created_at", &out).Error
	return out, err
}

// ---------- Mix ----------
func (r *dashboardRepository) PlanMix(ctx context.Context, start, end time.Time) ([]PlanCountRow, error) {
	var rows []PlanCountRow
	err := r.db.WithContext(ctx).
		Model(&dbm.Job{}).
		Select("plan, COUNT(*) AS count").
		Where("created_at BETWEEN ? AND ?", start, end).
		Group("plan").
		Order("count DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *dashboardRepository) TopIndustries(ctx context.Context, start, end time.Time, limit int) ([]IndustryCountRow, error) {
	var rows []IndustryCountRow
	err := r.db.WithContext(ctx).
		Model(&dbm.Job{}).
		Select("industry, COUNT(*) AS count").
		Where("created_at BETWEEN ? AND ?", start, end).
		Group("industry").
		Order("count DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// ---------- Recent payments ----------
func (r *dashboardRepository) RecentCompletedPayments(ctx context.Context, limit int) ([]dbm.PaymentAttempt, error) {
	var rows []dbm.PaymentAttempt
	err := r.db.WithContext(ctx).
		Where("status = ?", dbm.AttemptCompleted).
		Order("completed_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
