package db_models

import (
	"time"

	"github.com/google/uuid"
)

type JobStatus string

const (
	JobStatusActive             JobStatus = "active"
	JobStatusClosed             JobStatus = "closed"
	JobStatusDeactivatedByAdmin JobStatus = "deactivated_by_admin"
	JobStatusPendingPayment     JobStatus = "pending_payment"
)

type PaymentStatus string

const (
	PaymentNotRequired PaymentStatus = "not_required"
	PaymentPending     PaymentStatus = "pending"
	PaymentPaid        PaymentStatus = "paid"
)

var JobTypes = []string{"full-time", "part-time", "contract", "internship", "remote"}

var ExperienceLevels = []string{"entry", "mid", "senior", "executive"}

type Job struct {
	BaseModel
	Title           string        `gorm:"not null" json:"title"`
	Description     string        `gorm:"type:text" json:"description"`
	Location        string        `gorm:"index" json:"location"`
	Salary          string        `json:"salary"`
	JobType         string        `gorm:"size:32" json:"jobType"`
	ExperienceLevel string        `gorm:"size:32" json:"experienceLevel"`
	Industry        string        `gorm:"index" json:"industry"`
	Deadline        *time.Time    `json:"deadline,omitempty"`
	CompanyID       uuid.UUID     `gorm:"type:uuid;index;not null" json:"companyId"`
	CompanyName     string        `json:"companyName"`
	CompanyLogo     string        `json:"companyLogo"`
	PostedBy        uuid.UUID     `gorm:"type:uuid" json:"postedBy"`
	Plan            string        `gorm:"size:16;not null" json:"plan"`
	Status          JobStatus     `gorm:"size:32;index;not null" json:"status"`
	PaymentStatus   PaymentStatus `gorm:"size:16;not null" json:"paymentStatus"`
	ExpiresAt       *time.Time    `gorm:"index" json:"expiresAt,omitempty"`
}

// IsLive reports whether the job is listed publicly at now.
func (j *Job) IsLive(now time.Time) bool {
	if j.Status != JobStatusActive {
		return false
	}
	if j.ExpiresAt != nil && !j.ExpiresAt.After(now) {
		return false
	}
	if j.Deadline != nil && !j.Deadline.After(now) {
		return false
	}
	return true
}
