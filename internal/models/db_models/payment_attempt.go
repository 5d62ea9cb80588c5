package db_models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AttemptStatus string

const (
	AttemptPending   AttemptStatus = "pending"
	AttemptCompleted AttemptStatus = "completed"
	AttemptFailed    AttemptStatus = "failed"
	AttemptCancelled AttemptStatus = "cancelled"
	AttemptTimeout   AttemptStatus = "timeout"
)

func (s AttemptStatus) IsTerminal() bool {
	return s != AttemptPending && s != ""
}

type PaymentAttempt struct {
	BaseModel
	Reference string `gorm:"uniqueIndex;not null" json:"reference"`
	// CheckoutRequestID is nil until the gateway accepts the push.
	CheckoutRequestID *string        `gorm:"uniqueIndex" json:"checkoutRequestId,omitempty"`
	Provider          string         `gorm:"size:16" json:"provider"`
	PhoneNumber       string         `json:"phoneNumber"`
	Amount            int64          `json:"amount"`
	Plan              string         `gorm:"size:16" json:"plan"`
	JobID             *uuid.UUID     `gorm:"type:uuid;index" json:"jobId,omitempty"`
	UserID            *uuid.UUID     `gorm:"type:uuid" json:"userId,omitempty"`
	Status            AttemptStatus  `gorm:"size:16;index;not null" json:"status"`
	ResultCode        string         `json:"resultCode,omitempty"`
	ResultDesc        string         `json:"resultDesc,omitempty"`
	Receipt           string         `json:"receipt,omitempty"`
	RawCallback       datatypes.JSON `json:"-"`
	CompletedAt       *time.Time     `json:"completedAt,omitempty"`
}
