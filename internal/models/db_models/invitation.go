package db_models

import (
	"time"

	"github.com/google/uuid"
)

// Invitation lives until the invited email registers.
type Invitation struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex:idx_invitation_email_company;not null" json:"email"`
	CompanyID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_invitation_email_company;not null" json:"companyId"`
	InvitedBy uuid.UUID `gorm:"type:uuid" json:"invitedBy"`
	CreatedAt time.Time `json:"createdAt"`
}
