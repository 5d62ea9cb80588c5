package db_models

import "github.com/google/uuid"

type Role string

const (
	RoleSuper  Role = "super"
	RoleAdmin  Role = "admin"
	RoleNormal Role = "normal"
)

type User struct {
	BaseModel
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`
	DisplayName  string     `json:"displayName"`
	PasswordHash string     `json:"-"`
	Role         Role       `gorm:"size:16;not null" json:"role"`
	CompanyID    *uuid.UUID `gorm:"type:uuid;index" json:"companyId,omitempty"`
	IsActive     bool       `gorm:"not null" json:"isActive"`
}
