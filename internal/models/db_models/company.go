package db_models

import "github.com/google/uuid"

type Company struct {
	BaseModel
	Name string `gorm:"not null" json:"name"`
	// NameKey is the lower-cased, trimmed name; the unique index on it is
	// what stops two signups from claiming the same company.
	NameKey     string    `gorm:"uniqueIndex;not null" json:"-"`
	Industry    string    `json:"industry"`
	Location    string    `json:"location"`
	Website     string    `json:"website"`
	LogoURL     string    `json:"logoUrl"`
	PhoneNumber string    `json:"phoneNumber"`
	CreatedBy   uuid.UUID `gorm:"type:uuid" json:"createdBy"`
}
