package db_models

import "time"

// Subscriber is keyed by email, one record per address.
type Subscriber struct {
	Email        string               `gorm:"primaryKey" json:"email"`
	Location     string               `json:"location"`
	SubscribedAt time.Time            `json:"subscribedAt"`
	Industries   []SubscriberIndustry `gorm:"foreignKey:SubscriberEmail;references:Email;constraint:OnDelete:CASCADE" json:"-"`
}

type SubscriberIndustry struct {
	ID              uint   `gorm:"primaryKey" json:"-"`
	SubscriberEmail string `gorm:"index;not null" json:"-"`
	Industry        string `json:"industry"`
	IndustryKey     string `gorm:"index;not null" json:"-"`
}

func (s Subscriber) IndustryNames() []string {
	names := make([]string, 0, len(s.Industries))
	for _, i := range s.Industries {
		names = append(names, i.Industry)
	}
	return names
}
