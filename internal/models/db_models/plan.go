package db_models

type Plan struct {
	BaseModel
	Code              string `gorm:"uniqueIndex;size:16" json:"code"` // free, standard, premium
	Name              string `json:"name"`
	Description       string `json:"description"`
	PriceKES          int64  `json:"price"`
	Currency          string `gorm:"size:3" json:"currency"`
	VisibilityDays    int    `json:"visibilityDays"`
	NotifySubscribers bool   `json:"notifySubscribers"`
	Rank              int    `json:"rank"`
	IsActive          bool   `gorm:"default:true" json:"isActive"`
}

func (p *Plan) IsFree() bool {
	return p.PriceKES == 0
}
