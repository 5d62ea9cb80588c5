package db_models

type Industry struct {
	BaseModel
	Name    string `gorm:"not null" json:"name"`
	NameKey string `gorm:"uniqueIndex;not null" json:"-"`
}
