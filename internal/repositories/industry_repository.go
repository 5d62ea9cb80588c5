package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"autumhire/internal/infra"
	"autumhire/internal/models/db_models"
)

type IndustryRepository interface {
	List(ctx context.Context) ([]db_models.Industry, error)
	FindByNameKey(ctx context.Context, nameKey string) (*db_models.Industry, error)
	Insert(ctx context.Context, industry *db_models.Industry) error
}

type industryRepository struct {
	db *gorm.DB
}

func NewIndustryRepository(db *gorm.DB) IndustryRepository {
	return &industryRepository{db: db}
}

func (r *industryRepository) List(ctx context.Context) ([]db_models.Industry, error) {
	var industries []db_models.Industry
	if err := infra.Conn(ctx, r.db).Order("name_key asc").Find(&industries).Error; err != nil {
		return nil, err
	}
	return industries, nil
}

func (r *industryRepository) FindByNameKey(ctx context.Context, nameKey string) (*db_models.Industry, error) {
	var industry db_models.Industry
	err := infra.Conn(ctx, r.db).First(&industry, "name_key = ?", nameKey).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &industry, nil
}

func (r *industryRepository) Insert(ctx context.Context, industry *db_models.Industry) error {
	return infra.Conn(ctx, r.db).Create(industry).Error
}
