package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"autumhire/internal/infra"
	"autumhire/internal/models/db_models"
)

type CompanyRepository interface {
	Insert(ctx context.Context, company *db_models.Company) error
	FindById(ctx context.Context, id uuid.UUID) (*db_models.Company, error)
	FindByNameKey(ctx context.Context, nameKey string) (*db_models.Company, error)
	Update(ctx context.Context, id uuid.UUID, fields map[string]any) error
}

type companyRepository struct {
	db *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) CompanyRepository {
	return &companyRepository{db: db}
}

func (r *companyRepository) Insert(ctx context.Context, company *db_models.Company) error {
	return infra.Conn(ctx, r.db).Create(company).Error
}

func (r *companyRepository) FindById(ctx context.Context, id uuid.UUID) (*db_models.Company, error) {
	var company db_models.Company
	err := infra.Conn(ctx, r.db).First(&company, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &company, nil
}

func (r *companyRepository) FindByNameKey(ctx context.Context, nameKey string) (*db_models.Company, error) {
	var company db_models.Company
	err := infra.Conn(ctx, r.db).First(&company, "name_key = ?", nameKey).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &company, nil
}

func (r *companyRepository) Update(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	res := infra.Conn(ctx, r.db).Model(&db_models.Company{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
