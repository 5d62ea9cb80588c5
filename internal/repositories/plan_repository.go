package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"autumhire/internal/models/db_models"
)

type IPlanRepository interface {
	GetPlanByCode(ctx context.Context, code string) (*db_models.Plan, error)
	GetAllPlans(ctx context.Context) ([]db_models.Plan, error)
	UpsertPlans(ctx context.Context, plans []db_models.Plan) error
}

type PlanRepository struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) IPlanRepository {
	return &PlanRepository{db: db}
}

func (p PlanRepository) GetPlanByCode(ctx context.Context, code string) (*db_models.Plan, error) {
	var plan db_models.Plan
	err := p.db.WithContext(ctx).First(&plan, "code = ? AND is_active = ?", code, true).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &plan, nil
}

func (p PlanRepository) GetAllPlans(ctx context.Context) ([]db_models.Plan, error) {
	var plans []db_models.Plan
	err := p.db.WithContext(ctx).Where("is_active = ?", true).Order("rank asc").Find(&plans).Error
	if err != nil {
		return nil, err
	}
	return plans, nil
}

// UpsertPlans writes the catalog keyed by code, leaving ids of existing rows
// untouched.
func (p PlanRepository) UpsertPlans(ctx context.Context, plans []db_models.Plan) error {
	if len(plans) == 0 {
		return nil
	}
	return p.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "description", "price_kes", "currency", "visibility_days",
			"notify_subscribers", "rank", "is_active", "updated_at",
		}),
	}).Create(&plans).Error
}
