package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"autumhire/internal/config"
	"autumhire/internal/models/db_models"
	"autumhire/internal/repositories"
	"autumhire/pkg/utils"
)

type PlanServiceInterface interface {
	Seed(ctx context.Context, catalog []config.PlanSpec) error
	GetAll(ctx context.Context) ([]db_models.Plan, error)
	GetByCode(ctx context.Context, code string) (*db_models.Plan, error)
	Rank(code string) int
}

func NewPlanService(planRepo repositories.IPlanRepository, log *zap.Logger) PlanServiceInterface {
	return &PlanService{
		planRepo: planRepo,
		log:      log,
		ranks:    map[string]int{},
	}
}

type PlanService struct {
	planRepo repositories.IPlanRepository
	log      *zap.Logger

	mu    sync.RWMutex
	ranks map[string]int
}

func (p *PlanService) Seed(ctx context.Context, catalog []config.PlanSpec) error {
	plans := make([]db_models.Plan, 0, len(catalog))
	for _, spec := range catalog {
		plans = append(plans, db_models.Plan{
			Code:              spec.Code,
			Name:              spec.Name,
			Description:       spec.Description,
			PriceKES:          spec.Price,
			Currency:          spec.Currency,
			VisibilityDays:    spec.VisibilityDays,
			NotifySubscribers: spec.NotifySubscribers,
			Rank:              spec.Rank,
			IsActive:          true,
		})
	}
	if err := p.planRepo.UpsertPlans(ctx, plans); err != nil {
		return fmt.Errorf("seed plans: %w", err)
	}

	p.mu.Lock()
	for _, plan := range plans {
		p.ranks[plan.Code] = plan.Rank
	}
	p.mu.Unlock()

	p.log.Info("plan catalog seeded", zap.Int("plans", len(plans)))
	return nil
}

func (p *PlanService) GetAll(ctx context.Context) ([]db_models.Plan, error) {
	plans, err := p.planRepo.GetAllPlans(ctx)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	return plans, nil
}

func (p *PlanService) GetByCode(ctx context.Context, code string) (*db_models.Plan, error) {
	plan, err := p.planRepo.GetPlanByCode(ctx, strings.ToLower(strings.TrimSpace(code)))
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if plan == nil {
		return nil, utils.ErrPlanNotFound
	}
	return plan, nil
}

// Rank orders plans for listing; unknown codes sort last.
func (p *PlanService) Rank(code string) int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.ranks[code]
}
