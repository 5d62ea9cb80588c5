package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"autumhire/internal/models/db_models"
	"autumhire/internal/repositories"
	"autumhire/pkg/utils"
)

type IndustryServiceInterface interface {
	List(ctx context.Context) ([]db_models.Industry, error)
	// Create returns the existing industry when the name is already known.
	Create(ctx context.Context, name string) (*db_models.Industry, bool, error)
}

type IndustryService struct {
	repo repositories.IndustryRepository
}

func NewIndustryService(repo repositories.IndustryRepository) IndustryServiceInterface {
	return &IndustryService{repo: repo}
}

func (s *IndustryService) List(ctx context.Context) ([]db_models.Industry, error) {
	industries, err := s.repo.List(ctx)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	return industries, nil
}

func (s *IndustryService) Create(ctx context.Context, name string) (*db_models.Industry, bool, error) {
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return nil, false, utils.ErrIndustryRequired
	}
	key := repositories.IndustryKey(name)

	existing, err := s.repo.FindByNameKey(ctx, key)
	if err != nil {
		return nil, false, utils.ErrDatabaseError
	}
	if existing != nil {
		return existing, false, nil
	}

	industry := &db_models.Industry{Name: name, NameKey: key}
	if err := s.repo.Insert(ctx, industry); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			existing, err = s.repo.FindByNameKey(ctx, key)
			if err == nil && existing != nil {
				return existing, false, nil
			}
		}
		return nil, false, utils.ErrDatabaseError
	}
	return industry, true, nil
}
