package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"autumhire/internal/infra"
	"autumhire/internal/models/db_models"
)

type InvitationRepository interface {
	// Upsert replaces any pending invitation for the same email and company.
	Upsert(ctx context.Context, inv *db_models.Invitation) error
	FindLatestByEmail(ctx context.Context, email string) (*db_models.Invitation, error)
	ListByCompany(ctx context.Context, companyID uuid.UUID) ([]db_models.Invitation, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type invitationRepository struct {
	db *gorm.DB
}

func NewInvitationRepository(db *gorm.DB) InvitationRepository {
	return &invitationRepository{db: db}
}

func (r *invitationRepository) Upsert(ctx context.Context, inv *db_models.Invitation) error {
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	return infra.Conn(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}, {Name: "company_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"invited_by", "created_at"}),
	}).Create(inv).Error
}

func (r *invitationRepository) FindLatestByEmail(ctx context.Context, email string) (*db_models.Invitation, error) {
	var inv db_models.Invitation
	err := infra.Conn(ctx, r.db).
		Where("email = ?", email).
		Order("created_at desc").
		First(&inv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &inv, nil
}

func (r *invitationRepository) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]db_models.Invitation, error) {
	var invs []db_models.Invitation
	err := infra.Conn(ctx, r.db).
		Where("company_id = ?", companyID).
		Order("created_at desc").
		Find(&invs).Error
	if err != nil {
		return nil, err
	}
	return invs, nil
}

func (r *invitationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return infra.Conn(ctx, r.db).Delete(&db_models.Invitation{}, "id = ?", id).Error
}
