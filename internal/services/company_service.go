package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"autumhire/internal/models/db_models"
	"autumhire/internal/models/request_models"
	"autumhire/internal/repositories"
	"autumhire/pkg/utils"
)

type CompanyServiceInterface interface {
	Invite(ctx context.Context, actorID uuid.UUID, email string) (*db_models.Invitation, error)
	ListInvitations(ctx context.Context, actorID uuid.UUID) ([]db_models.Invitation, error)
	UpdateProfile(ctx context.Context, actorID uuid.UUID, request request_models.UpdateCompanyRequest) (*db_models.Company, error)
}

type CompanyService struct {
	accounts    AccountServiceInterface
	companyRepo repositories.CompanyRepository
	inviteRepo  repositories.InvitationRepository
	mail        IMailService
	log         *zap.Logger
}

func NewCompanyService(
	accounts AccountServiceInterface,
	companyRepo repositories.CompanyRepository,
	inviteRepo repositories.InvitationRepository,
	mail IMailService,
	log *zap.Logger,
) CompanyServiceInterface {
	return &CompanyService{
		accounts:    accounts,
		companyRepo: companyRepo,
		inviteRepo:  inviteRepo,
		mail:        mail,
		log:         log,
	}
}

// adminCompany resolves the company the actor administers.
func (s *CompanyService) adminCompany(ctx context.Context, actorID uuid.UUID) (*db_models.User, *db_models.Company, error) {
	user, err := s.accounts.Caller(ctx, actorID)
	if err != nil {
		return nil, nil, err
	}
	if user.Role != db_models.RoleAdmin || user.CompanyID == nil {
		return nil, nil, utils.ErrForbidden
	}
	company, err := s.companyRepo.FindById(ctx, *user.CompanyID)
	if err != nil {
		return nil, nil, utils.ErrDatabaseError
	}
	if company == nil {
		return nil, nil, utils.ErrCompanyNotFound
	}
	return user, company, nil
}

func (s *CompanyService) Invite(ctx context.Context, actorID uuid.UUID, email string) (*db_models.Invitation, error) {
	user, company, err := s.adminCompany(ctx, actorID)
	if err != nil {
		return nil, err
	}

	inv := &db_models.Invitation{
		Email:     normalizeEmail(email),
		CompanyID: company.ID,
		InvitedBy: user.ID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.inviteRepo.Upsert(ctx, inv); err != nil {
		return nil, utils.ErrDatabaseError
	}

	if err := s.mail.SendInvitation(ctx, inv.Email, company.Name, user.DisplayName); err != nil {
		s.log.Warn("invitation mail not sent", zap.String("email", inv.Email), zap.Error(err))
	}
	return inv, nil
}

func (s *CompanyService) ListInvitations(ctx context.Context, actorID uuid.UUID) ([]db_models.Invitation, error) {
	_, company, err := s.adminCompany(ctx, actorID)
	if err != nil {
		return nil, err
	}
	invs, err := s.inviteRepo.ListByCompany(ctx, company.ID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	return invs, nil
}

func (s *CompanyService) UpdateProfile(ctx context.Context, actorID uuid.UUID, request request_models.UpdateCompanyRequest) (*db_models.Company, error) {
	_, company, err := s.adminCompany(ctx, actorID)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	set := func(column string, v *string) {
		if v != nil {
			fields[column] = strings.TrimSpace(*v)
		}
	}
	set("industry", request.Industry)
	set("location", request.Location)
	set("website", request.Website)
	set("logo_url", request.LogoURL)
	if request.PhoneNumber != nil {
		phone, err := utils.NormalizeKenyanPhone(*request.PhoneNumber)
		if err != nil {
			return nil, err
		}
		fields["phone_number"] = phone
	}
	if len(fields) == 0 {
		return company, nil
	}
	fields["updated_at"] = time.Now().UTC()

	if err := s.companyRepo.Update(ctx, company.ID, fields); err != nil {
		return nil, utils.ErrDatabaseError
	}
	updated, err := s.companyRepo.FindById(ctx, company.ID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	return updated, nil
}
