package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"autumhire/internal/models/db_models"
	"autumhire/internal/models/request_models"
	"autumhire/internal/models/response_models"
	"autumhire/internal/repositories"
	"autumhire/pkg/utils"
)

type AccountServiceInterface interface {
	Register(ctx context.Context, request request_models.SignUpRequest) (*response_models.LoginResponse, error)
	Login(ctx context.Context, request request_models.LoginRequest) (*response_models.LoginResponse, error)
	Me(ctx context.Context, userID uuid.UUID) (*response_models.AccountResponse, error)
	SetActive(ctx context.Context, userID uuid.UUID, active bool) error
	// Caller loads the acting user and rejects unknown or inactive accounts.
	Caller(ctx context.Context, userID uuid.UUID) (*db_models.User, error)
}

type AccountService struct {
	tx          repositories.Transactor
	accountRepo repositories.AccountRepository
	companyRepo repositories.CompanyRepository
	inviteRepo  repositories.InvitationRepository
	tokens      *utils.TokenIssuer
	log         *zap.Logger
}

func NewAccountService(
	tx repositories.Transactor,
	accountRepo repositories.AccountRepository,
	companyRepo repositories.CompanyRepository,
	inviteRepo repositories.InvitationRepository,
	tokens *utils.TokenIssuer,
	log *zap.Logger,
) AccountServiceInterface {
	return &AccountService{
		tx:          tx,
		accountRepo: accountRepo,
		companyRepo: companyRepo,
		inviteRepo:  inviteRepo,
		tokens:      tokens,
		log:         log,
	}
}

func CompanyNameKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register joins the company that invited the email, or creates a new
// company owned by the user. The whole signup is one transaction.
func (a *AccountService) Register(ctx context.Context, request request_models.SignUpRequest) (*response_models.LoginResponse, error) {
	email := normalizeEmail(request.Email)

	hashedPassword, err := utils.HashPassword(request.Password)
	if err != nil {
		return nil, err
	}

	user := &db_models.User{
		Email:        email,
		DisplayName:  strings.TrimSpace(request.DisplayName),
		PasswordHash: hashedPassword,
		IsActive:     true,
	}
	var company *db_models.Company

	err = a.tx.WithinTx(ctx, func(ctx context.Context) error {
		existing, err := a.accountRepo.FindByEmail(ctx, email)
		if err != nil {
			return utils.ErrDatabaseError
		}
		if existing != nil {
			return utils.ErrEmailAlreadyExists
		}

		invite, err := a.inviteRepo.FindLatestByEmail(ctx, email)
		if err != nil {
			return utils.ErrDatabaseError
		}

		if invite != nil {
			company, err = a.companyRepo.FindById(ctx, invite.CompanyID)
			if err != nil {
				return utils.ErrDatabaseError
			}
			if company == nil {
				return utils.ErrCompanyNotFound
			}
			user.Role = db_models.RoleNormal
			user.CompanyID = &company.ID
			if err := a.insertUser(ctx, user); err != nil {
				return err
			}
			if err := a.inviteRepo.Delete(ctx, invite.ID); err != nil {
				return utils.ErrDatabaseError
			}
			return nil
		}

		if request.Company == nil {
			return utils.ErrCompanyRequired
		}
		company, err = a.newCompany(ctx, request.Company)
		if err != nil {
			return err
		}

		user.ID = uuid.New()
		user.Role = db_models.RoleAdmin
		user.CompanyID = &company.ID
		company.CreatedBy = user.ID
		if err := a.companyRepo.Insert(ctx, company); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return utils.ErrCompanyNameTaken
			}
			return utils.ErrDatabaseError
		}
		return a.insertUser(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	a.log.Info("account registered",
		zap.String("user_id", user.ID.String()),
		zap.String("company_id", company.ID.String()),
		zap.String("role", string(user.Role)))

	return a.issue(user, company)
}

func (a *AccountService) newCompany(ctx context.Context, details *request_models.CompanyDetails) (*db_models.Company, error) {
	name := strings.Join(strings.Fields(details.Name), " ")
	key := CompanyNameKey(name)

	taken, err := a.companyRepo.FindByNameKey(ctx, key)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if taken != nil {
		return nil, utils.ErrCompanyNameTaken
	}

	company := &db_models.Company{
		Name:     name,
		NameKey:  key,
		Industry: strings.TrimSpace(details.Industry),
		Location: strings.TrimSpace(details.Location),
		Website:  strings.TrimSpace(details.Website),
		LogoURL:  strings.TrimSpace(details.LogoURL),
	}
	if details.PhoneNumber != "" {
		phone, err := utils.NormalizeKenyanPhone(details.PhoneNumber)
		if err != nil {
			return nil, err
		}
		company.PhoneNumber = phone
	}
	company.ID = uuid.New()
	return company, nil
}

func (a *AccountService) insertUser(ctx context.Context, user *db_models.User) error {
	if err := a.accountRepo.Insert(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return utils.ErrEmailAlreadyExists
		}
		return utils.ErrDatabaseError
	}
	return nil
}

func (a *AccountService) Login(ctx context.Context, request request_models.LoginRequest) (*response_models.LoginResponse, error) {
	account, err := a.accountRepo.FindByEmail(ctx, normalizeEmail(request.Email))
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if account == nil {
		return nil, utils.ErrInvalidCredentials
	}

	if err := utils.ComparePasswords(account.PasswordHash, request.Password); err != nil {
		return nil, utils.ErrInvalidCredentials
	}
	if !account.IsActive {
		return nil, utils.ErrAccountInactive
	}

	var company *db_models.Company
	if account.CompanyID != nil {
		company, err = a.companyRepo.FindById(ctx, *account.CompanyID)
		if err != nil {
			return nil, utils.ErrDatabaseError
		}
	}
	return a.issue(account, company)
}

func (a *AccountService) issue(user *db_models.User, company *db_models.Company) (*response_models.LoginResponse, error) {
	token, err := a.tokens.CreateToken(user.ID, string(user.Role), user.CompanyID)
	if err != nil {
		return nil, err
	}
	return &response_models.LoginResponse{
		Token: token,
		User:  response_models.ToAccountResponse(user, company),
	}, nil
}

func (a *AccountService) Me(ctx context.Context, userID uuid.UUID) (*response_models.AccountResponse, error) {
	user, err := a.Caller(ctx, userID)
	if err != nil {
		return nil, err
	}

	var company *db_models.Company
	if user.CompanyID != nil {
		company, err = a.companyRepo.FindById(ctx, *user.CompanyID)
		if err != nil {
			return nil, utils.ErrDatabaseError
		}
	}
	resp := response_models.ToAccountResponse(user, company)
	return &resp, nil
}

func (a *AccountService) SetActive(ctx context.Context, userID uuid.UUID, active bool) error {
	found, err := a.accountRepo.SetActive(ctx, userID, active)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if !found {
		return utils.ErrUserNotFound
	}
	a.log.Info("account activation changed", zap.String("user_id", userID.String()), zap.Bool("active", active))
	return nil
}

func (a *AccountService) Caller(ctx context.Context, userID uuid.UUID) (*db_models.User, error) {
	user, err := a.accountRepo.FindById(ctx, userID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if user == nil {
		return nil, utils.ErrUserNotFound
	}
	if !user.IsActive {
		return nil, utils.ErrAccountInactive
	}
	return user, nil
}
