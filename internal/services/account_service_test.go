package services

import (
	"context"
	"errors"
	"testing"

	"autumhire/internal/models/db_models"
	"autumhire/internal/models/request_models"
	"autumhire/pkg/utils"
)

func TestRegisterCreatesCompanyAndAdmin(t *testing.T) {
	env := newTestEnv(t, slowPoll, "")
	ctx := context.Background()

	resp, err := env.accounts.Register(ctx, request_models.SignUpRequest{
		DisplayName: "Wanjiku",
		Email:       "Wanjiku@Example.com",
		Password:    "secret123",
		Company:     &request_models.CompanyDetails{Name: "  Acme   Kenya ", PhoneNumber: "+254 712-345-678"},
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if resp.Token == "" || resp.User.Role != string(db_models.RoleAdmin) {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.User.Email != "wanjiku@example.com" {
		t.Fatalf("expected normalised email, got %s", resp.User.Email)
	}
	if resp.User.Company == nil || resp.User.Company.Name != "Acme Kenya" || resp.User.Company.PhoneNumber != "254712345678" {
		t.Fatalf("unexpected company: %+v", resp.User.Company)
	}
	if resp.User.Company.CreatedBy.String() != resp.User.ID {
		t.Fatal("expected company createdBy to be the registering user")
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	env := newTestEnv(t, slowPoll, "")
	ctx := context.Background()
	env.registerAdmin(t, "a@example.com", "Acme")

	_, err := env.accounts.Register(ctx, request_models.SignUpRequest{
		DisplayName: "Other", Email: "b@example.com", Password: "secret123",
		Company: &request_models.CompanyDetails{Name: "ACME"},
	})
	if !errors.Is(err, utils.ErrCompanyNameTaken) {
		t.Fatalf("expected ErrCompanyNameTaken, got %v", err)
	}

	_, err = env.accounts.Register(ctx, request_models.SignUpRequest{
		DisplayName: "Again", Email: "A@example.com", Password: "secret123",
		Company: &request_models.CompanyDetails{Name: "Globex"},
	})
	if !errors.Is(err, utils.ErrEmailAlreadyExists) {
		t.Fatalf("expected ErrEmailAlreadyExists, got %v", err)
	}

	_, err = env.accounts.Register(ctx, request_models.SignUpRequest{
		DisplayName: "NoCompany", Email: "c@example.com", Password: "secret123",
	})
	if !errors.Is(err, utils.ErrCompanyRequired) {
		t.Fatalf("expected ErrCompanyRequired, got %v", err)
	}
}

func TestRegisterWithInvitationJoinsCompany(t *testing.T) {
	env := newTestEnv(t, slowPoll, "")
	ctx := context.Background()
	admin := env.registerAdmin(t, "admin@example.com", "Acme")

	if _, err := env.companies.Invite(ctx, admin, "Dev@Example.com"); err != nil {
		t.Fatalf("invite: %v", err)
	}
	if len(env.mail.invites) != 1 || env.mail.invites[0] != "dev@example.com" {
		t.Fatalf("expected invitation mail, got %v", env.mail.invites)
	}

	resp, err := env.accounts.Register(ctx, request_models.SignUpRequest{
		DisplayName: "Dev", Email: "dev@example.com", Password: "secret123",
	})
	if err != nil {
		t.Fatalf("register invitee: %v", err)
	}
	if resp.User.Role != string(db_models.RoleNormal) || resp.User.Company == nil || resp.User.Company.Name != "Acme" {
		t.Fatalf("expected invitee to join Acme as normal, got %+v", resp.User)
	}

	invs, err := env.companies.ListInvitations(ctx, admin)
	if err != nil || len(invs) != 0 {
		t.Fatalf("expected invitation consumed, got %d %v", len(invs), err)
	}

	if _, err := env.companies.Invite(ctx, mustID(t, resp.User.ID), "x@example.com"); !errors.Is(err, utils.ErrForbidden) {
		t.Fatalf("normal user must not invite, got %v", err)
	}
}

func TestLoginChecksPasswordAndActiveFlag(t *testing.T) {
	env := newTestEnv(t, slowPoll, "")
	ctx := context.Background()
	id := env.registerAdmin(t, "a@example.com", "Acme")

	if _, err := env.accounts.Login(ctx, request_models.LoginRequest{Email: "a@example.com", Password: "wrong-pass"}); !errors.Is(err, utils.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if _, err := env.accounts.Login(ctx, request_models.LoginRequest{Email: "A@example.com", Password: "secret123"}); err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := env.accounts.SetActive(ctx, id, false); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if _, err := env.accounts.Login(ctx, request_models.LoginRequest{Email: "a@example.com", Password: "secret123"}); !errors.Is(err, utils.ErrAccountInactive) {
		t.Fatalf("expected inactive account, got %v", err)
	}
}

func TestUpdateCompanyProfile(t *testing.T) {
	env := newTestEnv(t, slowPoll, "")
	ctx := context.Background()
	admin := env.registerAdmin(t, "a@example.com", "Acme")

	site := "https://acme.co.ke"
	bad := "12345"
	if _, err := env.companies.UpdateProfile(ctx, admin, request_models.UpdateCompanyRequest{PhoneNumber: &bad}); !errors.Is(err, utils.ErrInvalidPhone) {
		t.Fatalf("expected invalid phone, got %v", err)
	}
	company, err := env.companies.UpdateProfile(ctx, admin, request_models.UpdateCompanyRequest{Website: &site})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if company.Website != site {
		t.Fatalf("expected website updated, got %q", company.Website)
	}
}
