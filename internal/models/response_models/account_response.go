package response_models

import "autumhire/internal/models/db_models"

type LoginResponse struct {
	Token string          `json:"token"`
	User  AccountResponse `json:"user"`
}

type AccountResponse struct {
	ID          string             `json:"id"`
	Email       string             `json:"email"`
	DisplayName string             `json:"displayName"`
	Role        string             `json:"role"`
	IsActive    bool               `json:"isActive"`
	Company     *db_models.Company `json:"company,omitempty"`
}

func ToAccountResponse(u *db_models.User, c *db_models.Company) AccountResponse {
	return AccountResponse{
		ID:          u.ID.String(),
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Role:        string(u.Role),
		IsActive:    u.IsActive,
		Company:     c,
	}
}
