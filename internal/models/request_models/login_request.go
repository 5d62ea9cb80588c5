package request_models

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type CompanyDetails struct {
	Name        string `json:"name" binding:"required,min=2,max=120"`
	Industry    string `json:"industry" binding:"max=80"`
	Location    string `json:"location" binding:"max=120"`
	Website     string `json:"website" binding:"omitempty,url"`
	LogoURL     string `json:"logoUrl" binding:"omitempty,url"`
	PhoneNumber string `json:"phoneNumber" binding:"omitempty,kephone"`
}

// SignUpRequest carries company details unless the email has a pending
// invitation.
type SignUpRequest struct {
	DisplayName string          `json:"displayName" binding:"required,min=2,max=80"`
	Email       string          `json:"email" binding:"required,email"`
	Password    string          `json:"password" binding:"required,min=6"`
	Company     *CompanyDetails `json:"company"`
}

type InviteRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type UpdateCompanyRequest struct {
	Industry    *string `json:"industry" binding:"omitempty,max=80"`
	Location    *string `json:"location" binding:"omitempty,max=120"`
	Website     *string `json:"website" binding:"omitempty,url"`
	LogoURL     *string `json:"logoUrl" binding:"omitempty,url"`
	PhoneNumber *string `json:"phoneNumber" binding:"omitempty,kephone"`
}

type SetUserActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}
