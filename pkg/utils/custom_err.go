package utils

import "errors"

var (
	ErrInvalidPage     = errors.New("invalid page parameter")
	ErrInvalidPageSize = errors.New("invalid page size parameter")
	ErrInvalidRange    = errors.New("invalid time range")
	ErrDatabaseError   = errors.New("database error")
	RecordNotFound     = errors.New("record not found")

	ErrInvalidPhone       = errors.New("invalid phone number")
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountInactive    = errors.New("account is inactive")
	ErrCompanyRequired    = errors.New("company details required")
	ErrCompanyNameTaken   = errors.New("company name already taken")
	ErrCompanyNotFound    = errors.New("company not found")
	ErrForbidden          = errors.New("forbidden")

	ErrJobNotFound      = errors.New("job not found")
	ErrJobNotActive     = errors.New("job is not active")
	ErrInvalidJobStatus = errors.New("job status does not allow this change")

	ErrPlanNotFound    = errors.New("plan not found")
	ErrPlanNotBillable = errors.New("plan is not billable")
	ErrAmountMismatch  = errors.New("amount does not match plan price")

	ErrPaymentNotFound   = errors.New("payment attempt not found")
	ErrInvalidCallback   = errors.New("invalid payment callback")
	ErrCallbackForbidden = errors.New("callback challenge mismatch")

	ErrIndustryRequired = errors.New("at least one industry is required")
	ErrAlertIncomplete  = errors.New("job title and industry are required")
	ErrPlanHasNoAlerts  = errors.New("plan does not include subscriber alerts")
	ErrUserNotFound     = errors.New("user not found")
)
