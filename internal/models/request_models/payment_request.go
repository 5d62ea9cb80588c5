package request_models

type InitiatePaymentRequest struct {
	PhoneNumber string `json:"phoneNumber" binding:"required"`
	Amount      int64  `json:"amount" binding:"required,gt=0"`
	Plan        string `json:"plan" binding:"required"`
	JobID       string `json:"jobId" binding:"omitempty,uuid"`
}

type CheckStatusRequest struct {
	CheckoutRequestID string `json:"checkoutRequestId" binding:"required"`
}
