package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"autumhire/pkg/gateways"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func traceID(c *gin.Context) string {
	return c.GetString("trace_id")
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	respond(c, http.StatusOK, data, message)
}

func RespondCreated(c *gin.Context, data interface{}, message string) {
	respond(c, http.StatusCreated, data, message)
}

func respond(c *gin.Context, code int, data interface{}, message string) {
	c.JSON(code, APIResponse{
		Status:  "success",
		Code:    code,
		Message: message,
		TraceID: traceID(c),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: traceID(c),
	})
}

// statusFor maps service sentinels to HTTP codes. The sentinel's own text is
// what the client sees.
var statusFor = []struct {
	err  error
	code int
}{
	{ErrInvalidPage, http.StatusBadRequest},
	{ErrInvalidPageSize, http.StatusBadRequest},
	{ErrInvalidRange, http.StatusBadRequest},
	{ErrInvalidPhone, http.StatusBadRequest},
	{ErrCompanyRequired, http.StatusBadRequest},
	{ErrAmountMismatch, http.StatusBadRequest},
	{ErrPlanNotBillable, http.StatusBadRequest},
	{ErrIndustryRequired, http.StatusBadRequest},
	{ErrAlertIncomplete, http.StatusBadRequest},
	{ErrPlanHasNoAlerts, http.StatusBadRequest},
	{ErrInvalidCallback, http.StatusBadRequest},
	{ErrInvalidCredentials, http.StatusUnauthorized},
	{ErrCallbackForbidden, http.StatusUnauthorized},
	{ErrAccountInactive, http.StatusForbidden},
	{ErrForbidden, http.StatusForbidden},
	{RecordNotFound, http.StatusNotFound},
	{ErrCompanyNotFound, http.StatusNotFound},
	{ErrJobNotFound, http.StatusNotFound},
	{ErrPlanNotFound, http.StatusNotFound},
	{ErrPaymentNotFound, http.StatusNotFound},
	{ErrUserNotFound, http.StatusNotFound},
	{ErrEmailAlreadyExists, http.StatusConflict},
	{ErrCompanyNameTaken, http.StatusConflict},
	{ErrJobNotActive, http.StatusConflict},
	{ErrInvalidJobStatus, http.StatusConflict},
}

func HandleServiceError(c *gin.Context, err error) {
	var providerErr *gateways.ProviderError
	if errors.As(err, &providerErr) {
		RespondError(c, http.StatusBadGateway, providerErr.Message)
		return
	}

	for _, m := range statusFor {
		if errors.Is(err, m.err) {
			RespondError(c, m.code, m.err.Error())
			return
		}
	}

	if errors.Is(err, ErrDatabaseError) {
		zap.L().Error("database error", zap.String("trace_id", traceID(c)), zap.Error(err))
	} else {
		zap.L().Error("unhandled service error", zap.String("trace_id", traceID(c)), zap.Error(err))
	}
	RespondError(c, http.StatusInternalServerError, "Internal server error")
}
