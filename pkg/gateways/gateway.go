// Package gateways defines the contract shared by the mobile-money STK push
// integrations (IntaSend aggregator and Safaricom Daraja).
package gateways

import (
	"context"
	"encoding/json"
	"fmt"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// IsTerminal reports whether no further provider update is expected.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}

type STKPushRequest struct {
	PhoneNumber string // 2547XXXXXXXX
	Amount      int64  // whole shillings
	Reference   string
	Description string
}

type STKPushResult struct {
	CheckoutRequestID string
	MerchantRequestID string
	CustomerMessage   string
	Raw               json.RawMessage
}

type StatusResult struct {
	CheckoutRequestID string
	Status            Status
	ResultCode        string
	ResultDesc        string
	Raw               json.RawMessage
}

type CallbackResult struct {
	CheckoutRequestID string
	Reference         string
	Status            Status
	ResultCode        string
	ResultDesc        string
	Receipt           string
	Challenge         string
	Raw               json.RawMessage
}

type Gateway interface {
	Name() string
	STKPush(ctx context.Context, req STKPushRequest) (*STKPushResult, error)
	QueryStatus(ctx context.Context, checkoutRequestID string) (*StatusResult, error)
	ParseCallback(body []byte) (*CallbackResult, error)
}

// ProviderError carries the best-effort message extracted from a provider's
// error payload so it can be surfaced to the caller unchanged.
type ProviderError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %s (status %d)", e.Provider, e.Message, e.StatusCode)
}
