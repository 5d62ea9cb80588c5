// Package instasend is an HTTP client for the IntaSend M-Pesa STK push API.
package instasend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"autumhire/pkg/gateways"
)

const (
	ProviderName   = "instasend"
	DefaultBaseURL = "https://payment.intasend.com/api"
)

type Config struct {
	BaseURL        string
	SecretKey      string
	PublishableKey string
	Currency       string
}

type Client struct {
	cfg  Config
	http *http.Client
}

func NewClient(cfg Config, httpClient *http.Client) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Currency == "" {
		cfg.Currency = "KES"
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{cfg: cfg, http: httpClient}
}

func (c *Client) Name() string { return ProviderName }

type stkPushBody struct {
	PublicKey   string `json:"public_key,omitempty"`
	Amount      int64  `json:"amount"`
	PhoneNumber string `json:"phone_number"`
	APIRef      string `json:"api_ref"`
	Currency    string `json:"currency"`
	Narrative   string `json:"narrative,omitempty"`
}

type invoice struct {
	InvoiceID    string `json:"invoice_id"`
	State        string `json:"state"`
	APIRef       string `json:"api_ref"`
	FailedReason string `json:"failed_reason"`
	FailedCode   string `json:"failed_code"`
}

type invoiceEnvelope struct {
	Invoice invoice `json:"invoice"`
}

func (c *Client) STKPush(ctx context.Context, req gateways.STKPushRequest) (*gateways.STKPushResult, error) {
	body := stkPushBody{
		PublicKey:   c.cfg.PublishableKey,
		Amount:      req.Amount,
		PhoneNumber: req.PhoneNumber,
		APIRef:      req.Reference,
		Currency:    c.cfg.Currency,
		Narrative:   req.Description,
	}

	raw, err := c.post(ctx, "/v1/payment/mpesa-stk-push/", body)
	if err != nil {
		return nil, err
	}

	var env invoiceEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode stk push response: %w", err)
	}
	if env.Invoice.InvoiceID == "" {
		return nil, &gateways.ProviderError{Provider: ProviderName, StatusCode: http.StatusOK, Message: "missing invoice id in response"}
	}

	return &gateways.STKPushResult{
		CheckoutRequestID: env.Invoice.InvoiceID,
		CustomerMessage:   "STK push sent, enter your M-Pesa PIN to complete payment",
		Raw:               raw,
	}, nil
}

func (c *Client) QueryStatus(ctx context.Context, checkoutRequestID string) (*gateways.StatusResult, error) {
	raw, err := c.post(ctx, "/v1/payment/status/", map[string]string{"invoice_id": checkoutRequestID})
	if err != nil {
		return nil, err
	}

	var env invoiceEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode status response: %w", err)
	}

	return &gateways.StatusResult{
		CheckoutRequestID: checkoutRequestID,
		Status:            mapState(env.Invoice.State),
		ResultCode:        env.Invoice.FailedCode,
		ResultDesc:        describe(env.Invoice),
		Raw:               raw,
	}, nil
}

type webhookPayload struct {
	InvoiceID      string `json:"invoice_id"`
	State          string `json:"state"`
	APIRef         string `json:"api_ref"`
	MpesaReference string `json:"mpesa_reference"`
	FailedReason   string `json:"failed_reason"`
	FailedCode     string `json:"failed_code"`
	Challenge      string `json:"challenge"`
}

func (c *Client) ParseCallback(body []byte) (*gateways.CallbackResult, error) {
	var p webhookPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("decode intasend webhook: %w", err)
	}
	if p.InvoiceID == "" {
		return nil, fmt.Errorf("intasend webhook without invoice_id")
	}

	return &gateways.CallbackResult{
		CheckoutRequestID: p.InvoiceID,
		Reference:         p.APIRef,
		Status:            mapState(p.State),
		ResultCode:        p.FailedCode,
		ResultDesc:        describe(invoice{State: p.State, FailedReason: p.FailedReason}),
		Receipt:           p.MpesaReference,
		Challenge:         p.Challenge,
		Raw:               json.RawMessage(body),
	}, nil
}

func mapState(state string) gateways.Status {
	switch strings.ToUpper(strings.TrimSpace(state)) {
	case "COMPLETE", "COMPLETED":
		return gateways.StatusCompleted
	case "FAILED":
		return gateways.StatusFailed
	case "CANCELLED", "CANCELED":
		return gateways.StatusCancelled
	default:
		return gateways.StatusPending
	}
}

func describe(inv invoice) string {
	if inv.FailedReason != "" {
		return inv.FailedReason
	}
	return strings.ToUpper(inv.State)
}

func (c *Client) post(ctx context.Context, path string, payload any) (json.RawMessage, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.SecretKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request: %w", ProviderName, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &gateways.ProviderError{
			Provider:   ProviderName,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(body, resp.Status),
		}
	}
	return body, nil
}

// errorMessage digs the human readable part out of IntaSend's error shapes:
// {"errors":[{"detail":...}]}, {"detail":...} or {"message":...}.
func errorMessage(body []byte, fallback string) string {
	var payload struct {
		Errors []struct {
			Code   string `json:"code"`
			Detail string `json:"detail"`
		} `json:"errors"`
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		switch {
		case len(payload.Errors) > 0 && payload.Errors[0].Detail != "":
			return payload.Errors[0].Detail
		case payload.Detail != "":
			return payload.Detail
		case payload.Message != "":
			return payload.Message
		}
	}
	if text := strings.TrimSpace(string(body)); text != "" && len(text) < 300 {
		return text
	}
	return fallback
}
