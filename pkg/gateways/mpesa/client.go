// Package mpesa talks to Safaricom's Daraja API directly: OAuth token,
// Lipa na M-Pesa Online (STK push), STK push query and the result callback.
package mpesa

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"autumhire/pkg/gateways"
)

const (
	ProviderName   = "mpesa"
	DefaultBaseURL = "https://sandbox.safaricom.co.ke"

	resultCancelledByUser = "1032"
	errCodeProcessing     = "500.001.1001"
	maxAccountReference   = 12
)

var eat = func() *time.Location {
	if loc, err := time.LoadLocation("Africa/Nairobi"); err == nil {
		return loc
	}
	return time.FixedZone("EAT", 3*3600)
}()

type Config struct {
	BaseURL        string
	ConsumerKey    string
	ConsumerSecret string
	ShortCode      string
	PassKey        string
	CallbackURL    string
}

type Client struct {
	cfg  Config
	http *http.Client
	now  func() time.Time

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

func NewClient(cfg Config, httpClient *http.Client) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{cfg: cfg, http: httpClient, now: time.Now}
}

func (c *Client) Name() string { return ProviderName }

// password is base64(shortcode + passkey + timestamp).
func (c *Client) password(timestamp string) string {
	return base64.StdEncoding.EncodeToString([]byte(c.cfg.ShortCode + c.cfg.PassKey + timestamp))
}

func (c *Client) timestamp() string {
	return c.now().In(eat).Format("20060102150405")
}

func (c *Client) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && c.now().Before(c.tokenExpiry) {
		return c.token, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/oauth/v1/generate?grant_type=client_credentials", nil)
	if err != nil {
		return "", fmt.Errorf("build token request: %w", err)
	}
	req.SetBasicAuth(c.cfg.ConsumerKey, c.cfg.ConsumerSecret)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("mpesa token request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode != http.StatusOK {
		return "", &gateways.ProviderError{Provider: ProviderName, StatusCode: resp.StatusCode, Message: errorMessage(body, "failed to obtain access token")}
	}

	var tok struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   string `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &tok); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}

	ttl := time.Hour
	if secs, err := strconv.Atoi(tok.ExpiresIn); err == nil && secs > 60 {
		ttl = time.Duration(secs) * time.Second
	}
	c.token = tok.AccessToken
	// refresh a minute early
	c.tokenExpiry = c.now().Add(ttl - time.Minute)
	return c.token, nil
}

type stkPushBody struct {
	BusinessShortCode string `json:"BusinessShortCode"`
	Password          string `json:"Password"`
	Timestamp         string `json:"Timestamp"`
	TransactionType   string `json:"TransactionType"`
	Amount            int64  `json:"Amount"`
	PartyA            string `json:"PartyA"`
	PartyB            string `json:"PartyB"`
	PhoneNumber       string `json:"PhoneNumber"`
	CallBackURL       string `json:"CallBackURL"`
	AccountReference  string `json:"AccountReference"`
	TransactionDesc   string `json:"TransactionDesc"`
}

type stkPushResponse struct {
	MerchantRequestID   string `json:"MerchantRequestID"`
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	CustomerMessage     string `json:"CustomerMessage"`
}

func (c *Client) STKPush(ctx context.Context, req gateways.STKPushRequest) (*gateways.STKPushResult, error) {
	ts := c.timestamp()
	desc := req.Description
	if desc == "" {
		desc = "Job posting"
	}
	body := stkPushBody{
		BusinessShortCode: c.cfg.ShortCode,
		Password:          c.password(ts),
		Timestamp:         ts,
		TransactionType:   "CustomerPayBillOnline",
		Amount:            req.Amount,
		PartyA:            req.PhoneNumber,
		PartyB:            c.cfg.ShortCode,
		PhoneNumber:       req.PhoneNumber,
		CallBackURL:       c.cfg.CallbackURL,
		AccountReference:  accountReference(req.Reference),
		TransactionDesc:   truncate(desc, 13),
	}

	raw, _, err := c.post(ctx, "/mpesa/stkpush/v1/processrequest", body)
	if err != nil {
		return nil, err
	}

	var out stkPushResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode stk push response: %w", err)
	}
	if out.ResponseCode != "0" || out.CheckoutRequestID == "" {
		msg := out.ResponseDescription
		if msg == "" {
			msg = "STK push was not accepted"
		}
		return nil, &gateways.ProviderError{Provider: ProviderName, StatusCode: http.StatusOK, Message: msg}
	}

	return &gateways.STKPushResult{
		CheckoutRequestID: out.CheckoutRequestID,
		MerchantRequestID: out.MerchantRequestID,
		CustomerMessage:   out.CustomerMessage,
		Raw:               raw,
	}, nil
}

type queryResponse struct {
	ResponseCode string `json:"ResponseCode"`
	ResultCode   string `json:"ResultCode"`
	ResultDesc   string `json:"ResultDesc"`
}

func (c *Client) QueryStatus(ctx context.Context, checkoutRequestID string) (*gateways.StatusResult, error) {
	ts := c.timestamp()
	body := map[string]string{
		"BusinessShortCode": c.cfg.ShortCode,
		"Password":          c.password(ts),
		"Timestamp":         ts,
		"CheckoutRequestID": checkoutRequestID,
	}

	raw, errCode, err := c.post(ctx, "/mpesa/stkpushquery/v1/query", body)
	if err != nil {
		// Daraja answers with an error while the customer has not acted yet.
		if errCode == errCodeProcessing {
			return &gateways.StatusResult{
				CheckoutRequestID: checkoutRequestID,
				Status:            gateways.StatusPending,
				ResultDesc:        "The transaction is being processed",
			}, nil
		}
		return nil, err
	}

	var out queryResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode query response: %w", err)
	}

	return &gateways.StatusResult{
		CheckoutRequestID: checkoutRequestID,
		Status:            mapResultCode(out.ResultCode),
		ResultCode:        out.ResultCode,
		ResultDesc:        out.ResultDesc,
		Raw:               raw,
	}, nil
}

type callbackItem struct {
	Name  string `json:"Name"`
	Value any    `json:"Value"`
}

type callbackEnvelope struct {
	Body struct {
		StkCallback struct {
			MerchantRequestID string `json:"MerchantRequestID"`
			CheckoutRequestID string `json:"CheckoutRequestID"`
			ResultCode        int    `json:"ResultCode"`
			ResultDesc        string `json:"ResultDesc"`
			CallbackMetadata  struct {
				Item []callbackItem `json:"Item"`
			} `json:"CallbackMetadata"`
		} `json:"stkCallback"`
	} `json:"Body"`
}

func (c *Client) ParseCallback(body []byte) (*gateways.CallbackResult, error) {
	var env callbackEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode daraja callback: %w", err)
	}
	cb := env.Body.StkCallback
	if cb.CheckoutRequestID == "" {
		return nil, fmt.Errorf("daraja callback without CheckoutRequestID")
	}

	code := strconv.Itoa(cb.ResultCode)
	result := &gateways.CallbackResult{
		CheckoutRequestID: cb.CheckoutRequestID,
		Status:            mapResultCode(code),
		ResultCode:        code,
		ResultDesc:        cb.ResultDesc,
		Raw:               json.RawMessage(body),
	}
	for _, item := range cb.CallbackMetadata.Item {
		if item.Name == "MpesaReceiptNumber" {
			result.Receipt = fmt.Sprint(item.Value)
		}
	}
	return result, nil
}

func mapResultCode(code string) gateways.Status {
	switch strings.TrimSpace(code) {
	case "0":
		return gateways.StatusCompleted
	case resultCancelledByUser:
		return gateways.StatusCancelled
	case "":
		return gateways.StatusPending
	default:
		return gateways.StatusFailed
	}
}

// post returns the body on 2xx; otherwise a ProviderError plus Daraja's
// errorCode so callers can special-case "still processing".
func (c *Client) post(ctx context.Context, path string, payload any) (json.RawMessage, string, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, "", err
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, "", fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("mpesa request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var e struct {
			ErrorCode string `json:"errorCode"`
		}
		_ = json.Unmarshal(body, &e)
		return nil, e.ErrorCode, &gateways.ProviderError{
			Provider:   ProviderName,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(body, resp.Status),
		}
	}
	return body, "", nil
}

func errorMessage(body []byte, fallback string) string {
	var e struct {
		ErrorMessage        string `json:"errorMessage"`
		ResponseDescription string `json:"ResponseDescription"`
	}
	if err := json.Unmarshal(body, &e); err == nil {
		if e.ErrorMessage != "" {
			return e.ErrorMessage
		}
		if e.ResponseDescription != "" {
			return e.ResponseDescription
		}
	}
	return fallback
}

// accountReference fits a reference into Daraja's 12 characters. Long
// references keep their first and last segments ("AH-PREMIUM-1a2b3c4d" ->
// "AH1a2b3c4d") so the payer's statement still names the attempt.
func accountReference(ref string) string {
	if len(ref) <= maxAccountReference {
		return ref
	}
	parts := strings.Split(ref, "-")
	if len(parts) > 1 {
		ref = parts[0] + parts[len(parts)-1]
	}
	return truncate(ref, maxAccountReference)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
