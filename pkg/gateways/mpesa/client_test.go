package mpesa

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"autumhire/pkg/gateways"
)

func newDarajaServer(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var tokenCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/v1/generate", func(w http.ResponseWriter, r *http.Request) {
		tokenCalls.Add(1)
		user, pass, ok := r.BasicAuth()
		if !ok || user != "key" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"tok","expires_in":"3599"}`))
	})
	mux.HandleFunc("/", handler)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &tokenCalls
}

func testConfig(baseURL string) Config {
	return Config{
		BaseURL:        baseURL,
		ConsumerKey:    "key",
		ConsumerSecret: "secret",
		ShortCode:      "174379",
		PassKey:        "pass",
		CallbackURL:    "https://example.com/api/mpesa/callback",
	}
}

func TestSTKPushBuildsPasswordAndCachesToken(t *testing.T) {
	t.Parallel()

	var got stkPushBody
	srv, tokenCalls := newDarajaServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			t.Errorf("expected bearer token, got %q", r.Header.Get("Authorization"))
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"MerchantRequestID":"m-1","CheckoutRequestID":"ws_CO_1","ResponseCode":"0","ResponseDescription":"Success","CustomerMessage":"Success. Request accepted for processing"}`))
	})

	c := NewClient(testConfig(srv.URL), srv.Client())
	c.now = func() time.Time { return time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC) }

	for i := 0; i < 2; i++ {
		res, err := c.STKPush(context.Background(), gateways.STKPushRequest{PhoneNumber: "254712345678", Amount: 2500, Reference: "AH-PREMIUM-1a2b3c4d"})
		if err != nil {
			t.Fatalf("STKPush error: %v", err)
		}
		if res.CheckoutRequestID != "ws_CO_1" {
			t.Fatalf("unexpected checkout id %s", res.CheckoutRequestID)
		}
	}

	if tokenCalls.Load() != 1 {
		t.Fatalf("expected token fetched once, got %d", tokenCalls.Load())
	}
	if got.Timestamp != "20240301120000" {
		t.Fatalf("expected Nairobi timestamp, got %s", got.Timestamp)
	}
	wantPassword := base64.StdEncoding.EncodeToString([]byte("174379" + "pass" + "20240301120000"))
	if got.Password != wantPassword {
		t.Fatalf("unexpected password %s", got.Password)
	}
	if got.AccountReference != "AH1a2b3c4d" || got.PartyA != "254712345678" || got.Amount != 2500 {
		t.Fatalf("unexpected request body: %+v", got)
	}
}

func TestQueryStatusTreatsProcessingAsPending(t *testing.T) {
	t.Parallel()

	srv, _ := newDarajaServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"requestId":"r","errorCode":"500.001.1001","errorMessage":"The transaction is being processed"}`))
	})

	c := NewClient(testConfig(srv.URL), srv.Client())
	res, err := c.QueryStatus(context.Background(), "ws_CO_1")
	if err != nil {
		t.Fatalf("QueryStatus error: %v", err)
	}
	if res.Status != gateways.StatusPending {
		t.Fatalf("expected pending, got %s", res.Status)
	}
}

func TestQueryStatusSurfacesOtherErrors(t *testing.T) {
	t.Parallel()

	srv, _ := newDarajaServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"errorCode":"400.002.02","errorMessage":"Bad Request - Invalid CheckoutRequestID"}`))
	})

	c := NewClient(testConfig(srv.URL), srv.Client())
	_, err := c.QueryStatus(context.Background(), "nope")

	var perr *gateways.ProviderError
	if !errors.As(err, &perr) || perr.Message != "Bad Request - Invalid CheckoutRequestID" {
		t.Fatalf("expected provider error with message, got %v", err)
	}
}

func TestParseCallback(t *testing.T) {
	t.Parallel()

	c := NewClient(Config{}, nil)
	cases := []struct {
		name   string
		body   string
		status gateways.Status
		recpt  string
	}{
		{
			name:   "success",
			body:   `{"Body":{"stkCallback":{"MerchantRequestID":"m","CheckoutRequestID":"ws_1","ResultCode":0,"ResultDesc":"ok","CallbackMetadata":{"Item":[{"Name":"Amount","Value":1000},{"Name":"MpesaReceiptNumber","Value":"NLJ7RT61SV"}]}}}}`,
			status: gateways.StatusCompleted,
			recpt:  "NLJ7RT61SV",
		},
		{
			name:   "cancelled",
			body:   `{"Body":{"stkCallback":{"CheckoutRequestID":"ws_2","ResultCode":1032,"ResultDesc":"Request cancelled by user"}}}`,
			status: gateways.StatusCancelled,
		},
		{
			name:   "failed",
			body:   `{"Body":{"stkCallback":{"CheckoutRequestID":"ws_3","ResultCode":1,"ResultDesc":"insufficient balance"}}}`,
			status: gateways.StatusFailed,
		},
	}

	for _, tc := range cases {
		res, err := c.ParseCallback([]byte(tc.body))
		if err != nil {
			t.Fatalf("%s: ParseCallback error: %v", tc.name, err)
		}
		if res.Status != tc.status || res.Receipt != tc.recpt {
			t.Fatalf("%s: unexpected result %+v", tc.name, res)
		}
	}

	if _, err := c.ParseCallback([]byte(`{"Body":{}}`)); err == nil {
		t.Fatal("expected error for callback without checkout id")
	}
}

func TestAccountReferenceKeepsSuffix(t *testing.T) {
	cases := map[string]string{
		"AH-STANDARD-0011aabb": "AH0011aabb",
		"AH-PREMIUM-9f00ab12":  "AH9f00ab12",
		"INV-7":                "INV-7",
		"NODASHESATALLHERE":    "NODASHESATAL",
	}
	for in, want := range cases {
		if got := accountReference(in); got != want {
			t.Errorf("accountReference(%q) = %q, want %q", in, got, want)
		}
	}
}
