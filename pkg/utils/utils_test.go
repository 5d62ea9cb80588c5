package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNormalizeKenyanPhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"0712345678", "254712345678", true},
		{"712345678", "254712345678", true},
		{"254712345678", "254712345678", true},
		{"+254712345678", "254712345678", true},
		{"0712 345 678", "254712345678", true},
		{"0712-345-678", "254712345678", true},
		{"12345", "", false},
		{"", "", false},
		{"0812345678", "", false},
		{"255712345678", "", false},
		{"07123456789", "", false},
		{"07123x5678", "", false},
	}

	for _, c := range cases {
		got, err := NormalizeKenyanPhone(c.in)
		if c.ok {
			if err != nil {
				t.Errorf("NormalizeKenyanPhone(%q) unexpected error: %v", c.in, err)
				continue
			}
			if got != c.want {
				t.Errorf("NormalizeKenyanPhone(%q) = %q, want %q", c.in, got, c.want)
			}
			continue
		}
		if !errors.Is(err, ErrInvalidPhone) {
			t.Errorf("NormalizeKenyanPhone(%q) expected ErrInvalidPhone, got %q, %v", c.in, got, err)
		}
	}
}

func TestFormatShortDate(t *testing.T) {
	// 1700000000 is 2023-11-14 22:13:20 UTC, already the 15th in Nairobi.
	got := FormatShortDate(Timestamp{Seconds: 1700000000})
	if got != "15/11/23" {
		t.Fatalf("FormatShortDate = %q, want 15/11/23", got)
	}
	if again := FormatShortDate(Timestamp{Seconds: 1700000000}); again != got {
		t.Fatalf("FormatShortDate not deterministic: %q vs %q", got, again)
	}
	if FormatShortDate(Timestamp{}) != "" {
		t.Fatal("zero timestamp should format as empty string")
	}
}

func TestFormatDateKEIgnoresHostZone(t *testing.T) {
	ts := time.Unix(1700000000, 0).In(time.FixedZone("PST", -8*3600))
	if got := FormatDateKE(ts); got != "15/11/23" {
		t.Fatalf("FormatDateKE = %q, want 15/11/23", got)
	}
}

func TestTokenIssuerRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	userID := uuid.New()
	companyID := uuid.New()

	token, err := issuer.CreateToken(userID, "admin", &companyID)
	if err != nil {
		t.Fatalf("CreateToken error: %v", err)
	}

	claims, err := issuer.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken error: %v", err)
	}
	if claims.UserID != userID.String() || claims.Role != "admin" || claims.CompanyID != companyID.String() {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	other := NewTokenIssuer("another-secret", time.Hour)
	if _, err := other.ValidateToken(token); err == nil {
		t.Fatal("expected token signed with a different key to be rejected")
	}
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if err := ComparePasswords(hash, "s3cret!"); err != nil {
		t.Fatalf("ComparePasswords rejected the right password: %v", err)
	}
	if err := ComparePasswords(hash, "wrong"); err == nil {
		t.Fatal("ComparePasswords accepted a wrong password")
	}
}
