package token

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/AlibekovAA/book-reviews/internal/common/clock"
	commoncrypto "github.com/AlibekovAA/book-reviews/internal/common/crypto"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestService(c clock.Clock) *Service {
	return NewService(testSecret, time.Hour, commoncrypto.NewUUIDGenerator(), c)
}

func TestIssueValidate_RoundTrip(t *testing.T) {
	c := clock.NewMockClock(time.Now().UTC())
	svc := newTestService(c)

	tok, expiresAt, err := svc.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if !expiresAt.Equal(c.Now().Add(time.Hour)) {
		t.Errorf("expiresAt = %v, want %v", expiresAt, c.Now().Add(time.Hour))
	}

	userID, err := svc.Validate(tok)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if userID != "user-1" {
		t.Errorf("userID = %q, want user-1", userID)
	}
}

func TestIssue_UniqueJTI(t *testing.T) {
	svc := newTestService(clock.NewMockClock(time.Now().UTC()))

	a, _, _ := svc.Issue("user-1")
	b, _, _ := svc.Issue("user-1")
	if a == b {
		t.Error("two tokens issued at the same instant should differ by jti")
	}
}

func TestValidate_TamperedByte(t *testing.T) {
	svc := newTestService(clock.NewMockClock(time.Now().UTC()))

	tok, _, err := svc.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	dot := strings.Index(tok, ".")
	flip := 'A'
	if tok[dot+1] == 'A' {
		flip = 'B'
	}
	tampered := tok[:dot+1] + string(flip) + tok[dot+2:]

	if _, err := svc.Validate(tampered); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestValidate_WrongSecret(t *testing.T) {
	c := clock.NewMockClock(time.Now().UTC())
	other := NewService("ffffffffffffffffffffffffffffffff", time.Hour, commoncrypto.NewUUIDGenerator(), c)

	tok, _, _ := other.Issue("user-1")
	if _, err := newTestService(c).Validate(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestValidate_Expired(t *testing.T) {
	c := clock.NewMockClock(time.Now().UTC())
	svc := newTestService(c)

	tok, _, _ := svc.Issue("user-1")
	c.Advance(2 * time.Hour)

	_, err := svc.Validate(tok)
	if !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("expected ErrExpiredToken, got %v", err)
	}
}

func TestValidate_RejectsOtherAlgorithms(t *testing.T) {
	now := time.Now().UTC()
	svc := newTestService(clock.NewMockClock(now))

	claims := jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := svc.Validate(unsigned); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("alg=none: expected ErrInvalidToken, got %v", err)
	}

	hs512, _ := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	if _, err := svc.Validate(hs512); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("alg=HS512: expected ErrInvalidToken, got %v", err)
	}
}

func TestValidate_MissingSubject(t *testing.T) {
	now := time.Now().UTC()
	svc := newTestService(clock.NewMockClock(now))

	tok, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}).SignedString([]byte(testSecret))

	if _, err := svc.Validate(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestValidate_MissingExpiry(t *testing.T) {
	svc := newTestService(clock.NewMockClock(time.Now().UTC()))

	tok, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "user-1"}).
		SignedString([]byte(testSecret))

	if _, err := svc.Validate(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestValidate_Garbage(t *testing.T) {
	svc := newTestService(clock.NewMockClock(time.Now().UTC()))

	for _, in := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := svc.Validate(in); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Validate(%q): expected ErrInvalidToken, got %v", in, err)
		}
	}
}
