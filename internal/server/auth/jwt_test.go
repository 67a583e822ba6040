package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/tenauth/tenauth/internal/common"
)

func TestIssueAndVerify_Success(t *testing.T) {
	t.Parallel()

	issuer := NewIssuer([]byte("super-secret"), time.Hour)

	tok, err := issuer.Issue("user-123", "tenant-9")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	claims, err := issuer.Verify(tok)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if claims.UserID != "user-123" {
		t.Fatalf("user id mismatch: got %q", claims.UserID)
	}
	if claims.TenantID != "tenant-9" {
		t.Fatalf("tenant id mismatch: got %q", claims.TenantID)
	}
}

func TestVerify_ExpiryBoundary(t *testing.T) {
	t.Parallel()

	issuer := NewIssuer([]byte("secret"), time.Minute)
	issuedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	issuer.now = func() time.Time { return issuedAt }

	tok, err := issuer.Issue("u1", "host")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	// Just before expiry the token is still valid.
	issuer.now = func() time.Time { return issuedAt.Add(time.Minute - time.Second) }
	if _, err := issuer.Verify(tok); err != nil {
		t.Fatalf("expected valid before boundary, got %v", err)
	}

	// At and after expiry verification fails with ErrTokenExpired.
	for _, offset := range []time.Duration{time.Minute + time.Second, 2 * time.Minute} {
		issuer.now = func() time.Time { return issuedAt.Add(offset) }
		_, err := issuer.Verify(tok)
		if !errors.Is(err, common.ErrTokenExpired) {
			t.Fatalf("offset %v: want ErrTokenExpired, got %v", offset, err)
		}
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewIssuer([]byte("right-secret"), time.Hour).Issue("u2", "host")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	_, err = NewIssuer([]byte("wrong-secret"), time.Hour).Verify(tok)
	if !errors.Is(err, common.ErrTokenInvalid) {
		t.Fatalf("want ErrTokenInvalid, got %v", err)
	}
}

func TestVerify_TamperedPayload(t *testing.T) {
	t.Parallel()

	issuer := NewIssuer([]byte("secret"), time.Hour)
	tok, err := issuer.Issue("u3", "t1")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	// Flip one bit in every position of the claims segment; each mutation
	// changes the signed text, so the signature must reject all of them.
	raw := []byte(tok)
	start := strings.IndexByte(tok, '.') + 1
	end := strings.LastIndexByte(tok, '.')
	for i := start; i < end; i++ {
		mutated := make([]byte, len(raw))
		copy(mutated, raw)
		mutated[i] ^= 0x01

		if _, err := issuer.Verify(string(mutated)); err == nil {
			t.Fatalf("mutation at byte %d accepted", i)
		}
	}
}

func TestVerify_MalformedString(t *testing.T) {
	t.Parallel()

	_, err := NewIssuer([]byte("k"), time.Hour).Verify("not.a.jwt")
	if !errors.Is(err, common.ErrTokenInvalid) {
		t.Fatalf("want ErrTokenInvalid, got %v", err)
	}
}
