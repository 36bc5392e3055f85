package auth

import (
	"testing"
	"time"

	"github.com/sportiva/storefront-api/pkg/config"
)

func TestMintAndParseBuyerToken(t *testing.T) {
	t.Parallel()

	cfg := config.JWTConfig{Secret: "test-secret", Issuer: "storefront"}
	now := time.Now()

	signed, err := MintBuyerToken(cfg, now, "buyer-42", time.Hour)
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	claims, err := ParseBuyerToken(cfg, signed)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if claims.BuyerID != "buyer-42" {
		t.Fatalf("unexpected buyer id %q", claims.BuyerID)
	}
}

func TestParseBuyerTokenRejectsWrongSecret(t *testing.T) {
	t.Parallel()

	cfg := config.JWTConfig{Secret: "test-secret", Issuer: "storefront"}
	signed, err := MintBuyerToken(cfg, time.Now(), "buyer-42", time.Hour)
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	if _, err := ParseBuyerToken(config.JWTConfig{Secret: "other", Issuer: "storefront"}, signed); err == nil {
		t.Fatal("expected parse failure with wrong secret")
	}
}

func TestParseBuyerTokenRejectsExpired(t *testing.T) {
	t.Parallel()

	cfg := config.JWTConfig{Secret: "test-secret", Issuer: "storefront"}
	signed, err := MintBuyerToken(cfg, time.Now().Add(-3*time.Hour), "buyer-42", time.Hour)
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	if _, err := ParseBuyerToken(cfg, signed); err == nil {
		t.Fatal("expected parse failure for expired token")
	}
}
