package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sportiva/storefront-api/pkg/config"
)

var jwtSigningMethod = jwt.SigningMethodHS256

// BuyerClaims identifies an authenticated shopper. The storefront never issues
// these tokens itself; the auth backend does. Receipts fall back to an
// anonymous placeholder when no token is presented.
type BuyerClaims struct {
	BuyerID string `json:"buyer_id"`
	jwt.RegisteredClaims
}

// MintBuyerToken issues a signed JWT for the given buyer, used by tests and
// local tooling.
func MintBuyerToken(cfg config.JWTConfig, now time.Time, buyerID string, ttl time.Duration) (string, error) {
	if cfg.Secret == "" {
		return "", fmt.Errorf("jwt secret is required")
	}
	if buyerID == "" {
		return "", fmt.Errorf("buyer id is required")
	}
	if ttl <= 0 {
		ttl = time.Hour
	}

	claims := BuyerClaims{
		BuyerID: buyerID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwtSigningMethod, claims)
	signed, err := token.SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("signing jwt: %w", err)
	}
	return signed, nil
}

// ParseBuyerToken validates the JWT string and returns typed claims.
func ParseBuyerToken(cfg config.JWTConfig, tokenString string) (*BuyerClaims, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}

	claims := &BuyerClaims{}
	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwtSigningMethod {
				return nil, fmt.Errorf("unexpected signing method %s", token.Header["alg"])
			}
			return []byte(cfg.Secret), nil
		},
		jwt.WithValidMethods([]string{jwtSigningMethod.Alg()}),
		jwt.WithIssuer(cfg.Issuer),
	)
	if err != nil {
		return nil, err
	}
	if claims.BuyerID == "" {
		return nil, fmt.Errorf("token missing buyer id")
	}

	return claims, nil
}
