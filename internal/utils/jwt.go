package utils // helpers for token issuing, parsing and secret hashing

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/okanav/ridehail-auth/internal/model"
)

// TokenWindow is the validity window of every issued token. Both principal
// kinds share it, and the revocation ledger keeps entries for exactly this
// long — a ledger entry may expire only once the token it blocks could no
// longer verify anyway.
const TokenWindow = 24 * time.Hour

// ErrInvalidToken covers every parse-side rejection: bad signature, wrong
// algorithm, expired, malformed claims, or a token minted for the other
// principal kind.
var ErrInvalidToken = errors.New("invalid or expired token")

// IssueToken builds and signs an HS256 JWT for a principal. Claims: sub
// (principal id, decimal string), kind (rider/driver), jti (random UUID),
// iat and exp. The expiry is iat + TokenWindow.
func IssueToken(secret string, kind model.Kind, principalID uint64) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":  strconv.FormatUint(principalID, 10),
		"kind": string(kind),
		"jti":  uuid.NewString(),
		"iat":  now.Unix(),
		"exp":  now.Add(TokenWindow).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ParseToken validates a raw token against the signing secret and the
// expected principal kind and returns the subject principal id. Signature,
// expiry and algorithm checks are delegated to the jwt library; the kind
// claim is checked here so a rider token never passes a driver gate.
func ParseToken(secret string, kind model.Kind, raw string) (uint64, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return 0, ErrInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrInvalidToken
	}
	if k, _ := claims["kind"].(string); k != string(kind) {
		return 0, ErrInvalidToken
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return 0, ErrInvalidToken
	}
	id, err := strconv.ParseUint(sub, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return id, nil
}
