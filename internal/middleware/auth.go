package middleware // reusable HTTP middleware, including the auth gate

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/okanav/ridehail-auth/internal/model"
	"github.com/okanav/ridehail-auth/internal/repository"
	"github.com/okanav/ridehail-auth/internal/revocation"
	"github.com/okanav/ridehail-auth/internal/utils"
)

// TokenCookie is the cookie the login endpoint sets and the gate reads.
const TokenCookie = "token"

// PrincipalFinder is the slice of the principal store the gate needs.
// Declared here so tests can gate against a fake without a database.
type PrincipalFinder interface {
	FindByID(ctx context.Context, kind model.Kind, id uint64) (*model.Principal, error)
}

// ExtractToken returns the bearer credential from a request: the token
// cookie when present, otherwise the Authorization bearer value. Empty
// string means no token at all.
func ExtractToken(c echo.Context) string {
	if ck, err := c.Cookie(TokenCookie); err == nil && ck.Value != "" {
		return ck.Value
	}
	auth := c.Request().Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	return ""
}

// Gate returns the verification middleware for one principal kind. Both
// kinds use this same gate; only the kind (and with it the store partition
// and the context key) differs.
//
// Per-request order is fixed: missing token rejects immediately; the
// revocation ledger is consulted before the signature is ever checked, so a
// revoked-but-unexpired token fails exactly like an expired one; the store
// lookup runs last and a vanished principal is a 404. On admission the
// resolved principal (secret hash absent) is stored in the echo context
// under the kind's name.
func Gate(kind model.Kind, secret string, ledger revocation.Ledger, store PrincipalFinder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := ExtractToken(c)
			if raw == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized"})
			}

			ctx := c.Request().Context()
			revoked, err := ledger.IsRevoked(ctx, raw)
			if err != nil {
				c.Logger().Errorf("revocation lookup failed: %v", err)
				return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Internal server error"})
			}
			if revoked {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Token has been revoked"})
			}

			id, err := utils.ParseToken(secret, kind, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid or expired token"})
			}

			p, err := store.FindByID(ctx, kind, id)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return c.JSON(http.StatusNotFound, echo.Map{"message": "Account not found"})
				}
				c.Logger().Errorf("principal lookup failed: %v", err)
				return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Internal server error"})
			}

			c.Set(string(kind), p)
			return next(c)
		}
	}
}

// PrincipalFrom pulls the admitted principal of the given kind out of the
// echo context. It returns nil when the gate has not run.
func PrincipalFrom(c echo.Context, kind model.Kind) *model.Principal {
	p, _ := c.Get(string(kind)).(*model.Principal)
	return p
}
