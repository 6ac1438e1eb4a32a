package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/okanav/ridehail-auth/internal/middleware"
	"github.com/okanav/ridehail-auth/internal/model"
	"github.com/okanav/ridehail-auth/internal/queue"
	"github.com/okanav/ridehail-auth/internal/repository"
	"github.com/okanav/ridehail-auth/internal/revocation"
	"github.com/okanav/ridehail-auth/internal/utils"
)

// PrincipalStore is the store surface the auth handlers need. The concrete
// implementation is repository.PrincipalRepo; tests substitute a fake.
type PrincipalStore interface {
	Create(ctx context.Context, p *model.Principal) error
	FindByEmail(ctx context.Context, kind model.Kind, email string) (*model.Principal, error)
	FindByID(ctx context.Context, kind model.Kind, id uint64) (*model.Principal, error)
}

// AuthHandler serves register/login/profile/logout for one principal kind.
// Two instances exist (rider and driver); the logic is identical, only the
// kind differs. Publish, when set, receives best-effort auth events; a nil
// Publish disables the event stream.
type AuthHandler struct {
	Kind    model.Kind
	Secret  string
	Store   PrincipalStore
	Ledger  revocation.Ledger
	Publish func(ctx context.Context, ev queue.AuthEvent) error
}

func NewAuthHandler(kind model.Kind, secret string, store PrincipalStore, ledger revocation.Ledger,
	publish func(ctx context.Context, ev queue.AuthEvent) error) *AuthHandler {
	return &AuthHandler{Kind: kind, Secret: secret, Store: store, Ledger: ledger, Publish: publish}
}

// ----- DTOs -----

type registerReq struct {
	FirstName       string         `json:"firstName"`
	LastName        string         `json:"lastName"`
	Email           string         `json:"email"`
	Password        string         `json:"password"`
	ConfirmPassword string         `json:"confirmPassword"`
	Vehicle         *model.Vehicle `json:"vehicle"` // drivers only
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResp struct {
	Principal *model.Principal `json:"principal"`
	Token     string           `json:"token"`
}

func validationFailed(c echo.Context, errs []model.FieldError) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"message": "Validation failed", "errors": errs})
}

// Register validates input, hashes the secret, persists the principal and
// returns it with a fresh token. Duplicate email or plate fails before
// anything is written.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body"})
	}
	req.Email = model.NormalizeEmail(req.Email)

	errs := model.ValidateRegistration(h.Kind, req.FirstName, req.LastName, req.Email, req.Password)
	if h.Kind == model.KindRider && req.ConfirmPassword != req.Password {
		errs = append(errs, model.FieldError{Field: "confirmPassword", Message: "passwords do not match"})
	}
	if h.Kind == model.KindDriver {
		errs = append(errs, model.ValidateVehicle(req.Vehicle)...)
	}
	if len(errs) > 0 {
		return validationFailed(c, errs)
	}

	hash, err := utils.HashSecret(req.Password)
	if err != nil {
		c.Logger().Errorf("hash secret failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Internal server error"})
	}

	p := &model.Principal{
		Kind:       h.Kind,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		SecretHash: hash,
	}
	if h.Kind == model.KindDriver {
		p.Availability = model.AvailabilityInactive
		p.Vehicle = req.Vehicle
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Store.Create(ctx, p); err != nil {
		switch {
		case errors.Is(err, repository.ErrEmailExists):
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "Email already registered"})
		case errors.Is(err, repository.ErrPlateExists):
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "Vehicle plate already registered"})
		}
		c.Logger().Errorf("create %s failed: %v", h.Kind, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Internal server error"})
	}

	token, err := utils.IssueToken(h.Secret, h.Kind, p.ID)
	if err != nil {
		c.Logger().Errorf("issue token failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Internal server error"})
	}

	p.SecretHash = ""
	h.publish(queue.ActionRegistered, p.ID, p.Email)
	return c.JSON(http.StatusCreated, authResp{Principal: p, Token: token})
}

// Login verifies the secret against the stored hash and returns a fresh
// token, also set as a cookie. Unknown address and wrong secret are kept
// distinct: 404 vs 401.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body"})
	}
	req.Email = model.NormalizeEmail(req.Email)
	if errs := model.ValidateLogin(req.Email, req.Password); len(errs) > 0 {
		return validationFailed(c, errs)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Store.FindByEmail(ctx, h.Kind, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Account not found"})
		}
		c.Logger().Errorf("find %s failed: %v", h.Kind, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Internal server error"})
	}
	if !utils.VerifySecret(p.SecretHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid email or password"})
	}

	token, err := utils.IssueToken(h.Secret, h.Kind, p.ID)
	if err != nil {
		c.Logger().Errorf("issue token failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Internal server error"})
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(utils.TokenWindow / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	p.SecretHash = ""
	h.publish(queue.ActionLoggedIn, p.ID, p.Email)
	return c.JSON(http.StatusOK, authResp{Principal: p, Token: token})
}

// Profile returns the principal the gate resolved for this request.
func (h *AuthHandler) Profile(c echo.Context) error {
	p := middleware.PrincipalFrom(c, h.Kind)
	if p == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized"})
	}
	return c.JSON(http.StatusOK, p)
}

// Logout writes the presented token into the revocation ledger and clears
// the cookie. Revocation is idempotent; the only failure a client can
// cause is presenting no token at all.
func (h *AuthHandler) Logout(c echo.Context) error {
	raw := middleware.ExtractToken(c)
	if raw == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "No token provided"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Ledger.Revoke(ctx, raw); err != nil {
		c.Logger().Errorf("revoke token failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Internal server error"})
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	// Best-effort event: the subject id is only known if the token still
	// parses, which it need not for a logout to succeed.
	if id, err := utils.ParseToken(h.Secret, h.Kind, raw); err == nil {
		h.publish(queue.ActionLoggedOut, id, "")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Logged out successfully"})
}

// publish fires an auth event without blocking the request. Failures are
// the publisher's to log; a nil Publish means events are disabled.
func (h *AuthHandler) publish(action string, id uint64, email string) {
	if h.Publish == nil {
		return
	}
	ev := queue.AuthEvent{
		Kind:        string(h.Kind),
		Action:      action,
		PrincipalID: id,
		Email:       email,
		At:          time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = h.Publish(ctx, ev)
	}()
}
