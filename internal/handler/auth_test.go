package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okanav/ridehail-auth/internal/handler"
	"github.com/okanav/ridehail-auth/internal/middleware"
	"github.com/okanav/ridehail-auth/internal/model"
	"github.com/okanav/ridehail-auth/internal/repository"
	"github.com/okanav/ridehail-auth/internal/revocation"
	"github.com/okanav/ridehail-auth/internal/router"
	"github.com/okanav/ridehail-auth/internal/utils"
)

const testSecret = "handler-test-secret"

// fakeStore is an in-memory PrincipalStore partitioned by kind, mirroring
// the unique indexes the real tables carry.
type fakeStore struct {
	mu     sync.Mutex
	seq    uint64
	byKind map[model.Kind]map[string]*model.Principal // email -> principal
}

func newFakeStore() *fakeStore {
	return &fakeStore{byKind: map[model.Kind]map[string]*model.Principal{
		model.KindRider:  {},
		model.KindDriver: {},
	}}
}

func (s *fakeStore) Create(_ context.Context, p *model.Principal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	part := s.byKind[p.Kind]
	if _, ok := part[p.Email]; ok {
		return repository.ErrEmailExists
	}
	if p.Kind == model.KindDriver {
		for _, other := range part {
			if other.Vehicle.Plate == p.Vehicle.Plate {
				return repository.ErrPlateExists
			}
		}
	}
	s.seq++
	p.ID = s.seq
	cp := *p
	part[p.Email] = &cp
	return nil
}

func (s *fakeStore) FindByEmail(_ context.Context, kind model.Kind, email string) (*model.Principal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.byKind[kind][email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *fakeStore) FindByID(_ context.Context, kind model.Kind, id uint64) (*model.Principal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.byKind[kind] {
		if p.ID == id {
			cp := *p
			cp.SecretHash = ""
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

// newTestServer wires both kinds the way cmd/server does, with fakes in
// place of MySQL, Redis and RabbitMQ.
func newTestServer() (*echo.Echo, *fakeStore) {
	store := newFakeStore()
	ledger := revocation.NewMemoryLedger(utils.TokenWindow, nil)
	passthrough := func(next echo.HandlerFunc) echo.HandlerFunc { return next }

	e := echo.New()
	router.RegisterRoutes(e)
	for _, kind := range []model.Kind{model.KindRider, model.KindDriver} {
		a := handler.NewAuthHandler(kind, testSecret, store, ledger, nil)
		gate := middleware.Gate(kind, testSecret, ledger, store)
		router.RegisterKind(e, a, gate, passthrough)
	}
	return e, store
}

func do(e *echo.Echo, method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	return m
}

const driverBody = `{
	"firstName": "Mahendra",
	"email": "a@x.com",
	"password": "abcdef12",
	"vehicle": {"color": "red", "plate": "MH02CB4763", "capacity": 5, "vehicleType": "car"}
}`

// TestDriverLifecycle walks the full path: register, bad login, profile
// with the issued token, logout, then profile again with the same token.
func TestDriverLifecycle(t *testing.T) {
	e, _ := newTestServer()

	rec := do(e, http.MethodPost, "/drivers/register", driverBody, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decode(t, rec)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	principal := body["principal"].(map[string]any)
	assert.Equal(t, "inactive", principal["availability"])
	assert.Equal(t, "a@x.com", principal["email"])
	assert.NotContains(t, rec.Body.String(), "secretHash")

	// Wrong secret is a credential mismatch, not a missing account.
	rec = do(e, http.MethodPost, "/drivers/login", `{"email":"a@x.com","password":"wrongpass1"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid email or password", decode(t, rec)["message"])

	rec = do(e, http.MethodGet, "/drivers/profile", "", map[string]string{"Authorization": "Bearer " + token})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "a@x.com", decode(t, rec)["email"])

	rec = do(e, http.MethodGet, "/drivers/logout", "", map[string]string{"Authorization": "Bearer " + token})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, decode(t, rec)["message"])

	// The very same token is now rejected, well before its expiry.
	rec = do(e, http.MethodGet, "/drivers/profile", "", map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "revoked")
}

func TestRegisterThenLoginRoundTrip(t *testing.T) {
	e, _ := newTestServer()

	rec := do(e, http.MethodPost, "/riders/register",
		`{"firstName":"Ana","email":"ana@x.com","password":"abcdef12","confirmPassword":"abcdef12"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode(t, rec)["principal"].(map[string]any)

	rec = do(e, http.MethodPost, "/riders/login", `{"email":"ana@x.com","password":"abcdef12"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	token := body["token"].(string)

	// The token's subject is the principal created at registration.
	id, err := utils.ParseToken(testSecret, model.KindRider, token)
	require.NoError(t, err)
	assert.Equal(t, created["id"].(float64), float64(id))

	// Login also sets the token cookie.
	var cookie string
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.TokenCookie {
			cookie = c.Value
		}
	}
	assert.Equal(t, token, cookie)
}

func TestRegisterValidation(t *testing.T) {
	e, _ := newTestServer()

	rec := do(e, http.MethodPost, "/riders/register",
		`{"firstName":"Al","email":"bad","password":"short","confirmPassword":"other"}`, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Validation failed", body["message"])
	errs := body["errors"].([]any)
	assert.GreaterOrEqual(t, len(errs), 3)

	// Driver registration without a vehicle block.
	rec = do(e, http.MethodPost, "/drivers/register",
		`{"firstName":"Mahendra","email":"m@x.com","password":"abcdef12"}`, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "vehicle")
}

func TestDuplicateRegistration(t *testing.T) {
	e, _ := newTestServer()

	first := `{"firstName":"Ana","email":"dup@x.com","password":"abcdef12","confirmPassword":"abcdef12"}`
	rec := do(e, http.MethodPost, "/riders/register", first, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(e, http.MethodPost, "/riders/register", first, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Email already registered", decode(t, rec)["message"])

	// The same address under the other kind is an independent namespace.
	rec = do(e, http.MethodPost, "/drivers/register",
		`{"firstName":"Ana","email":"dup@x.com","password":"abcdef12",
		  "vehicle":{"color":"blue","plate":"KA01AB1234","capacity":2,"vehicleType":"motorcycle"}}`, nil)
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestDuplicatePlate(t *testing.T) {
	e, _ := newTestServer()

	mk := func(email string) string {
		return fmt.Sprintf(`{"firstName":"Mahendra","email":%q,"password":"abcdef12",
			"vehicle":{"color":"red","plate":"MH02CB4763","capacity":5,"vehicleType":"car"}}`, email)
	}
	rec := do(e, http.MethodPost, "/drivers/register", mk("d1@x.com"), nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(e, http.MethodPost, "/drivers/register", mk("d2@x.com"), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Vehicle plate already registered", decode(t, rec)["message"])
}

func TestLoginUnknownAddress(t *testing.T) {
	e, _ := newTestServer()

	rec := do(e, http.MethodPost, "/riders/login", `{"email":"ghost@x.com","password":"abcdef12"}`, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Account not found", decode(t, rec)["message"])
}

func TestLogoutWithoutToken(t *testing.T) {
	e, _ := newTestServer()

	rec := do(e, http.MethodGet, "/riders/logout", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "No token provided", decode(t, rec)["message"])
}

func TestProfileWithoutToken(t *testing.T) {
	e, _ := newTestServer()

	rec := do(e, http.MethodGet, "/riders/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProfileViaCookie(t *testing.T) {
	e, _ := newTestServer()

	rec := do(e, http.MethodPost, "/riders/register",
		`{"firstName":"Ana","email":"c@x.com","password":"abcdef12","confirmPassword":"abcdef12"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	token := decode(t, rec)["token"].(string)

	req := httptest.NewRequest(http.MethodGet, "/riders/profile", nil)
	req.AddCookie(&http.Cookie{Name: middleware.TokenCookie, Value: token})
	rr := httptest.NewRecorder()
	e.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "c@x.com", decode(t, rr)["email"])
}
