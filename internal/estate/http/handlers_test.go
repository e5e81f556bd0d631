package http

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/skyproperties/sky-backend/internal/access"
	"github.com/skyproperties/sky-backend/internal/auth/middleware"
	"github.com/skyproperties/sky-backend/internal/estate/repository"
	"github.com/skyproperties/sky-backend/internal/events"
	"github.com/skyproperties/sky-backend/internal/gateway/redisstore"
	"github.com/skyproperties/sky-backend/internal/identity"
)

func init() { gin.SetMode(gin.TestMode) }

type server struct {
	engine   *gin.Engine
	provider *identity.LocalProvider
	handler  *Handler
}

func newServer(t *testing.T) *server {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := redisstore.New(client, "estate", "http://localhost:8080")
	h := New(&repository.Deps{Docs: store, Blobs: store, Bus: events.NewLocalBus()}, nil)
	provider := identity.NewLocalProvider().WithCost(bcrypt.MinCost)

	r := gin.New()
	api := r.Group("/api/v1")
	h.RegisterPublic(api)
	h.Register(api.Group("", middleware.BearerAuth(provider, h.Users())))

	return &server{engine: r, provider: provider, handler: h}
}

// signUp creates an account with a profile holding role and returns its token.
func (s *server) signUp(t *testing.T, email string, role access.Role) string {
	t.Helper()
	ctx := context.Background()
	p, err := s.provider.SignUp(ctx, email, "secret123")
	require.NoError(t, err)
	_, err = s.handler.users.Create(ctx, p.ID, email, repository.ProfileFields{Name: email, Role: role})
	require.NoError(t, err)
	return p.IDToken
}

func (s *server) do(t *testing.T, req *http.Request, token string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	var out map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func (s *server) json(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return s.do(t, req, token)
}

func multipartRequest(t *testing.T, method, path string, fields map[string]string, files map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for field, name := range files {
		fw, err := mw.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = fw.Write([]byte("glTF"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func (s *server) createProperty(t *testing.T, token, name, city string) string {
	t.Helper()
	w, body := s.do(t, multipartRequest(t, http.MethodPost, "/api/v1/properties",
		map[string]string{"name": name, "city": city}, nil), token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return body["property"].(map[string]any)["id"].(string)
}

func TestManagementRequiresManager(t *testing.T) {
	s := newServer(t)
	tenant := s.signUp(t, "tenant@example.com", access.RoleTenant)
	manager := s.signUp(t, "manager@example.com", access.RoleManager)
	admin := s.signUp(t, "admin@example.com", access.RoleAdmin)

	w, _ := s.json(t, http.MethodGet, "/api/v1/properties", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, body := s.json(t, http.MethodGet, "/api/v1/properties", tenant, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "forbidden", body["error"])

	w, _ = s.json(t, http.MethodGet, "/api/v1/properties", manager, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = s.json(t, http.MethodGet, "/api/v1/properties", admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = s.json(t, http.MethodGet, "/api/v1/users", manager, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = s.json(t, http.MethodGet, "/api/v1/users", admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPropertyLifecycle(t *testing.T) {
	s := newServer(t)
	manager := s.signUp(t, "manager@example.com", access.RoleManager)

	req := multipartRequest(t, http.MethodPost, "/api/v1/properties",
		map[string]string{"name": "Tower A", "city": "Cairo"},
		map[string]string{"model": "tower.glb"})
	w, body := s.do(t, req, manager)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	prop := body["property"].(map[string]any)
	id := prop["id"].(string)
	assert.True(t, strings.HasPrefix(prop["modelUrl"].(string), "http://localhost:8080/blobs/properties/"))

	s.createProperty(t, manager, "Marina Heights", "Dubai")

	w, body = s.json(t, http.MethodGet, "/api/v1/properties?q=cairo", manager, nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := body["properties"].([]any)
	require.Len(t, list, 1)
	assert.Equal(t, "Tower A", list[0].(map[string]any)["name"])

	w, body = s.do(t, multipartRequest(t, http.MethodPut, "/api/v1/properties/"+id,
		map[string]string{"city": "Giza"}, nil), manager)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	prop = body["property"].(map[string]any)
	assert.Equal(t, "Giza", prop["city"])
	assert.Equal(t, "Tower A", prop["name"])

	w, body = s.json(t, http.MethodDelete, "/api/v1/properties/"+id, manager, nil)
	assert.Equal(t, http.StatusPreconditionRequired, w.Code)
	assert.Equal(t, "confirmation_required", body["error"])

	w, _ = s.json(t, http.MethodDelete, "/api/v1/properties/"+id+"?confirm=true", manager, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = s.json(t, http.MethodGet, "/api/v1/properties/"+id, manager, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = s.do(t, multipartRequest(t, http.MethodPut, "/api/v1/properties/"+id,
		map[string]string{"city": "Giza"}, nil), manager)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPropertyCreateValidation(t *testing.T) {
	s := newServer(t)
	manager := s.signUp(t, "manager@example.com", access.RoleManager)

	w, body := s.do(t, multipartRequest(t, http.MethodPost, "/api/v1/properties",
		map[string]string{"name": "Tower A"}, nil), manager)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "validation_failed", body["error"])
	assert.Contains(t, body["fields"], "city")
}

func TestUnits(t *testing.T) {
	s := newServer(t)
	manager := s.signUp(t, "manager@example.com", access.RoleManager)
	propID := s.createProperty(t, manager, "Tower A", "Cairo")

	w, body := s.json(t, http.MethodPost, "/api/v1/units", manager, map[string]string{
		"unitNumber": "101", "propertyId": propID, "floor": "1", "area": "abc",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, body["fields"], "area")

	w, body = s.json(t, http.MethodPost, "/api/v1/units", manager, map[string]string{
		"unitNumber": "101", "propertyId": "missing", "floor": "1", "area": "80",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "unknown_property", body["error"])

	w, body = s.json(t, http.MethodPost, "/api/v1/units", manager, map[string]string{
		"unitNumber": "101", "propertyId": propID, "floor": "1", "area": "80", "rentValue": "",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	unit := body["unit"].(map[string]any)
	assert.Equal(t, 0.0, unit["rentValue"])
	assert.Equal(t, []any{}, unit["media"])

	w, body = s.json(t, http.MethodGet, "/api/v1/units?q=101", manager, nil)
	require.Equal(t, http.StatusOK, w.Code)
	units := body["units"].([]any)
	require.Len(t, units, 1)
	assert.Equal(t, "Tower A", units[0].(map[string]any)["propertyName"])
}

func TestUnitsAcceptJSONNumbers(t *testing.T) {
	s := newServer(t)
	manager := s.signUp(t, "manager@example.com", access.RoleManager)
	propID := s.createProperty(t, manager, "Tower A", "Cairo")

	w, body := s.json(t, http.MethodPost, "/api/v1/units", manager, map[string]any{
		"unitNumber": "201", "propertyId": propID, "floor": 3, "area": 120.5, "rentValue": 4500,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	unit := body["unit"].(map[string]any)
	assert.Equal(t, 3.0, unit["floor"])
	assert.Equal(t, 120.5, unit["area"])
	assert.Equal(t, 4500.0, unit["rentValue"])

	w, body = s.json(t, http.MethodPut, "/api/v1/units/"+unit["id"].(string), manager, map[string]any{
		"unitNumber": "201", "propertyId": propID, "floor": 4, "area": 130,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 4.0, body["unit"].(map[string]any)["floor"])

	w, _ = s.json(t, http.MethodPost, "/api/v1/units", manager, map[string]any{
		"unitNumber": "202", "propertyId": propID, "floor": 1.5, "area": 80,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTickets(t *testing.T) {
	s := newServer(t)
	tenant := s.signUp(t, "tenant@example.com", access.RoleTenant)
	manager := s.signUp(t, "manager@example.com", access.RoleManager)

	w, body := s.json(t, http.MethodPost, "/api/v1/tickets", tenant, map[string]string{"category": "plumbing", "description": "leak"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	ticket := body["ticket"].(map[string]any)
	assert.Equal(t, "open", ticket["status"])
	id := ticket["id"].(string)

	w, body = s.json(t, http.MethodGet, "/api/v1/dashboard", tenant, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1.0, body["summary"].(map[string]any)["openTickets"])

	w, _ = s.json(t, http.MethodPut, "/api/v1/tickets/"+id+"/status", manager, map[string]string{"status": "bogus"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body = s.json(t, http.MethodPut, "/api/v1/tickets/"+id+"/status", manager, map[string]string{"status": "inProgress"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "inProgress", body["ticket"].(map[string]any)["status"])

	w, body = s.json(t, http.MethodGet, "/api/v1/tickets?status=open", manager, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, body["tickets"])
}

func TestPublicEndpoints(t *testing.T) {
	s := newServer(t)
	manager := s.signUp(t, "manager@example.com", access.RoleManager)
	s.createProperty(t, manager, "Tower A", "Cairo")
	s.createProperty(t, manager, "Nile View", "Cairo")
	s.createProperty(t, manager, "Marina Heights", "Dubai")

	w, body := s.json(t, http.MethodGet, "/api/v1/public/properties?city=CAIRO", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["properties"], 2)

	w, body = s.json(t, http.MethodGet, "/api/v1/public/properties?q=tower", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["properties"], 1)

	w, _ = s.json(t, http.MethodPost, "/api/v1/guest-requests", "", map[string]string{"guestEmail": "not-an-email", "requestType": "viewing"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body = s.json(t, http.MethodPost, "/api/v1/guest-requests", "", map[string]string{"guestEmail": "guest@example.com", "requestType": "viewing"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := body["request"].(map[string]any)["id"].(string)

	w, body = s.json(t, http.MethodPut, "/api/v1/guest-requests/"+id+"/status", manager, map[string]string{"status": "contacted"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "contacted", body["request"].(map[string]any)["status"])
}

func TestAdminEndpoints(t *testing.T) {
	s := newServer(t)
	admin := s.signUp(t, "admin@example.com", access.RoleAdmin)
	s.signUp(t, "mona@example.com", access.RoleTenant)

	w, body := s.json(t, http.MethodGet, "/api/v1/settings", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5.0, body["settings"].(map[string]any)["commissionRate"])

	w, _ = s.json(t, http.MethodPut, "/api/v1/settings", admin, map[string]any{"commissionRate": 150})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body = s.json(t, http.MethodGet, "/api/v1/users?q=mona", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	users := body["users"].([]any)
	require.Len(t, users, 1)
	id := users[0].(map[string]any)["id"].(string)

	w, body = s.json(t, http.MethodPut, "/api/v1/users/"+id, admin, map[string]string{"role": "owner"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "owner", body["user"].(map[string]any)["role"])

	w, _ = s.json(t, http.MethodDelete, "/api/v1/users/"+id+"?confirm=true", admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, body = s.json(t, http.MethodGet, "/api/v1/audit", admin, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "audit_disabled", body["error"])
}

func TestAnalyticsEndpoint(t *testing.T) {
	s := newServer(t)
	manager := s.signUp(t, "manager@example.com", access.RoleManager)

	w, _ := s.json(t, http.MethodPost, "/api/v1/payments", manager, map[string]any{"type": "rent", "amount": 1200, "method": "card"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w, _ = s.json(t, http.MethodPost, "/api/v1/payments", manager, map[string]any{"type": "deposit", "amount": 300.5, "method": "cash"})
	require.Equal(t, http.StatusCreated, w.Code)

	w, body := s.json(t, http.MethodGet, "/api/v1/analytics", manager, nil)
	require.Equal(t, http.StatusOK, w.Code)
	report := body["report"].(map[string]any)
	assert.Equal(t, 1500.5, report["totalRevenue"])
	assert.Equal(t, 2.0, report["totalPayments"])
}
