package bootstrap

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyproperties/sky-backend/config"
	"github.com/skyproperties/sky-backend/internal/access"
	"github.com/skyproperties/sky-backend/internal/estate/repository"
)

func init() { gin.SetMode(gin.TestMode) }

func redisConfig(t *testing.T) *config.Config {
	t.Helper()
	mr := miniredis.RunT(t)
	return &config.Config{
		Server: config.ServerConfig{Port: "0", PublicBaseURL: "http://api.test"},
		Store: config.StoreConfig{
			Documents: config.BackendRedis,
			Blobs:     config.BackendRedis,
			EventBus:  config.BackendLocal,
			Timeout:   time.Second,
		},
		Redis: config.RedisConfig{Addr: mr.Addr(), Prefix: "sky"},
		Auth:  config.AuthConfig{Provider: config.BackendLocal},
	}
}

func buildStack(t *testing.T) *Stack {
	t.Helper()
	st, err := Build(context.Background(), redisConfig(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func do(t *testing.T, r http.Handler, req *http.Request) (int, map[string]any) {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var body map[string]any
	if w.Body.Len() > 0 && bytes.HasPrefix(bytes.TrimSpace(w.Body.Bytes()), []byte("{")) {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	}
	return w.Code, body
}

func jsonReq(method, path, token string, body any) *http.Request {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestBuildRejectsUnreachableRedis(t *testing.T) {
	cfg := redisConfig(t)
	cfg.Redis.Addr = "127.0.0.1:1"
	_, err := Build(context.Background(), cfg)
	assert.Error(t, err)
}

func TestBuildWiresRedisBackends(t *testing.T) {
	st := buildStack(t)

	assert.NotNil(t, st.RedisBlobs)
	assert.Nil(t, st.Audit)
	assert.NoError(t, st.PingStore(context.Background()))
	assert.NoError(t, st.PingRedis(context.Background()))
}

func TestRouterEndToEnd(t *testing.T) {
	st := buildStack(t)
	r := BuildRouter(RouterDeps{
		ServiceName:    "sky-backend",
		Version:        "test",
		AllowedOrigins: []string{"http://localhost:5173"},
		LoginRate:      100,
		LoginBurst:     100,
		Stack:          st,
	})

	code, body := do(t, r, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, map[string]any{"store": "up", "redis": "up"}, body["checks"])

	code, body = do(t, r, jsonReq(http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"email": "mona@sky.test", "password": "secret1", "name": "Mona",
	}))
	require.Equal(t, http.StatusCreated, code, body)
	token := body["token"].(string)
	uid := body["uid"].(string)

	// tenants cannot reach management routes
	code, _ = do(t, r, jsonReq(http.MethodGet, "/api/v1/properties", token, nil))
	assert.Equal(t, http.StatusForbidden, code)

	manager := access.RoleManager
	_, err := repository.NewUsers(st.Deps).Update(context.Background(), uid, repository.UserPatch{Role: &manager})
	require.NoError(t, err)

	var form bytes.Buffer
	mw := multipart.NewWriter(&form)
	require.NoError(t, mw.WriteField("name", "Tower A"))
	require.NoError(t, mw.WriteField("city", "Cairo"))
	fw, err := mw.CreateFormFile("thumbnail", "front.png")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("png-bytes"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/properties", &form)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	code, body = do(t, r, req)
	require.Equal(t, http.StatusCreated, code, body)

	thumb := body["property"].(map[string]any)["thumbnail"].(string)
	u, err := url.Parse(thumb)
	require.NoError(t, err)
	assert.Equal(t, "api.test", u.Host)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, u.Path, nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "png-bytes", w.Body.String())

	code, body = do(t, r, jsonReq(http.MethodGet, "/api/v1/properties?q=cairo", token, nil))
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["properties"], 1)

	code, body = do(t, r, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, code)
	gw := body["gateway"].(map[string]any)
	assert.NotZero(t, gw["uploads"])
}

func TestCORSPreflight(t *testing.T) {
	st := buildStack(t)
	r := BuildRouter(RouterDeps{AllowedOrigins: []string{"http://localhost:5173"}, LoginRate: 1, LoginBurst: 1, Stack: st})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/me", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestSetGinMode(t *testing.T) {
	t.Cleanup(func() { gin.SetMode(gin.TestMode) })
	SetGinMode("production")
	assert.Equal(t, gin.ReleaseMode, gin.Mode())
	SetGinMode("development")
	assert.Equal(t, gin.DebugMode, gin.Mode())
}
