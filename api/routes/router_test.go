package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goupromo/goupromo-backend/internal/auth"
	"github.com/goupromo/goupromo-backend/internal/items"
	"github.com/goupromo/goupromo-backend/internal/restaurants"
	"github.com/goupromo/goupromo-backend/internal/users"
	"github.com/goupromo/goupromo-backend/pkg/config"
	"github.com/goupromo/goupromo-backend/pkg/db/dbtest"
	"github.com/goupromo/goupromo-backend/pkg/metrics"
	"github.com/goupromo/goupromo-backend/pkg/redis"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{Secret: "router-secret", Issuer: "goupromo", ExpirationMinutes: 30},
		Password: config.PasswordConfig{
			ArgonMemoryKB:    8 * 1024,
			ArgonTime:        1,
			ArgonParallelism: 1,
			ArgonSaltLen:     16,
			ArgonKeyLen:      32,
		},
		CORS: config.CORSConfig{AllowedOrigins: []string{"*"}, MaxAgeSeconds: 60},
	}
}

type testServer struct {
	handler http.Handler
	redis   *miniredis.Miniredis
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cfg := testConfig()
	client := dbtest.Open(t)

	usersRepo := users.NewRepository(client.DB())
	restaurantsRepo := restaurants.NewRepository(client.DB())
	itemsRepo := items.NewRepository(client.DB())

	reg := prometheus.NewRegistry()
	authSvc, err := auth.NewService(auth.ServiceParams{
		UserRepo:       usersRepo,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
		Metrics:        metrics.NewAuthMetrics(reg),
	})
	require.NoError(t, err)
	restaurantSvc, err := restaurants.NewService(restaurantsRepo, usersRepo)
	require.NoError(t, err)
	itemSvc, err := items.NewService(itemsRepo, restaurantsRepo)
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	redisClient, err := redis.New(context.Background(), config.RedisConfig{Address: mr.Addr()}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = redisClient.Close() })

	return &testServer{
		handler: NewRouter(RouterParams{
			Config:            cfg,
			DB:                client,
			Redis:             redisClient,
			AuthService:       authSvc,
			ItemService:       itemSvc,
			RestaurantService: restaurantSvc,
			HTTPMetrics:       metrics.NewHTTPMetrics(reg),
			Gatherer:          reg,
		}),
		redis: mr,
	}
}

func (s *testServer) do(t *testing.T, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp := httptest.NewRecorder()
	s.handler.ServeHTTP(resp, req)
	return resp
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, resp *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &env), resp.Body.String())
	return env
}

func (s *testServer) signupAndLogin(t *testing.T, username string) (users.UserDTO, string) {
	t.Helper()
	resp := s.do(t, http.MethodPost, "/signup", `{"username":"`+username+`","password":"p@ss","first_name":"Ana","city":"Bogota","user_type":"merchant"}`, nil)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	var user users.UserDTO
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, resp).Data, &user))

	resp = s.do(t, http.MethodPost, "/login", `{"username":"`+username+`","password":"p@ss"}`, nil)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	var login auth.LoginResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, resp).Data, &login))
	require.Equal(t, "bearer", login.TokenType)
	return user, login.AccessToken
}

func TestRootAndHealth(t *testing.T) {
	s := newTestServer(t)

	resp := s.do(t, http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"message":"API is running"}`, resp.Body.String())

	resp = s.do(t, http.MethodGet, "/health/live", "", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "test", resp.Header().Get("X-Goupromo-Env"))

	resp = s.do(t, http.MethodGet, "/health/ready", "", nil)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Contains(t, resp.Body.String(), `"database":"ok"`)
	assert.Contains(t, resp.Body.String(), `"redis":"ok"`)

	s.redis.Close()
	resp = s.do(t, http.MethodGet, "/health/ready", "", nil)
	require.Equal(t, http.StatusServiceUnavailable, resp.Code)
	assert.Equal(t, "STORE_UNAVAILABLE", decodeEnvelope(t, resp).Error.Code)
}

func TestSignupLoginAndMe(t *testing.T) {
	s := newTestServer(t)
	user, token := s.signupAndLogin(t, "chef1")
	assert.Equal(t, "chef1", user.Username)
	assert.NotContains(t, s.do(t, http.MethodPost, "/login", `{"username":"chef1","password":"p@ss"}`, nil).Body.String(), "password_hash")

	resp := s.do(t, http.MethodGet, "/users/me", "", map[string]string{"Authorization": "Bearer " + token})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	var me users.UserDTO
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, resp).Data, &me))
	assert.Equal(t, user.ID, me.ID)

	resp = s.do(t, http.MethodGet, "/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = s.do(t, http.MethodGet, "/users/me", "", map[string]string{"Authorization": "Bearer not-a-jwt"})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Equal(t, "UNAUTHENTICATED", decodeEnvelope(t, resp).Error.Code)
}

func TestSignupDuplicateAndLoginFailures(t *testing.T) {
	s := newTestServer(t)
	s.signupAndLogin(t, "chef1")

	resp := s.do(t, http.MethodPost, "/signup", `{"username":"chef1","password":"other"}`, nil)
	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "DUPLICATE_USERNAME", decodeEnvelope(t, resp).Error.Code)

	wrongPassword := s.do(t, http.MethodPost, "/login", `{"username":"chef1","password":"nope"}`, nil)
	unknownUser := s.do(t, http.MethodPost, "/login", `{"username":"ghost","password":"nope"}`, nil)
	require.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	require.Equal(t, http.StatusUnauthorized, unknownUser.Code)
	assert.Equal(t, wrongPassword.Body.String(), unknownUser.Body.String())

	resp = s.do(t, http.MethodPost, "/signup", `{"password":"p@ss"}`, nil)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "VALIDATION_ERROR", decodeEnvelope(t, resp).Error.Code)
}

func TestRestaurantAndItemFlow(t *testing.T) {
	s := newTestServer(t)
	user, token := s.signupAndLogin(t, "chef1")
	bearer := map[string]string{"Authorization": "Bearer " + token}

	registerBody := `{"name":"Casa Chef","nit":"900-1","address":"Calle 1","contact_person":"Ana","phone":"555","email":"casa@example.com","city":"Bogota","plan":""}`
	resp := s.do(t, http.MethodPost, "/restaurant/register/"+user.ID.String(), registerBody, nil)
	require.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = s.do(t, http.MethodPost, "/restaurant/register/"+uuid.NewString(), registerBody, bearer)
	require.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "USER_NOT_FOUND", decodeEnvelope(t, resp).Error.Code)

	resp = s.do(t, http.MethodPost, "/restaurant/register/"+user.ID.String(), registerBody, bearer)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	var restaurant restaurants.RestaurantDTO
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, resp).Data, &restaurant))
	assert.Equal(t, "goupromo", string(restaurant.Plan))
	assert.Equal(t, "Calle 1", restaurant.PrimaryAddress.Address)
	assert.Equal(t, "900-1", restaurant.PrimaryContact.NIT)

	resp = s.do(t, http.MethodGet, "/restaurant/user/"+user.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), restaurant.ID.String())

	resp = s.do(t, http.MethodGet, "/restaurant/user/"+uuid.NewString(), "", nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = s.do(t, http.MethodGet, "/restaurant/user/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	itemBody := `{"item_type":"pizza","description":"Margarita","item_number":"P-1","original_price":30000,"offer_price":20000,"quantity":5,"start_time":"2024-06-10T18:30","end_time":"","image_url":"","unit_weight":500,"delivery_included":false,"delivery_fee":0,"status":"active","restaurant_id":"` + restaurant.ID.String() + `"}`
	resp = s.do(t, http.MethodPost, "/items", itemBody, map[string]string{"Idempotency-Key": "item-1"})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	first := resp.Body.String()

	replay := s.do(t, http.MethodPost, "/items", itemBody, map[string]string{"Idempotency-Key": "item-1"})
	require.Equal(t, http.StatusCreated, replay.Code)
	assert.Equal(t, first, replay.Body.String())
	assert.Equal(t, "true", replay.Header().Get("Idempotent-Replayed"))

	resp = s.do(t, http.MethodPost, "/items", `{"item_type":"soup","restaurant_id":"`+uuid.NewString()+`"}`, nil)
	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "FOREIGN_KEY_VIOLATION", decodeEnvelope(t, resp).Error.Code)

	resp = s.do(t, http.MethodPost, "/items", `{"item_type":"orphan"}`, nil)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	resp = s.do(t, http.MethodGet, "/items", "", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var listings []items.ItemListingDTO
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, resp).Data, &listings))
	require.Len(t, listings, 2)
	byType := map[string]items.ItemListingDTO{}
	for _, l := range listings {
		byType[l.ItemType] = l
	}
	require.NotNil(t, byType["pizza"].RestaurantName)
	assert.Equal(t, "Casa Chef", *byType["pizza"].RestaurantName)
	assert.Equal(t, 500, byType["pizza"].UnitWeight)
	assert.Nil(t, byType["orphan"].RestaurantName)

	resp = s.do(t, http.MethodGet, "/restaurants/"+restaurant.ID.String()+"/items", "", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	listings = nil
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, resp).Data, &listings))
	require.Len(t, listings, 1)

	resp = s.do(t, http.MethodGet, "/restaurants/"+uuid.NewString()+"/items", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = s.do(t, http.MethodGet, "/restaurants", "", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "Casa Chef")
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodGet, "/items", "", nil)
	s.do(t, http.MethodPost, "/login", `{"username":"ghost","password":"x"}`, nil)

	resp := s.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	body := resp.Body.String()
	assert.Contains(t, body, `goupromo_http_requests_total{method="GET",route="/items",status="200"} 1`)
	assert.Contains(t, body, `goupromo_auth_events_total{event="login",outcome="rejected"} 1`)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodOptions, "/items", bytes.NewReader(nil))
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp := httptest.NewRecorder()
	s.handler.ServeHTTP(resp, req)
	assert.Equal(t, "http://localhost:5173", resp.Header().Get("Access-Control-Allow-Origin"))
}
