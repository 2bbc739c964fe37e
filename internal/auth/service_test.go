package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/goupromo/goupromo-backend/internal/users"
	pkgAuth "github.com/goupromo/goupromo-backend/pkg/auth"
	"github.com/goupromo/goupromo-backend/pkg/config"
	"github.com/goupromo/goupromo-backend/pkg/db/dbtest"
	"github.com/goupromo/goupromo-backend/pkg/db/models"
	"github.com/goupromo/goupromo-backend/pkg/enums"
	pkgerrors "github.com/goupromo/goupromo-backend/pkg/errors"
	"github.com/goupromo/goupromo-backend/pkg/metrics"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "secret",
		Issuer:            "goupromo",
		ExpirationMinutes: 30,
	}
}

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    1024,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func newSQLiteService(t *testing.T, params ServiceParams) Service {
	t.Helper()
	params.UserRepo = users.NewRepository(dbtest.Open(t).DB())
	if params.JWTConfig.Secret == "" {
		params.JWTConfig = testJWTConfig()
	}
	params.PasswordConfig = testPasswordConfig()
	svc, err := NewService(params)
	require.NoError(t, err)
	return svc
}

func chefSignup() SignupRequest {
	return SignupRequest{
		Username:    "chef1",
		Password:    "p@ss",
		FirstName:   "Ana",
		LastName:    "Lopez",
		Email:       "ana@example.com",
		PhoneNumber: "555",
		City:        "Bogota",
		UserType:    "merchant",
	}
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	_, err := NewService(ServiceParams{JWTConfig: testJWTConfig()})
	assert.Error(t, err)

	_, err = NewService(ServiceParams{UserRepo: &users.Repository{}})
	assert.Error(t, err)
}

func TestSignupThenLogin(t *testing.T) {
	svc := newSQLiteService(t, ServiceParams{})
	ctx := context.Background()

	created, err := svc.Signup(ctx, chefSignup())
	require.NoError(t, err)
	assert.Equal(t, "chef1", created.Username)
	assert.Equal(t, enums.UserTypeMerchant, created.UserType)

	resp, err := svc.Login(ctx, LoginRequest{Username: "chef1", Password: "p@ss"})
	require.NoError(t, err)
	assert.Equal(t, TokenTypeBearer, resp.TokenType)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, created.ID, resp.User.ID)
	assert.Equal(t, enums.UserTypeMerchant, resp.User.UserType)
	assert.Equal(t, "Bogota", resp.User.City)

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), time.Now(), resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "chef1", claims.Subject)
}

func TestLoginFailuresShareOneMessage(t *testing.T) {
	svc := newSQLiteService(t, ServiceParams{})
	ctx := context.Background()
	_, err := svc.Signup(ctx, chefSignup())
	require.NoError(t, err)

	_, wrongPassword := svc.Login(ctx, LoginRequest{Username: "chef1", Password: "wrong"})
	_, unknownUser := svc.Login(ctx, LoginRequest{Username: "nobody", Password: "p@ss"})

	for _, err := range []error{wrongPassword, unknownUser} {
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		assert.Equal(t, pkgerrors.CodeInvalidCredentials, typed.Code())
		assert.Equal(t, invalidCredentialsMessage, typed.Message())
	}
}

func TestSignupDefaultsAndTrimsUsername(t *testing.T) {
	svc := newSQLiteService(t, ServiceParams{})
	req := chefSignup()
	req.Username = "  chef2 "
	req.UserType = ""

	created, err := svc.Signup(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "chef2", created.Username)
	assert.Equal(t, enums.UserTypeCustomer, created.UserType)

	_, err = svc.Login(context.Background(), LoginRequest{Username: "chef2", Password: "p@ss"})
	assert.NoError(t, err)
}

func TestSignupRejectsInvalidInput(t *testing.T) {
	svc := newSQLiteService(t, ServiceParams{})

	cases := map[string]SignupRequest{
		"blank username": {Username: " ", Password: "p@ss"},
		"blank password": {Username: "chef1"},
		"unknown type":   {Username: "chef1", Password: "p@ss", UserType: "admin"},
	}
	for name, req := range cases {
		_, err := svc.Signup(context.Background(), req)
		assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation), "%s: got %v", name, err)
	}
}

func TestSignupDuplicateUsername(t *testing.T) {
	svc := newSQLiteService(t, ServiceParams{})
	ctx := context.Background()

	_, err := svc.Signup(ctx, chefSignup())
	require.NoError(t, err)

	again := chefSignup()
	again.Password = "different"
	_, err = svc.Signup(ctx, again)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeDuplicateUsername), "got %v", err)

	_, err = svc.Login(ctx, LoginRequest{Username: "chef1", Password: "p@ss"})
	assert.NoError(t, err, "original credentials must be untouched")
}

// racingRepo lets every pre-check miss so only the insert can detect duplicates.
type racingRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func (r *racingRepo) FindByUsername(context.Context, string) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *racingRepo) Create(_ context.Context, dto users.CreateUserDTO) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[dto.Username]; ok {
		return nil, gorm.ErrDuplicatedKey
	}
	user := dto.ToModel()
	user.ID = uuid.New()
	r.users[dto.Username] = user
	return user, nil
}

func TestConcurrentSignupsAdmitOne(t *testing.T) {
	repo := &racingRepo{users: map[string]*models.User{}}
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		JWTConfig:      testJWTConfig(),
		PasswordConfig: testPasswordConfig(),
	})
	require.NoError(t, err)

	const attempts = 8
	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Signup(context.Background(), chefSignup())
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	successes := 0
	for err := range errs {
		if err == nil {
			successes++
			continue
		}
		assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeDuplicateUsername), "got %v", err)
	}
	assert.Equal(t, 1, successes)
	assert.Len(t, repo.users, 1)
}

func TestConcurrentSignupsAdmitOneAgainstStore(t *testing.T) {
	client := dbtest.OpenPooled(t, 4)
	svc, err := NewService(ServiceParams{
		UserRepo:       users.NewRepository(client.DB()),
		JWTConfig:      testJWTConfig(),
		PasswordConfig: testPasswordConfig(),
	})
	require.NoError(t, err)

	const attempts = 8
	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Signup(context.Background(), chefSignup())
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	successes := 0
	for err := range errs {
		if err == nil {
			successes++
			continue
		}
		assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeDuplicateUsername), "got %v", err)
	}
	assert.Equal(t, 1, successes)

	var count int64
	require.NoError(t, client.DB().Model(&models.User{}).Where("username = ?", "chef1").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestResolveCurrentUser(t *testing.T) {
	svc := newSQLiteService(t, ServiceParams{})
	ctx := context.Background()
	_, err := svc.Signup(ctx, chefSignup())
	require.NoError(t, err)

	resp, err := svc.Login(ctx, LoginRequest{Username: "chef1", Password: "p@ss"})
	require.NoError(t, err)

	current, err := svc.ResolveCurrentUser(ctx, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, current.ID)
}

func TestResolveCurrentUserRejectsBadTokens(t *testing.T) {
	svc := newSQLiteService(t, ServiceParams{})
	ctx := context.Background()

	ghost, err := pkgAuth.MintAccessToken(testJWTConfig(), time.Now(), pkgAuth.AccessTokenPayload{Subject: "ghost"})
	require.NoError(t, err)

	otherCfg := testJWTConfig()
	otherCfg.Secret = "other-secret"
	forged, err := pkgAuth.MintAccessToken(otherCfg, time.Now(), pkgAuth.AccessTokenPayload{Subject: "chef1"})
	require.NoError(t, err)

	for name, token := range map[string]string{
		"garbage":         "not-a-token",
		"empty":           "",
		"missing subject": ghost,
		"forged":          forged,
	} {
		_, err := svc.ResolveCurrentUser(ctx, token)
		assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeUnauthenticated), "%s: got %v", name, err)
	}
}

func TestResolveCurrentUserAfterExpiry(t *testing.T) {
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	svc := newSQLiteService(t, ServiceParams{Now: func() time.Time { return now }})
	ctx := context.Background()

	_, err := svc.Signup(ctx, chefSignup())
	require.NoError(t, err)
	resp, err := svc.Login(ctx, LoginRequest{Username: "chef1", Password: "p@ss"})
	require.NoError(t, err)

	now = now.Add(29 * time.Minute)
	_, err = svc.ResolveCurrentUser(ctx, resp.AccessToken)
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = svc.ResolveCurrentUser(ctx, resp.AccessToken)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeUnauthenticated), "got %v", err)
}

func TestAuthEventsAreCounted(t *testing.T) {
	reg := prometheus.NewRegistry()
	svc := newSQLiteService(t, ServiceParams{Metrics: metrics.NewAuthMetrics(reg)})
	ctx := context.Background()

	_, err := svc.Signup(ctx, chefSignup())
	require.NoError(t, err)
	_, _ = svc.Login(ctx, LoginRequest{Username: "chef1", Password: "wrong"})

	mfs, err := reg.Gather()
	require.NoError(t, err)

	counts := map[string]float64{}
	for _, mf := range mfs {
		if mf.GetName() != "goupromo_auth_events_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			key := ""
			for _, label := range m.GetLabel() {
				key += label.GetValue() + "/"
			}
			counts[key] = m.GetCounter().GetValue()
		}
	}
	assert.Equal(t, float64(1), counts["signup/success/"])
	assert.Equal(t, float64(1), counts["login/rejected/"])
}
