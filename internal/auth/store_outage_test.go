package auth

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/goupromo/goupromo-backend/internal/users"
	pkgAuth "github.com/goupromo/goupromo-backend/pkg/auth"
	pkgerrors "github.com/goupromo/goupromo-backend/pkg/errors"
)

func newOutageService(t *testing.T, failures int) (Service, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	conn, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	for i := 0; i < failures; i++ {
		mock.ExpectQuery(`SELECT .* FROM "users"`).WillReturnError(sql.ErrConnDone)
	}

	svc, err := NewService(ServiceParams{
		UserRepo:       users.NewRepository(conn),
		JWTConfig:      testJWTConfig(),
		PasswordConfig: testPasswordConfig(),
	})
	require.NoError(t, err)
	return svc, mock
}

func TestStoreOutageIsOpaque(t *testing.T) {
	svc, mock := newOutageService(t, 3)
	ctx := context.Background()

	_, err := svc.Signup(ctx, chefSignup())
	assertStoreUnavailable(t, err)

	_, err = svc.Login(ctx, LoginRequest{Username: "chef1", Password: "p@ss"})
	assertStoreUnavailable(t, err)

	token, err := pkgAuth.MintAccessToken(testJWTConfig(), time.Now(), pkgAuth.AccessTokenPayload{Subject: "chef1"})
	require.NoError(t, err)
	_, err = svc.ResolveCurrentUser(ctx, token)
	assertStoreUnavailable(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func assertStoreUnavailable(t *testing.T, err error) {
	t.Helper()
	typed := pkgerrors.As(err)
	require.NotNil(t, typed, "expected typed error, got %v", err)
	assert.Equal(t, pkgerrors.CodeStoreUnavailable, typed.Code())
	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.True(t, pkgerrors.MetadataFor(typed.Code()).Retryable)
}
