package db_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/goupromo/goupromo-backend/pkg/config"
	"github.com/goupromo/goupromo-backend/pkg/db"
	"github.com/goupromo/goupromo-backend/pkg/db/dbtest"
	"github.com/goupromo/goupromo-backend/pkg/db/models"
	"github.com/goupromo/goupromo-backend/pkg/enums"
	"github.com/goupromo/goupromo-backend/pkg/migrate"
)

func newUser(username string) *models.User {
	return &models.User{
		Username:     username,
		PasswordHash: "hash",
		UserType:     enums.UserTypeCustomer,
	}
}

func TestWithTx_CommitsAndRollbacks(t *testing.T) {
	client := dbtest.Open(t)
	ctx := context.Background()

	if err := client.WithTx(ctx, func(tx *gorm.DB) error {
		return tx.Create(newUser("committed")).Error
	}); err != nil {
		t.Fatalf("WithTx commit failed: %v", err)
	}

	var count int64
	if err := client.DB().Model(&models.User{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 record, got %d", count)
	}

	err := client.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(newUser("rolled")).Error; err != nil {
			return err
		}
		return errors.New("boom")
	})
	if err == nil {
		t.Fatal("expected WithTx to return an error")
	}
	if err := client.DB().Model(&models.User{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed after rollback: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected rollback to leave 1 record, got %d", count)
	}
}

func TestPing(t *testing.T) {
	client := dbtest.Open(t)
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected ping error: %v", err)
	}
	if client.Dialect() != "sqlite" {
		t.Fatalf("expected sqlite dialect, got %q", client.Dialect())
	}
}

func TestNewFromConnSurfacesPingFailure(t *testing.T) {
	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	conn, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{DisableAutomaticPing: true})
	if err != nil {
		t.Fatalf("gorm open: %v", err)
	}

	client := db.NewFromConn(conn)
	if client.Dialect() != "postgres" {
		t.Fatalf("expected postgres dialect, got %q", client.Dialect())
	}

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	if err := client.Ping(context.Background()); err == nil {
		t.Fatal("expected ping to fail")
	}

	mock.ExpectClose()
	if err := client.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUniqueUsernameIsEnforcedByStore(t *testing.T) {
	client := dbtest.Open(t)
	ctx := context.Background()

	if err := client.DB().WithContext(ctx).Create(newUser("chef1")).Error; err != nil {
		t.Fatalf("first insert: %v", err)
	}
	err := client.DB().WithContext(ctx).Create(newUser("chef1")).Error
	if !db.IsUniqueViolation(err, "") {
		t.Fatalf("expected unique violation, got %v", err)
	}
}

func TestForeignKeysAreEnforcedByStore(t *testing.T) {
	client := dbtest.Open(t)
	missing := uuid.New()

	err := client.DB().Create(&models.Item{
		OriginalPrice: 10,
		OfferPrice:    5,
		Quantity:      1,
		RestaurantID:  &missing,
	}).Error
	if !db.IsForeignKeyViolation(err) {
		t.Fatalf("expected foreign key violation, got %v", err)
	}
}

func TestSQLiteFileDSNEnforcesForeignKeys(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "goupromo.db")
	client, err := db.New(ctx, config.DBConfig{DSN: dsn, Driver: config.DBDriverSQLite}, nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	sqlDB, err := client.SQLDB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	if err := migrate.Up(ctx, sqlDB, config.DBDriverSQLite); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	missing := uuid.New()
	err = client.DB().WithContext(ctx).Create(&models.Item{
		OriginalPrice: 10,
		OfferPrice:    5,
		Quantity:      1,
		RestaurantID:  &missing,
	}).Error
	if !db.IsForeignKeyViolation(err) {
		t.Fatalf("expected foreign key violation for restaurant %s, got %v", missing, err)
	}
}

func TestFirstReportsNotFound(t *testing.T) {
	client := dbtest.Open(t)
	var user models.User
	err := client.DB().Where("username = ?", "ghost").First(&user).Error
	if !db.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}
