// Package testutil provides shared test utilities for integration tests.
package testutil

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/lucsky/cuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pixelfest/eventdeck-go/internal/database/models"
	"github.com/pixelfest/eventdeck-go/internal/database/repositories"
)

// testBcryptCost keeps password hashing fast in tests.
const testBcryptCost = 4

// TestDB holds the test database and repositories.
type TestDB struct {
	DB           *gorm.DB
	UserRepo     *repositories.UserRepository
	StudioRepo   *repositories.StudioRepository
	PlatformRepo *repositories.PlatformRepository
	AppRepo      *repositories.AppRepository
	EventRepo    *repositories.EventRepository
}

// SetupTestDB creates an in-memory SQLite database for testing.
// It returns a TestDB with all repositories initialized and a cleanup function.
func SetupTestDB(t *testing.T) (*TestDB, func()) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}

	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("Failed to migrate database: %v", err)
	}

	testDB := &TestDB{
		DB:           db,
		UserRepo:     repositories.NewUserRepository(db, testBcryptCost),
		StudioRepo:   repositories.NewStudioRepository(db),
		PlatformRepo: repositories.NewPlatformRepository(db),
		AppRepo:      repositories.NewAppRepository(db),
		EventRepo:    repositories.NewEventRepository(db),
	}

	cleanup := func() {
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	}

	return testDB, cleanup
}

// UniqueName generates a unique name for testing so tests don't conflict
// on unique columns.
func UniqueName(prefix string) string {
	return prefix + "-" + cuid.New()
}

// UniqueEmail generates a unique email address for testing.
func UniqueEmail(prefix string) string {
	return prefix + "-" + cuid.New() + "@example.com"
}
